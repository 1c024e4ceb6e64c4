package query

// Filter is any view filter that can tell whether it changed.
type Filter[F any] interface {
	Equal(F) bool
}

// Selection is a view cursor: the current filter plus the page within its results.
// The zero value starts on page 1 with the zero filter.
type Selection[F Filter[F]] struct {
	filter F
	page   int
}

// NewSelection starts a cursor on page 1 of f.
func NewSelection[F Filter[F]](f F) *Selection[F] {
	return &Selection[F]{filter: f, page: 1}
}

func (s *Selection[F]) Filter() F { return s.filter }

func (s *Selection[F]) Page() int {
	if s.page < 1 {
		return 1
	}
	return s.page
}

// Apply swaps the filter. A different filter moves the cursor back to page 1.
func (s *Selection[F]) Apply(f F) {
	if !s.filter.Equal(f) {
		s.page = 1
	}
	s.filter = f
}

// Next advances one page, stopping at totalPages.
func (s *Selection[F]) Next(totalPages int) int {
	s.page = ClampPage(s.Page()+1, totalPages)
	return s.page
}

// Prev steps back one page, stopping at 1.
func (s *Selection[F]) Prev() int {
	s.page = max(s.Page()-1, 1)
	return s.page
}

// Goto jumps to page, clamped to the valid range.
func (s *Selection[F]) Goto(page, totalPages int) int {
	s.page = ClampPage(page, totalPages)
	return s.page
}
