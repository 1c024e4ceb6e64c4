package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/celerix-dev/drowsewatch/pkg/schema"
)

// ErrInvalidFilter is returned by ParseReportFilter for malformed input.
var ErrInvalidFilter = errors.New("invalid report filter")

// ReportFilter selects reports by calendar-day range and level.
// Zero From or To leaves that side open; zero Level matches every level.
type ReportFilter struct {
	From  schema.Date
	To    schema.Date
	Level schema.DrowsinessLevel
	// Loc is the location day boundaries are computed in. Nil means UTC.
	Loc *time.Location
}

// ParseReportFilter builds a filter from raw query values. Dates are
// "2006-01-02"; level is "", "all" or 1..3.
func ParseReportFilter(start, end, level string) (ReportFilter, error) {
	var f ReportFilter
	var err error

	if start = strings.TrimSpace(start); start != "" {
		if f.From, err = schema.ParseDate(start); err != nil {
			return ReportFilter{}, fmt.Errorf("%w: start: %v", ErrInvalidFilter, err)
		}
	}
	if end = strings.TrimSpace(end); end != "" {
		if f.To, err = schema.ParseDate(end); err != nil {
			return ReportFilter{}, fmt.Errorf("%w: end: %v", ErrInvalidFilter, err)
		}
	}

	switch level = strings.TrimSpace(level); level {
	case "", "all":
	default:
		n, err := strconv.Atoi(level)
		if err != nil || !schema.DrowsinessLevel(n).Valid() {
			return ReportFilter{}, fmt.Errorf("%w: level %q", ErrInvalidFilter, level)
		}
		f.Level = schema.DrowsinessLevel(n)
	}
	return f, nil
}

func (f ReportFilter) location() *time.Location {
	if f.Loc == nil {
		return time.UTC
	}
	return f.Loc
}

// Match reports whether r passes the filter. Both day bounds are inclusive.
func (f ReportFilter) Match(r schema.Report) bool {
	if f.Level != 0 && r.DrowsinessLevel != f.Level {
		return false
	}
	loc := f.location()
	if !f.From.IsZero() && r.Timestamp.Before(f.From.In(loc)) {
		return false
	}
	// endOfDay(To) is the instant before the next midnight.
	if !f.To.IsZero() && !r.Timestamp.Before(f.To.In(loc).AddDate(0, 0, 1)) {
		return false
	}
	return true
}

// Apply returns the reports matching f in their original order.
func (f ReportFilter) Apply(reports []schema.Report) []schema.Report {
	out := make([]schema.Report, 0, len(reports))
	for _, r := range reports {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Equal is used by Selection to detect filter changes.
func (f ReportFilter) Equal(o ReportFilter) bool {
	return f.From == o.From && f.To == o.To && f.Level == o.Level && f.location() == o.location()
}
