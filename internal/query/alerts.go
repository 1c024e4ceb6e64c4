package query

import (
	"slices"

	"github.com/celerix-dev/drowsewatch/pkg/schema"
)

// Alerts returns the reports at level 2 or above, most recent first.
// Reports with equal timestamps keep their input order.
func Alerts(reports []schema.Report) []schema.Report {
	out := make([]schema.Report, 0, len(reports))
	for _, r := range reports {
		if r.DrowsinessLevel.IsAlert() {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b schema.Report) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return out
}

// Feed is one page of the active alerts view.
type Feed struct {
	// Critical and Warning split the current page by level; the page shows
	// the critical group first.
	Critical []schema.Report `json:"critical"`
	Warning  []schema.Report `json:"warning"`

	// Counts over all alerts, not just this page.
	CriticalCount int `json:"criticalCount"`
	WarningCount  int `json:"warningCount"`

	Pagination Page[schema.Report] `json:"pagination"`
}

// Ordered returns the page in display order: critical alerts, then warnings.
func (f Feed) Ordered() []schema.Report {
	return slices.Concat(f.Critical, f.Warning)
}

// AlertFeed builds the given page of the alerts view.
func AlertFeed(reports []schema.Report, page int) Feed {
	alerts := Alerts(reports)
	p := Paginate(alerts, page, AlertsPageSize)

	feed := Feed{
		Critical:   []schema.Report{},
		Warning:    []schema.Report{},
		Pagination: p,
	}
	for _, a := range alerts {
		if a.DrowsinessLevel == schema.LevelEmergency {
			feed.CriticalCount++
		} else {
			feed.WarningCount++
		}
	}
	for _, a := range p.Items {
		if a.DrowsinessLevel == schema.LevelEmergency {
			feed.Critical = append(feed.Critical, a)
		} else {
			feed.Warning = append(feed.Warning, a)
		}
	}
	return feed
}
