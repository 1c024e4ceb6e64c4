package query_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/celerix-dev/drowsewatch/internal/query"
	"github.com/celerix-dev/drowsewatch/internal/seed"
	"github.com/celerix-dev/drowsewatch/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportIDs(reports []schema.Report) []string {
	out := make([]string, 0, len(reports))
	for _, r := range reports {
		out = append(out, r.ID)
	}
	return out
}

func TestFilterUsers(t *testing.T) {
	users := seed.Users()

	got := query.FilterUsers(users, "mark")
	require.Len(t, got, 1)
	assert.Equal(t, "markwilb52", got[0].Name)

	assert.Len(t, query.FilterUsers(users, "MARK"), 1)
	assert.Len(t, query.FilterUsers(users, ""), 11)
	assert.Empty(t, query.FilterUsers(users, "zzz"))

	// Email match.
	got = query.FilterUsers(users, "mj877")
	require.Len(t, got, 1)
	assert.Equal(t, "5", got[0].ID)
}

func TestFilterArchived(t *testing.T) {
	archived := []schema.ArchivedUser{
		{User: seed.Users()[3], ArchivedAt: time.Now()},
		{User: seed.Users()[7], ArchivedAt: time.Now()},
	}
	got := query.FilterArchived(archived, "chloe")
	require.Len(t, got, 1)
	assert.Equal(t, "4", got[0].ID)
	assert.Len(t, query.FilterArchived(archived, ""), 2)
}

func TestParseReportFilter(t *testing.T) {
	f, err := query.ParseReportFilter("2025-02-01", "", "all")
	require.NoError(t, err)
	assert.Equal(t, schema.NewDate(2025, time.February, 1), f.From)
	assert.True(t, f.To.IsZero())
	assert.Zero(t, f.Level)

	f, err = query.ParseReportFilter("", "", "3")
	require.NoError(t, err)
	assert.Equal(t, schema.LevelEmergency, f.Level)

	_, err = query.ParseReportFilter("yesterday", "", "")
	assert.ErrorIs(t, err, query.ErrInvalidFilter)
	_, err = query.ParseReportFilter("", "", "4")
	assert.ErrorIs(t, err, query.ErrInvalidFilter)
}

func TestReportFilter(t *testing.T) {
	reports := seed.Reports()
	feb1 := schema.NewDate(2025, time.February, 1)
	jan31 := schema.NewDate(2025, time.January, 31)

	tests := []struct {
		name   string
		filter query.ReportFilter
		want   []string
	}{
		{"none", query.ReportFilter{}, []string{"r1", "r2", "r3", "r4", "r5"}},
		{"single day inclusive", query.ReportFilter{From: feb1, To: feb1}, []string{"r1", "r2", "r3"}},
		{"to only", query.ReportFilter{To: jan31}, []string{"r4", "r5"}},
		{"from only", query.ReportFilter{From: feb1}, []string{"r1", "r2", "r3"}},
		{"level", query.ReportFilter{Level: schema.LevelEmergency}, []string{"r2", "r5"}},
		{"range and level", query.ReportFilter{From: jan31, To: feb1, Level: schema.LevelAlarm}, []string{"r1", "r4"}},
		{"empty range", query.ReportFilter{From: schema.NewDate(2025, time.March, 1)}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reportIDs(tt.filter.Apply(reports)))
		})
	}
}

func TestReportFilter_Location(t *testing.T) {
	manila := time.FixedZone("PHT", 8*60*60)
	f := query.ReportFilter{From: schema.NewDate(2025, time.February, 1), To: schema.NewDate(2025, time.February, 1), Loc: manila}
	// Jan 31 22:10 UTC is already Feb 1 in Manila.
	assert.Len(t, f.Apply(seed.Reports()), 5)
}

func TestAlerts(t *testing.T) {
	alerts := query.Alerts(seed.Reports())
	assert.Equal(t, []string{"r1", "r2", "r4", "r5"}, reportIDs(alerts))

	for i := 1; i < len(alerts); i++ {
		assert.False(t, alerts[i].Timestamp.After(alerts[i-1].Timestamp))
	}
}

func TestAlertFeed(t *testing.T) {
	feed := query.AlertFeed(seed.Reports(), 1)

	assert.Equal(t, 2, feed.CriticalCount)
	assert.Equal(t, 2, feed.WarningCount)
	assert.Equal(t, []string{"r2", "r5"}, reportIDs(feed.Critical))
	assert.Equal(t, []string{"r1", "r4"}, reportIDs(feed.Warning))
	assert.Equal(t, []string{"r2", "r5", "r1", "r4"}, reportIDs(feed.Ordered()))
	assert.Equal(t, 1, feed.Pagination.TotalPages)

	// Past the end clamps to the last page.
	assert.Equal(t, 1, query.AlertFeed(seed.Reports(), 9).Pagination.Page)
}

func TestPaginate_PagesCoverList(t *testing.T) {
	for n := 0; n <= 23; n++ {
		items := make([]int, n)
		for i := range items {
			items[i] = i
		}
		for _, size := range []int{1, 5, 10} {
			first := query.Paginate(items, 1, size)
			want := (n + size - 1) / size
			require.Equal(t, want, first.TotalPages)

			var all []int
			for p := 1; p <= first.TotalPages; p++ {
				page := query.Paginate(items, p, size)
				if p < first.TotalPages {
					require.Len(t, page.Items, size)
				}
				all = append(all, page.Items...)
			}
			if n == 0 {
				assert.Empty(t, all)
			} else {
				assert.Equal(t, items, all)
			}
		}
	}
}

func TestPaginate_Clamp(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e", "f", "g"}

	p := query.Paginate(items, 5, 3)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, []string{"g"}, p.Items)
	assert.True(t, p.HasPrev)
	assert.False(t, p.HasNext)
	assert.Equal(t, 7, p.From)
	assert.Equal(t, 7, p.To)

	p = query.Paginate(items, 0, 3)
	assert.Equal(t, 1, p.Page)
	assert.False(t, p.HasPrev)
	assert.True(t, p.HasNext)
	assert.Equal(t, 1, p.From)
	assert.Equal(t, 3, p.To)

	empty := query.Paginate([]string{}, 4, 10)
	assert.Equal(t, 1, empty.Page)
	assert.Equal(t, 0, empty.TotalPages)
	assert.Empty(t, empty.Items)
	assert.False(t, empty.HasNext)
	assert.Zero(t, empty.From)
}

func TestSelection(t *testing.T) {
	sel := query.NewSelection(query.ReportFilter{})
	assert.Equal(t, 1, sel.Page())

	assert.Equal(t, 2, sel.Next(3))
	assert.Equal(t, 3, sel.Next(3))
	assert.Equal(t, 3, sel.Next(3))

	// Same filter keeps the page.
	sel.Apply(query.ReportFilter{})
	assert.Equal(t, 3, sel.Page())

	sel.Apply(query.ReportFilter{Level: schema.LevelAlarm})
	assert.Equal(t, 1, sel.Page())
	assert.Equal(t, schema.LevelAlarm, sel.Filter().Level)

	assert.Equal(t, 1, sel.Prev())
	assert.Equal(t, 2, sel.Goto(2, 4))
	assert.Equal(t, 4, sel.Goto(10, 4))
}

func TestSummarize(t *testing.T) {
	s := query.Summarize(seed.Reports())
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 1, s.Level1)
	assert.Equal(t, 2, s.Level2)
	assert.Equal(t, 2, s.Level3)
	assert.Equal(t, 2, s.EmergencyContacted)
	assert.InDelta(t, 79, s.AvgEyeClosure, 1e-9)
	assert.InDelta(t, 0.476, s.AvgMouthRatio, 1e-9)
	assert.InDelta(t, 20, s.AvgHeadTilt, 1e-9)
	assert.InDelta(t, 4, s.AvgYawnFreq, 1e-9)

	metrics := s.Metrics()
	require.Len(t, metrics, 4)
	assert.Equal(t, "Mouth Ratio", metrics[1].Name)
	assert.InDelta(t, 47.6, metrics[1].Value, 1e-9)

	dist := s.Distribution()
	assert.Equal(t, []int{1, 2, 2}, []int{dist[0].Count, dist[1].Count, dist[2].Count})
}

func TestSummarize_Empty(t *testing.T) {
	s := query.Summarize(nil)
	assert.Equal(t, query.Summary{}, s)
	for _, m := range s.Metrics() {
		assert.Zero(t, m.Value)
	}
}

func TestOverview(t *testing.T) {
	o := query.Overview(seed.Users(), seed.Reports())
	assert.Equal(t, 11, o.TotalUsers)
	assert.Equal(t, 8, o.ActiveUsers)
	assert.Equal(t, 5, o.TotalReports)
	assert.Equal(t, 4, o.ActiveAlerts)
	assert.Len(t, o.Levels, 3)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, query.WriteCSV(&buf, seed.Reports()))

	out := buf.String()
	assert.False(t, strings.HasSuffix(out, "\n"))

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "User Name,Date & Time,Eye Closure %,Mouth Ratio,Head Tilt (°),Yawn Frequency,Drowsiness Level,Emergency Contacted", lines[0])
	assert.Equal(t, "Olivia Bennett,Feb 01, 2025 08:30:00,75,0.45,15,3,2,No", lines[1])
	assert.Equal(t, "Daniel Warren,Feb 01, 2025 07:15:00,85,0.52,25,5,3,Yes", lines[2])

	for _, line := range lines[1:] {
		// The unquoted timestamp adds one comma, so count mouth ratio from the end.
		fields := strings.Split(line, ",")
		ratio := fields[len(fields)-5]
		assert.Regexp(t, `^\d+\.\d{2}$`, ratio)
	}
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, query.WriteCSV(&buf, nil))
	assert.NotContains(t, buf.String(), "\n")
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2026, time.October, 15, 13, 0, 0, 0, time.UTC)
	assert.Equal(t, "drowsiness_reports_2026-10-15.csv", query.ExportFileName(now))
}
