package query

import "github.com/celerix-dev/drowsewatch/pkg/schema"

// DashboardOverview holds the headline numbers of the dashboard page.
type DashboardOverview struct {
	TotalUsers   int          `json:"totalUsers"`
	ActiveUsers  int          `json:"activeUsers"`
	TotalReports int          `json:"totalReports"`
	ActiveAlerts int          `json:"activeAlerts"`
	Levels       []LevelCount `json:"levels"`
}

func Overview(users []schema.User, reports []schema.Report) DashboardOverview {
	o := DashboardOverview{
		TotalUsers:   len(users),
		TotalReports: len(reports),
		ActiveAlerts: len(Alerts(reports)),
		Levels:       Summarize(reports).Distribution(),
	}
	for _, u := range users {
		if u.Status == schema.StatusActive {
			o.ActiveUsers++
		}
	}
	return o
}
