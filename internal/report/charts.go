package report

import "strconv"

// Chart identifiers, in page order
const (
	ChartFollowersMonthly = "followers_monthly"
	ChartFollowersGrowth  = "followers_growth"
	ChartPostingDays      = "posting_days"
	ChartImpressionsByDay = "impressions_by_day"
	ChartEngagementsByDay = "engagements_by_day"
)

const (
	colorDefault     = "#636efa"
	colorImpressions = "#1f77b4"
	colorEngagements = "#ff7f0e"
)

func buildCharts(f FollowerReport, p PostingDays, e WeeklyEngagement) []ChartSpec {
	monthly := make([]ChartPoint, len(f.Monthly))
	growth := make([]ChartPoint, len(f.Monthly))
	for i, m := range f.Monthly {
		label := m.Month.String()
		monthly[i] = ChartPoint{Label: label, Value: m.NewFollowers, Defined: true}
		growth[i] = ChartPoint{Label: label}
		if m.GrowthRatePct != nil {
			growth[i].Value = *m.GrowthRatePct
			growth[i].Defined = true
		}
	}

	return []ChartSpec{
		{
			ID:     ChartFollowersMonthly,
			Title:  "New Connections Over Time",
			Kind:   ChartBar,
			XTitle: "Month",
			YTitle: "New followers",
			Points: monthly,
			Color:  colorDefault,
		},
		{
			ID:      ChartFollowersGrowth,
			Title:   "Monthly Growth Rate of Followers (%)",
			Kind:    ChartLine,
			XTitle:  "Month",
			YTitle:  "Growth Rate (%)",
			Points:  growth,
			Color:   colorDefault,
			Markers: true,
		},
		{
			ID:           ChartPostingDays,
			Title:        "Posts Published by Day of the Week",
			Kind:         ChartBar,
			XTitle:       "Day of the Week",
			YTitle:       "Count",
			Points:       weekdayPoints(p.Counts),
			ColorByValue: true,
		},
		{
			ID:         ChartImpressionsByDay,
			Title:      "Impressions by Day of the Week",
			Kind:       ChartBar,
			XTitle:     "Day of the Week",
			YTitle:     "Count",
			Points:     weekdayPoints(e.Impressions),
			Color:      colorImpressions,
			ShowValues: true,
		},
		{
			ID:         ChartEngagementsByDay,
			Title:      "Engagements by Day of the Week",
			Kind:       ChartBar,
			XTitle:     "Day of the Week",
			YTitle:     "Count",
			Points:     weekdayPoints(e.Engagements),
			Color:      colorEngagements,
			ShowValues: true,
		},
	}
}

func weekdayPoints(w WeekdayCounts) []ChartPoint {
	out := make([]ChartPoint, len(Weekdays))
	for i, d := range Weekdays {
		out[i] = ChartPoint{Label: d.String(), Value: w[d], Defined: true}
	}
	return out
}

// FormatNumber prints whole numbers without a fraction
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
