package report

import "math"

// Table is a flat view of one part of a bundle, used by exporters
type Table struct {
	Name    string
	Title   string
	Columns []string
	Rows    [][]string
}

// Table names
const (
	TableMetrics          = "metrics"
	TableFollowersMonthly = "followers_monthly"
	TablePostingDays      = "posting_days"
	TableWeeklyEngagement = "weekly_engagement"
)

// Tables flattens the bundle: metrics, monthly followers, posting days,
// weekly engagement, then one table per demographic category named
// "demographics_<slug>".
func (b *Bundle) Tables() []Table {
	tables := []Table{
		{Name: TableMetrics, Title: "Summary", Columns: []string{"Metric", "Value"}},
		{Name: TableFollowersMonthly, Title: "New Followers by Month", Columns: []string{"Month", "New followers", "Growth Rate (%)"}},
		{Name: TablePostingDays, Title: "Posts Published by Day of the Week", Columns: []string{"Day", "Posts"}},
		{Name: TableWeeklyEngagement, Title: "Engagement by Day of the Week", Columns: []string{"Day", "Impressions", "Engagements"}},
	}

	for _, m := range b.Metrics {
		tables[0].Rows = append(tables[0].Rows, []string{m.Label, m.Value})
	}
	for _, m := range b.Followers.Monthly {
		growth := ""
		if m.GrowthRatePct != nil {
			growth = FormatNumber(round2(*m.GrowthRatePct))
		}
		tables[1].Rows = append(tables[1].Rows, []string{m.Month.String(), FormatNumber(m.NewFollowers), growth})
	}
	for _, d := range Weekdays {
		tables[2].Rows = append(tables[2].Rows, []string{d.String(), FormatNumber(b.PostingDays.Counts[d])})
		tables[3].Rows = append(tables[3].Rows, []string{
			d.String(),
			FormatNumber(b.Engagement.Impressions[d]),
			FormatNumber(b.Engagement.Engagements[d]),
		})
	}

	for _, s := range b.Demographics {
		t := Table{
			Name:    "demographics_" + Slug(s.Category),
			Title:   s.Title,
			Columns: []string{"Value", "Percentage"},
		}
		for _, r := range s.Rows {
			t.Rows = append(t.Rows, []string{r.Value, r.Display})
		}
		tables = append(tables, t)
	}
	return tables
}

// Table returns the named table
func (b *Bundle) Table(name string) (Table, bool) {
	for _, t := range b.Tables() {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
