package report

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MonthKey identifies a calendar month
type MonthKey struct {
	Year  int
	Month time.Month
}

func monthOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// String formats the month as YYYY-MM
func (m MonthKey) String() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// Before orders months chronologically
func (m MonthKey) Before(o MonthKey) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

func (m MonthKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// MonthlyFollowers is one month of follower growth. GrowthRatePct is nil
// for the first month and whenever the previous month gained nobody.
type MonthlyFollowers struct {
	Month         MonthKey `json:"month"`
	NewFollowers  float64  `json:"new_followers"`
	GrowthRatePct *float64 `json:"growth_rate_pct"`
}

// FollowerReport is the FOLLOWERS sheet reduced to months
type FollowerReport struct {
	TotalFollowers *float64           `json:"total_followers,omitempty"`
	Monthly        []MonthlyFollowers `json:"monthly"`
	SkippedRows    int                `json:"skipped_rows"`
}

// Weekdays in report order, Sunday first
var Weekdays = [7]time.Weekday{
	time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
	time.Thursday, time.Friday, time.Saturday,
}

// WeekdayCounts holds one value per weekday indexed by time.Weekday
type WeekdayCounts [7]float64

type weekdayValue struct {
	Day   string  `json:"day"`
	Value float64 `json:"value"`
}

// MarshalJSON emits an ordered list so consumers never depend on key order
func (w WeekdayCounts) MarshalJSON() ([]byte, error) {
	out := make([]weekdayValue, len(Weekdays))
	for i, d := range Weekdays {
		out[i] = weekdayValue{Day: d.String(), Value: w[d]}
	}
	return json.Marshal(out)
}

// Total sums all days
func (w WeekdayCounts) Total() float64 {
	var sum float64
	for _, v := range w {
		sum += v
	}
	return sum
}

// PostingDays counts published posts per weekday
type PostingDays struct {
	Counts      WeekdayCounts `json:"counts"`
	SkippedRows int           `json:"skipped_rows"`
}

// WeeklyEngagement sums impressions and engagements per weekday
type WeeklyEngagement struct {
	Impressions WeekdayCounts `json:"impressions"`
	Engagements WeekdayCounts `json:"engagements"`
	SkippedRows int           `json:"skipped_rows"`
}

// DemographicRow is one ranked entry; Display is the formatted percentage
type DemographicRow struct {
	Value      string  `json:"value"`
	Percentage float64 `json:"percentage"`
	Display    string  `json:"display"`
}

// DemographicSlice is the ranked table for one category
type DemographicSlice struct {
	Category string           `json:"category"`
	Title    string           `json:"title"`
	Rows     []DemographicRow `json:"rows"`
}

// Discovery carries the headline figures exactly as the sheet shows them
type Discovery struct {
	TotalImpressions string `json:"total_impressions"`
	MembersReached   string `json:"members_reached"`
}

// MetricCard is a single headline number
type MetricCard struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ChartKind selects how a chart is drawn
type ChartKind string

const (
	ChartBar  ChartKind = "bar"
	ChartLine ChartKind = "line"
)

// ChartPoint is one category on the x axis. Undefined points are kept for
// their label but never drawn.
type ChartPoint struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
}

// ChartSpec describes a chart independently of any renderer
type ChartSpec struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Kind         ChartKind    `json:"kind"`
	XTitle       string       `json:"x_title"`
	YTitle       string       `json:"y_title"`
	Points       []ChartPoint `json:"points"`
	Color        string       `json:"color,omitempty"`
	ColorByValue bool         `json:"color_by_value,omitempty"`
	ShowValues   bool         `json:"show_values,omitempty"`
	Markers      bool         `json:"markers,omitempty"`
}

// HasData reports whether any point would be drawn
func (c ChartSpec) HasData() bool {
	for _, p := range c.Points {
		if p.Defined {
			return true
		}
	}
	return false
}

// Bundle is everything one generation produced
type Bundle struct {
	ID           uuid.UUID          `json:"id"`
	Source       string             `json:"source"`
	GeneratedAt  time.Time          `json:"generated_at"`
	Metrics      []MetricCard       `json:"metrics"`
	Discovery    Discovery          `json:"discovery"`
	Followers    FollowerReport     `json:"followers"`
	PostingDays  PostingDays        `json:"posting_days"`
	Engagement   WeeklyEngagement   `json:"engagement"`
	Demographics []DemographicSlice `json:"demographics"`
	Charts       []ChartSpec        `json:"charts"`
}

// Chart returns the chart with the given id
func (b *Bundle) Chart(id string) (ChartSpec, bool) {
	for _, c := range b.Charts {
		if c.ID == id {
			return c, true
		}
	}
	return ChartSpec{}, false
}
