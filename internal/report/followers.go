package report

import (
	"regexp"
	"sort"
	"strings"

	"github.com/SapirCardona/linkedinsights/internal/workbook"
)

// A trailing count must stand alone; digits after "/" or "-" belong to a date.
var trailingNumber = regexp.MustCompile(`(?:^|[:\s])(\d[\d,]*(?:\.\d+)?)\s*$`)

// aggregateFollowers sums new followers per calendar month, oldest first,
// and derives month-over-month growth.
func aggregateFollowers(src Source, s FollowersSchema) (FollowerReport, error) {
	t, err := src.ReadSheet(s.Sheet, s.HeaderOffset)
	if err != nil {
		return FollowerReport{}, err
	}
	cols, err := columns(t, s.DateColumn, s.NewFollowersColumn)
	if err != nil {
		return FollowerReport{}, err
	}
	dateIdx, countIdx := cols[0], cols[1]

	var rep FollowerReport
	sums := make(map[MonthKey]float64)
	for i := 0; i < t.Len(); i++ {
		if blankRow(t, i, dateIdx, countIdx) {
			continue
		}
		d, ok := t.Date(i, dateIdx)
		if !ok {
			rep.SkippedRows++
			continue
		}
		n, err := number(t, i, countIdx)
		if err != nil {
			return FollowerReport{}, err
		}
		sums[monthOf(d)] += n
	}

	rep.Monthly = monthlyGrowth(sums)

	if s.TotalFollowersCell != "" {
		raw, err := src.Cell(s.Sheet, s.TotalFollowersCell)
		if err != nil {
			return FollowerReport{}, err
		}
		rep.TotalFollowers = parseTotal(raw)
	}
	return rep, nil
}

// monthlyGrowth orders months and applies (cur - prev) / prev * 100
func monthlyGrowth(sums map[MonthKey]float64) []MonthlyFollowers {
	months := make([]MonthKey, 0, len(sums))
	for m := range sums {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	out := make([]MonthlyFollowers, len(months))
	for i, m := range months {
		out[i] = MonthlyFollowers{Month: m, NewFollowers: sums[m]}
		if i == 0 {
			continue
		}
		prev := sums[months[i-1]]
		if prev == 0 {
			continue
		}
		g := (sums[m] - prev) / prev * 100
		out[i].GrowthRatePct = &g
	}
	return out
}

// parseTotal accepts a plain number or text ending in one
// ("Total followers: 1,234"). Text ending in a date such as
// "Total followers on Mar 31, 2025" has no count and is absent.
func parseTotal(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if v, err := workbook.ParseNumber(raw); err == nil {
		return &v
	}
	m := trailingNumber.FindStringSubmatch(raw)
	if m == nil || endsInDate(raw) {
		return nil
	}
	v, err := workbook.ParseNumber(m[1])
	if err != nil {
		return nil
	}
	return &v
}

// endsInDate reports whether some trailing run of words parses as a date
func endsInDate(raw string) bool {
	words := strings.Fields(raw)
	for i := len(words) - 2; i >= 0; i-- {
		tail := strings.TrimRight(strings.Join(words[i:], " "), ":.")
		if _, ok := workbook.ParseDate(tail, false); ok {
			return true
		}
	}
	return false
}
