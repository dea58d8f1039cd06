package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/SapirCardona/linkedinsights/internal/workbook"
)

// rankDemographics builds one ranked table per configured category: rows
// sorted by percentage, highest first, ties kept in sheet order.
func rankDemographics(src Source, s DemographicsSchema) ([]DemographicSlice, error) {
	t, err := src.ReadSheet(s.Sheet, s.HeaderOffset)
	if err != nil {
		return nil, err
	}
	cols, err := columns(t, s.CategoryColumn, s.ValueColumn, s.PercentageColumn)
	if err != nil {
		return nil, err
	}
	catIdx, valIdx, pctIdx := cols[0], cols[1], cols[2]
	fraction := s.PercentEncoding != PercentPercent

	out := make([]DemographicSlice, 0, len(s.Categories))
	for _, c := range s.Categories {
		slice := DemographicSlice{Category: c.Name, Title: c.Title, Rows: []DemographicRow{}}
		if slice.Title == "" {
			slice.Title = c.Name
		}

		for i := 0; i < t.Len(); i++ {
			if t.Cell(i, catIdx) != c.Name {
				continue
			}
			raw := t.Cell(i, pctIdx)
			pct, err := workbook.ParsePercent(raw, fraction)
			if err != nil {
				return nil, &workbook.ValueError{
					Sheet:  t.Sheet,
					Column: t.Header[pctIdx],
					Row:    t.RowNumber(i),
					Value:  raw,
					Err:    err,
				}
			}
			slice.Rows = append(slice.Rows, DemographicRow{
				Value:      t.Cell(i, valIdx),
				Percentage: pct,
			})
		}

		sort.SliceStable(slice.Rows, func(a, b int) bool {
			return slice.Rows[a].Percentage > slice.Rows[b].Percentage
		})
		if c.Limit > 0 && len(slice.Rows) > c.Limit {
			slice.Rows = slice.Rows[:c.Limit]
		}
		for i := range slice.Rows {
			slice.Rows[i].Display = FormatPercent(slice.Rows[i].Percentage)
		}
		out = append(out, slice)
	}
	return out, nil
}

// FormatPercent renders a percent-unit value with two decimals
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// Slug turns a category name into an identifier ("Job titles" -> "job_titles")
func Slug(name string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
