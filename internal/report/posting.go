package report

import "github.com/SapirCardona/linkedinsights/internal/workbook"

// countPostingDays pools the configured date columns of the top posts sheet
// and counts publications per weekday. Unparseable dates are dropped.
func countPostingDays(src Source, s TopPostsSchema) (PostingDays, error) {
	t, err := src.ReadSheet(s.Sheet, s.HeaderOffset)
	if err != nil {
		return PostingDays{}, err
	}

	var pd PostingDays
	for _, slice := range s.DateColumns {
		values, err := sliceValues(t, slice)
		if err != nil {
			return PostingDays{}, err
		}
		for _, raw := range values {
			if raw == "" {
				continue
			}
			d, ok := workbook.ParseDate(raw, t.Date1904)
			if !ok {
				pd.SkippedRows++
				continue
			}
			pd.Counts[d.Weekday()]++
		}
	}
	return pd, nil
}

func sliceValues(t *workbook.Table, s ColumnSlice) ([]string, error) {
	var (
		values []string
		err    error
	)
	if s.Header != "" {
		values, err = t.Column(s.Header)
	} else {
		values, err = t.ColumnByLetter(s.Letter)
	}
	if err != nil {
		return nil, err
	}
	if s.SkipRows >= len(values) {
		return nil, nil
	}
	return values[s.SkipRows:], nil
}
