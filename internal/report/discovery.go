package report

import (
	"fmt"

	"github.com/SapirCardona/linkedinsights/internal/workbook"
)

// readDiscovery looks up the impressions and members-reached figures. The
// first row whose label matches exactly wins; values are returned verbatim.
func readDiscovery(src Source, s DiscoverySchema) (Discovery, error) {
	t, err := src.ReadSheet(s.Sheet, s.HeaderOffset)
	if err != nil {
		return Discovery{}, err
	}

	labelIdx, err := t.ColumnIndex(s.LabelColumn)
	if err != nil {
		return Discovery{}, err
	}

	valueIdx := labelIdx + 1
	if s.ValueColumn != "" {
		if valueIdx, err = t.ColumnIndex(s.ValueColumn); err != nil {
			return Discovery{}, err
		}
	} else if valueIdx >= len(t.Header) {
		return Discovery{}, &workbook.SchemaError{
			Sheet:  t.Sheet,
			Column: fmt.Sprintf("right of %s", s.LabelColumn),
			Err:    workbook.ErrColumnNotFound,
		}
	}

	lookup := func(label string) (string, error) {
		i, ok := t.FindRow(labelIdx, label)
		if !ok {
			return "", &workbook.SchemaError{
				Sheet:  t.Sheet,
				Column: s.LabelColumn,
				Err:    fmt.Errorf("%w: %q", workbook.ErrLabelNotFound, label),
			}
		}
		return t.Cell(i, valueIdx), nil
	}

	var d Discovery
	if d.TotalImpressions, err = lookup(s.ImpressionsLabel); err != nil {
		return Discovery{}, err
	}
	if d.MembersReached, err = lookup(s.MembersReachedLabel); err != nil {
		return Discovery{}, err
	}
	return d, nil
}
