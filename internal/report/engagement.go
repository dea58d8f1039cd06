package report

// summarizeEngagement sums impressions and engagements per weekday. Numbers
// are only read from rows with a usable date.
func summarizeEngagement(src Source, s EngagementSchema) (WeeklyEngagement, error) {
	t, err := src.ReadSheet(s.Sheet, s.HeaderOffset)
	if err != nil {
		return WeeklyEngagement{}, err
	}
	cols, err := columns(t, s.DateColumn, s.ImpressionsColumn, s.EngagementsColumn)
	if err != nil {
		return WeeklyEngagement{}, err
	}
	dateIdx, impIdx, engIdx := cols[0], cols[1], cols[2]

	var we WeeklyEngagement
	for i := 0; i < t.Len(); i++ {
		if blankRow(t, i, cols...) {
			continue
		}
		d, ok := t.Date(i, dateIdx)
		if !ok {
			we.SkippedRows++
			continue
		}
		imp, err := number(t, i, impIdx)
		if err != nil {
			return WeeklyEngagement{}, err
		}
		eng, err := number(t, i, engIdx)
		if err != nil {
			return WeeklyEngagement{}, err
		}
		we.Impressions[d.Weekday()] += imp
		we.Engagements[d.Weekday()] += eng
	}
	return we, nil
}
