package workbook

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Largest serial Excel accepts (9999-12-31)
const maxExcelSerial = 2958465

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/06",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"2-Jan-06",
}

// ParseDate interprets a raw cell as a calendar date. Serial numbers are
// converted with the workbook's date system; text is tried against the
// layouts LinkedIn and spreadsheet exports use (US month-first for slashes).
// Anything else reports ok=false and is meant to be dropped, never fatal.
func ParseDate(raw string, date1904 bool) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial < 1 || serial > maxExcelSerial {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, date1904)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseNumber reads a numeric cell. Blank cells count as zero; thousands
// separators and surrounding space are ignored.
func ParseNumber(raw string) (float64, error) {
	s := cleanNumeric(raw)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidNumber
	}
	return v, nil
}

// ParsePercent reads a percentage cell and returns it in percent units.
// Text ending in "%" is already in percent units. A bare number is a
// fraction when fraction is true (0.25 -> 25) and a percent otherwise.
// A leading "<" as in "< 1%" is ignored.
func ParsePercent(raw string, fraction bool) (float64, error) {
	s := cleanNumeric(raw)
	s = strings.TrimSpace(strings.TrimPrefix(s, "<"))
	if s == "" {
		return 0, ErrInvalidPercentage
	}

	if strings.HasSuffix(s, "%") {
		v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "%")), 64)
		if err != nil {
			return 0, ErrInvalidPercentage
		}
		return v, nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidPercentage
	}
	if fraction {
		return v * 100, nil
	}
	return v, nil
}

func cleanNumeric(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}
