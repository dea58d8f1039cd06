package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

// FixtureSheet is a sheet laid out from A1; nil cells stay empty
type FixtureSheet struct {
	Name string
	Rows [][]any
}

// WorkbookFixture describes an .xlsx built in memory for tests
type WorkbookFixture struct {
	Sheets []FixtureSheet
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// LinkedInExport returns a complete export in the layout LinkedIn produces.
// Expected results for the default schema:
//
//	followers: 2024-04=10, 2024-05=15 (+50%), 2024-06=0 (-100%), 2024-07=12 (undefined), 1 skipped row, total 1234
//	discovery: impressions 12345, members reached 6789
//	posting days (Sun..Sat): 1 2 0 1 0 0 1
//	impressions (Sun..Sat): 150 200 0 0 0 0 0; engagements: 15 20 0 0 0 0 0
//	job titles: Product Manager, Software Engineer, Data Scientist, Recruiter, Designer
//	seniority: Senior 40.00%, Mid 35.00%, Entry 1.00%
func LinkedInExport() *WorkbookFixture {
	return &WorkbookFixture{Sheets: []FixtureSheet{
		{Name: "DISCOVERY", Rows: [][]any{
			{"Overall Performance", "4/1/2024 - 3/31/2025"},
			{"Impressions", 12345},
			{"Members reached", 6789},
		}},
		{Name: "ENGAGEMENT", Rows: [][]any{
			{"Date", "Impressions", "Engagements"},
			{day(2024, 4, 7), 100, 10},
			{day(2024, 4, 8), 200, 20},
			{day(2024, 4, 14), 50, 5},
			{day(2024, 4, 10), 0, 0},
			{"bad", 999, 99},
		}},
		{Name: "TOP POSTS", Rows: [][]any{
			{"Maximum of 50 posts available to include in this list"},
			{},
			{"Post URL", "Post publish date", "Engagements", nil, "Post URL", "Post publish date", "Impressions"},
			{"https://lnkd.in/a", day(2024, 4, 1), 40, nil, "https://lnkd.in/g", day(2024, 4, 6), 900},
			{"https://lnkd.in/b", day(2024, 4, 2), 30, nil, "https://lnkd.in/h", day(2024, 4, 6), 800},
			{"https://lnkd.in/c", day(2024, 4, 7), 20, nil, "https://lnkd.in/i", day(2024, 4, 6), 700},
			{"https://lnkd.in/d", day(2024, 4, 8), 10, nil, "https://lnkd.in/j", day(2024, 4, 13), 600},
			{"https://lnkd.in/e", day(2024, 4, 8), 5, nil, "https://lnkd.in/k", day(2024, 4, 10), 500},
			{"https://lnkd.in/f", nil, 1, nil, "https://lnkd.in/l", "n/a", 400},
		}},
		{Name: "FOLLOWERS", Rows: [][]any{
			{1234},
			{},
			{"Date", "New followers"},
			{day(2024, 7, 1), 12},
			{day(2024, 4, 3), 5},
			{day(2024, 4, 20), 5},
			{day(2024, 5, 2), 15},
			{"not a date", 7},
			{day(2024, 6, 10), 0},
		}},
		{Name: "DEMOGRAPHICS", Rows: [][]any{
			{"Top Demographics", "Value", "Percentage"},
			{"Job titles", "Software Engineer", 0.25},
			{"Job titles", "Data Scientist", 0.1},
			{"Job titles", "Product Manager", 0.3},
			{"Job titles", "Designer", 0.05},
			{"Job titles", "Recruiter", 0.1},
			{"Job titles", "Founder", 0.02},
			{"Locations", "Tel Aviv", 0.5},
			{"Seniority", "Entry", "< 1%"},
			{"Seniority", "Senior", 0.4},
			{"Seniority", "Mid", 0.35},
		}},
	}}
}

// Without drops the named sheet
func (f *WorkbookFixture) Without(name string) *WorkbookFixture {
	out := &WorkbookFixture{}
	for _, s := range f.Sheets {
		if s.Name != name {
			out.Sheets = append(out.Sheets, s)
		}
	}
	return out
}

// With replaces the rows of the named sheet, adding it when absent
func (f *WorkbookFixture) With(name string, rows [][]any) *WorkbookFixture {
	out := &WorkbookFixture{}
	replaced := false
	for _, s := range f.Sheets {
		if s.Name == name {
			s = FixtureSheet{Name: name, Rows: rows}
			replaced = true
		}
		out.Sheets = append(out.Sheets, s)
	}
	if !replaced {
		out.Sheets = append(out.Sheets, FixtureSheet{Name: name, Rows: rows})
	}
	return out
}

// Build writes every sheet into a fresh excelize file
func (f *WorkbookFixture) Build(t testing.TB) *excelize.File {
	t.Helper()

	xf := excelize.NewFile()
	t.Cleanup(func() { _ = xf.Close() })

	keepDefault := false
	for _, s := range f.Sheets {
		if s.Name == "Sheet1" {
			keepDefault = true
		} else if _, err := xf.NewSheet(s.Name); err != nil {
			t.Fatalf("new sheet %q: %v", s.Name, err)
		}
		for i, row := range s.Rows {
			if len(row) == 0 {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			r := row
			if err := xf.SetSheetRow(s.Name, cell, &r); err != nil {
				t.Fatalf("write %s!%s: %v", s.Name, cell, err)
			}
		}
	}
	if !keepDefault && len(f.Sheets) > 0 {
		if err := xf.DeleteSheet("Sheet1"); err != nil {
			t.Fatalf("delete default sheet: %v", err)
		}
	}
	return xf
}

// Bytes returns the fixture serialised as .xlsx
func (f *WorkbookFixture) Bytes(t testing.TB) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := f.Build(t).Write(&buf); err != nil {
		t.Fatalf("serialise workbook: %v", err)
	}
	return buf.Bytes()
}

// Save writes the fixture to dir/name and returns the path
func (f *WorkbookFixture) Save(t testing.TB, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, f.Bytes(t), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
