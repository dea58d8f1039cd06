package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SapirCardona/linkedinsights/internal/shared/testutil"
	"github.com/SapirCardona/linkedinsights/internal/workbook"
)

func openFixture(t *testing.T, f *testutil.WorkbookFixture) *workbook.Workbook {
	t.Helper()
	wb, err := workbook.Open(bytes.NewReader(f.Bytes(t)), "export.xlsx")
	require.NoError(t, err)
	t.Cleanup(func() { _ = wb.Close() })
	return wb
}

func generate(t *testing.T, f *testutil.WorkbookFixture) (*Bundle, error) {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	return NewGenerator(nil, logger).Generate(context.Background(), openFixture(t, f), "export.xlsx")
}

func TestGenerateLinkedInExport(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	g := NewGenerator(DefaultSchema(), logger)
	fixed := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return fixed }

	b, err := g.Generate(context.Background(), openFixture(t, testutil.LinkedInExport()), "export.xlsx")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, b.ID)
	assert.Equal(t, "export.xlsx", b.Source)
	assert.Equal(t, fixed, b.GeneratedAt)

	assert.Equal(t, []MetricCard{
		{Label: "Unique users reached", Value: "6789"},
		{Label: "Total impressions", Value: "12345"},
		{Label: "Total followers", Value: "1234"},
	}, b.Metrics)

	t.Run("followers", func(t *testing.T) {
		require.Len(t, b.Followers.Monthly, 4)
		months := make([]string, 4)
		for i, m := range b.Followers.Monthly {
			months[i] = m.Month.String()
		}
		assert.Equal(t, []string{"2024-04", "2024-05", "2024-06", "2024-07"}, months)

		assert.Equal(t, 10.0, b.Followers.Monthly[0].NewFollowers)
		assert.Nil(t, b.Followers.Monthly[0].GrowthRatePct)
		require.NotNil(t, b.Followers.Monthly[1].GrowthRatePct)
		assert.InDelta(t, 50, *b.Followers.Monthly[1].GrowthRatePct, 1e-9)
		require.NotNil(t, b.Followers.Monthly[2].GrowthRatePct)
		assert.InDelta(t, -100, *b.Followers.Monthly[2].GrowthRatePct, 1e-9)
		assert.Nil(t, b.Followers.Monthly[3].GrowthRatePct, "growth after a zero month is undefined")

		assert.Equal(t, 1, b.Followers.SkippedRows)
		require.NotNil(t, b.Followers.TotalFollowers)
		assert.Equal(t, 1234.0, *b.Followers.TotalFollowers)
	})

	t.Run("posting days", func(t *testing.T) {
		assert.Equal(t, WeekdayCounts{1, 2, 0, 1, 0, 0, 1}, b.PostingDays.Counts)
		assert.Equal(t, 1, b.PostingDays.SkippedRows)
	})

	t.Run("engagement", func(t *testing.T) {
		assert.Equal(t, WeekdayCounts{150, 200, 0, 0, 0, 0, 0}, b.Engagement.Impressions)
		assert.Equal(t, WeekdayCounts{15, 20, 0, 0, 0, 0, 0}, b.Engagement.Engagements)
		assert.Equal(t, 1, b.Engagement.SkippedRows)
	})

	t.Run("demographics", func(t *testing.T) {
		require.Len(t, b.Demographics, 2)

		jobs := b.Demographics[0]
		assert.Equal(t, "Top 5 Job Titles", jobs.Title)
		assert.Equal(t, []string{"Product Manager", "Software Engineer", "Data Scientist", "Recruiter", "Designer"}, values(jobs))
		assert.Equal(t, []string{"30.00%", "25.00%", "10.00%", "10.00%", "5.00%"}, displays(jobs))

		seniority := b.Demographics[1]
		assert.Equal(t, "Top Seniority Levels", seniority.Title)
		assert.Equal(t, []string{"Senior", "Mid", "Entry"}, values(seniority))
		assert.Equal(t, []string{"40.00%", "35.00%", "1.00%"}, displays(seniority))
	})

	t.Run("charts", func(t *testing.T) {
		ids := make([]string, len(b.Charts))
		for i, c := range b.Charts {
			ids[i] = c.ID
		}
		assert.Equal(t, []string{
			ChartFollowersMonthly, ChartFollowersGrowth, ChartPostingDays,
			ChartImpressionsByDay, ChartEngagementsByDay,
		}, ids)

		growth, ok := b.Chart(ChartFollowersGrowth)
		require.True(t, ok)
		assert.Equal(t, ChartLine, growth.Kind)
		assert.True(t, growth.Markers)
		assert.False(t, growth.Points[0].Defined)
		assert.True(t, growth.Points[1].Defined)

		imp, _ := b.Chart(ChartImpressionsByDay)
		assert.Equal(t, "#1f77b4", imp.Color)
		assert.True(t, imp.ShowValues)
		assert.Equal(t, "Sunday", imp.Points[0].Label)
		assert.Equal(t, 150.0, imp.Points[0].Value)

		eng, _ := b.Chart(ChartEngagementsByDay)
		assert.Equal(t, "#ff7f0e", eng.Color)

		posts, _ := b.Chart(ChartPostingDays)
		assert.True(t, posts.ColorByValue)
	})

	testutil.AssertLogContains(t, logs, slog.LevelInfo, "report generated")
}

func TestGenerateFailures(t *testing.T) {
	base := testutil.LinkedInExport()

	tests := []struct {
		name    string
		fixture *testutil.WorkbookFixture
		wantErr error
		check   func(t *testing.T, err error)
	}{
		{
			name:    "missing sheet",
			fixture: base.Without("ENGAGEMENT"),
			wantErr: workbook.ErrSheetNotFound,
		},
		{
			name: "missing discovery label",
			fixture: base.With("DISCOVERY", [][]any{
				{"Overall Performance", "4/1/2024 - 3/31/2025"},
				{"Impressions", 12345},
			}),
			wantErr: workbook.ErrLabelNotFound,
		},
		{
			name: "discovery without a value column",
			fixture: base.With("DISCOVERY", [][]any{
				{"Overall Performance"},
				{"Impressions"},
			}),
			wantErr: workbook.ErrColumnNotFound,
		},
		{
			name: "missing followers column",
			fixture: base.With("FOLLOWERS", [][]any{
				{1234},
				{},
				{"Date", "Followers gained"},
				{time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC), 5},
			}),
			wantErr: workbook.ErrColumnNotFound,
		},
		{
			name: "non-numeric impressions",
			fixture: base.With("ENGAGEMENT", [][]any{
				{"Date", "Impressions", "Engagements"},
				{time.Date(2024, 4, 7, 0, 0, 0, 0, time.UTC), 100, 10},
				{time.Date(2024, 4, 8, 0, 0, 0, 0, time.UTC), "lots", 20},
			}),
			wantErr: workbook.ErrInvalidNumber,
			check: func(t *testing.T, err error) {
				var verr *workbook.ValueError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, "ENGAGEMENT", verr.Sheet)
				assert.Equal(t, "Impressions", verr.Column)
				assert.Equal(t, 3, verr.Row)
				assert.Equal(t, "lots", verr.Value)
			},
		},
		{
			name: "unparseable percentage",
			fixture: base.With("DEMOGRAPHICS", [][]any{
				{"Top Demographics", "Value", "Percentage"},
				{"Job titles", "Software Engineer", "about a quarter"},
			}),
			wantErr: workbook.ErrInvalidPercentage,
		},
		{
			name:    "top posts sheet too narrow",
			fixture: base.With("TOP POSTS", [][]any{{"x"}, {}, {"Post URL", "Post publish date"}}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := generate(t, tt.fixture)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Nil(t, b, "no partial bundle on failure")
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestGenerateTotalFollowers(t *testing.T) {
	followers := func(a1 any) [][]any {
		return [][]any{
			{a1},
			{},
			{"Date", "New followers"},
			{time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC), 5},
		}
	}

	tests := []struct {
		name      string
		a1        any
		want      *float64
		wantCards int
	}{
		{name: "number", a1: 1234, want: ptr(1234), wantCards: 3},
		{name: "text ending in a number", a1: "Total followers: 1,234", want: ptr(1234), wantCards: 3},
		{name: "text ending in a date", a1: "Total followers on 3/31/2025:", wantCards: 2},
		{name: "date without colon", a1: "Total followers on 3/31/2025", wantCards: 2},
		{name: "blank", a1: nil, wantCards: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := generate(t, testutil.LinkedInExport().With("FOLLOWERS", followers(tt.a1)))
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.Followers.TotalFollowers)
			assert.Len(t, b.Metrics, tt.wantCards)
		})
	}
}

func TestGenerateConfiguredDiscoveryColumn(t *testing.T) {
	schema := DefaultSchema()
	schema.Discovery.ValueColumn = "4/1/2024 - 3/31/2025"

	logger, _ := testutil.NewTestLogger(t)
	b, err := NewGenerator(schema, logger).Generate(context.Background(), openFixture(t, testutil.LinkedInExport()), "x")
	require.NoError(t, err)
	assert.Equal(t, Discovery{TotalImpressions: "12345", MembersReached: "6789"}, b.Discovery)

	schema.Discovery.ValueColumn = "1/1/2023 - 12/31/2023"
	_, err = NewGenerator(schema, logger).Generate(context.Background(), openFixture(t, testutil.LinkedInExport()), "x")
	assert.ErrorIs(t, err, workbook.ErrColumnNotFound)
}

func TestGenerateEmptySheets(t *testing.T) {
	f := testutil.LinkedInExport().
		With("FOLLOWERS", [][]any{{}, {}, {"Date", "New followers"}}).
		With("ENGAGEMENT", [][]any{{"Date", "Impressions", "Engagements"}}).
		With("DEMOGRAPHICS", [][]any{{"Top Demographics", "Value", "Percentage"}})

	b, err := generate(t, f)
	require.NoError(t, err)

	assert.Empty(t, b.Followers.Monthly)
	assert.Equal(t, WeekdayCounts{}, b.Engagement.Impressions)
	require.Len(t, b.Demographics, 2)
	assert.Empty(t, b.Demographics[0].Rows)

	monthly, _ := b.Chart(ChartFollowersMonthly)
	assert.False(t, monthly.HasData())
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGenerator(nil, nil).Generate(ctx, openFixture(t, testutil.LinkedInExport()), "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBundleJSON(t *testing.T) {
	b, err := generate(t, testutil.LinkedInExport())
	require.NoError(t, err)

	data, err := json.Marshal(b)
	require.NoError(t, err)

	var decoded struct {
		Followers struct {
			Monthly []struct {
				Month         string   `json:"month"`
				GrowthRatePct *float64 `json:"growth_rate_pct"`
			} `json:"monthly"`
		} `json:"followers"`
		PostingDays struct {
			Counts []struct {
				Day   string  `json:"day"`
				Value float64 `json:"value"`
			} `json:"counts"`
		} `json:"posting_days"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "2024-04", decoded.Followers.Monthly[0].Month)
	assert.Nil(t, decoded.Followers.Monthly[0].GrowthRatePct)
	require.Len(t, decoded.PostingDays.Counts, 7)
	assert.Equal(t, "Sunday", decoded.PostingDays.Counts[0].Day)
	assert.Equal(t, "Saturday", decoded.PostingDays.Counts[6].Day)
}

func TestBundleTables(t *testing.T) {
	b, err := generate(t, testutil.LinkedInExport())
	require.NoError(t, err)

	names := []string{}
	for _, tbl := range b.Tables() {
		names = append(names, tbl.Name)
	}
	assert.Equal(t, []string{
		TableMetrics, TableFollowersMonthly, TablePostingDays, TableWeeklyEngagement,
		"demographics_job_titles", "demographics_seniority",
	}, names)

	monthly, ok := b.Table(TableFollowersMonthly)
	require.True(t, ok)
	assert.Equal(t, [][]string{
		{"2024-04", "10", ""},
		{"2024-05", "15", "50"},
		{"2024-06", "0", "-100"},
		{"2024-07", "12", ""},
	}, monthly.Rows)

	jobs, ok := b.Table("demographics_job_titles")
	require.True(t, ok)
	assert.Equal(t, []string{"Product Manager", "30.00%"}, jobs.Rows[0])

	_, ok = b.Table("nope")
	assert.False(t, ok)
}

func values(s DemographicSlice) []string {
	out := make([]string, len(s.Rows))
	for i, r := range s.Rows {
		out[i] = r.Value
	}
	return out
}

func displays(s DemographicSlice) []string {
	out := make([]string, len(s.Rows))
	for i, r := range s.Rows {
		out[i] = r.Display
	}
	return out
}

func ptr(v float64) *float64 { return &v }
