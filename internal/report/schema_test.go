package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SapirCardona/linkedinsights/internal/config"
)

func TestDefaultSchema(t *testing.T) {
	s := DefaultSchema()

	assert.Equal(t, "FOLLOWERS", s.Followers.Sheet)
	assert.Equal(t, 2, s.Followers.HeaderOffset)
	assert.Equal(t, "A1", s.Followers.TotalFollowersCell)
	assert.Empty(t, s.Discovery.ValueColumn)
	require.Len(t, s.TopPosts.DateColumns, 2)
	assert.Equal(t, ColumnSlice{Letter: "B", SkipRows: 2}, s.TopPosts.DateColumns[0])
	assert.Equal(t, ColumnSlice{Letter: "F", SkipRows: 3}, s.TopPosts.DateColumns[1])
	assert.Equal(t, PercentFraction, s.Demographics.PercentEncoding)
	assert.Equal(t, []DemographicCategory{
		{Name: "Job titles", Title: "Top 5 Job Titles", Limit: 5},
		{Name: "Seniority", Title: "Top Seniority Levels", Limit: 0},
	}, s.Demographics.Categories)
}

func TestLoadSchema(t *testing.T) {
	t.Run("empty path is the default", func(t *testing.T) {
		s, err := LoadSchema("")
		require.NoError(t, err)
		assert.Equal(t, DefaultSchema(), s)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSchema(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("custom file", func(t *testing.T) {
		data, err := os.ReadFile("default_schema.yaml")
		require.NoError(t, err)
		custom := strings.Replace(string(data), "  sheet: DEMOGRAPHICS", "  sheet: Audience", 1)
		path := filepath.Join(t.TempDir(), "schema.yaml")
		require.NoError(t, os.WriteFile(path, []byte(custom), 0o644))

		s, err := LoadSchema(path)
		require.NoError(t, err)
		assert.Equal(t, "Audience", s.Demographics.Sheet)
	})
}

func TestParseSchemaValidation(t *testing.T) {
	base, err := os.ReadFile("default_schema.yaml")
	require.NoError(t, err)

	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{name: "default", yaml: string(base)},
		{name: "malformed", yaml: "followers: [", wantErr: true},
		{name: "unknown key", yaml: string(base) + "\nextra: true\n", wantErr: true},
		{name: "empty document", yaml: "", wantErr: true},
		{
			name:    "bad percent encoding",
			yaml:    strings.Replace(string(base), "  percent_encoding: fraction", "  percent_encoding: basis_points", 1),
			wantErr: true,
		},
		{
			name: "percent encoding defaults to fraction",
			yaml: strings.Replace(string(base), "  percent_encoding: fraction", "", 1),
		},
		{
			name:    "negative limit",
			yaml:    strings.Replace(string(base), "      limit: 5", "      limit: -1", 1),
			wantErr: true,
		},
		{
			name:    "column slice needs header or letter",
			yaml:    strings.Replace(string(base), "    - letter: B", "    - letter: \"\"", 1),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseSchema([]byte(tt.yaml))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, PercentFraction, s.Demographics.PercentEncoding)
		})
	}
}

func TestWithCategoryLimit(t *testing.T) {
	base := DefaultSchema()
	s := base.WithCategoryLimit("Job titles", 3)

	assert.Equal(t, 3, s.Demographics.Categories[0].Limit)
	assert.Equal(t, 5, base.Demographics.Categories[0].Limit)
	assert.Equal(t, 0, s.Demographics.Categories[1].Limit)
}

func TestSchemaFromConfig(t *testing.T) {
	s, err := SchemaFromConfig(config.ReportConfig{})
	require.NoError(t, err)
	assert.Equal(t, DefaultSchema(), s)

	s, err = SchemaFromConfig(config.ReportConfig{JobTitleLimit: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, s.Demographics.Categories[0].Limit)

	_, err = SchemaFromConfig(config.ReportConfig{SchemaFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}
