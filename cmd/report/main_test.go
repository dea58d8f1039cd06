package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SapirCardona/linkedinsights/internal/report"
	"github.com/SapirCardona/linkedinsights/internal/shared/testutil"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

type jsonBundle struct {
	Source       string `json:"source"`
	Demographics []struct {
		Category string `json:"category"`
		Rows     []any  `json:"rows"`
	} `json:"demographics"`
}

func TestRenderJSON(t *testing.T) {
	dir := t.TempDir()
	in := testutil.LinkedInExport().Save(t, dir, "export.xlsx")
	out := filepath.Join(dir, "report.json")

	_, _, err := execute(t, "render", in, "--format", "json", "--out", out, "--job-title-limit", "2")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var b jsonBundle
	require.NoError(t, json.Unmarshal(data, &b))
	assert.Equal(t, "export.xlsx", b.Source)
	require.Len(t, b.Demographics, 2)
	assert.Len(t, b.Demographics[0].Rows, 2)
}

func TestRenderStdout(t *testing.T) {
	in := testutil.LinkedInExport().Save(t, t.TempDir(), "export.xlsx")

	stdout, _, err := execute(t, "render", in, "-f", "csv", "-t", report.TablePostingDays, "-o", "-")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Sunday")
	assert.Contains(t, stdout, "Saturday")
}

func TestRenderAllTables(t *testing.T) {
	dir := t.TempDir()
	in := testutil.LinkedInExport().Save(t, dir, "export.xlsx")
	outDir := filepath.Join(dir, "tables")

	_, _, err := execute(t, "render", in, "--format", "csv", "--out", outDir)
	require.NoError(t, err)

	for _, name := range []string{
		report.TableMetrics,
		report.TableFollowersMonthly,
		report.TablePostingDays,
		report.TableWeeklyEngagement,
		"demographics_job_titles",
		"demographics_seniority",
	} {
		assert.FileExists(t, filepath.Join(outDir, "export-"+name+".csv"))
	}
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	good := testutil.LinkedInExport().Save(t, dir, "export.xlsx")
	broken := testutil.LinkedInExport().Without("ENGAGEMENT").Save(t, dir, "broken.xlsx")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown format", []string{"render", good, "--format", "docx"}, "unsupported format"},
		{"missing file", []string{"render", filepath.Join(dir, "nope.xlsx")}, "no such file"},
		{"missing sheet", []string{"render", broken, "-o", "-"}, "ENGAGEMENT"},
		{"unknown table", []string{"render", good, "-f", "csv", "-t", "nope", "-o", "-"}, "Unknown table"},
		{"no argument", []string{"render"}, "accepts 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBatch(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "reports")

	testutil.LinkedInExport().Save(t, in, "a.xlsx")
	testutil.LinkedInExport().Save(t, in, "b.xlsx")
	testutil.LinkedInExport().Without("FOLLOWERS").Save(t, in, "c.xlsx")
	require.NoError(t, os.WriteFile(filepath.Join(in, "~$a.xlsx"), []byte("lock"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "notes.txt"), []byte("x"), 0o644))

	stdout, stderr, err := execute(t, "batch", in, "--out", out, "--format", "json", "--workers", "2")
	require.Error(t, err)
	assert.Equal(t, "1 of 3 workbooks failed", err.Error())

	assert.Contains(t, stdout, "a.xlsx")
	assert.Contains(t, stdout, "b.xlsx")
	assert.Contains(t, stderr, "FAIL")
	assert.Contains(t, stderr, "c.xlsx")

	assert.FileExists(t, filepath.Join(out, "a-report.json"))
	assert.FileExists(t, filepath.Join(out, "b-report.json"))
	assert.NoFileExists(t, filepath.Join(out, "c-report.json"))
}

func TestBatchSetupErrors(t *testing.T) {
	_, _, err := execute(t, "batch", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")

	_, _, err = execute(t, "batch", t.TempDir(), "--format", "csv", "--out", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "one file per table")
}
