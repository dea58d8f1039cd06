package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SapirCardona/linkedinsights/internal/config"
	"github.com/SapirCardona/linkedinsights/internal/shared/testutil"
)

func newValidator(t *testing.T) *FileValidator {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	return NewFileValidator(logger, config.UploadConfig{
		MaxBytes:          1024,
		AllowedExtensions: []string{".xlsx", ".XLSM"},
	})
}

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		size    int64
		wantErr error
	}{
		{name: "xlsx", file: "export.xlsx", size: 100},
		{name: "upper case extension", file: "EXPORT.XLSX", size: 100},
		{name: "macro enabled", file: "export.xlsm", size: 100},
		{name: "path is reduced to base name", file: "C:/Users/me/export.xlsx", size: 100},
		{name: "at the limit", file: "export.xlsx", size: 1024},
		{name: "csv", file: "export.csv", size: 100, wantErr: ErrUnsupportedExtension},
		{name: "legacy xls", file: "export.xls", size: 100, wantErr: ErrUnsupportedExtension},
		{name: "no extension", file: "export", size: 100, wantErr: ErrUnsupportedExtension},
		{name: "lock file", file: "~$export.xlsx", size: 100, wantErr: ErrTemporaryFile},
		{name: "empty", file: "export.xlsx", size: 0, wantErr: ErrEmptyFile},
		{name: "too large", file: "export.xlsx", size: 1025, wantErr: ErrFileTooLarge},
	}

	v := newValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpload(tt.file, tt.size)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateWorkbookFile(t *testing.T) {
	v := newValidator(t)
	dir := t.TempDir()

	small := filepath.Join(dir, "small.xlsx")
	require.NoError(t, os.WriteFile(small, []byte("PK"), 0o644))
	assert.NoError(t, v.ValidateWorkbookFile(small))

	big := filepath.Join(dir, "big.xlsx")
	require.NoError(t, os.WriteFile(big, make([]byte, 2048), 0o644))
	assert.ErrorIs(t, v.ValidateWorkbookFile(big), ErrFileTooLarge)

	err := v.ValidateWorkbookFile(filepath.Join(dir, "missing.xlsx"))
	assert.ErrorContains(t, err, "does not exist")

	err = v.ValidateWorkbookFile(dir)
	assert.ErrorContains(t, err, "is a directory")
}

func TestValidateDirectories(t *testing.T) {
	v := newValidator(t)
	dir := t.TempDir()

	assert.NoError(t, v.ValidateInputDirectory(dir))
	assert.ErrorContains(t, v.ValidateInputDirectory(filepath.Join(dir, "nope")), "does not exist")

	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	assert.ErrorContains(t, v.ValidateInputDirectory(file), "not a directory")

	out := filepath.Join(dir, "out", "reports")
	require.NoError(t, v.ValidateOutputDirectory(out))
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries, "write probe is removed")
}

func TestListWorkbooks(t *testing.T) {
	v := newValidator(t)
	dir := t.TempDir()

	for _, name := range []string{"b.xlsx", "a.xlsm", "~$a.xlsx", "notes.txt", "c.XLSX"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "d.xlsx"), 0o755))

	files, err := v.ListWorkbooks(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.xlsm"),
		filepath.Join(dir, "b.xlsx"),
		filepath.Join(dir, "c.XLSX"),
	}, files)

	_, err = v.ListWorkbooks(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestAccessors(t *testing.T) {
	v := newValidator(t)
	assert.Equal(t, []string{".xlsx", ".xlsm"}, v.Extensions())
	assert.Equal(t, int64(1024), v.MaxBytes())
}
