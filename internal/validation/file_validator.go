package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/SapirCardona/linkedinsights/internal/config"
)

// Upload rejections
var (
	ErrEmptyFile            = errors.New("file is empty")
	ErrFileTooLarge         = errors.New("file exceeds the size limit")
	ErrUnsupportedExtension = errors.New("unsupported file type")
	ErrTemporaryFile        = errors.New("temporary office lock file")
)

// FileValidator checks workbook uploads and the files and directories the
// CLI reads and writes
type FileValidator struct {
	logger     *slog.Logger
	extensions []string
	maxBytes   int64
}

// NewFileValidator creates a validator for the configured upload limits
func NewFileValidator(logger *slog.Logger, cfg config.UploadConfig) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	exts := make([]string, len(cfg.AllowedExtensions))
	for i, e := range cfg.AllowedExtensions {
		exts[i] = strings.ToLower(e)
	}
	return &FileValidator{
		logger:     logger.With(slog.String("component", "file_validator")),
		extensions: exts,
		maxBytes:   cfg.MaxBytes,
	}
}

// Extensions returns the accepted extensions, e.g. [".xlsx" ".xlsm"]
func (v *FileValidator) Extensions() []string {
	return v.extensions
}

// MaxBytes is the upload size limit
func (v *FileValidator) MaxBytes() int64 {
	return v.maxBytes
}

// ValidateUpload checks an uploaded file's name and size before it is parsed
func (v *FileValidator) ValidateUpload(name string, size int64) error {
	base := filepath.Base(name)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("rejected temporary excel file", slog.String("file", base))
		return fmt.Errorf("%w: %s", ErrTemporaryFile, base)
	}

	ext := strings.ToLower(filepath.Ext(base))
	if !v.allowed(ext) {
		v.logger.Warn("rejected upload extension",
			slog.String("file", base),
			slog.String("extension", ext))
		return fmt.Errorf("%w: %q (accepted: %s)", ErrUnsupportedExtension, ext, strings.Join(v.extensions, ", "))
	}

	if size == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyFile, base)
	}
	if v.maxBytes > 0 && size > v.maxBytes {
		v.logger.Warn("rejected oversized upload",
			slog.String("file", base),
			slog.Int64("size", size),
			slog.Int64("limit", v.maxBytes))
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, size, v.maxBytes)
	}
	return nil
}

func (v *FileValidator) allowed(ext string) bool {
	for _, e := range v.extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// ValidateWorkbookFile checks a workbook on disk like an upload
func (v *FileValidator) ValidateWorkbookFile(path string) error {
	info, err := v.validateFile(path)
	if err != nil {
		return err
	}
	return v.ValidateUpload(path, info.Size())
}

func (v *FileValidator) validateFile(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("file does not exist", slog.String("file", path))
		return nil, fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("file is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()
	return info, nil
}

// ValidateInputDirectory checks that dir exists and is a directory
func (v *FileValidator) ValidateInputDirectory(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("input directory does not exist", slog.String("directory", dir))
		return fmt.Errorf("input directory %s does not exist", dir)
	}
	if err != nil {
		return fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// ValidateOutputDirectory creates dir if needed and checks it is writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		v.logger.Error("failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".write_test")
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}

// ListWorkbooks returns the accepted workbooks directly inside dir, sorted,
// skipping temporary lock files
func (v *FileValidator) ListWorkbooks(dir string) ([]string, error) {
	if err := v.ValidateInputDirectory(dir); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "~$") {
			continue
		}
		if v.allowed(strings.ToLower(filepath.Ext(name))) {
			files = append(files, filepath.Join(dir, name))
		}
	}
	sort.Strings(files)

	v.logger.Debug("workbooks listed",
		slog.String("directory", dir),
		slog.Int("count", len(files)))
	return files, nil
}
