package filemanager

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrInvalidPath is returned for paths that escape the storage root.
var ErrInvalidPath = errors.New("invalid file path")

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Manager is a plain blob store over a local directory tree.
type Manager struct {
	baseDir string
	logger  *zap.Logger
}

// FileInfo describes one stored file, with its path relative to the root.
type FileInfo struct {
	Path     string    `json:"path"`
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// CleanupReport summarizes an age-based cleanup pass.
type CleanupReport struct {
	Action      string     `json:"action"`
	FilesFound  int        `json:"files_found"`
	TotalSizeMB float64    `json:"total_size_mb"`
	CutoffDate  time.Time  `json:"cutoff_date"`
	Files       []FileInfo `json:"files"`
	DryRun      bool       `json:"dry_run"`
}

func New(baseDir string, logger *zap.Logger) (*Manager, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root %s: %w", abs, err)
	}
	return &Manager{baseDir: abs, logger: logger}, nil
}

// BaseDir returns the absolute storage root.
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// SanitizeFilename strips directory components and unsafe characters from an
// uploaded filename. Returns "" when nothing safe remains.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" || name == "." || name == ".." {
		return ""
	}
	return name
}

// SaveUpload writes an uploaded file under the storage root and returns its
// absolute path.
func (m *Manager) SaveUpload(filename string, r io.Reader) (string, error) {
	name := SanitizeFilename(filename)
	if name == "" {
		return "", ErrInvalidPath
	}
	path := filepath.Join(m.baseDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return path, nil
}

// List walks the storage root and returns every stored file.
func (m *Manager) List() ([]FileInfo, error) {
	files := []FileInfo{}
	err := filepath.WalkDir(m.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			m.logger.Warn("failed to read entry during list", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			m.logger.Warn("failed to stat file during list", zap.String("path", path), zap.Error(err))
			return nil
		}
		rel, err := filepath.Rel(m.baseDir, path)
		if err != nil {
			return nil
		}
		files = append(files, FileInfo{
			Path:     rel,
			Name:     d.Name(),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Resolve maps a relative path onto the storage root, rejecting anything
// that would escape it.
func (m *Manager) Resolve(rel string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(rel))
	full := filepath.Join(m.baseDir, clean)
	if full != m.baseDir && !strings.HasPrefix(full, m.baseDir+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}
	return full, nil
}

// Delete removes a single stored file.
func (m *Manager) Delete(rel string) error {
	full, err := m.Resolve(rel)
	if err != nil {
		return err
	}
	info, err := os.Stat(full)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return ErrInvalidPath
	}
	return os.Remove(full)
}

// CleanupOlderThan walks the storage root and removes files whose
// last-modified time is older than daysOld days. With dryRun it only reports
// what would be removed. Per-file errors are logged and skipped; they never
// abort the batch.
func (m *Manager) CleanupOlderThan(daysOld int, dryRun bool) (*CleanupReport, error) {
	cutoff := time.Now().Add(-time.Duration(daysOld) * 24 * time.Hour)

	report := &CleanupReport{
		CutoffDate: cutoff,
		DryRun:     dryRun,
		Files:      []FileInfo{},
	}
	if dryRun {
		report.Action = "cleanup simulated"
	} else {
		report.Action = "cleanup executed"
	}

	var totalSize int64
	err := filepath.WalkDir(m.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			m.logger.Warn("failed to read entry during cleanup", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			m.logger.Warn("failed to stat file during cleanup", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !info.ModTime().Before(cutoff) {
			return nil
		}

		rel, relErr := filepath.Rel(m.baseDir, path)
		if relErr != nil {
			rel = path
		}
		report.FilesFound++
		totalSize += info.Size()
		if dryRun {
			report.Files = append(report.Files, FileInfo{
				Path:     rel,
				Name:     d.Name(),
				Size:     info.Size(),
				Modified: info.ModTime(),
			})
			return nil
		}

		if err := os.Remove(path); err != nil {
			m.logger.Warn("failed to remove file during cleanup", zap.String("path", path), zap.Error(err))
			return nil
		}
		m.logger.Info("removed old file", zap.String("path", rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	report.TotalSizeMB = math.Round(float64(totalSize)/(1024*1024)*100) / 100
	return report, nil
}
