// Package loader extracts a feed package into an in-memory file set.
package loader

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/domain"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/gtfs"
)

// DefaultMaxBytes bounds both the archive and its uncompressed content.
const DefaultMaxBytes = 512 << 20

// Loader reads feed packages. The zero value uses DefaultMaxBytes.
type Loader struct {
	MaxBytes int64
	Log      *slog.Logger
}

// New creates a loader with the given size limit.
func New(maxBytes int64, log *slog.Logger) *Loader {
	return &Loader{MaxBytes: maxBytes, Log: log}
}

func (l *Loader) limit() int64 {
	if l == nil || l.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return l.MaxBytes
}

func (l *Loader) logger() *slog.Logger {
	if l == nil || l.Log == nil {
		return slog.Default()
	}
	return l.Log
}

// FromPath loads a zip archive or a directory.
func (l *Loader) FromPath(p string) (gtfs.MapFiles, error) {
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrFeedNotFound, p)
		}
		return nil, fmt.Errorf("stat %s: %w", p, err)
	}
	if info.IsDir() {
		return l.FromDir(p)
	}
	if !strings.EqualFold(filepath.Ext(p), ".zip") {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, filepath.Ext(p))
	}
	if info.Size() > l.limit() {
		return nil, fmt.Errorf("%w: %d bytes", domain.ErrArchiveTooLarge, info.Size())
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}
	return l.FromZip(data)
}

// FromZip extracts the top-level files of a zip archive. Directory entries
// and files in subfolders are skipped; an archive holding its feed only
// inside a subfolder is rejected.
func (l *Loader) FromZip(data []byte) (gtfs.MapFiles, error) {
	max := l.limit()
	if int64(len(data)) > max {
		return nil, fmt.Errorf("%w: %d bytes", domain.ErrArchiveTooLarge, len(data))
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArchive, err)
	}

	files := gtfs.MapFiles{}
	var nested []string
	var total int64
	for _, f := range zr.File {
		name := f.Name
		if f.FileInfo().IsDir() || strings.HasPrefix(name, "__MACOSX/") {
			continue
		}
		if strings.Contains(name, "/") {
			nested = append(nested, name)
			continue
		}
		b, err := readEntry(f, max-total)
		if err != nil {
			return nil, err
		}
		total += int64(len(b))
		files[name] = b
	}

	if len(files) == 0 && len(nested) > 0 {
		return nil, fmt.Errorf("%w: feed files are inside subfolder %s", domain.ErrInvalidArchive, path.Dir(nested[0]))
	}
	if len(nested) > 0 {
		l.logger().Warn("ignoring files in archive subfolders", "count", len(nested))
	}
	l.logger().Debug("archive extracted", "files", len(files), "bytes", total)
	return files, nil
}

func readEntry(f *zip.File, remaining int64) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidArchive, f.Name, err)
	}
	defer rc.Close()

	b, err := io.ReadAll(io.LimitReader(rc, remaining+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidArchive, f.Name, err)
	}
	if int64(len(b)) > remaining {
		return nil, fmt.Errorf("%w: uncompressed content", domain.ErrArchiveTooLarge)
	}
	return b, nil
}

// FromDir loads the regular files directly inside dir.
func (l *Loader) FromDir(dir string) (gtfs.MapFiles, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrFeedNotFound, dir)
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	files := gtfs.MapFiles{}
	var total int64
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		total += int64(len(b))
		if total > l.limit() {
			return nil, fmt.Errorf("%w: directory content", domain.ErrArchiveTooLarge)
		}
		files[e.Name()] = b
	}
	l.logger().Debug("directory loaded", "dir", dir, "files", len(files), "bytes", total)
	return files, nil
}
