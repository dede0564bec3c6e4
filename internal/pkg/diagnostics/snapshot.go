// Package diagnostics saves page snapshots for offline debugging of extraction phases.
package diagnostics

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Vodeneev/matchsync/internal/parser/page"
)

// Snapshot kinds, used as the file name suffix.
const (
	KindDebug = "debug" // phase produced nothing
	KindError = "error" // phase aborted
)

// Recorder writes <source>_<kind><ext> files into a directory.
type Recorder interface {
	Record(ctx context.Context, src page.Snapshotter, source, kind string) (string, error)
}

type FileRecorder struct {
	dir string
}

func NewFileRecorder(dir string) *FileRecorder {
	if dir == "" {
		dir = "."
	}
	return &FileRecorder{dir: dir}
}

// Record captures src and writes it, returning the written path. Snapshots never affect control
// flow, so callers usually only log the error.
func (r *FileRecorder) Record(ctx context.Context, src page.Snapshotter, source, kind string) (string, error) {
	data, ext, err := src.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("capture snapshot: %w", err)
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(r.dir, fileName(source, kind, ext))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	slog.Info("Snapshot saved", "source", source, "kind", kind, "path", path)
	return path, nil
}

func fileName(source, kind, ext string) string {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ':' || r == ' ' {
			return '_'
		}
		return r
	}, strings.ToLower(strings.TrimSpace(source)))
	if name == "" {
		name = "page"
	}
	return name + "_" + kind + ext
}

// Disabled drops every snapshot.
type Disabled struct{}

func (Disabled) Record(context.Context, page.Snapshotter, string, string) (string, error) {
	return "", nil
}
