package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/pratik-mahalle/nutriscan/internal/config"
)

// Sink stores a rendered export and returns where it went
type Sink interface {
	Name() string
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// New builds the sink named by cfg. It returns nil for "none".
func New(ctx context.Context, cfg config.ExportConfig) (Sink, error) {
	switch cfg.Sink {
	case "", "none":
		return nil, nil
	case "local":
		return NewLocalSink(cfg.Dir), nil
	case "s3":
		return NewS3Sink(ctx, cfg.Bucket, cfg.Region)
	case "gcs":
		return NewGCSSink(ctx, cfg.Bucket)
	default:
		return nil, fmt.Errorf("unsupported export sink: %s", cfg.Sink)
	}
}

// ObjectKey names an export object after its owner, e.g.
// exports/jane-doe-20240102T030405Z.csv
func ObjectKey(prefix, displayName, userID string, format Format, at time.Time) string {
	owner := slug.Make(displayName)
	if owner == "" {
		owner = slug.Make(userID)
	}
	name := fmt.Sprintf("%s-%s.%s", owner, at.UTC().Format("20060102T150405Z"), format)
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// LocalSink writes exports below a directory
type LocalSink struct {
	dir string
}

func NewLocalSink(dir string) *LocalSink {
	return &LocalSink{dir: dir}
}

func (s *LocalSink) Name() string { return "local" }

func (s *LocalSink) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
