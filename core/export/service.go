package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fabric-sync/core/inventory"
	"fabric-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Artifact describes one produced export.
type Artifact struct {
	// Path is the file written on local disk.
	Path string `json:"path"`
	// Object is the key in the configured bucket, empty when upload is off.
	Object string `json:"object,omitempty"`
}

var contentTypes = map[string]string{
	"csv":  "text/csv",
	"json": "application/json",
}

// Service renders entity lists into files and uploads them.
type Service struct {
	cfg    Config
	store  storage.Client
	bucket string
	logger *zap.Logger
	now    func() time.Time
}

// NewService builds an export service. store may be nil and bucket empty, in
// which case artifacts stay on disk only.
func NewService(cfg Config, store storage.Client, bucket string, logger *zap.Logger) *Service {
	return &Service{cfg: cfg, store: store, bucket: bucket, logger: logger, now: time.Now}
}

// Export renders the entities in the given format, writes the file under the
// export directory and uploads it when a bucket is configured. The file is
// kept even when the upload fails.
func (s *Service) Export(ctx context.Context, target string, entities []inventory.Entity, format string) (Artifact, error) {
	if !inventory.ValidCategory(target) {
		return Artifact{}, fmt.Errorf("unknown export target %q", target)
	}

	var buf bytes.Buffer
	switch format {
	case "csv":
		if err := writeCSV(&buf, inventory.Category(target), entities); err != nil {
			return Artifact{}, fmt.Errorf("render csv: %w", err)
		}
	case "json":
		if err := writeJSON(&buf, entities); err != nil {
			return Artifact{}, fmt.Errorf("render json: %w", err)
		}
	default:
		return Artifact{}, fmt.Errorf("unknown export format %q", format)
	}

	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return Artifact{}, fmt.Errorf("create export dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.%s", target, s.now().UTC().Format("20060102-150405"), format)
	path := filepath.Join(s.cfg.Dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return Artifact{}, fmt.Errorf("write export file: %w", err)
	}

	artifact := Artifact{Path: path}
	s.logger.Info("Export written",
		zap.String("target", target),
		zap.String("format", format),
		zap.String("path", path),
		zap.Int("rows", len(entities)))

	if s.uploadEnabled() {
		if err := s.upload(ctx, name, format, buf.Bytes()); err != nil {
			return artifact, fmt.Errorf("upload %s: %w", name, err)
		}
		artifact.Object = name
		s.logger.Info("Export uploaded",
			zap.String("bucket", s.bucket),
			zap.String("object", name))
	}

	if s.cfg.Keep > 0 {
		s.pruneLocal(target, format)
		if s.uploadEnabled() {
			s.pruneObjects(ctx, target, format)
		}
	}
	return artifact, nil
}

func (s *Service) uploadEnabled() bool {
	return s.store != nil && s.bucket != ""
}

func (s *Service) upload(ctx context.Context, name, format string, data []byte) error {
	exists, err := s.store.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := s.store.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return err
		}
	}
	_, err = s.store.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentTypes[format]})
	return err
}

// pruneLocal removes the oldest files beyond Keep for one target and format.
// Timestamped names sort chronologically, so lexical order suffices.
func (s *Service) pruneLocal(target, format string) {
	matches, err := filepath.Glob(filepath.Join(s.cfg.Dir, target+"-*."+format))
	if err != nil || len(matches) <= s.cfg.Keep {
		return
	}
	sort.Strings(matches)
	for _, path := range matches[:len(matches)-s.cfg.Keep] {
		if err := os.Remove(path); err != nil {
			s.logger.Warn("Failed to prune export file",
				zap.String("path", path),
				zap.Error(err))
		}
	}
}

func (s *Service) pruneObjects(ctx context.Context, target, format string) {
	var keys []string
	for info := range s.store.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: target + "-"}) {
		if info.Err != nil {
			s.logger.Warn("Failed to list export objects", zap.Error(info.Err))
			return
		}
		if strings.HasSuffix(info.Key, "."+format) {
			keys = append(keys, info.Key)
		}
	}
	if len(keys) <= s.cfg.Keep {
		return
	}
	sort.Strings(keys)
	for _, key := range keys[:len(keys)-s.cfg.Keep] {
		if err := s.store.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
			s.logger.Warn("Failed to prune export object",
				zap.String("object", key),
				zap.Error(err))
		}
	}
}
