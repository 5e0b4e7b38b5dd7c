package export

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSSink uploads exports to a Cloud Storage bucket
type GCSSink struct {
	client *storage.Client
	bucket string
}

// NewGCSSink uses application default credentials unless
// EXPORT_GCP_CREDENTIALS_FILE points at a service account key.
func NewGCSSink(ctx context.Context, bucket string) (*GCSSink, error) {
	var opts []option.ClientOption
	if path := lookupEnv("EXPORT_GCP_CREDENTIALS_FILE"); path != "" {
		opts = append(opts, option.WithCredentialsFile(path))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &GCSSink{client: client, bucket: bucket}, nil
}

func (s *GCSSink) Name() string { return "gcs" }

func (s *GCSSink) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload to gcs: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload to gcs: %w", err)
	}
	return fmt.Sprintf("gs://%s/%s", s.bucket, key), nil
}

func lookupEnv(key string) string {
	return os.Getenv(key)
}
