package google

import (
	"context"
	"fmt"
	"net/url"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/jhoicas/crm-api/internal/application/recruitment"
)

var _ recruitment.FileSink = (*GCSSink)(nil)

// GCSSink guarda hojas de vida como objetos de Cloud Storage bajo un prefijo.
type GCSSink struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSSink verifica que el bucket exista y sea accesible.
func NewGCSSink(ctx context.Context, bucket string, opts ...option.ClientOption) (*GCSSink, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs: GCS_BUCKET es obligatorio")
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs: %w", err)
	}
	if _, err := client.Bucket(bucket).Attrs(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("gcs bucket %q no accesible: %w", bucket, err)
	}
	return &GCSSink{client: client, bucket: bucket, prefix: "postulaciones/"}, nil
}

// Upload escribe el objeto; el id es gs://bucket/objeto y el enlace la URL autenticada de consola.
func (s *GCSSink) Upload(ctx context.Context, name, contentType string, data []byte) (string, string, error) {
	object := s.prefix + name
	w := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", "", fmt.Errorf("gcs write %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", "", fmt.Errorf("gcs close %s: %w", object, err)
	}
	link := fmt.Sprintf("https://storage.cloud.google.com/%s/%s", s.bucket, (&url.URL{Path: object}).EscapedPath())
	return fmt.Sprintf("gs://%s/%s", s.bucket, object), link, nil
}

// Close libera el cliente.
func (s *GCSSink) Close() error { return s.client.Close() }
