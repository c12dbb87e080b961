package google

import (
	"bytes"
	"context"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/jhoicas/crm-api/internal/application/recruitment"
)

var _ recruitment.FileSink = (*DriveSink)(nil)

// DriveSink sube hojas de vida a una carpeta de Google Drive (compatible con unidades compartidas).
type DriveSink struct {
	svc      *drive.Service
	folderID string
}

// NewDriveSink crea el cliente de Drive con alcance de archivo.
func NewDriveSink(ctx context.Context, folderID string, opts ...option.ClientOption) (*DriveSink, error) {
	opts = append([]option.ClientOption{option.WithScopes(drive.DriveFileScope)}, opts...)
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("drive: %w", err)
	}
	return &DriveSink{svc: svc, folderID: folderID}, nil
}

// Upload crea el archivo y devuelve su id y enlace de visualización.
func (s *DriveSink) Upload(ctx context.Context, name, contentType string, data []byte) (string, string, error) {
	meta := &drive.File{Name: name, MimeType: contentType}
	if s.folderID != "" {
		meta.Parents = []string{s.folderID}
	}
	f, err := s.svc.Files.Create(meta).
		Media(bytes.NewReader(data), googleapi.ContentType(contentType)).
		SupportsAllDrives(true).
		Fields("id", "webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return "", "", fmt.Errorf("drive upload %s: %w", name, err)
	}
	link := f.WebViewLink
	if link == "" {
		link = "https://drive.google.com/file/d/" + f.Id + "/view"
	}
	return f.Id, link, nil
}
