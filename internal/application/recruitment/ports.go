package recruitment

import "context"

// FileSink destino primario de las hojas de vida (Drive o Cloud Storage).
// Devuelve un identificador del archivo y un enlace de visualización.
type FileSink interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (fileID, link string, err error)
}

// RowSink destino secundario de solo-anexar (hoja de cálculo). Sus fallas no afectan la postulación.
type RowSink interface {
	AppendRow(ctx context.Context, values []any) error
}
