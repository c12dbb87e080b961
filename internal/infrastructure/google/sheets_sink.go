package google

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/jhoicas/crm-api/internal/application/recruitment"
)

var _ recruitment.RowSink = (*SheetsSink)(nil)

// SheetsSink anexa filas al final de un rango de una hoja de cálculo.
type SheetsSink struct {
	svc           *sheets.Service
	spreadsheetID string
	rng           string
}

func NewSheetsSink(ctx context.Context, spreadsheetID, rng string, opts ...option.ClientOption) (*SheetsSink, error) {
	opts = append([]option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}, opts...)
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: %w", err)
	}
	return &SheetsSink{svc: svc, spreadsheetID: spreadsheetID, rng: rng}, nil
}

// AppendRow agrega una fila; los valores se interpretan como si un usuario los escribiera.
func (s *SheetsSink) AppendRow(ctx context.Context, values []any) error {
	body := &sheets.ValueRange{Values: [][]interface{}{values}}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, s.rng, body).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets append: %w", err)
	}
	return nil
}
