package google_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/jhoicas/crm-api/internal/infrastructure/google"
)

func TestSheetsSink_AppendRow(t *testing.T) {
	var gotPath, gotBody, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"spreadsheetId":"hoja-1"}`)
	}))
	defer srv.Close()

	sink, err := google.NewSheetsSink(context.Background(), "hoja-1", "Postulaciones!A:H",
		option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication(), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	err = sink.AppendRow(context.Background(), []any{"2026-01-02", "Cajero", "Ana"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(gotPath, "/v4/spreadsheets/hoja-1/values/"), gotPath)
	assert.Contains(t, gotPath, ":append")
	assert.Contains(t, gotQuery, "valueInputOption=USER_ENTERED")
	assert.Contains(t, gotBody, `"Cajero"`)
}

func TestSheetsSink_ErrorDelServicio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"code":429,"message":"quota"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	sink, err := google.NewSheetsSink(context.Background(), "hoja-1", "A:H",
		option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication(), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	assert.Error(t, sink.AppendRow(context.Background(), []any{"x"}))
}

func TestClientOptions(t *testing.T) {
	assert.Empty(t, google.ClientOptions(configWith("")))
	assert.Len(t, google.ClientOptions(configWith(`{"type":"service_account"}`)), 1)
}
