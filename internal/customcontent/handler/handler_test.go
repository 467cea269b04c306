package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mandatemap/internal/customcontent"
)

func newRouter(t *testing.T) chi.Router {
	t.Helper()
	dir := t.TempDir()
	store, err := customcontent.NewFileStore(
		filepath.Join(dir, "formats.json"),
		filepath.Join(dir, "legislation.json"),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = store.Close(ctx)
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := customcontent.NewService(store, logger, nil)
	r := chi.NewRouter()
	New(svc, logger).Register(r)
	return r
}

func postJSON(t *testing.T, r chi.Router, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func getJSON(t *testing.T, r chi.Router, target string) map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSubmitFormatIsAutoApproved(t *testing.T) {
	r := newRouter(t)

	w := postJSON(t, r, "/custom-content/formats", customcontent.FormatRequest{
		CountryCode: "ita",
		Name:        "FatturaPA",
		URL:         "https://www.fatturapa.gov.it",
		Authority:   "Agenzia delle Entrate",
	})

	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]any)
	assert.Equal(t, "ITA", data["countryCode"])
	assert.Equal(t, "approved", data["status"])
	assert.NotEmpty(t, data["id"])

	listed := getJSON(t, r, "/custom-content/formats")
	assert.Len(t, listed["data"], 1)
}

func TestSubmitLegislationRoundTrip(t *testing.T) {
	r := newRouter(t)

	w := postJSON(t, r, "/custom-content/legislation", customcontent.LegislationRequest{
		CountryCode:  "POL",
		Name:         "KSeF Act",
		Jurisdiction: "national",
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	listed := getJSON(t, r, "/custom-content/legislation")
	data := listed["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "KSeF Act", data[0].(map[string]any)["name"])
}

func TestSubmitRejectsInvalidPayloads(t *testing.T) {
	r := newRouter(t)

	w := postJSON(t, r, "/custom-content/formats", customcontent.FormatRequest{
		Name: "",
		URL:  "ftp://nope",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	details := resp["error"].(map[string]any)["details"].(map[string]any)
	assert.Contains(t, details, "countryCode")
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "url")

	req := httptest.NewRequest(http.MethodPost, "/custom-content/legislation", bytes.NewReader([]byte("nope")))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListsStartEmpty(t *testing.T) {
	r := newRouter(t)

	formats := getJSON(t, r, "/custom-content/formats")
	legislation := getJSON(t, r, "/custom-content/legislation")

	assert.Equal(t, []any{}, formats["data"])
	assert.Equal(t, []any{}, legislation["data"])
}
