package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mandatemap/internal/customlink"
	linkService "mandatemap/internal/customlink/service"
)

// The handler tests run against the real service and memory store; the
// validation and keying behavior is part of the HTTP contract.
func newRouter(t *testing.T) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := linkService.New(customlink.NewInMemoryStore(customlink.KeyModeExact), logger, nil)
	r := chi.NewRouter()
	New(svc, logger, nil).Register(r)
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

func createLink(t *testing.T, r chi.Router) string {
	t.Helper()
	w := postJSON(t, r, "/custom-links", customlink.CreateRequest{
		CountryCode: "DEU",
		LinkType:    "legislation",
		OriginalURL: "https://example.gov/old",
		CustomURL:   "https://example.gov/new",
		Title:       "Updated legislation portal",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["data"].(map[string]any)["id"].(string)
}

func TestCreateThenListByCountry(t *testing.T) {
	r := newRouter(t)
	createLink(t, r)

	req := httptest.NewRequest(http.MethodGet, "/custom-links?countryCode=deu", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].([]any)
	require.Len(t, data, 1)
	link := data[0].(map[string]any)
	assert.Equal(t, "DEU", link["countryCode"])
	assert.Equal(t, "https://example.gov/new", link["customUrl"])
}

func TestListRequiresCountryCode(t *testing.T) {
	r := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/custom-links", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	errBody := resp["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_ERROR", errBody["code"])
}

func TestCreateRejectsInvalidPayload(t *testing.T) {
	r := newRouter(t)

	w := postJSON(t, r, "/custom-links", customlink.CreateRequest{
		CountryCode: "DEU",
		LinkType:    "blog", // not a valid slot
		CustomURL:   "not-a-url",
		Title:       "",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	errBody := resp["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_ERROR", errBody["code"])
	details := errBody["details"].(map[string]any)
	assert.Contains(t, details, "linkType")
	assert.Contains(t, details, "customUrl")
	assert.Contains(t, details, "title")
}

func TestCreateRejectsMalformedJSON(t *testing.T) {
	r := newRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/custom-links", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteIsIdempotent(t *testing.T) {
	r := newRouter(t)
	id := createLink(t, r)

	for i, wantDeleted := range []bool{true, false} {
		req := httptest.NewRequest(http.MethodDelete, "/custom-links/"+id, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, "attempt %d", i)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp["data"].(map[string]any)
		assert.Equal(t, wantDeleted, data["deleted"], "attempt %d", i)
	}
}

func TestResolveMatchesExactKeyOnly(t *testing.T) {
	r := newRouter(t)
	createLink(t, r)

	w := postJSON(t, r, "/custom-links/resolve", ResolveRequest{
		CountryCode: "deu",
		LinkType:    "legislation",
		OriginalURL: "https://example.gov/old",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]any)
	assert.Equal(t, true, data["shouldUseCustom"])
	assert.Equal(t, "https://example.gov/new", data["customUrl"])

	// A different original URL is a different key; no override applies and
	// customUrl is an explicit null.
	w = postJSON(t, r, "/custom-links/resolve", ResolveRequest{
		CountryCode: "deu",
		LinkType:    "legislation",
		OriginalURL: "https://example.gov/moved",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data = resp["data"].(map[string]any)
	assert.Equal(t, false, data["shouldUseCustom"])
	assert.Nil(t, data["customUrl"])
}

func TestResolveValidatesLinkType(t *testing.T) {
	r := newRouter(t)

	w := postJSON(t, r, "/custom-links/resolve", ResolveRequest{
		CountryCode: "DEU",
		LinkType:    "wiki",
		OriginalURL: "https://example.gov/old",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
