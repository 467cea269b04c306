package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mandatemap/pkg/apierrors"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	return env
}

func TestWriteData(t *testing.T) {
	w := httptest.NewRecorder()
	WriteData(w, map[string]string{"id": "DEU"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	env := decode(t, w)
	assert.True(t, env.Success)
	assert.Nil(t, env.Error)
	require.NotNil(t, env.Meta)
	assert.NotEmpty(t, env.Meta.Timestamp)
}

func TestWriteDataMetaPagination(t *testing.T) {
	w := httptest.NewRecorder()
	WriteDataMeta(w, []string{"a"}, PageMeta(195, 2, 50))

	env := decode(t, w)
	require.NotNil(t, env.Meta)
	require.NotNil(t, env.Meta.Total)
	assert.Equal(t, 195, *env.Meta.Total)
	assert.Equal(t, 2, *env.Meta.Page)
	assert.Equal(t, 50, *env.Meta.Limit)
	assert.NotEmpty(t, env.Meta.Timestamp)
}

func TestWriteErrorMapsCode(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, apierrors.New(apierrors.CodeCountryNotFound, "country ZZZ not found"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decode(t, w)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "COUNTRY_NOT_FOUND", env.Error.Code)
	assert.Equal(t, "country ZZZ not found", env.Error.Message)
}

func TestWriteErrorInternalOmitsDetail(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", env.Error.Code)
	assert.Equal(t, "internal server error", env.Error.Message)
}

func TestWriteErrorValidationDetails(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, apierrors.New(apierrors.CodeValidation, "invalid request").
		WithDetails(map[string]string{"customUrl": "must be an absolute URL"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "must be an absolute URL", env.Error.Details["customUrl"])
}
