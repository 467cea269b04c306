package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"mandatemap/internal/country"
	"mandatemap/internal/country/handler/mocks"
	countryService "mandatemap/internal/country/service"
	"mandatemap/pkg/apierrors"
)

//go:generate mockgen -source=handler.go -destination=mocks/country-mocks.go -package=mocks Service
type CountryHandlerSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *CountryHandlerSuite) SetupSuite() {
	s.ctx = context.Background()
}

func TestCountryHandlerSuite(t *testing.T) {
	suite.Run(t, new(CountryHandlerSuite))
}

func newTestRouter(t *testing.T) (chi.Router, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	New(mockService, logger, nil).Register(r)
	return r, mockService
}

func sampleCountries() []country.Country {
	return []country.Country{
		{
			ID: "DEU", Name: "Germany", ISOCode2: "DE", ISOCode3: "DEU", Continent: "Europe",
			EInvoicing: country.EInvoicing{
				B2G: country.Channel{Status: country.StatusMandated, Formats: []country.Format{{Name: "XRechnung", Version: "3.0"}}},
				B2B: country.Channel{Status: country.StatusPlanned, Formats: []country.Format{}},
				B2C: country.Channel{Status: country.StatusNone, Formats: []country.Format{}},
			},
		},
		{
			ID: "FRA", Name: "France", ISOCode2: "FR", ISOCode3: "FRA", Continent: "Europe",
			EInvoicing: country.EInvoicing{
				B2G: country.Channel{Status: country.StatusMandated, Formats: []country.Format{}},
				B2B: country.Channel{Status: country.StatusNone, Formats: []country.Format{}},
				B2C: country.Channel{Status: country.StatusNone, Formats: []country.Format{}},
			},
		},
	}
}

func (s *CountryHandlerSuite) TestListReturnsEnvelopeWithPagination() {
	r, mockService := newTestRouter(s.T())
	mockService.EXPECT().List(gomock.Any(), countryService.ListQuery{Search: "ger", Page: 2, Limit: 25}).
		Return(sampleCountries()[:1], 26, nil)

	req := httptest.NewRequest(http.MethodGet, "/countries?search=ger&page=2&limit=25", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), true, resp["success"])

	data := resp["data"].([]any)
	require.Len(s.T(), data, 1)
	assert.Equal(s.T(), "Germany", data[0].(map[string]any)["name"])

	meta := resp["meta"].(map[string]any)
	assert.Equal(s.T(), float64(26), meta["total"])
	assert.Equal(s.T(), float64(2), meta["page"])
	assert.Equal(s.T(), float64(25), meta["limit"])
	assert.NotEmpty(s.T(), meta["timestamp"])
}

func (s *CountryHandlerSuite) TestListRejectsBadPagination() {
	r, _ := newTestRouter(s.T())

	for _, target := range []string{"/countries?page=zero", "/countries?limit=-3"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(s.T(), http.StatusBadRequest, w.Code, target)
		var resp map[string]any
		require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(s.T(), false, resp["success"])
		errBody := resp["error"].(map[string]any)
		assert.Equal(s.T(), "VALIDATION_ERROR", errBody["code"])
	}
}

func (s *CountryHandlerSuite) TestGetReturnsCountry() {
	r, mockService := newTestRouter(s.T())
	deu := sampleCountries()[0]
	mockService.EXPECT().Get(gomock.Any(), "deu").Return(&deu, nil)

	req := httptest.NewRequest(http.MethodGet, "/countries/deu", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]any)
	assert.Equal(s.T(), "DEU", data["isoCode3"])
	einv := data["eInvoicing"].(map[string]any)
	b2g := einv["b2g"].(map[string]any)
	assert.Equal(s.T(), "mandated", b2g["status"])
}

func (s *CountryHandlerSuite) TestGetUnknownCountryIs404() {
	r, mockService := newTestRouter(s.T())
	mockService.EXPECT().Get(gomock.Any(), "ZZZ").
		Return(nil, apierrors.New(apierrors.CodeCountryNotFound, "country ZZZ not found"))

	req := httptest.NewRequest(http.MethodGet, "/countries/ZZZ", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusNotFound, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	errBody := resp["error"].(map[string]any)
	assert.Equal(s.T(), "COUNTRY_NOT_FOUND", errBody["code"])
}

func (s *CountryHandlerSuite) TestExportCSV() {
	r, mockService := newTestRouter(s.T())
	mockService.EXPECT().All(gomock.Any()).Return(sampleCountries())

	req := httptest.NewRequest(http.MethodGet, "/countries/export?format=csv", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Equal(s.T(), "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(s.T(), w.Header().Get("Content-Disposition"), "attachment")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(s.T(), lines, 3)
	assert.True(s.T(), strings.HasPrefix(lines[0], "isoCode3,isoCode2,name"))
	assert.Contains(s.T(), lines[1], "XRechnung 3.0")
}

func (s *CountryHandlerSuite) TestExportJSON() {
	r, mockService := newTestRouter(s.T())
	mockService.EXPECT().All(gomock.Any()).Return(sampleCountries())

	req := httptest.NewRequest(http.MethodGet, "/countries/export?format=json", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var exported []country.Country
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &exported))
	require.Len(s.T(), exported, 2)
	assert.Equal(s.T(), "France", exported[1].Name)
}

func (s *CountryHandlerSuite) TestExportRejectsUnknownFormat() {
	r, _ := newTestRouter(s.T())

	req := httptest.NewRequest(http.MethodGet, "/countries/export?format=xml", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}
