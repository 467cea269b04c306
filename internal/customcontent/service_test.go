package customcontent

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mandatemap/pkg/apierrors"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	store, err := NewFileStore(filepath.Join(dir, "formats.json"), filepath.Join(dir, "legislation.json"))
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = store.Close(ctx)
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, logger, nil)
}

func TestSubmitFormatAutoApproves(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	format, err := svc.SubmitFormat(ctx, FormatRequest{
		CountryCode: "mex",
		Name:        "CFDI",
		URL:         "https://www.sat.gob.mx/cfdi",
		Authority:   "SAT",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, format.ID)
	assert.Equal(t, "MEX", format.CountryCode)
	assert.Equal(t, StatusApproved, format.Status)

	formats, err := svc.ListFormats(ctx)
	require.NoError(t, err)
	require.Len(t, formats, 1)
	assert.Equal(t, format.ID, formats[0].ID)
}

func TestSubmitLegislationValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.SubmitLegislation(ctx, LegislationRequest{CountryCode: "", Name: ""})
	require.Error(t, err)
	assert.True(t, apierrors.Is(err, apierrors.CodeValidation))

	var apiErr *apierrors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Details, "countryCode")
	assert.Contains(t, apiErr.Details, "name")

	_, err = svc.SubmitLegislation(ctx, LegislationRequest{
		CountryCode: "FRA",
		Name:        "Ordonnance 2021-1190",
		URL:         "not-a-url",
	})
	require.Error(t, err)
	assert.True(t, apierrors.Is(err, apierrors.CodeValidation))
}

func TestSubmissionsAreAppendOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Factur-X", "ZUGFeRD", "XRechnung"} {
		_, err := svc.SubmitFormat(ctx, FormatRequest{CountryCode: "DEU", Name: name})
		require.NoError(t, err)
	}

	formats, err := svc.ListFormats(ctx)
	require.NoError(t, err)
	require.Len(t, formats, 3)
	assert.Equal(t, "Factur-X", formats[0].Name)
	assert.Equal(t, "XRechnung", formats[2].Name)
}

func TestListEmptyReturnsEmptySlice(t *testing.T) {
	svc := newTestService(t)

	formats, err := svc.ListFormats(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, formats)
	assert.Empty(t, formats)
}
