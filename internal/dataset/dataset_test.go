package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mandatemap/internal/country"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func openStore(t *testing.T, countriesPath, compliancePath string) *Store {
	t.Helper()
	store, err := Open(context.Background(), countriesPath, compliancePath)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = store.Close(ctx)
	})
	return store
}

func TestOpenLoadsBothFiles(t *testing.T) {
	dir := t.TempDir()
	countries := filepath.Join(dir, "countries.json")
	compliance := filepath.Join(dir, "compliance.json")
	writeFile(t, countries, `[{"isoCode3":"DEU","isoCode2":"DE","name":"Germany","continent":"Europe"}]`)
	writeFile(t, compliance, `[{"isoCode3":"DEU","b2g":{"status":"mandated"},"lastUpdated":"2024-01-01T00:00:00Z"}]`)

	store := openStore(t, countries, compliance)

	identities := store.Identities()
	require.Len(t, identities, 1)
	assert.Equal(t, "Germany", identities[0].Name)

	records := store.Compliance()
	require.Len(t, records, 1)
	assert.Equal(t, country.StatusMandated, records[0].B2G.Status)
}

func TestOpenMissingComplianceStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	countries := filepath.Join(dir, "countries.json")
	writeFile(t, countries, `[{"isoCode3":"FRA","name":"France"}]`)

	store := openStore(t, countries, filepath.Join(dir, "missing.json"))

	assert.Empty(t, store.Compliance())
	assert.Len(t, store.Identities(), 1)
}

func TestOpenMissingCountriesFails(t *testing.T) {
	dir := t.TempDir()
	_, err := Open(context.Background(), filepath.Join(dir, "nope.json"), filepath.Join(dir, "compliance.json"))
	assert.Error(t, err)
}

func TestSaveComplianceRoundTrips(t *testing.T) {
	dir := t.TempDir()
	countries := filepath.Join(dir, "countries.json")
	compliance := filepath.Join(dir, "compliance.json")
	writeFile(t, countries, `[{"isoCode3":"FRA","name":"France"}]`)

	store := openStore(t, countries, compliance)

	ctx := context.Background()
	records := []country.ComplianceRecord{{
		ISOCode3:    "FRA",
		B2G:         country.Channel{Status: country.StatusMandated, ImplementationDate: "2020-04-18"},
		LastUpdated: "2025-01-01T00:00:00Z",
	}}
	require.NoError(t, store.SaveCompliance(ctx, records))

	// Visible in memory immediately.
	assert.Equal(t, country.StatusMandated, store.Compliance()[0].B2G.Status)

	// And persisted to disk for the next process.
	reopened := openStore(t, countries, compliance)
	loaded := reopened.Compliance()
	require.Len(t, loaded, 1)
	assert.Equal(t, "2020-04-18", loaded[0].B2G.ImplementationDate)
}
