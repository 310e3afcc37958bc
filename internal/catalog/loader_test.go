package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoader(t *testing.T, opts ...Option) *Loader {
	t.Helper()
	l, err := NewLoader(opts...)
	require.NoError(t, err)
	return l
}

func TestLoadJSON(t *testing.T) {
	l := newTestLoader(t)

	samples, err := l.Load(context.Background(), "testdata/waters.json")
	require.NoError(t, err)
	require.Len(t, samples, 12)

	assert.Equal(t, "Mont Roucous", samples[0].Name)
	assert.Equal(t, "Tarn", samples[0].Source)
	assert.Equal(t, 25.0, samples[0].Residue)
	assert.Equal(t, 1.9, samples[0].Nitrates)
	assert.Equal(t, 2.7, samples[0].Sodium)
	assert.Equal(t, "Vichy Célestins", samples[11].Name)
}

func TestLoadYAML(t *testing.T) {
	l := newTestLoader(t)

	samples, err := l.Load(context.Background(), "testdata/waters.yaml")
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, "Volvic", samples[1].Name)
	assert.Equal(t, 11.6, samples[1].Sodium)
}

func TestLoadEmptyCatalogIsNotAnError(t *testing.T) {
	l := newTestLoader(t)

	samples, err := l.Load(context.Background(), "testdata/empty.json")
	require.NoError(t, err)
	assert.NotNil(t, samples)
	assert.Empty(t, samples)
}

func TestLoadGlobConcatenatesInPathOrder(t *testing.T) {
	l := newTestLoader(t)

	samples, err := l.Load(context.Background(), "testdata/multi/**/*.{json,yaml}")
	require.NoError(t, err)

	names := make([]string, len(samples))
	for i, s := range samples {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"A1", "C1", "B1"}, names)
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"missing file", "testdata/does-not-exist.json"},
		{"malformed document", "testdata/malformed.json"},
		{"no glob matches", "testdata/*.toml"},
		{"empty source", "  "},
	}

	l := newTestLoader(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples, err := l.Load(context.Background(), tt.source)
			assert.Nil(t, samples)
			assert.ErrorIs(t, err, ErrCatalogLoad)
		})
	}
}

func TestLoadSchemaViolations(t *testing.T) {
	l := newTestLoader(t)

	_, err := l.Load(context.Background(), "testdata/invalid.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCatalogLoad)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	require.Len(t, schemaErr.Issues, 3)

	assert.Equal(t, 1, schemaErr.Issues[0].Index)
	assert.Equal(t, "Negative", schemaErr.Issues[0].Name)
	assert.Equal(t, 2, schemaErr.Issues[1].Index)
	assert.Equal(t, 3, schemaErr.Issues[2].Index)
	assert.Contains(t, schemaErr.Error(), "3 schema violations")
}

func TestLoadNormalizesNames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "decomposed.json")
	doc := "[{\"name\": \" He\u0301par \", \"source\": \"Vosges\", \"residue\": 2513, \"nitrates\": 4.3, \"sodium\": 14.2}]"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	samples, err := newTestLoader(t).Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, "H\u00e9par", samples[0].Name)
}

func TestLoadRejectsBlankNames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blank.json")
	doc := "[{\"name\": \"Evian\", \"source\": \"x\", \"residue\": 345, \"nitrates\": 3.8, \"sodium\": 6.5}," +
		" {\"name\": \"   \", \"source\": \"x\", \"residue\": 1, \"nitrates\": 1, \"sodium\": 1}," +
		" {\"name\": \"\\t\u00a0\\n\", \"source\": \"x\", \"residue\": 1, \"nitrates\": 1, \"sodium\": 1}]"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	samples, err := newTestLoader(t).Load(context.Background(), path)
	require.Error(t, err)
	assert.Nil(t, samples)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	require.Len(t, schemaErr.Issues, 2)
	assert.Equal(t, 1, schemaErr.Issues[0].Index)
	assert.Equal(t, 2, schemaErr.Issues[1].Index)
}

func TestLoadURL(t *testing.T) {
	body, err := os.ReadFile("testdata/waters.json")
	require.NoError(t, err)

	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		switch r.URL.Path {
		case "/data/waters.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(body)
		case "/data/waters.yaml":
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write([]byte("- {name: Y, source: y, residue: 1, nitrates: 1, sodium: 1}\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := newTestLoader(t, WithHTTPClient(srv.Client()))

	samples, err := l.Load(context.Background(), srv.URL+"/data/waters.json")
	require.NoError(t, err)
	assert.Len(t, samples, 12)
	assert.Equal(t, int32(1), requests.Load(), "catalog must be fetched exactly once")

	samples, err = l.Load(context.Background(), srv.URL+"/data/waters.yaml")
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, "Y", samples[0].Name)

	_, err = l.Load(context.Background(), srv.URL+"/missing.json")
	assert.ErrorIs(t, err, ErrCatalogLoad)
	assert.Contains(t, err.Error(), "404")
}

func TestLoadHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestLoader(t).Load(ctx, "testdata/waters.json")
	assert.ErrorIs(t, err, ErrCatalogLoad)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, formatFromPath("a/b.yaml"))
	assert.Equal(t, FormatYAML, formatFromPath("B.YML"))
	assert.Equal(t, FormatJSON, formatFromPath("waters.json"))
	assert.Equal(t, FormatJSON, formatFromPath("waters"))
}
