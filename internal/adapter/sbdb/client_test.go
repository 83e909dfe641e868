package sbdb

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanya221998/NASA-CEOS/internal/observability"
)

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func testClient(baseURL string) *Client {
	c := NewClient(baseURL, 5*time.Second, 0, testMetrics(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	return c
}

func TestLookupMOID_ObjectStyleElements(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2021 GT2", r.URL.Query().Get("sstr"))
		assert.Equal(t, "false", r.URL.Query().Get("phys-par"))
		_, _ = w.Write([]byte(`{"orbit":{"elements":{"moid":"0.0123","e":"0.5"}}}`))
	}))
	defer srv.Close()

	moid, err := testClient(srv.URL).LookupMOID(context.Background(), "(2021 GT2)")
	require.NoError(t, err)
	require.NotNil(t, moid)
	assert.InDelta(t, 0.0123, *moid, 1e-12)
}

func TestLookupMOID_ListStyleElements(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"orbit":{"elements":[{"name":"e","value":"0.5"},{"name":"moid","value":"0.0456"}]}}`))
	}))
	defer srv.Close()

	moid, err := testClient(srv.URL).LookupMOID(context.Background(), "433")
	require.NoError(t, err)
	require.NotNil(t, moid)
	assert.InDelta(t, 0.0456, *moid, 1e-12)
}

func TestLookupMOID_OrbitLevelFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"orbit":{"moid":0.078}}`))
	}))
	defer srv.Close()

	moid, err := testClient(srv.URL).LookupMOID(context.Background(), "433")
	require.NoError(t, err)
	require.NotNil(t, moid)
	assert.InDelta(t, 0.078, *moid, 1e-12)
}

func TestLookupMOID_ValueWithUnits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"orbit":{"elements":{"moid":"0.0123 au"}}}`))
	}))
	defer srv.Close()

	moid, err := testClient(srv.URL).LookupMOID(context.Background(), "433")
	require.NoError(t, err)
	require.NotNil(t, moid)
	assert.InDelta(t, 0.0123, *moid, 1e-12)
}

func TestLookupMOID_NoMOID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"orbit":{"elements":{"e":"0.5"}}}`))
	}))
	defer srv.Close()

	moid, err := testClient(srv.URL).LookupMOID(context.Background(), "433")
	require.NoError(t, err)
	assert.Nil(t, moid)
}

func TestLookupMOID_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).LookupMOID(context.Background(), "433")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestLookupMOID_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).LookupMOID(context.Background(), "433")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestCleanSearchString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain designation", "2021 GT2", "2021 GT2"},
		{"padded", "   433  ", "433"},
		{"outer parens dropped", "(2021 GT2)", "2021 GT2"},
		{"padded parens", "  (2021 GT2) ", "2021 GT2"},
		{"inner whitespace collapsed", "433   Eros", "433 Eros"},
		{"numbered fullname", "   433 Eros (A898 PA)", "433 Eros (A898 PA)"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanSearchString(tt.input))
		})
	}
}

func TestExtractMOID_PrefersElements(t *testing.T) {
	var o orbit
	require.NoError(t, json.Unmarshal([]byte(`{"elements":{"moid":"0.01"},"moid":"0.99"}`), &o))
	moid := extractMOID(o)
	require.NotNil(t, moid)
	assert.InDelta(t, 0.01, *moid, 1e-12)
}
