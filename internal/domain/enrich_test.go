package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockMOIDProvider struct {
	moid *float64
	err  error

	calls []string
}

func (m *mockMOIDProvider) LookupMOID(_ context.Context, designation string) (*float64, error) {
	m.calls = append(m.calls, designation)
	return m.moid, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnrichWithMOID(t *testing.T) {
	h := 18.0
	rec := ApproachRecord{Designation: "433", H: &h}

	t.Run("moid found flags a bright close-orbit object", func(t *testing.T) {
		provider := &mockMOIDProvider{moid: floatPtr(0.02)}

		got := EnrichWithMOID(context.Background(), rec, provider, discardLogger())

		require.NotNil(t, got.MOIDAU)
		assert.Equal(t, 0.02, *got.MOIDAU)
		assert.True(t, got.PHA)
		assert.Equal(t, []string{"433"}, provider.calls)
	})

	t.Run("provider has no moid for the object", func(t *testing.T) {
		provider := &mockMOIDProvider{}

		got := EnrichWithMOID(context.Background(), rec, provider, discardLogger())

		assert.Nil(t, got.MOIDAU)
		assert.False(t, got.PHA)
	})

	t.Run("lookup failure degrades to no moid", func(t *testing.T) {
		provider := &mockMOIDProvider{err: errors.New("sbdb: 503")}

		got := EnrichWithMOID(context.Background(), rec, provider, discardLogger())

		assert.Nil(t, got.MOIDAU)
		assert.False(t, got.PHA)
	})

	t.Run("nil provider leaves the record alone", func(t *testing.T) {
		got := EnrichWithMOID(context.Background(), rec, nil, discardLogger())

		assert.Equal(t, rec, got)
	})
}
