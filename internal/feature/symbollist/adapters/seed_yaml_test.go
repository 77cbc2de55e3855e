package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_chart/internal/feature/symbollist/domain/entity"
)

func TestParseSeed(t *testing.T) {
	t.Parallel()

	doc := []byte(`
symbols:
  - code: aapl
    name: Apple
    market: NASDAQ
  - code: MSFT
    market: NASDAQ
    sort_key: 10
  - code: 7203.T
    name: Toyota Motor
    market: TSE
    active: false
`)

	got, err := ParseSeed(doc)

	require.NoError(t, err)
	assert.Equal(t, []entity.Symbol{
		{Code: "AAPL", Name: "Apple", Market: "NASDAQ", IsActive: true, SortKey: 1},
		{Code: "MSFT", Name: "MSFT", Market: "NASDAQ", IsActive: true, SortKey: 10},
		{Code: "7203.T", Name: "Toyota Motor", Market: "TSE", IsActive: false, SortKey: 3},
	}, got)
}

func TestParseSeed_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		msg  string
	}{
		{"invalid yaml", "symbols: [", "parse watchlist seed"},
		{"missing code", "symbols:\n  - name: Nameless\n", "entry 1 has no code"},
		{"duplicate code", "symbols:\n  - code: AAPL\n  - code: aapl\n", `duplicate code "AAPL"`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseSeed([]byte(tt.doc))
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}

func TestLoadSeedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "watchlist.yaml")
	require.NoError(t, os.WriteFile(path, []byte("symbols:\n  - code: AAPL\n    name: Apple\n    market: NASDAQ\n"), 0o600))

	got, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "AAPL", got[0].Code)

	_, err = LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read watchlist seed")
}

func TestLoadSeedFile_RepositoryFile(t *testing.T) {
	t.Parallel()

	got, err := LoadSeedFile(filepath.Join("..", "..", "..", "..", "configs", "watchlist.yaml"))

	require.NoError(t, err)
	assert.NotEmpty(t, got)
}
