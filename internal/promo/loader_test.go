package promo

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeVoucherList writes a gzipped voucher list to a temp file.
func writeVoucherList(t *testing.T, codes []string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "vouchers.gz")
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	gz := gzip.NewWriter(file)
	for _, code := range codes {
		_, err := gz.Write([]byte(code + "\n"))
		require.NoError(t, err)
	}
	require.NoError(t, gz.Close())

	return path
}

func TestFileLoader_Load(t *testing.T) {
	path := writeVoucherList(t, []string{"SUMMER2025", "WINTER2025", "", "  SPRING25X  "})

	loader := NewFileLoader(zerolog.Nop())
	set, err := loader.Load(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, 3, set.Size())
	assert.True(t, set.Contains("SUMMER2025"))
	// Whitespace is trimmed; blank lines are skipped.
	assert.True(t, set.Contains("SPRING25X"))
}

func TestFileLoader_MissingFile(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	_, err := loader.Load(context.Background(), "does/not/exist.gz")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open voucher list")
}

func TestFileLoader_NotGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.gz")
	require.NoError(t, os.WriteFile(path, []byte("SUMMER2025\n"), 0o644))

	loader := NewFileLoader(zerolog.Nop())
	_, err := loader.Load(context.Background(), path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "gzip")
}
