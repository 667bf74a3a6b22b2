package promo

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for reading gzipped voucher lists from the
// local file system. Lists contain one code per line.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based voucher loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "voucher-loader").Logger(),
	}
}

// Load reads a gzipped voucher list and returns a VoucherSet.
func (l *fileLoader) Load(ctx context.Context, path string) (VoucherSet, error) {
	l.logger.Info().Str("file", path).Msg("loading voucher list")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open voucher list")
		return nil, fmt.Errorf("failed to open voucher list %s: %w", path, err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", path, err)
	}
	defer gzipReader.Close()

	set := NewMapVoucherSet(1024).(*mapVoucherSet)

	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineCount := 0
	for scanner.Scan() {
		// Lists can be large; honour cancellation periodically.
		if lineCount%100_000 == 0 {
			select {
			case <-ctx.Done():
				l.logger.Warn().Str("file", path).Msg("voucher loading cancelled")
				return nil, ctx.Err()
			default:
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			set.Add(line)
			lineCount++
		}
	}

	if err := scanner.Err(); err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("error reading voucher list")
		return nil, fmt.Errorf("error reading voucher list %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("codes_loaded", set.Size()).
		Msg("voucher list loaded")

	return set, nil
}
