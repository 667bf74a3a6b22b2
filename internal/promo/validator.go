package promo

import (
	"context"
	"fmt"
	"sync"

	"shopcore/internal/model"

	"github.com/rs/zerolog"
)

// ListConfig names one voucher list and the discount tier it grants.
type ListConfig struct {
	Path string
	Pct  int
}

// ValidatorConfig holds configuration for the promo validator. Lists are
// checked in order; the first one containing a code decides its discount.
type ValidatorConfig struct {
	Lists []ListConfig
}

// DefaultValidatorConfig returns the default validator configuration: a
// single 10% voucher list.
func DefaultValidatorConfig() *ValidatorConfig {
	return &ValidatorConfig{
		Lists: []ListConfig{
			{Path: "data/vouchers/vouchers.gz", Pct: 10},
		},
	}
}

// validator implements Validator over read-only voucher sets. Sets are
// loaded once at construction; no mutex is needed afterwards.
type validator struct {
	sets   []VoucherSet
	tiers  []int
	logger zerolog.Logger
}

// NewValidator creates a promo validator, loading all voucher lists
// concurrently at initialisation time.
func NewValidator(ctx context.Context, config *ValidatorConfig, loader Loader, logger zerolog.Logger) (Validator, error) {
	if config == nil {
		config = DefaultValidatorConfig()
	}

	logger = logger.With().Str("component", "promo-validator").Logger()
	logger.Info().Int("list_count", len(config.Lists)).Msg("initialising promo validator")

	type loadResult struct {
		index int
		set   VoucherSet
		err   error
	}

	resultChan := make(chan loadResult, len(config.Lists))
	var wg sync.WaitGroup

	for i, list := range config.Lists {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()
			set, err := loader.Load(ctx, path)
			resultChan <- loadResult{index: index, set: set, err: err}
		}(i, list.Path)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(config.Lists))
	for result := range resultChan {
		results[result.index] = result
	}

	v := &validator{
		sets:   make([]VoucherSet, 0, len(config.Lists)),
		tiers:  make([]int, 0, len(config.Lists)),
		logger: logger,
	}

	for i, result := range results {
		if result.err != nil {
			logger.Error().
				Err(result.err).
				Str("file", config.Lists[i].Path).
				Msg("failed to load voucher list")
			return nil, fmt.Errorf("failed to load voucher list %s: %w", config.Lists[i].Path, result.err)
		}
		v.sets = append(v.sets, result.set)
		v.tiers = append(v.tiers, config.Lists[i].Pct)
		logger.Info().
			Str("file", config.Lists[i].Path).
			Int("size", result.set.Size()).
			Int("discount_pct", config.Lists[i].Pct).
			Msg("voucher list loaded")
	}

	return v, nil
}

// Validate checks a promo code and returns the discount it grants.
func (v *validator) Validate(ctx context.Context, code string) (Discount, error) {
	if len(code) < 8 || len(code) > 10 {
		v.logger.Debug().
			Str("promo_code", code).
			Int("length", len(code)).
			Msg("promo code length invalid")
		return Discount{}, model.ErrInvalidPromoLength
	}

	for i, set := range v.sets {
		select {
		case <-ctx.Done():
			return Discount{}, ctx.Err()
		default:
		}

		if set.Contains(code) {
			v.logger.Debug().
				Str("promo_code", code).
				Int("discount_pct", v.tiers[i]).
				Msg("promo code validated")
			return Discount{Code: code, Pct: v.tiers[i]}, nil
		}
	}

	v.logger.Debug().Str("promo_code", code).Msg("promo code not found in any list")
	return Discount{}, model.ErrInvalidPromoCode
}

// Close releases resources held by the validator.
func (v *validator) Close() error {
	v.sets = nil
	v.tiers = nil
	return nil
}
