package repository

import (
	"context"
	"fmt"
	"time"

	"shopcore/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// CartRepository is the canonical cart state in PostgreSQL. It implements
// store.CartSource. The per-line quantity cap is enforced here as well as in
// the cart store, so a buggy or hostile caller cannot write an out-of-range
// quantity through this boundary.
type CartRepository struct {
	pool       *pgxpool.Pool
	maxPerLine int
	logger     zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart source.
func NewCartRepository(pool *pgxpool.Pool, maxPerLine int, logger zerolog.Logger) *CartRepository {
	if maxPerLine < 1 {
		maxPerLine = 1
	}
	return &CartRepository{
		pool:       pool,
		maxPerLine: maxPerLine,
		logger:     logger.With().Str("repository", "cart").Logger(),
	}
}

// GetCart reads the full cart for a user, joining product availability flags
// at read time. A user with no lines gets an empty cart, not an error.
func (r *CartRepository) GetCart(ctx context.Context, userID string) (*model.Cart, error) {
	query := `
		SELECT ci.product_id, p.name, ci.quantity, p.price, p.stock, p.active
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	defer rows.Close()

	cart := &model.Cart{UserID: userID}
	for rows.Next() {
		var line model.CartLine
		err := rows.Scan(&line.ProductID, &line.Name, &line.Quantity, &line.UnitPrice, &line.InStock, &line.Active)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart line")
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		cart.Lines = append(cart.Lines, line)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart lines")
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}

	cart.Recompute()
	cart.FetchedAt = time.Now()
	return cart, nil
}

// AddItem merges quantity units into the user's line for a product, capping
// the stored quantity at the per-line limit. The product row is locked so
// the stock check and the write observe the same stock value.
func (r *CartRepository) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	if quantity < 1 {
		return model.ErrInvalidQuantity
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				r.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	var stock int
	var active bool
	err = tx.QueryRow(ctx,
		`SELECT stock, active FROM products WHERE id = $1 FOR UPDATE`, productID,
	).Scan(&stock, &active)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Warn().Str("product_id", productID).Msg("product not found")
			err = model.ErrNotFound
			return err
		}
		r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to lock product row")
		return fmt.Errorf("failed to lock product row: %w", err)
	}
	if !active {
		err = model.ErrNotFound
		return err
	}

	var existing int
	err = tx.QueryRow(ctx,
		`SELECT quantity FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	).Scan(&existing)
	if err != nil {
		if err != pgx.ErrNoRows {
			r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to read cart line")
			return fmt.Errorf("failed to read cart line: %w", err)
		}
		// No line yet.
		existing = 0
		err = nil
	}

	target := existing + quantity
	if target > r.maxPerLine {
		target = r.maxPerLine
	}
	if target > stock {
		err = model.ErrOutOfStock
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO cart_items (user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = $3, updated_at = NOW()
	`, userID, productID, target)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to upsert cart line")
		return fmt.Errorf("failed to upsert cart line: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	r.logger.Debug().
		Str("user_id", userID).
		Str("product_id", productID).
		Int("quantity", target).
		Msg("cart line upserted")

	return nil
}

// UpdateItem sets a line's quantity, capped at the per-line limit.
func (r *CartRepository) UpdateItem(ctx context.Context, userID, productID string, quantity int) error {
	if quantity < 1 {
		return model.ErrInvalidQuantity
	}
	if quantity > r.maxPerLine {
		quantity = r.maxPerLine
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE cart_items SET quantity = $3, updated_at = NOW()
		WHERE user_id = $1 AND product_id = $2
	`, userID, productID, quantity)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to update cart line")
		return fmt.Errorf("failed to update cart line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

// RemoveItem deletes a line. Deleting an absent line succeeds.
func (r *CartRepository) RemoveItem(ctx context.Context, userID, productID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to delete cart line")
		return fmt.Errorf("failed to delete cart line: %w", err)
	}
	return nil
}

// Clear deletes every line for a user.
func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
