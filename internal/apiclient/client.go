// Package apiclient implements the store source interfaces over the HTTP
// API, so the client-side stores can run against a remote backend instead of
// a local database with no change to their logic.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"shopcore/internal/model"

	"github.com/rs/zerolog"
)

// Client talks to the shopcore HTTP API. It implements
// store.CatalogSource, store.CartSource and store.ReviewSource.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the bearer token attached to every request. Cart and
// checkout routes reject requests without one.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates an API client against baseURL.
func New(baseURL string, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger.With().Str("component", "apiclient").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// listResponse mirrors the catalogue listing payload.
type listResponse struct {
	Items []model.Product `json:"items"`
	Total int             `json:"total"`
}

// ListProducts fetches active products matching the filter. A limit <= 0
// requests the full filtered set.
func (c *Client) ListProducts(ctx context.Context, filter model.CatalogFilter, limit, offset int) ([]model.Product, int, error) {
	query := url.Values{}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}

	path := "/api/products"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var resp listResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Items, resp.Total, nil
}

// GetProduct fetches a single product, or nil when the API reports 404.
func (c *Client) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), nil, &product)
	if err != nil {
		var derr *model.DomainError
		if errors.As(err, &derr) && derr.Code == model.ErrCodeNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// cartItemRequest is the add/update payload for one cart line.
type cartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// GetCart fetches the canonical cart. The userID argument is unused; the
// remote API derives the user from the bearer token.
func (c *Client) GetCart(ctx context.Context, _ string) (*model.Cart, error) {
	var cart model.Cart
	if err := c.do(ctx, http.MethodGet, "/api/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem adds quantity of a product to the cart.
func (c *Client) AddItem(ctx context.Context, _ string, productID string, quantity int) error {
	return c.do(ctx, http.MethodPost, "/api/cart/items", cartItemRequest{ProductID: productID, Quantity: quantity}, nil)
}

// UpdateItem sets the quantity of one cart line.
func (c *Client) UpdateItem(ctx context.Context, _ string, productID string, quantity int) error {
	return c.do(ctx, http.MethodPut, "/api/cart/items/"+url.PathEscape(productID), cartItemRequest{Quantity: quantity}, nil)
}

// RemoveItem deletes one cart line. Removing an absent line succeeds.
func (c *Client) RemoveItem(ctx context.Context, _ string, productID string) error {
	return c.do(ctx, http.MethodDelete, "/api/cart/items/"+url.PathEscape(productID), nil, nil)
}

// Clear empties the cart.
func (c *Client) Clear(ctx context.Context, _ string) error {
	return c.do(ctx, http.MethodDelete, "/api/cart", nil, nil)
}

// reviewsResponse mirrors the review listing payload.
type reviewsResponse struct {
	ProductID     string         `json:"productId"`
	Reviews       []model.Review `json:"reviews"`
	AverageRating float64        `json:"averageRating"`
}

// GetReviews fetches all reviews for one product.
func (c *Client) GetReviews(ctx context.Context, productID string) ([]model.Review, error) {
	var resp reviewsResponse
	path := "/api/products/" + url.PathEscape(productID) + "/reviews"
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Reviews, nil
}

// do executes one request. Non-2xx responses carrying a recognisable error
// payload surface as domain errors; network failures and unreadable
// responses surface as transport errors so callers keep their snapshots.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return model.NewTransportError(op, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return model.NewTransportError(op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("op", op).Msg("request failed")
		return model.NewTransportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return model.NewTransportError(op, err)
		}
		return nil
	}

	var errResp model.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
		return model.NewTransportError(op, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	c.logger.Debug().
		Str("op", op).
		Int("status", resp.StatusCode).
		Str("code", errResp.Error).
		Msg("api error response")
	return model.NewDomainError(errResp.Error, errResp.Message)
}
