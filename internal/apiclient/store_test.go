package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"shopcore/internal/model"
	"shopcore/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSession struct{ userID string }

func (s fixedSession) Authenticated() bool { return s.userID != "" }
func (s fixedSession) UserID() string      { return s.userID }

// fakeBackend is a minimal in-memory API the stores can run against,
// mimicking the real server's routes and payloads.
type fakeBackend struct {
	mu       sync.Mutex
	products []model.Product
	lines    map[string]int
}

func newFakeBackend(products []model.Product) *fakeBackend {
	return &fakeBackend{products: products, lines: make(map[string]int)}
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		json.NewEncoder(w).Encode(listResponse{Items: b.products, Total: len(b.products)})
	})

	mux.HandleFunc("/api/products/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/products/")
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, p := range b.products {
			if p.ID == id {
				json.NewEncoder(w).Encode(p)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(model.ErrorResponse{Error: model.ErrCodeNotFound, Message: "product not found"})
	})

	mux.HandleFunc("/api/cart", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		json.NewEncoder(w).Encode(b.cartLocked())
	})

	mux.HandleFunc("/api/cart/items", func(w http.ResponseWriter, r *http.Request) {
		var req cartItemRequest
		json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		defer b.mu.Unlock()
		b.lines[req.ProductID] += req.Quantity
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(b.cartLocked())
	})

	return mux
}

func (b *fakeBackend) cartLocked() *model.Cart {
	cart := &model.Cart{UserID: "u1"}
	for _, p := range b.products {
		if qty, ok := b.lines[p.ID]; ok {
			cart.Lines = append(cart.Lines, model.CartLine{
				ProductID: p.ID,
				Name:      p.Name,
				Quantity:  qty,
				UnitPrice: p.Price,
				InStock:   p.Stock,
				Active:    p.Active,
			})
		}
	}
	cart.Recompute()
	return cart
}

// The session stores run unchanged against the HTTP client: same interfaces,
// remote backend instead of a local database.
func TestStoresOverAPIClient(t *testing.T) {
	products := []model.Product{
		{ID: "p1", Name: "Widget", Price: 1000, Stock: 10, Active: true},
		{ID: "p2", Name: "Gadget", Price: 2000, Stock: 5, Active: true},
		{ID: "p3", Name: "Gear", Price: 3000, Stock: 1, Active: true},
	}

	server := httptest.NewServer(newFakeBackend(products).handler())
	defer server.Close()

	client := New(server.URL, zerolog.Nop(), WithToken("test-token"))
	ctx := context.Background()

	t.Run("catalog store paginates the remote set", func(t *testing.T) {
		catalog := store.NewCatalogStore(client, 2, zerolog.Nop())

		page, err := catalog.LoadPage(ctx, model.CatalogFilter{}, 1)
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
		assert.Equal(t, 2, page.TotalPages)
		assert.True(t, page.HasMore)

		page, err = catalog.LoadPage(ctx, model.CatalogFilter{}, 2)
		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
		assert.False(t, page.HasMore)
	})

	t.Run("cart store round trip over HTTP", func(t *testing.T) {
		checkout := store.NewCheckout(zerolog.Nop())
		cart := store.NewCartStore(client, client, fixedSession{userID: "u1"}, checkout, 2, zerolog.Nop())

		require.NoError(t, cart.AddItem(ctx, "p1", 1))

		snapshot := cart.Snapshot()
		require.NotNil(t, snapshot)
		require.Len(t, snapshot.Lines, 1)
		assert.Equal(t, int64(1000), snapshot.Subtotal)

		// The read-back also refreshed the attached selection.
		assert.Equal(t, []string{"p1"}, checkout.Selected())
	})
}
