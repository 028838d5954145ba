// internal/adapters/in/http/handlers/cart_handler_test.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickbite/internal/adapters/in/http/middleware"
	"quickbite/internal/application/usecase"
	cartdom "quickbite/internal/domain/cart"
	iddom "quickbite/internal/domain/identity"
)

type memCartStore struct {
	mu   sync.Mutex
	docs map[string]cartdom.Cart
}

func newMemCartStore() *memCartStore {
	return &memCartStore{docs: map[string]cartdom.Cart{}}
}

func (s *memCartStore) Load(ctx context.Context, uid string) (*cartdom.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.docs[uid]
	if !ok {
		return nil, nil
	}
	cp := c
	cp.Lines = append([]cartdom.Line{}, c.Lines...)
	return &cp, nil
}

func (s *memCartStore) Save(ctx context.Context, uid string, c cartdom.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.Lines = append([]cartdom.Line{}, c.Lines...)
	s.docs[uid] = c
	return nil
}

func (s *memCartStore) Delete(ctx context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uid)
	return nil
}

// newCartFixture returns a handler plus a ready (loaded) session for uid.
func newCartFixture(t *testing.T, uid string) (*CartHandler, *usecase.SessionRegistry, *iddom.Identity) {
	t.Helper()
	reg := usecase.NewSessionRegistry(newMemCartStore())
	ident := &iddom.Identity{UID: uid, Email: uid + "@example.com"}

	eng := reg.Engine(ident)
	require.NotNil(t, eng)
	require.Eventually(t, eng.Loaded, time.Second, time.Millisecond)

	return NewCartHandler(reg), reg, ident
}

func doCart(h *CartHandler, ident *iddom.Identity, method, target, body string) *httptest.ResponseRecorder {
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if ident != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), ident))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCartHandler_RequiresIdentity(t *testing.T) {
	h, _, _ := newCartFixture(t, "u1")

	rec := doCart(h, nil, http.MethodGet, "/me/cart", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartHandler_GetEmptyCart(t *testing.T) {
	h, _, ident := newCartFixture(t, "u1")

	rec := doCart(h, ident, http.MethodGet, "/me/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		RestaurantID string `json:"restaurantId"`
		Items        []any  `json:"items"`
		Subtotal     int64  `json:"subtotal"`
		Loaded       bool   `json:"loaded"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.True(t, view.Loaded)
	assert.Empty(t, view.Items)
	assert.Equal(t, "", view.RestaurantID)
}

func TestCartHandler_AddGroupsRepeatedItems(t *testing.T) {
	h, _, ident := newCartFixture(t, "u1")

	body := `{"item":{"id":"i1","name":"Dosa","price":120},"restaurantId":"r1"}`
	for i := 0; i < 3; i++ {
		rec := doCart(h, ident, http.MethodPost, "/me/cart/items", body)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	var resp struct {
		Conflict bool `json:"conflict"`
		Cart     struct {
			RestaurantID string `json:"restaurantId"`
			Items        []struct {
				ItemID   string `json:"itemId"`
				Quantity int    `json:"quantity"`
			} `json:"items"`
			Subtotal int64 `json:"subtotal"`
		} `json:"cart"`
	}

	rec := doCart(h, ident, http.MethodPost, "/me/cart/items", body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.False(t, resp.Conflict)
	assert.Equal(t, "r1", resp.Cart.RestaurantID)
	require.Len(t, resp.Cart.Items, 1)
	assert.Equal(t, "i1", resp.Cart.Items[0].ItemID)
	assert.Equal(t, 4, resp.Cart.Items[0].Quantity)
	assert.Equal(t, int64(480), resp.Cart.Subtotal)
}

func TestCartHandler_AddConflict(t *testing.T) {
	h, _, ident := newCartFixture(t, "u1")

	rec := doCart(h, ident, http.MethodPost, "/me/cart/items",
		`{"item":{"id":"i1","price":100},"restaurantId":"r1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doCart(h, ident, http.MethodPost, "/me/cart/items",
		`{"item":{"id":"x","price":300},"restaurantId":"r2"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Conflict bool `json:"conflict"`
		Cart     struct {
			RestaurantID string `json:"restaurantId"`
			Items        []any  `json:"items"`
		} `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Conflict)
	assert.Equal(t, "r1", resp.Cart.RestaurantID)
	assert.Len(t, resp.Cart.Items, 1)
}

func TestCartHandler_ReplaceAfterConflict(t *testing.T) {
	h, _, ident := newCartFixture(t, "u1")

	doCart(h, ident, http.MethodPost, "/me/cart/items",
		`{"item":{"id":"i1","price":100},"restaurantId":"r1"}`)

	rec := doCart(h, ident, http.MethodPut, "/me/cart",
		`{"item":{"id":"x","price":300},"restaurantId":"r2"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		RestaurantID string `json:"restaurantId"`
		Items        []struct {
			ItemID string `json:"itemId"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "r2", view.RestaurantID)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "x", view.Items[0].ItemID)
}

func TestCartHandler_RemoveOneUnit(t *testing.T) {
	h, _, ident := newCartFixture(t, "u1")

	body := `{"item":{"id":"i1","price":100},"restaurantId":"r1"}`
	doCart(h, ident, http.MethodPost, "/me/cart/items", body)
	doCart(h, ident, http.MethodPost, "/me/cart/items", body)

	rec := doCart(h, ident, http.MethodDelete, "/me/cart/items/i1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		Items []struct {
			Quantity int `json:"quantity"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, 1, view.Items[0].Quantity)
}

func TestCartHandler_Clear(t *testing.T) {
	h, _, ident := newCartFixture(t, "u1")

	doCart(h, ident, http.MethodPost, "/me/cart/items",
		`{"item":{"id":"i1","price":100},"restaurantId":"r1"}`)

	rec := doCart(h, ident, http.MethodDelete, "/me/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		RestaurantID string `json:"restaurantId"`
		Items        []any  `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Empty(t, view.Items)
	assert.Equal(t, "", view.RestaurantID)
}

func TestCartHandler_BadRequests(t *testing.T) {
	h, _, ident := newCartFixture(t, "u1")

	rec := doCart(h, ident, http.MethodPost, "/me/cart/items", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doCart(h, ident, http.MethodPost, "/me/cart/items",
		`{"item":{"id":""},"restaurantId":"r1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doCart(h, ident, http.MethodPatch, "/me/cart", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartHandler_SignOut(t *testing.T) {
	h, reg, ident := newCartFixture(t, "u1")

	doCart(h, ident, http.MethodPost, "/me/cart/items",
		`{"item":{"id":"i1","price":100},"restaurantId":"r1"}`)

	rec := doCart(h, ident, http.MethodPost, "/me/signout", "")
	require.Equal(t, http.StatusOK, rec.Code)

	// Next sight of the uid is a fresh session with an empty cart.
	eng := reg.Engine(ident)
	require.Eventually(t, eng.Loaded, time.Second, time.Millisecond)
	// The old session's cart was persisted; the fresh load brings it back.
	// Sign-out only drops the in-memory session, not the stored document.
	rec = doCart(h, ident, http.MethodGet, "/me/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
}
