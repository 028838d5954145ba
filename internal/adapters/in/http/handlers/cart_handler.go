// internal/adapters/in/http/handlers/cart_handler.go
package handlers

import (
	"log"
	"net/http"
	"strings"

	"quickbite/internal/adapters/in/http/middleware"
	"quickbite/internal/application/usecase"
	cartdom "quickbite/internal/domain/cart"
)

// CartHandler serves the per-user cart endpoints under /me/cart.
//
//	GET    /me/cart                  current grouped view
//	POST   /me/cart/items            addToCart (conflict reported in body)
//	PUT    /me/cart                  replaceCart
//	DELETE /me/cart/items/{itemId}   removeFromCart (one unit)
//	DELETE /me/cart                  clearCart
//	POST   /me/session               identity refresh (restarts the load)
//	POST   /me/signout               sign-out event
//
// The handler never holds cart state; it resolves the caller's engine from
// the session registry and invokes its operations.
type CartHandler struct {
	sessions *usecase.SessionRegistry
}

func NewCartHandler(sessions *usecase.SessionRegistry) *CartHandler {
	return &CartHandler{sessions: sessions}
}

// cartItemIn is the wire shape of one menu item as screens submit it.
type cartItemIn struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
	ImageRef    string `json:"imageRef"`
	IsVeg       bool   `json:"isVeg"`
}

func (in cartItemIn) toLine() cartdom.Line {
	return cartdom.Line{
		ItemID:      strings.TrimSpace(in.ID),
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		ImageRef:    in.ImageRef,
		IsVeg:       in.IsVeg,
	}
}

type cartMutationIn struct {
	Item         cartItemIn `json:"item"`
	RestaurantID string     `json:"restaurantId"`
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.sessions == nil {
		internalError(w, "cart handler is not configured")
		return
	}

	ident := middleware.IdentityFrom(r.Context())
	if ident == nil {
		unauthorized(w)
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")

	switch {
	case r.Method == http.MethodGet && path == "/me/cart":
		h.handleGet(w, r)
	case r.Method == http.MethodPost && path == "/me/cart/items":
		h.handleAddItem(w, r)
	case r.Method == http.MethodPut && path == "/me/cart":
		h.handleReplace(w, r)
	case r.Method == http.MethodDelete && strings.HasPrefix(path, "/me/cart/items/"):
		h.handleRemoveItem(w, r, strings.TrimPrefix(path, "/me/cart/items/"))
	case r.Method == http.MethodDelete && path == "/me/cart":
		h.handleClear(w, r)
	case r.Method == http.MethodPost && path == "/me/session":
		h.handleRefresh(w, r)
	case r.Method == http.MethodPost && path == "/me/signout":
		h.handleSignOut(w, r)
	default:
		notFound(w)
	}
}

// cartView is the read shape every consumer renders from.
type cartView struct {
	RestaurantID string                `json:"restaurantId"`
	Items        []cartdom.GroupedLine `json:"items"`
	Subtotal     int64                 `json:"subtotal"`
	Loaded       bool                  `json:"loaded"`
}

func viewOf(engine *usecase.CartEngine) cartView {
	grouped := engine.Grouped()
	return cartView{
		RestaurantID: engine.RestaurantID(),
		Items:        grouped,
		Subtotal:     cartdom.Subtotal(grouped),
		Loaded:       engine.Loaded(),
	}
}

func (h *CartHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	engine := h.sessions.Engine(middleware.IdentityFrom(r.Context()))
	if engine == nil {
		unauthorized(w)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(engine))
}

func (h *CartHandler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFrom(r.Context())
	engine := h.sessions.Engine(ident)
	if engine == nil {
		unauthorized(w)
		return
	}

	var in cartMutationIn
	if msg := decodeBody(r, &in); msg != "" {
		badRequest(w, msg)
		return
	}
	if strings.TrimSpace(in.Item.ID) == "" || strings.TrimSpace(in.RestaurantID) == "" {
		badRequest(w, "item.id and restaurantId are required")
		return
	}

	res := engine.AddToCart(in.Item.toLine(), in.RestaurantID)
	if res.Conflict {
		log.Printf("[cart_handler] add conflict uid=%s itemId=%s restaurantId=%s (cart locked to %s)",
			ident.UID, in.Item.ID, in.RestaurantID, engine.RestaurantID())
	}

	writeJSON(w, http.StatusOK, struct {
		usecase.AddResult
		Cart cartView `json:"cart"`
	}{AddResult: res, Cart: viewOf(engine)})
}

func (h *CartHandler) handleReplace(w http.ResponseWriter, r *http.Request) {
	engine := h.sessions.Engine(middleware.IdentityFrom(r.Context()))
	if engine == nil {
		unauthorized(w)
		return
	}

	var in cartMutationIn
	if msg := decodeBody(r, &in); msg != "" {
		badRequest(w, msg)
		return
	}
	if strings.TrimSpace(in.Item.ID) == "" || strings.TrimSpace(in.RestaurantID) == "" {
		badRequest(w, "item.id and restaurantId are required")
		return
	}

	engine.ReplaceCart(in.Item.toLine(), in.RestaurantID)
	writeJSON(w, http.StatusOK, viewOf(engine))
}

func (h *CartHandler) handleRemoveItem(w http.ResponseWriter, r *http.Request, itemID string) {
	engine := h.sessions.Engine(middleware.IdentityFrom(r.Context()))
	if engine == nil {
		unauthorized(w)
		return
	}

	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		badRequest(w, "itemId is required")
		return
	}

	engine.RemoveFromCart(itemID)
	writeJSON(w, http.StatusOK, viewOf(engine))
}

func (h *CartHandler) handleClear(w http.ResponseWriter, r *http.Request) {
	engine := h.sessions.Engine(middleware.IdentityFrom(r.Context()))
	if engine == nil {
		unauthorized(w)
		return
	}

	engine.ClearCart()
	writeJSON(w, http.StatusOK, viewOf(engine))
}

func (h *CartHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	engine := h.sessions.Refresh(middleware.IdentityFrom(r.Context()))
	if engine == nil {
		unauthorized(w)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(engine))
}

func (h *CartHandler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFrom(r.Context())
	h.sessions.SignOut(ident.UID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}
