// internal/adapters/in/http/handlers/order_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"quickbite/internal/adapters/in/http/middleware"
	"quickbite/internal/application/usecase"
	orderdom "quickbite/internal/domain/order"
)

// OrderHandler serves order submission and order history.
//
//	POST /me/orders   place an order from the current cart
//	GET  /me/orders   past orders, newest first
type OrderHandler struct {
	sessions *usecase.SessionRegistry
	orders   *usecase.OrderUsecase
}

func NewOrderHandler(sessions *usecase.SessionRegistry, orders *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{sessions: sessions, orders: orders}
}

func (h *OrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.sessions == nil || h.orders == nil {
		internalError(w, "order handler is not configured")
		return
	}

	ident := middleware.IdentityFrom(r.Context())
	if ident == nil {
		unauthorized(w)
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")
	if path != "/me/orders" {
		notFound(w)
		return
	}

	switch r.Method {
	case http.MethodPost:
		h.handlePlace(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (h *OrderHandler) handlePlace(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFrom(r.Context())
	engine := h.sessions.Engine(ident)
	if engine == nil {
		unauthorized(w)
		return
	}

	var in usecase.PlaceOrderInput
	if msg := decodeBody(r, &in); msg != "" {
		badRequest(w, msg)
		return
	}

	o, err := h.orders.PlaceOrder(r.Context(), engine, ident.UID, ident.Email, in)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrOrderEmptyCart):
			badRequest(w, "cart is empty")
		case errors.Is(err, orderdom.ErrInvalidAddress):
			badRequest(w, "house number and area are required")
		case errors.Is(err, usecase.ErrOrderInvalidArgument), errors.Is(err, orderdom.ErrInvalidItems):
			badRequest(w, err.Error())
		default:
			// Cart is untouched on failure; the screen offers a retry.
			internalError(w, "could not place order")
		}
		return
	}

	writeJSON(w, http.StatusCreated, o)
}

func (h *OrderHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFrom(r.Context())

	orders, err := h.orders.ListPastOrders(r.Context(), ident.UID)
	if err != nil {
		internalError(w, "could not load orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}
