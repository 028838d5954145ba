// internal/adapters/in/http/router.go
package httpin

import (
	"net/http"

	"quickbite/internal/adapters/in/http/handlers"
	"quickbite/internal/adapters/in/http/middleware"
	usecase "quickbite/internal/application/usecase"
)

// RouterDeps collects everything the router needs, injected from main.go via
// the DI container.
type RouterDeps struct {
	FirebaseAuth *middleware.FirebaseAuthClient

	Sessions  *usecase.SessionRegistry
	OrderUC   *usecase.OrderUsecase
	CatalogUC *usecase.CatalogUsecase
}

// NewRouter wires the public catalog routes and the authenticated /me routes.
// CORS is attached by the caller around the whole mux (recover stays inside
// so a panic response still carries CORS headers).
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	// Public, read-only catalog.
	catalog := handlers.NewCatalogHandler(deps.CatalogUC)
	mux.Handle("/restaurants", catalog)
	mux.Handle("/restaurants/", catalog)

	// Authenticated surface: cart + session + orders.
	auth := &middleware.UserAuth{FirebaseAuth: deps.FirebaseAuth}

	cart := handlers.NewCartHandler(deps.Sessions)
	mux.Handle("/me/cart", auth.Handler(cart))
	mux.Handle("/me/cart/", auth.Handler(cart))
	mux.Handle("/me/session", auth.Handler(cart))
	mux.Handle("/me/signout", auth.Handler(cart))

	orders := handlers.NewOrderHandler(deps.Sessions, deps.OrderUC)
	mux.Handle("/me/orders", auth.Handler(orders))

	return middleware.Recover(mux)
}
