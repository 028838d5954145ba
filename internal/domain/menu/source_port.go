// internal/domain/menu/source_port.go
package menu

import "context"

// RestaurantLister reads the restaurant listing (Firestore "restaurants").
type RestaurantLister interface {
	List(ctx context.Context) ([]Restaurant, error)
}

// Source fetches the full menu for one restaurant from the upstream menu API.
type Source interface {
	FetchMenu(ctx context.Context, restaurantID string) (*RestaurantMenu, error)
}
