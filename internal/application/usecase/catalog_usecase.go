// internal/application/usecase/catalog_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"

	menudom "quickbite/internal/domain/menu"
)

var ErrCatalogInvalidArgument = errors.New("catalog_usecase: invalid argument")

// CatalogUsecase reads the restaurant listing and per-restaurant menus.
// Both sources are read-only; the cart layer treats their records as opaque.
type CatalogUsecase struct {
	restaurants menudom.RestaurantLister
	source      menudom.Source
}

func NewCatalogUsecase(restaurants menudom.RestaurantLister, source menudom.Source) *CatalogUsecase {
	return &CatalogUsecase{restaurants: restaurants, source: source}
}

// ListRestaurants returns the listing, optionally filtered by a
// case-insensitive name substring (the home screen search box).
func (uc *CatalogUsecase) ListRestaurants(ctx context.Context, search string) ([]menudom.Restaurant, error) {
	if uc == nil || uc.restaurants == nil {
		return nil, errors.New("catalog_usecase: not configured")
	}

	all, err := uc.restaurants.List(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return all, nil
	}

	out := make([]menudom.Restaurant, 0, len(all))
	for _, r := range all {
		if strings.Contains(strings.ToLower(r.Name), q) {
			out = append(out, r)
		}
	}
	return out, nil
}

// GetMenu fetches and returns one restaurant's menu, optionally filtered by a
// case-insensitive item-name substring.
func (uc *CatalogUsecase) GetMenu(ctx context.Context, restaurantID, search string) (*menudom.RestaurantMenu, error) {
	if uc == nil || uc.source == nil {
		return nil, errors.New("catalog_usecase: not configured")
	}

	rid := strings.TrimSpace(restaurantID)
	if rid == "" {
		return nil, ErrCatalogInvalidArgument
	}

	m, err := uc.source.FetchMenu(ctx, rid)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return m, nil
	}

	filtered := make([]menudom.Item, 0, len(m.Items))
	for _, it := range m.Items {
		if strings.Contains(strings.ToLower(it.Name), q) {
			filtered = append(filtered, it)
		}
	}
	m.Items = filtered
	return m, nil
}
