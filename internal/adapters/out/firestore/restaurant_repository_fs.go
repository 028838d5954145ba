// internal/adapters/out/firestore/restaurant_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	menudom "quickbite/internal/domain/menu"
)

// RestaurantRepositoryFS implements menu.RestaurantLister using Firestore.
//
// Collection design:
// - collection: restaurants
// - docId: restaurant id
// - fields: name, cuisines, rating, area, imageRef
type RestaurantRepositoryFS struct {
	Client *firestore.Client
}

func NewRestaurantRepositoryFS(client *firestore.Client) *RestaurantRepositoryFS {
	return &RestaurantRepositoryFS{Client: client}
}

func (r *RestaurantRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("restaurants")
}

func (r *RestaurantRepositoryFS) List(ctx context.Context) ([]menudom.Restaurant, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("restaurant_repository_fs: firestore client is nil")
	}

	it := r.col().Documents(ctx)
	defer it.Stop()

	out := []menudom.Restaurant{}
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		raw := snap.Data()
		if raw == nil {
			continue
		}

		out = append(out, menudom.Restaurant{
			ID:       snap.Ref.ID, // docId is the source of truth
			Name:     strings.TrimSpace(asString(raw["name"])),
			Cuisines: asStringSlice(raw["cuisines"]),
			Rating:   asFloat64(raw["rating"]),
			Area:     strings.TrimSpace(asString(raw["area"])),
			ImageRef: strings.TrimSpace(asString(raw["imageRef"])),
		})
	}
	return out, nil
}
