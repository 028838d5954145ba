// internal/adapters/out/firestore/cart_store_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartdom "quickbite/internal/domain/cart"
)

// CartStoreFS implements cart.Store using Firestore.
//
// Collection design:
// - collection: carts
// - docId: uid (one document per identity)
// - fields: cart([]line), restaurantId
//
// Save is a whole-document Set: no merge, no concurrency token. Concurrent
// sessions under one identity are last-write-wins.
type CartStoreFS struct {
	Client *firestore.Client
}

func NewCartStoreFS(client *firestore.Client) *CartStoreFS {
	return &CartStoreFS{Client: client}
}

func (s *CartStoreFS) col() *firestore.CollectionRef {
	return s.Client.Collection("carts")
}

// Load returns (nil, nil) if no document exists (nil policy).
func (s *CartStoreFS) Load(ctx context.Context, uid string) (*cartdom.Cart, error) {
	if s == nil || s.Client == nil {
		return nil, errors.New("cart_store_fs: firestore client is nil")
	}

	id := strings.TrimSpace(uid)
	if id == "" {
		return nil, errors.New("cart_store_fs: uid is empty")
	}

	snap, err := s.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	// Parse snap.Data() by hand instead of DataTo: documents written by older
	// clients may miss fields or carry extra passthrough keys, and a type
	// mismatch in DataTo would turn a readable cart into a load failure.
	doc := cartDocFromSnapshot(snap)
	c := doc.toDomain()
	return &c, nil
}

// Save overwrites the full document for uid.
func (s *CartStoreFS) Save(ctx context.Context, uid string, c cartdom.Cart) error {
	if s == nil || s.Client == nil {
		return errors.New("cart_store_fs: firestore client is nil")
	}

	id := strings.TrimSpace(uid)
	if id == "" {
		return errors.New("cart_store_fs: uid is empty")
	}

	_, err := s.col().Doc(id).Set(ctx, cartDocFromDomain(c))
	return err
}

func (s *CartStoreFS) Delete(ctx context.Context, uid string) error {
	if s == nil || s.Client == nil {
		return errors.New("cart_store_fs: firestore client is nil")
	}

	id := strings.TrimSpace(uid)
	if id == "" {
		return errors.New("cart_store_fs: uid is empty")
	}

	_, err := s.col().Doc(id).Delete(ctx)
	return err
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type cartDoc struct {
	Lines        []lineDoc `firestore:"cart"`
	RestaurantID string    `firestore:"restaurantId"`
}

type lineDoc struct {
	ItemID      string `firestore:"itemId"`
	Name        string `firestore:"name"`
	Price       int64  `firestore:"price"`
	Description string `firestore:"description,omitempty"`
	ImageRef    string `firestore:"imageRef,omitempty"`
	IsVeg       bool   `firestore:"isVeg,omitempty"`
}

func cartDocFromDomain(c cartdom.Cart) cartDoc {
	lines := make([]lineDoc, 0, len(c.Lines))
	for _, ln := range c.Lines {
		id := strings.TrimSpace(ln.ItemID)
		if id == "" {
			continue
		}
		lines = append(lines, lineDoc{
			ItemID:      id,
			Name:        ln.Name,
			Price:       ln.Price,
			Description: ln.Description,
			ImageRef:    ln.ImageRef,
			IsVeg:       ln.IsVeg,
		})
	}
	return cartDoc{
		Lines:        lines,
		RestaurantID: strings.TrimSpace(c.RestaurantID),
	}
}

func cartDocFromSnapshot(snap *firestore.DocumentSnapshot) cartDoc {
	out := cartDoc{Lines: []lineDoc{}}
	if snap == nil {
		return out
	}

	raw := snap.Data()
	if raw == nil {
		return out
	}

	out.RestaurantID = strings.TrimSpace(asString(raw["restaurantId"]))

	linesAny, ok := raw["cart"].([]any)
	if !ok {
		return out
	}

	for _, v := range linesAny {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}

		// Older documents stored the raw menu-item field names.
		id := strings.TrimSpace(asString(m["itemId"]))
		if id == "" {
			id = strings.TrimSpace(asString(m["id"]))
		}
		if id == "" {
			continue
		}

		out.Lines = append(out.Lines, lineDoc{
			ItemID:      id,
			Name:        asString(m["name"]),
			Price:       asInt64(m["price"]),
			Description: asString(m["description"]),
			ImageRef:    asString(m["imageRef"]),
			IsVeg:       asBool(m["isVeg"]),
		})
	}
	return out
}

func (d cartDoc) toDomain() cartdom.Cart {
	lines := make([]cartdom.Line, 0, len(d.Lines))
	for _, ln := range d.Lines {
		lines = append(lines, cartdom.Line{
			ItemID:      ln.ItemID,
			Name:        ln.Name,
			Price:       ln.Price,
			Description: ln.Description,
			ImageRef:    ln.ImageRef,
			IsVeg:       ln.IsVeg,
		})
	}

	c, err := cartdom.New(lines, d.RestaurantID)
	if err != nil {
		// Should not happen after the tolerant parse; fail to empty.
		return cartdom.Empty()
	}
	return c
}
