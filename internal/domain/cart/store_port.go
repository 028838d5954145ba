// internal/domain/cart/store_port.go
package cart

import "context"

// Store is the persistence port for the per-user cart document.
//
// Storage design (Firestore):
// - collection: carts
// - docId: uid (one document per identity)
// - fields: cart([]Line), restaurantId
//
// Semantics are read-one / write-one-whole-document only: Save overwrites any
// prior document wholesale, with no merge and no concurrency token. Two
// sessions writing under the same identity are last-write-wins by design.
type Store interface {
	// Load returns the stored snapshot for uid.
	// Not-found policy: return (nil, nil) and let the caller treat nil as
	// "no document" (empty cart).
	Load(ctx context.Context, uid string) (*Cart, error)

	// Save overwrites the full document for uid.
	Save(ctx context.Context, uid string, c Cart) error

	// Delete removes the document for uid.
	Delete(ctx context.Context, uid string) error
}
