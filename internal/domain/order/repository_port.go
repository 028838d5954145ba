// internal/domain/order/repository_port.go
package order

import "context"

// Repository is the persistence port for orders.
//
// Storage design (Firestore):
// - collection: orders
// - docId: order.ID
// - fields: userId, restaurantId, items, total, address, paymentMethod, createdAt
type Repository interface {
	// Create writes a new order document. The order id is caller-assigned.
	Create(ctx context.Context, o *Order) error

	// ListByUser returns the user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]*Order, error)
}
