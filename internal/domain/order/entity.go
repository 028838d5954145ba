// internal/domain/order/entity.go
package order

import (
	"errors"
	"strings"
	"time"
)

// ========================================
// Snapshot structs (stored in Order)
// ========================================

// ItemSnapshot is one grouped cart entry frozen at order time.
type ItemSnapshot struct {
	ItemID   string `json:"itemId" firestore:"itemId"`
	Name     string `json:"name" firestore:"name"`
	Price    int64  `json:"price" firestore:"price"`
	Quantity int    `json:"quantity" firestore:"quantity"`
	ImageRef string `json:"imageRef,omitempty" firestore:"imageRef,omitempty"`
}

// AddressSnapshot is the delivery address as entered on the cart screen.
// Address is the geocoder-prefilled free-text line; the user-entered fields
// (HouseNo, Area) are the ones validated.
type AddressSnapshot struct {
	HouseNo  string `json:"houseNo" firestore:"houseNo"`
	Area     string `json:"area" firestore:"area"`
	Landmark string `json:"landmark,omitempty" firestore:"landmark,omitempty"`
	Address  string `json:"address,omitempty" firestore:"address,omitempty"`
}

// ========================================
// Entity
// ========================================

type Order struct {
	ID     string `json:"id" firestore:"id"`
	UserID string `json:"userId" firestore:"userId"`

	RestaurantID string          `json:"restaurantId" firestore:"restaurantId"`
	Items        []ItemSnapshot  `json:"items" firestore:"items"`
	Total        int64           `json:"total" firestore:"total"` // minor units
	Address      AddressSnapshot `json:"address" firestore:"address"`

	// PaymentMethod is a pass-through label ("cod", "upi", ...); there is no
	// payment integration behind it.
	PaymentMethod string `json:"paymentMethod" firestore:"paymentMethod"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

// ========================================
// Errors
// ========================================

var (
	ErrInvalidID      = errors.New("order: invalid id")
	ErrInvalidUserID  = errors.New("order: invalid userId")
	ErrInvalidItems   = errors.New("order: invalid items")
	ErrInvalidAddress = errors.New("order: invalid address")
	ErrInvalidTotal   = errors.New("order: invalid total")
	ErrInvalidCreated = errors.New("order: invalid createdAt")
)

// New validates and builds an order.
// id and userId are required; items must be non-empty with positive
// quantities; HouseNo and Area are the required address fields.
func New(
	id, userID, restaurantID string,
	items []ItemSnapshot,
	total int64,
	addr AddressSnapshot,
	paymentMethod string,
	now time.Time,
) (*Order, error) {
	oid := strings.TrimSpace(id)
	if oid == "" {
		return nil, ErrInvalidID
	}
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, ErrInvalidUserID
	}

	if len(items) == 0 {
		return nil, ErrInvalidItems
	}
	for _, it := range items {
		if strings.TrimSpace(it.ItemID) == "" || it.Quantity <= 0 {
			return nil, ErrInvalidItems
		}
	}

	if total < 0 {
		return nil, ErrInvalidTotal
	}

	if strings.TrimSpace(addr.HouseNo) == "" || strings.TrimSpace(addr.Area) == "" {
		return nil, ErrInvalidAddress
	}

	if now.IsZero() {
		return nil, ErrInvalidCreated
	}

	return &Order{
		ID:            oid,
		UserID:        uid,
		RestaurantID:  strings.TrimSpace(restaurantID),
		Items:         items,
		Total:         total,
		Address:       addr,
		PaymentMethod: strings.TrimSpace(paymentMethod),
		CreatedAt:     now,
	}, nil
}
