// internal/adapters/out/firestore/order_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	orderdom "quickbite/internal/domain/order"
)

// OrderRepositoryFS implements order.Repository using Firestore.
//
// Collection design:
// - collection: orders
// - docId: order.ID (caller-assigned uuid)
// - query: userId == uid, createdAt desc
type OrderRepositoryFS struct {
	Client *firestore.Client
}

func NewOrderRepositoryFS(client *firestore.Client) *OrderRepositoryFS {
	return &OrderRepositoryFS{Client: client}
}

func (r *OrderRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("orders")
}

func (r *OrderRepositoryFS) Create(ctx context.Context, o *orderdom.Order) error {
	if r == nil || r.Client == nil {
		return errors.New("order_repository_fs: firestore client is nil")
	}
	if o == nil {
		return errors.New("order_repository_fs: order is nil")
	}

	id := strings.TrimSpace(o.ID)
	if id == "" {
		return errors.New("order_repository_fs: order.ID is empty")
	}

	_, err := r.col().Doc(id).Set(ctx, orderDocFromDomain(o))
	return err
}

func (r *OrderRepositoryFS) ListByUser(ctx context.Context, userID string) ([]*orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("order_repository_fs: firestore client is nil")
	}

	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, errors.New("order_repository_fs: userID is empty")
	}

	it := r.col().
		Where("userId", "==", uid).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer it.Stop()

	out := []*orderdom.Order{}
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		o := orderDocFromSnapshot(snap).toDomain()
		o.ID = snap.Ref.ID // docId is the source of truth
		out = append(out, o)
	}
	return out, nil
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type orderDoc struct {
	UserID        string         `firestore:"userId"`
	RestaurantID  string         `firestore:"restaurantId"`
	Items         []orderItemDoc `firestore:"items"`
	Total         int64          `firestore:"total"`
	Address       addressDoc     `firestore:"address"`
	PaymentMethod string         `firestore:"paymentMethod"`
	CreatedAt     time.Time      `firestore:"createdAt"`
}

type orderItemDoc struct {
	ItemID   string `firestore:"itemId"`
	Name     string `firestore:"name"`
	Price    int64  `firestore:"price"`
	Quantity int    `firestore:"quantity"`
	ImageRef string `firestore:"imageRef,omitempty"`
}

type addressDoc struct {
	HouseNo  string `firestore:"houseNo"`
	Area     string `firestore:"area"`
	Landmark string `firestore:"landmark,omitempty"`
	Address  string `firestore:"address,omitempty"`
}

func orderDocFromDomain(o *orderdom.Order) orderDoc {
	items := make([]orderItemDoc, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemDoc{
			ItemID:   it.ItemID,
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
			ImageRef: it.ImageRef,
		})
	}
	return orderDoc{
		UserID:       o.UserID,
		RestaurantID: o.RestaurantID,
		Items:        items,
		Total:        o.Total,
		Address: addressDoc{
			HouseNo:  o.Address.HouseNo,
			Area:     o.Address.Area,
			Landmark: o.Address.Landmark,
			Address:  o.Address.Address,
		},
		PaymentMethod: o.PaymentMethod,
		CreatedAt:     o.CreatedAt,
	}
}

func orderDocFromSnapshot(snap *firestore.DocumentSnapshot) orderDoc {
	out := orderDoc{Items: []orderItemDoc{}}
	if snap == nil {
		return out
	}

	raw := snap.Data()
	if raw == nil {
		return out
	}

	out.UserID = strings.TrimSpace(asString(raw["userId"]))
	out.RestaurantID = strings.TrimSpace(asString(raw["restaurantId"]))
	out.Total = asInt64(raw["total"])
	out.PaymentMethod = strings.TrimSpace(asString(raw["paymentMethod"]))
	if t, ok := asTime(raw["createdAt"]); ok {
		out.CreatedAt = t
	}

	if m, ok := raw["address"].(map[string]any); ok {
		out.Address = addressDoc{
			HouseNo:  asString(m["houseNo"]),
			Area:     asString(m["area"]),
			Landmark: asString(m["landmark"]),
			Address:  asString(m["address"]),
		}
	}

	if xs, ok := raw["items"].([]any); ok {
		for _, v := range xs {
			m, ok := v.(map[string]any)
			if !ok {
				continue
			}
			id := strings.TrimSpace(asString(m["itemId"]))
			if id == "" {
				id = strings.TrimSpace(asString(m["id"]))
			}
			if id == "" {
				continue
			}
			out.Items = append(out.Items, orderItemDoc{
				ItemID:   id,
				Name:     asString(m["name"]),
				Price:    asInt64(m["price"]),
				Quantity: int(asInt64(m["quantity"])),
				ImageRef: asString(m["imageRef"]),
			})
		}
	}
	return out
}

func (d orderDoc) toDomain() *orderdom.Order {
	items := make([]orderdom.ItemSnapshot, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, orderdom.ItemSnapshot{
			ItemID:   it.ItemID,
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
			ImageRef: it.ImageRef,
		})
	}
	return &orderdom.Order{
		UserID:       d.UserID,
		RestaurantID: d.RestaurantID,
		Items:        items,
		Total:        d.Total,
		Address: orderdom.AddressSnapshot{
			HouseNo:  d.Address.HouseNo,
			Area:     d.Address.Area,
			Landmark: d.Address.Landmark,
			Address:  d.Address.Address,
		},
		PaymentMethod: d.PaymentMethod,
		CreatedAt:     d.CreatedAt,
	}
}
