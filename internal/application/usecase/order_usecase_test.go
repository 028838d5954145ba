// internal/application/usecase/order_usecase_test.go
package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "quickbite/internal/domain/cart"
	iddom "quickbite/internal/domain/identity"
	orderdom "quickbite/internal/domain/order"
)

type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    []*orderdom.Order
	createErr error
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *orderdom.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.orders = append(r.orders, o)
	return nil
}

func (r *fakeOrderRepo) ListByUser(ctx context.Context, uid string) ([]*orderdom.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*orderdom.Order
	for _, o := range r.orders {
		if o.UserID == uid {
			out = append(out, o)
		}
	}
	return out, nil
}

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

func loadedEngine(t *testing.T, uid string) (*CartEngine, *fakeCartStore) {
	t.Helper()
	store := newFakeCartStore()
	eng := NewCartEngine(store)
	eng.SetIdentity(&iddom.Identity{UID: uid})
	waitLoaded(t, eng)
	return eng, store
}

func validAddress() orderdom.AddressSnapshot {
	return orderdom.AddressSnapshot{HouseNo: "12B", Area: "Andheri West"}
}

func TestOrderUsecase_PlaceOrder_Success(t *testing.T) {
	repo := &fakeOrderRepo{}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	uc := NewOrderUsecaseWithClock(repo, fixedClock{at: now})

	eng, _ := loadedEngine(t, "u1")
	eng.AddToCart(cartdom.Line{ItemID: "a", Name: "Dosa", Price: 120}, "r1")
	eng.AddToCart(cartdom.Line{ItemID: "a", Name: "Dosa", Price: 120}, "r1")
	eng.AddToCart(cartdom.Line{ItemID: "b", Name: "Chai", Price: 30}, "r1")

	o, err := uc.PlaceOrder(context.Background(), eng, "u1", "u1@example.com", PlaceOrderInput{
		Address:       validAddress(),
		PaymentMethod: "cod",
	})

	require.NoError(t, err)
	require.NotNil(t, o)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "u1", o.UserID)
	assert.Equal(t, "r1", o.RestaurantID)
	assert.Equal(t, now, o.CreatedAt)
	assert.Equal(t, int64(270), o.Total)

	require.Len(t, o.Items, 2)
	assert.Equal(t, "a", o.Items[0].ItemID)
	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.Equal(t, "b", o.Items[1].ItemID)
	assert.Equal(t, 1, o.Items[1].Quantity)

	// Successful submission clears the cart.
	assert.Empty(t, eng.Lines())
	assert.Equal(t, "", eng.RestaurantID())
}

func TestOrderUsecase_PlaceOrder_EmptyCart(t *testing.T) {
	repo := &fakeOrderRepo{}
	uc := NewOrderUsecase(repo)

	eng, _ := loadedEngine(t, "u1")

	_, err := uc.PlaceOrder(context.Background(), eng, "u1", "", PlaceOrderInput{
		Address: validAddress(),
	})

	assert.ErrorIs(t, err, ErrOrderEmptyCart)
	assert.Empty(t, repo.orders)
}

func TestOrderUsecase_PlaceOrder_InvalidAddress(t *testing.T) {
	repo := &fakeOrderRepo{}
	uc := NewOrderUsecase(repo)

	eng, _ := loadedEngine(t, "u1")
	eng.AddToCart(cartdom.Line{ItemID: "a", Price: 100}, "r1")

	_, err := uc.PlaceOrder(context.Background(), eng, "u1", "", PlaceOrderInput{
		Address: orderdom.AddressSnapshot{HouseNo: "", Area: "Andheri West"},
	})

	assert.ErrorIs(t, err, orderdom.ErrInvalidAddress)
	// Cart stays intact for a retry.
	assert.Len(t, eng.Lines(), 1)
}

func TestOrderUsecase_PlaceOrder_RepoFailureLeavesCartIntact(t *testing.T) {
	repo := &fakeOrderRepo{createErr: errors.New("backend down")}
	uc := NewOrderUsecase(repo)

	eng, _ := loadedEngine(t, "u1")
	eng.AddToCart(cartdom.Line{ItemID: "a", Price: 100}, "r1")

	_, err := uc.PlaceOrder(context.Background(), eng, "u1", "", PlaceOrderInput{
		Address: validAddress(),
	})

	require.Error(t, err)
	assert.Len(t, eng.Lines(), 1)
	assert.Equal(t, "r1", eng.RestaurantID())
}

func TestOrderUsecase_ListPastOrders(t *testing.T) {
	repo := &fakeOrderRepo{}
	uc := NewOrderUsecase(repo)

	eng, _ := loadedEngine(t, "u1")
	eng.AddToCart(cartdom.Line{ItemID: "a", Price: 100}, "r1")
	_, err := uc.PlaceOrder(context.Background(), eng, "u1", "", PlaceOrderInput{Address: validAddress()})
	require.NoError(t, err)

	got, err := uc.ListPastOrders(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	other, err := uc.ListPastOrders(context.Background(), "u2")
	require.NoError(t, err)
	assert.Empty(t, other)

	_, err = uc.ListPastOrders(context.Background(), " ")
	assert.ErrorIs(t, err, ErrOrderInvalidArgument)
}
