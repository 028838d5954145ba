// internal/application/usecase/order_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	cartdom "quickbite/internal/domain/cart"
	orderdom "quickbite/internal/domain/order"
)

var (
	ErrOrderInvalidArgument = errors.New("order_usecase: invalid argument")
	ErrOrderEmptyCart       = errors.New("order_usecase: cart is empty")
)

// Clock provides current time (for testability).
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// EmailSender sends plain-text mail (SendGrid adapter in production).
type EmailSender interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// PlaceOrderInput is what the cart screen submits alongside the cart itself.
type PlaceOrderInput struct {
	Address       orderdom.AddressSnapshot `json:"address"`
	PaymentMethod string                   `json:"paymentMethod"`
}

// OrderUsecase submits orders built from the engine's grouped cart view and
// reads order history.
type OrderUsecase struct {
	repo  orderdom.Repository
	clock Clock

	// mail is optional; when unset, confirmation mail is skipped.
	mail     EmailSender
	mailFrom string
}

func NewOrderUsecase(repo orderdom.Repository) *OrderUsecase {
	return &OrderUsecase{repo: repo, clock: systemClock{}}
}

// NewOrderUsecaseWithClock is useful for tests.
func NewOrderUsecaseWithClock(repo orderdom.Repository, clock Clock) *OrderUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &OrderUsecase{repo: repo, clock: clock}
}

// WithMail enables best-effort confirmation mail.
func (uc *OrderUsecase) WithMail(sender EmailSender, from string) *OrderUsecase {
	if uc == nil {
		return nil
	}
	uc.mail = sender
	uc.mailFrom = strings.TrimSpace(from)
	return uc
}

// PlaceOrder snapshots the engine's grouped view into an order document.
//
// Only on a successful write is the engine's cart cleared; a failed submission
// leaves the cart intact so the user can retry. Confirmation mail is fired
// after the write and never affects the outcome.
func (uc *OrderUsecase) PlaceOrder(ctx context.Context, engine *CartEngine, uid, email string, in PlaceOrderInput) (*orderdom.Order, error) {
	if uc == nil || uc.repo == nil {
		return nil, errors.New("order_usecase: not configured")
	}
	if engine == nil {
		return nil, ErrOrderInvalidArgument
	}

	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, ErrOrderInvalidArgument
	}

	grouped := engine.Grouped()
	if len(grouped) == 0 {
		return nil, ErrOrderEmptyCart
	}

	items := make([]orderdom.ItemSnapshot, 0, len(grouped))
	for _, g := range grouped {
		items = append(items, orderdom.ItemSnapshot{
			ItemID:   g.ItemID,
			Name:     g.Name,
			Price:    g.Price,
			Quantity: g.Quantity,
			ImageRef: g.ImageRef,
		})
	}

	o, err := orderdom.New(
		uuid.NewString(),
		uid,
		engine.RestaurantID(),
		items,
		cartdom.Subtotal(grouped),
		in.Address,
		in.PaymentMethod,
		uc.clock.Now(),
	)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, o); err != nil {
		// Cart stays intact; the caller surfaces the failure and may retry.
		return nil, fmt.Errorf("order_usecase: create failed: %w", err)
	}

	engine.ClearCart()
	log.Printf("[order_usecase] order placed id=%s uid=%s items=%d total=%d", o.ID, uid, len(o.Items), o.Total)

	uc.sendConfirmation(o, email)
	return o, nil
}

// ListPastOrders returns the user's orders, newest first.
func (uc *OrderUsecase) ListPastOrders(ctx context.Context, uid string) ([]*orderdom.Order, error) {
	if uc == nil || uc.repo == nil {
		return nil, errors.New("order_usecase: not configured")
	}

	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, ErrOrderInvalidArgument
	}
	return uc.repo.ListByUser(ctx, uid)
}

func (uc *OrderUsecase) sendConfirmation(o *orderdom.Order, email string) {
	if uc.mail == nil || uc.mailFrom == "" {
		return
	}
	to := strings.TrimSpace(email)
	if to == "" {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your QuickBite order %s has been placed.\n\n", o.ID)
	for _, it := range o.Items {
		line := it.Price * int64(it.Quantity)
		fmt.Fprintf(&b, "%s x%d - %d.%02d\n", it.Name, it.Quantity, line/100, line%100)
	}
	fmt.Fprintf(&b, "\nTotal: %d.%02d\nPayment: %s\n", o.Total/100, o.Total%100, o.PaymentMethod)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := uc.mail.Send(ctx, uc.mailFrom, to, "Order placed", b.String()); err != nil {
			log.Printf("[order_usecase] confirmation mail failed orderId=%s: %v", o.ID, err)
		}
	}()
}
