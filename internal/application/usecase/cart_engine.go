// internal/application/usecase/cart_engine.go
package usecase

import (
	"context"
	"log"
	"sync"

	cartdom "quickbite/internal/domain/cart"
	iddom "quickbite/internal/domain/identity"
)

// LoadState is the tri-state readiness marker for the remote snapshot load.
// It gates whether mutations are permitted and whether local changes are
// eligible to be persisted, which prevents two startup races:
//   - persisting an empty default cart over a not-yet-fetched remote snapshot
//     right after sign-in
//   - losing mutations made before the initial load completes
type LoadState int

const (
	LoadNotStarted LoadState = iota
	LoadInProgress
	LoadComplete
)

// AddResult is the synchronous outcome of an AddToCart call.
// Conflict means the addition targeted a different restaurant than the cart's
// current one; nothing was mutated and the caller decides the UI treatment
// (confirm, then ReplaceCart).
type AddResult struct {
	Conflict bool `json:"conflict"`
}

// CartEngine owns the authoritative in-memory cart for one identity session.
//
// Lifecycle (driven by identity events via SetIdentity):
//
//	NoIdentity -> LoadInProgress(uid) -> LoadComplete(uid)
//
// Every identity event restarts the load sequence, even for the same uid
// (re-fetch is not deduplicated). Sign-out (nil identity) resets the cart and
// the readiness marker.
//
// Concurrency: a mutex serializes mutations and event application, so
// operations never interleave mid-flight. Mutations apply in-memory
// synchronously; persistence runs as an unawaited follow-up write of the whole
// snapshot. A monotonic epoch, bumped on every identity event, discards load
// completions that arrive for a superseded session.
type CartEngine struct {
	store cartdom.Store

	mu    sync.Mutex
	ident *iddom.Identity
	epoch uint64
	cart  cartdom.Cart
	state LoadState

	unsubscribe func()
}

func NewCartEngine(store cartdom.Store) *CartEngine {
	return &CartEngine{
		store: store,
		cart:  cartdom.Empty(),
		state: LoadNotStarted,
	}
}

// Attach subscribes the engine to an identity provider. The provider delivers
// the current identity immediately, so attaching to a signed-in provider
// starts the initial load at once.
func (e *CartEngine) Attach(provider iddom.Provider) {
	if e == nil || provider == nil {
		return
	}
	e.unsubscribe = provider.Subscribe(e.SetIdentity)
}

// Close detaches the engine from its identity provider, if any.
func (e *CartEngine) Close() {
	if e == nil {
		return
	}
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
}

// SetIdentity applies one identity-change event.
// nil means sign-out: cart resets to empty and readiness drops, so mutations
// made before the next identity loads are silent no-ops.
func (e *CartEngine) SetIdentity(ident *iddom.Identity) {
	if e == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.epoch++

	if ident == nil || ident.UID == "" {
		e.ident = nil
		e.cart = cartdom.Empty()
		e.state = LoadNotStarted
		log.Printf("[cart_engine] identity cleared (epoch=%d)", e.epoch)
		return
	}

	e.ident = ident
	e.cart = cartdom.Empty()
	e.state = LoadInProgress

	log.Printf("[cart_engine] identity set uid=%s (epoch=%d); loading cart", ident.UID, e.epoch)
	go e.load(e.epoch, ident.UID)
}

// load fetches the remote snapshot and applies it unless the session moved on.
func (e *CartEngine) load(epoch uint64, uid string) {
	snap, err := e.store.Load(context.Background(), uid)

	e.mu.Lock()
	defer e.mu.Unlock()

	if epoch != e.epoch {
		log.Printf("[cart_engine] discarding stale load uid=%s (epoch=%d, current=%d)", uid, epoch, e.epoch)
		return
	}

	switch {
	case err != nil:
		// Read failure falls back to an empty cart, same as legitimate
		// absence; the session proceeds with in-memory state as authoritative.
		log.Printf("[cart_engine] cart load failed uid=%s: %v (starting empty)", uid, err)
		e.cart = cartdom.Empty()
	case snap == nil:
		e.cart = cartdom.Empty()
	default:
		c, verr := cartdom.New(snap.Lines, snap.RestaurantID)
		if verr != nil {
			log.Printf("[cart_engine] stored cart invalid uid=%s: %v (starting empty)", uid, verr)
			c = cartdom.Empty()
		}
		e.cart = c
	}

	e.state = LoadComplete
	log.Printf("[cart_engine] cart loaded uid=%s lines=%d restaurantId=%q", uid, len(e.cart.Lines), e.cart.RestaurantID)
}

// AddToCart appends one unit of line for restaurantID.
//
// Outcomes:
//   - load incomplete: silent no-op, {conflict:false}
//   - empty cart or same restaurant: line appended, {conflict:false}
//   - different restaurant: no mutation, {conflict:true}
func (e *CartEngine) AddToCart(line cartdom.Line, restaurantID string) AddResult {
	if e == nil {
		return AddResult{}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != LoadComplete {
		return AddResult{Conflict: false}
	}

	if err := e.cart.Append(line, restaurantID); err != nil {
		if err == cartdom.ErrRestaurantConflict {
			return AddResult{Conflict: true}
		}
		log.Printf("[cart_engine] add rejected itemId=%q restaurantId=%q: %v", line.ItemID, restaurantID, err)
		return AddResult{Conflict: false}
	}

	e.persistLocked()
	return AddResult{Conflict: false}
}

// RemoveFromCart removes one unit of itemID (first matching line only).
// Missing id is a no-op and nothing is persisted.
func (e *CartEngine) RemoveFromCart(itemID string) {
	if e == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != LoadComplete {
		return
	}

	before := len(e.cart.Lines)
	e.cart.RemoveOne(itemID)
	if len(e.cart.Lines) != before {
		e.persistLocked()
	}
}

// ReplaceCart unconditionally discards the cart and seeds it with line for
// restaurantID. Like the other mutations it is a silent no-op before the
// initial load completes.
func (e *CartEngine) ReplaceCart(line cartdom.Line, restaurantID string) {
	if e == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != LoadComplete {
		return
	}

	if err := e.cart.Replace(line, restaurantID); err != nil {
		log.Printf("[cart_engine] replace rejected itemId=%q restaurantId=%q: %v", line.ItemID, restaurantID, err)
		return
	}
	e.persistLocked()
}

// ClearCart resets the in-memory cart. Always permitted: resetting to the
// empty value is safe even before the load completes, though nothing is
// persisted until the engine is ready and an identity is active.
func (e *CartEngine) ClearCart() {
	if e == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.cart.Clear()
	if e.state == LoadComplete {
		e.persistLocked()
	}
}

// persistLocked fires an unawaited whole-snapshot write for the active
// identity. Persistence failures are logged and absorbed; the in-memory cart
// stays authoritative for the session, and the remote copy is a best-effort
// cache of the last known state. Callers must hold e.mu.
func (e *CartEngine) persistLocked() {
	if e.ident == nil || e.state != LoadComplete {
		return
	}

	uid := e.ident.UID
	snap := cartdom.Cart{
		Lines:        append([]cartdom.Line{}, e.cart.Lines...),
		RestaurantID: e.cart.RestaurantID,
	}

	go func() {
		if err := e.store.Save(context.Background(), uid, snap); err != nil {
			log.Printf("[cart_engine] cart save failed uid=%s: %v (in-memory state kept)", uid, err)
		}
	}()
}

// ----------------------------
// Read accessors
// ----------------------------

// Loaded reports whether the initial remote load has completed.
func (e *CartEngine) Loaded() bool {
	if e == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == LoadComplete
}

// Lines returns a copy of the raw line sequence.
func (e *CartEngine) Lines() []cartdom.Line {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]cartdom.Line{}, e.cart.Lines...)
}

// RestaurantID returns the restaurant the cart is locked to ("" when empty).
func (e *CartEngine) RestaurantID() string {
	if e == nil {
		return ""
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cart.RestaurantID
}

// Grouped returns the derived display view (one record per distinct itemId
// with quantities, in first-occurrence order).
func (e *CartEngine) Grouped() []cartdom.GroupedLine {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return cartdom.GroupLines(e.cart.Lines)
}
