// internal/application/usecase/session_registry.go
package usecase

import (
	"log"
	"strings"
	"sync"

	cartdom "quickbite/internal/domain/cart"
	iddom "quickbite/internal/domain/identity"
)

// SessionRegistry owns one CartEngine per authenticated uid and acts as the
// identity-event source for each of them.
//
// Server rendition of the identity lifecycle:
//   - first sight of a uid (verified token) = sign-in event: an engine is
//     created, fed the identity, and starts its remote load
//   - explicit sign-out = nil identity event, then the session is dropped
//
// The registry is the injected state container consumers share; handlers never
// hold cart state themselves, only a reference to the engine's operations.
type SessionRegistry struct {
	store cartdom.Store

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	engine *CartEngine
	feed   *identityFeed
}

func NewSessionRegistry(store cartdom.Store) *SessionRegistry {
	return &SessionRegistry{
		store:    store,
		sessions: map[string]*session{},
	}
}

// Engine returns the engine for ident's uid, creating and signing it in on
// first sight.
func (r *SessionRegistry) Engine(ident *iddom.Identity) *CartEngine {
	if r == nil || ident == nil {
		return nil
	}
	uid := strings.TrimSpace(ident.UID)
	if uid == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[uid]; ok {
		return s.engine
	}

	feed := newIdentityFeed()
	eng := NewCartEngine(r.store)
	eng.Attach(feed)
	feed.Set(ident)

	r.sessions[uid] = &session{engine: eng, feed: feed}
	log.Printf("[session_registry] session opened uid=%s (active=%d)", uid, len(r.sessions))
	return eng
}

// Refresh pushes a fresh identity event for an already-open session, which
// restarts the load sequence for the same uid. Repeated fetch is acceptable
// and intentionally not deduplicated. Unknown uid falls back to Engine.
func (r *SessionRegistry) Refresh(ident *iddom.Identity) *CartEngine {
	if r == nil || ident == nil {
		return nil
	}
	uid := strings.TrimSpace(ident.UID)
	if uid == "" {
		return nil
	}

	r.mu.Lock()
	if s, ok := r.sessions[uid]; ok {
		r.mu.Unlock()
		s.feed.Set(ident)
		return s.engine
	}
	r.mu.Unlock()

	return r.Engine(ident)
}

// SignOut delivers the nil identity event (cart reset, readiness dropped) and
// removes the session. Unknown uid is a no-op.
func (r *SessionRegistry) SignOut(uid string) {
	if r == nil {
		return
	}
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[uid]
	if !ok {
		return
	}

	s.feed.Set(nil)
	s.engine.Close()
	delete(r.sessions, uid)
	log.Printf("[session_registry] session closed uid=%s (active=%d)", uid, len(r.sessions))
}

// CloseAll tears down every open session. Used at shutdown.
func (r *SessionRegistry) CloseAll() {
	if r == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for uid, s := range r.sessions {
		s.engine.Close()
		delete(r.sessions, uid)
	}
}

// ----------------------------
// identityFeed
// ----------------------------

// identityFeed is an in-process identity.Provider: Subscribe delivers the
// current identity immediately and every Set broadcasts to subscribers.
type identityFeed struct {
	mu      sync.Mutex
	current *iddom.Identity
	nextID  int
	subs    map[int]func(*iddom.Identity)
}

func newIdentityFeed() *identityFeed {
	return &identityFeed{subs: map[int]func(*iddom.Identity){}}
}

func (f *identityFeed) Subscribe(fn func(*iddom.Identity)) func() {
	if f == nil || fn == nil {
		return func() {}
	}

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	current := f.current
	f.mu.Unlock()

	// Current value delivered immediately on subscribe, per the contract.
	fn(current)

	return func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}
}

func (f *identityFeed) Set(ident *iddom.Identity) {
	if f == nil {
		return
	}

	f.mu.Lock()
	f.current = ident
	fns := make([]func(*iddom.Identity), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(ident)
	}
}
