// internal/domain/identity/identity.go
package identity

// Identity is the authenticated user principal that keys the remote cart
// document. A nil *Identity means "no identity" (signed out).
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
}

// Provider delivers the current identity and every subsequent change.
//
// Contract:
// - Subscribe calls fn with the current identity immediately.
// - fn receives nil on sign-out.
// - The returned func unsubscribes; calling it more than once is safe.
//
// Re-authentication events for the same UID are delivered as regular change
// events, not deduplicated; subscribers are expected to re-run their load
// sequence on every event.
type Provider interface {
	Subscribe(fn func(*Identity)) (unsubscribe func())
}
