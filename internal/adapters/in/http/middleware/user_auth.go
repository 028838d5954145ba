// internal/adapters/in/http/middleware/user_auth.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"

	iddom "quickbite/internal/domain/identity"
)

// FirebaseAuthClient is an alias for the firebase auth client so callers can
// hold *middleware.FirebaseAuthClient without importing the SDK.
type FirebaseAuthClient = fbauth.Client

// context keys use a private type instead of string (SA1029).
type ctxKey struct{ name string }

var ctxKeyIdentity = ctxKey{name: "identity"}

// WithIdentity stores the verified identity in ctx (exported for handler tests).
func WithIdentity(ctx context.Context, ident *iddom.Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, ident)
}

// IdentityFrom returns the verified identity stored by UserAuth, or nil.
func IdentityFrom(ctx context.Context) *iddom.Identity {
	ident, _ := ctx.Value(ctxKeyIdentity).(*iddom.Identity)
	return ident
}

// UserAuth verifies
//
//   - Authorization: Bearer <ID_TOKEN>
//
// against Firebase Auth and stores the resulting identity (uid/email) in the
// request context. No user-record lookup happens here; the token is the
// identity provider's word on who is signed in.
type UserAuth struct {
	FirebaseAuth *FirebaseAuthClient
}

func (m *UserAuth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil || m.FirebaseAuth == nil {
			http.Error(w, "user auth middleware not initialized", http.StatusServiceUnavailable)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "unauthorized: missing bearer token", http.StatusUnauthorized)
			return
		}

		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			http.Error(w, "unauthorized: empty bearer token", http.StatusUnauthorized)
			return
		}

		token, err := m.FirebaseAuth.VerifyIDToken(r.Context(), idToken)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		uid := strings.TrimSpace(token.UID)
		if uid == "" {
			http.Error(w, "invalid uid in token", http.StatusUnauthorized)
			return
		}

		ident := &iddom.Identity{UID: uid}
		if emailRaw, ok := token.Claims["email"]; ok {
			if e, ok2 := emailRaw.(string); ok2 {
				ident.Email = strings.TrimSpace(e)
			}
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ident)))
	})
}
