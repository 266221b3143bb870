package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
)

type identityKey struct{}

// Identity carries the authenticated caller extracted from a verified token.
type Identity struct {
	Subject string
	FirmID  string
}

// IdentityFromContext returns the Identity attached by the Auth middleware,
// if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// WithIdentity attaches an Identity to the context the same way the Auth
// middleware does.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FirmFromContext returns the tenant identifier of the authenticated caller,
// or an empty string when the request carries no firm claim.
func FirmFromContext(ctx context.Context) string {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return ""
	}
	return id.FirmID
}

// Verifier abstracts OIDC token verification for testing.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*oidc.IDToken, error)
}

// NewVerifier discovers the OIDC provider at issuer and returns a verifier
// bound to the given client ID.
func NewVerifier(ctx context.Context, issuer, clientID string) (Verifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, err
	}
	return provider.Verifier(&oidc.Config{ClientID: clientID}), nil
}

// Auth returns middleware that requires a valid bearer token on every
// request and attaches the caller Identity to the request context.
// firmClaim names the token claim carrying the tenant identifier.
func Auth(verifier Verifier, firmClaim string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				unauthorized(w, "missing bearer token")
				return
			}

			token, err := verifier.Verify(r.Context(), raw)
			if err != nil {
				unauthorized(w, "invalid token")
				return
			}

			var claims map[string]any
			if err := token.Claims(&claims); err != nil {
				unauthorized(w, "unreadable claims")
				return
			}

			identity := Identity{Subject: token.Subject}
			if firm, ok := claims[firmClaim].(string); ok {
				identity.FirmID = firm
			}

			ctx := context.WithValue(r.Context(), identityKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:]
	}
	return ""
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
