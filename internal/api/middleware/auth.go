package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/dom/blog-api/internal/api/response"
	"github.com/dom/blog-api/internal/domain"
)

type contextKey string

const (
	UserKey contextKey = "user"

	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

var ErrMissingCredential = domain.Unauthorized("Unauthorized request")

// Authenticator resolves an access token to the user it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*domain.UserProfile, error)
}

// Gate admits or rejects requests that need an identity.
type Gate struct {
	auth Authenticator
}

func NewGate(auth Authenticator) *Gate {
	return &Gate{auth: auth}
}

// Admit returns the requester's profile or the error that should end the
// request. It has no side effects beyond the user lookup.
func (g *Gate) Admit(r *http.Request) (*domain.UserProfile, error) {
	token := TokenFromRequest(r, AccessTokenCookie)
	if token == "" {
		return nil, ErrMissingCredential
	}

	user, err := g.auth.Authenticate(r.Context(), token)
	if err != nil {
		log.Printf("ERROR [middleware.Gate] %s %s rejected: %v", r.Method, r.URL.Path, err)
		return nil, err
	}
	return user, nil
}

// Require rejects any request the gate does not admit.
func (g *Gate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := g.Admit(r)
		if err != nil {
			response.Error(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// Optional lets requests without any credential through anonymously.
// A credential that is present but invalid is still rejected.
func (g *Gate) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if TokenFromRequest(r, AccessTokenCookie) == "" {
			next.ServeHTTP(w, r)
			return
		}
		g.Require(next).ServeHTTP(w, r)
	})
}

// TokenFromRequest reads the named cookie, falling back to a bearer token
// in the Authorization header.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}

	authHeader := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func WithUser(ctx context.Context, user *domain.UserProfile) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// GetUser returns the identity attached by the gate, if any.
func GetUser(ctx context.Context) (*domain.UserProfile, bool) {
	user, ok := ctx.Value(UserKey).(*domain.UserProfile)
	return user, ok && user != nil
}
