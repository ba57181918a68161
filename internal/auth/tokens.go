package auth

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken covers every verification failure: malformed, forged,
	// signed with the other kind's secret, or expired.
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrMissingSecret = errors.New("token secret is not configured")
)

type TokenKind int

const (
	AccessToken TokenKind = iota
	RefreshToken
)

func (k TokenKind) String() string {
	if k == RefreshToken {
		return "refresh"
	}
	return "access"
}

// Claims binds a token to a user id. Besides id, only jti, exp and iat are
// encoded. The random jti keeps two pairs minted in the same second distinct.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type keyConfig struct {
	secret []byte
	ttl    time.Duration
}

// TokenIssuer mints and verifies HS256 access/refresh pairs. Each kind has
// its own secret and lifetime. It is safe for concurrent use.
type TokenIssuer struct {
	keys map[TokenKind]keyConfig
	now  func() time.Time
}

type Option func(*TokenIssuer)

// WithClock overrides the time source used for both signing and verification.
func WithClock(now func() time.Time) Option {
	return func(i *TokenIssuer) {
		i.now = now
	}
}

func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, opts ...Option) *TokenIssuer {
	i := &TokenIssuer{
		keys: map[TokenKind]keyConfig{
			AccessToken:  {secret: []byte(accessSecret), ttl: accessTTL},
			RefreshToken: {secret: []byte(refreshSecret), ttl: refreshTTL},
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue signs a fresh access/refresh pair for userID. Nothing is persisted.
func (i *TokenIssuer) Issue(userID uuid.UUID) (*TokenPair, error) {
	access, err := i.sign(userID, AccessToken)
	if err != nil {
		return nil, err
	}
	refresh, err := i.sign(userID, RefreshToken)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (i *TokenIssuer) sign(userID uuid.UUID, kind TokenKind) (string, error) {
	key := i.keys[kind]
	if len(key.secret) == 0 {
		return "", fmt.Errorf("sign %s token: %w", kind, ErrMissingSecret)
	}

	now := i.now()
	claims := Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(key.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

// Verify checks the signature against the secret for kind and the expiry,
// and returns the encoded user id.
func (i *TokenIssuer) Verify(tokenString string, kind TokenKind) (uuid.UUID, error) {
	key := i.keys[kind]
	if len(key.secret) == 0 {
		return uuid.Nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return key.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Printf("WARN [auth.Verify] %s token expired", kind)
		} else {
			log.Printf("WARN [auth.Verify] %s token rejected: %v", kind, err)
		}
		return uuid.Nil, ErrInvalidToken
	}

	if !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		log.Printf("WARN [auth.Verify] %s token has invalid id claim", kind)
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}

func (i *TokenIssuer) VerifyAccess(tokenString string) (uuid.UUID, error) {
	return i.Verify(tokenString, AccessToken)
}

func (i *TokenIssuer) VerifyRefresh(tokenString string) (uuid.UUID, error) {
	return i.Verify(tokenString, RefreshToken)
}

// TTL returns the configured lifetime for kind.
func (i *TokenIssuer) TTL(kind TokenKind) time.Duration {
	return i.keys[kind].ttl
}
