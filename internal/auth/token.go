package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/whysoezzy/meetups_server/internal/config"
)

// ErrInvalidToken covers every validation failure: malformed, bad signature,
// wrong issuer or audience, expired. Callers see a single unauthenticated
// outcome and nothing more.
var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer mints and validates signed session credentials. Tokens are
// stateless: there is no revocation list, a minted token stays valid until
// its expiry.
type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	validity time.Duration
}

// NewTokenIssuer builds a token issuer from application configuration.
func NewTokenIssuer(cfg config.Config) *TokenIssuer {
	return &TokenIssuer{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		validity: cfg.TokenValidity,
	}
}

// Mint signs a credential whose subject is the given user id.
func (t *TokenIssuer) Mint(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    t.issuer,
		Audience:  jwt.ClaimStrings{t.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.validity)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Validate checks signature, issuer, audience and expiry, returning the
// subject user id on success.
func (t *TokenIssuer) Validate(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer), jwt.WithAudience(t.audience), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
