package app

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired indicates a well-formed, correctly signed token whose
	// expiry has passed. The caller should re-authenticate.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenUntrusted indicates a structurally invalid token or a
	// signature that does not verify under the configured secret.
	ErrTokenUntrusted = errors.New("token untrusted")
	// ErrMissingSubject indicates a verifiable token that carries no subject.
	ErrMissingSubject = errors.New("token has no subject")
)

// TokenIssuer mints and verifies HMAC-SHA256 signed session tokens. The
// secret is fixed at construction and shared read-only across concurrent
// verifications.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates a token issuer signing with secret and issuing
// tokens valid for ttl.
func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl, now: time.Now}
}

// TTL returns the lifetime of issued tokens.
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue creates a signed token asserting subject, valid from now until
// now + TTL.
func (i *TokenIssuer) Issue(subject string) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	})
	return token.SignedString(i.secret)
}

// Verify parses and validates a token string and returns its claims.
//
// Only HS256 is accepted; a token declaring any other algorithm (including
// "none") is rejected as untrusted, never verified under a downgraded
// scheme. A bad signature is always ErrTokenUntrusted, even if the token is
// also past expiry.
func (i *TokenIssuer) Verify(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return i.now() }),
	)
	switch {
	case err == nil:
		// fall through to the subject check
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return nil, ErrTokenUntrusted
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	default:
		return nil, ErrTokenUntrusted
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}
