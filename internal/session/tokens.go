package session

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	SessionID int64 `json:"session_id"`
	jwt.RegisteredClaims
}

// Tokens issues and checks game handles: HS256 JWTs naming one session.
type Tokens struct {
	secret        []byte
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
	now           func() time.Time
}

func NewTokens(secret []byte, tokenLifetime time.Duration) *Tokens {
	return &Tokens{
		secret:        secret,
		signingMethod: jwt.SigningMethodHS256,
		tokenLifetime: tokenLifetime,
		now:           time.Now,
	}
}

func (t *Tokens) Sign(sessionID int64) (string, error) {
	now := t.now()
	claims := &Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(sessionID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.tokenLifetime)),
		},
	}
	return jwt.NewWithClaims(t.signingMethod, claims).SignedString(t.secret)
}

func (t *Tokens) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(*jwt.Token) (interface{}, error) {
			return t.secret, nil
		},
		jwt.WithValidMethods([]string{t.signingMethod.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}

// Authorize reports ErrForbidden unless tokenString is a valid handle for
// sessionID.
func (t *Tokens) Authorize(tokenString string, sessionID int64) error {
	if tokenString == "" {
		return ErrForbidden
	}
	claims, err := t.Parse(tokenString)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrForbidden, err)
	}
	if claims.SessionID != sessionID {
		return ErrForbidden
	}
	return nil
}
