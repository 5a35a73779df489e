// Package auth issues and parses bearer credentials and hashes passwords.
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrEmptyUserID  = errors.New("user id cannot be empty")
)

// TokenCodec turns a user id into an opaque bearer credential and back.
type TokenCodec interface {
	Issue(userID string) (string, error)
	Parse(token string) (userID string, err error)
}

// --- Legacy codec ---

const (
	legacyDelimiter  = ":"
	legacyNonceBytes = 8
)

// LegacyCodec produces base64("<userID>:<hex nonce>") credentials, the format
// issued by the prototype backend. The nonce only varies the output: it is
// never checked, there is no signature and no expiry. Use it only when old
// clients must keep working.
type LegacyCodec struct{}

// NewLegacyCodec returns the unsigned compatibility codec.
func NewLegacyCodec() LegacyCodec {
	return LegacyCodec{}
}

func (LegacyCodec) Issue(userID string) (string, error) {
	if userID == "" {
		return "", ErrEmptyUserID
	}
	nonce := make([]byte, legacyNonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate token nonce: %w", err)
	}
	raw := userID + legacyDelimiter + hex.EncodeToString(nonce)
	return base64.StdEncoding.EncodeToString([]byte(raw)), nil
}

func (LegacyCodec) Parse(token string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", ErrInvalidToken
	}
	userID, _, found := strings.Cut(string(decoded), legacyDelimiter)
	if !found || userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}

// --- JWT codec ---

const jwtIssuer = "gymtracker"

type jwtClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// JWTCodec issues HS256-signed tokens carrying the user id, a random token id
// and an expiry. Parsing verifies all three without a store round-trip.
type JWTCodec struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewJWTCodec creates a JWTCodec. A non-positive expiration defaults to 24h.
func NewJWTCodec(secret string, expiration time.Duration) (*JWTCodec, error) {
	if secret == "" {
		return nil, errors.New("jwt secret cannot be empty")
	}
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	return &JWTCodec{secret: []byte(secret), expiration: expiration, now: time.Now}, nil
}

func (c *JWTCodec) Issue(userID string) (string, error) {
	if userID == "" {
		return "", ErrEmptyUserID
	}
	now := c.now()
	claims := &jwtClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    jwtIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.expiration)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (c *JWTCodec) Parse(token string) (string, error) {
	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if claims.UserID == "" || claims.Issuer != jwtIssuer {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
