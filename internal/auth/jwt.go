// Package auth issues and validates bill session handles.
//
// A handle is an HS256 JWT carrying the session ID, so clients cannot reach
// a session by guessing its ID. It identifies a bill session, not a user.
// Handles carry no expiry: a session lives until the registry evicts it
// for idling, and a handle to an evicted session is simply not found.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is the iss claim of every session handle.
const Issuer = "billsplit"

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrMissingToken = errors.New("session token required")
)

// Claims identify one bill session.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// TokenManager signs and checks session handles.
type TokenManager struct {
	secretKey []byte
	parser    *jwt.Parser
}

// NewTokenManager creates a token manager signing with secretKey.
func NewTokenManager(secretKey string) *TokenManager {
	return &TokenManager{
		secretKey: []byte(secretKey),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(Issuer),
			jwt.WithIssuedAt(),
		),
	}
}

// Generate returns the handle for sessionID.
func (m *TokenManager) Generate(sessionID string) (string, error) {
	return m.sign(&Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   Issuer,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	})
}

func (m *TokenManager) sign(claims *Claims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Validate checks the signature and issuer of a handle and returns its
// claims. Whether the session still exists is up to the caller.
func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := m.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return m.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.SessionID == "" {
		return nil, fmt.Errorf("%w: no session id", ErrInvalidToken)
	}
	return claims, nil
}
