package auth

import (
	"encoding/json"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
)

const (
	tokenIssuer   = "foodgram-server"
	tokenAudience = "foodgram-client"
)

// Claims are the decrypted contents of an auth token.
type Claims struct {
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	SessionID string    `json:"jti"`
	Issuer    string    `json:"iss"`
	Audience  string    `json:"aud"`
	IssuedAt  time.Time `json:"iat"`
	NotBefore time.Time `json:"nbf"`
	ExpiresAt time.Time `json:"exp"`
}

// TokenService encrypts and decrypts PASETO v4.local auth tokens.
// Each token names the session that backs it, so revoking the session
// invalidates the token before it expires.
type TokenService struct {
	key      paseto.V4SymmetricKey
	lifetime time.Duration
	now      func() time.Time
}

// NewTokenService builds a service from a 32-byte key.
func NewTokenService(key []byte, lifetime time.Duration) (*TokenService, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("auth key must be %d bytes, got %d", keyLength, len(key))
	}
	if lifetime <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive, got %s", lifetime)
	}
	k, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("create PASETO key: %w", err)
	}
	return &TokenService{key: k, lifetime: lifetime, now: time.Now}, nil
}

// Lifetime returns how long issued tokens stay valid.
func (s *TokenService) Lifetime() time.Duration {
	return s.lifetime
}

// Issue encrypts a token for userID bound to sessionID.
func (s *TokenService) Issue(userID int64, email, sessionID string) (string, time.Time, error) {
	now := s.now()
	expires := now.Add(s.lifetime)

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetSubject(fmt.Sprint(userID))
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(expires)
	token.SetJti(sessionID)
	if err := token.Set("user_id", userID); err != nil {
		return "", time.Time{}, fmt.Errorf("set user claim: %w", err)
	}
	if err := token.Set("email", email); err != nil {
		return "", time.Time{}, fmt.Errorf("set email claim: %w", err)
	}

	return token.V4Encrypt(s.key, nil), expires, nil
}

// Verify decrypts token and checks issuer, audience and validity window.
func (s *TokenService) Verify(token string) (*Claims, error) {
	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.ValidAt(s.now()))

	parsed, err := parser.ParseV4Local(s.key, token, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	var claims Claims
	if err := json.Unmarshal(parsed.ClaimsJSON(), &claims); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}
	if claims.SessionID == "" || claims.UserID == 0 {
		return nil, fmt.Errorf("invalid token: missing session or user")
	}
	return &claims, nil
}
