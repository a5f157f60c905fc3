package util

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// AccessTokenTTL is the fixed lifetime of bearer tokens.
	AccessTokenTTL = 24 * time.Hour
	// ResetTicketTTL bounds the window between a successful OTP
	// verification and the password reset that consumes it.
	ResetTicketTTL = 10 * time.Minute

	scopePasswordReset = "password_reset"
)

// ErrSigningKeyMissing is returned when token issuance is attempted without
// a configured secret. Callers translate it to an internal error rather
// than crashing.
var ErrSigningKeyMissing = errors.New("jwt signing key is not configured")

type Claims struct {
	Role  string `json:"role,omitempty"`
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

type TokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Generate issues a signed bearer token carrying the subject id and role.
func (m *TokenManager) Generate(userID uuid.UUID, role string) (string, time.Time, error) {
	return m.sign(userID, role, "", AccessTokenTTL)
}

// GenerateResetTicket issues the short-lived token that verify-otp hands
// back and reset-password demands.
func (m *TokenManager) GenerateResetTicket(userID uuid.UUID) (string, time.Time, error) {
	return m.sign(userID, "", scopePasswordReset, ResetTicketTTL)
}

func (m *TokenManager) sign(userID uuid.UUID, role, scope string, ttl time.Duration) (string, time.Time, error) {
	if len(m.secret) == 0 {
		return "", time.Time{}, ErrSigningKeyMissing
	}
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		Role:  role,
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse validates signature and expiry and returns the embedded claims.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	if len(m.secret) == 0 {
		return nil, ErrSigningKeyMissing
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Scope != "" {
		return nil, errors.New("token not valid for authentication")
	}
	return claims, nil
}

// ParseResetTicket validates a ticket issued by GenerateResetTicket and
// returns the user it was issued for.
func (m *TokenManager) ParseResetTicket(tokenString string) (uuid.UUID, error) {
	if len(m.secret) == 0 {
		return uuid.Nil, ErrSigningKeyMissing
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	if !token.Valid || claims.Scope != scopePasswordReset {
		return uuid.Nil, errors.New("invalid reset ticket")
	}
	return claims.UserID()
}
