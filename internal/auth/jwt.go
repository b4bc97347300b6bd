package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Manager issues and validates the HS256 tokens that stand in for the host
// platform's signature verification: holding a valid token for an identity
// is how a caller proves control of it.
type Manager struct {
	secret []byte
}

func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

// GenerateToken creates a token binding identity and role for 24 hours.
func (m *Manager) GenerateToken(identity, role string) (string, error) {
	claims := jwt.MapClaims{
		"identity": identity,
		"role":     role,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken validates a token and extracts the identity and role.
func (m *Manager) ParseToken(tokenStr string) (identity, role string, err error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", "", err
	}

	if !token.Valid {
		return "", "", jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", jwt.ErrTokenMalformed
	}

	identity, ok = claims["identity"].(string)
	if !ok || identity == "" {
		return "", "", jwt.ErrTokenMalformed
	}
	role, _ = claims["role"].(string)

	return identity, role, nil
}
