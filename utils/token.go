package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/meinhoongagan/feastbook/models"
)

const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// Claims is the decoded form of the tokens issued by TokenIssuer.
type Claims struct {
	UserID    uuid.UUID
	Role      models.Role
	ID        string
	Type      string
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies HS256 access and refresh tokens.
type TokenIssuer struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{Secret: []byte(secret), AccessTTL: accessTTL, RefreshTTL: refreshTTL}
}

// Issue signs a token of the given type for the user.
func (t *TokenIssuer) Issue(userID uuid.UUID, role models.Role, typ string) (string, error) {
	ttl := t.AccessTTL
	if typ == TokenRefresh {
		ttl = t.RefreshTTL
	}

	claims := jwt.MapClaims{
		"id":   userID.String(),
		"role": role.String(),
		"jti":  uuid.NewString(),
		"typ":  typ,
		"exp":  time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.Secret)
}

// Parse verifies the signature and expiry of a raw token.
func (t *TokenIssuer) Parse(raw string) (*Claims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return ClaimsFromMap(claims)
}

// ClaimsFromMap extracts the typed claims from a verified token.
func ClaimsFromMap(m jwt.MapClaims) (*Claims, error) {
	rawID, _ := m["id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id in token: %w", err)
	}

	rawRole, _ := m["role"].(string)
	role := models.Role(rawRole)
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role %q in token", rawRole)
	}

	jti, _ := m["jti"].(string)
	if jti == "" {
		return nil, errors.New("no token id in claims")
	}

	exp, ok := m["exp"].(float64)
	if !ok {
		return nil, errors.New("no expiry in claims")
	}

	typ, _ := m["typ"].(string)
	return &Claims{
		UserID:    userID,
		Role:      role,
		ID:        jti,
		Type:      typ,
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}
