package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stemsi/coeval-backend/internal/config"
	"github.com/stemsi/coeval-backend/internal/model"
)

// Common auth errors.
var (
	ErrMissingIdentity = errors.New("token carries no user id")
	ErrUnknownRole     = errors.New("token carries an unknown role")
)

// Claims are the bearer token fields issued by the identity provider. Older
// tokens carry the user id under "_id" or "uid" instead of "id"; Identity
// resolves them to a single canonical id.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string     `json:"id,omitempty"`
	LegacyID string     `json:"_id,omitempty"`
	UID      string     `json:"uid,omitempty"`
	Role     model.Role `json:"role"`
	Email    string     `json:"email,omitempty"`
	Name     string     `json:"name,omitempty"`
}

// Identity resolves the canonical caller. The first non-empty of id, _id,
// uid and sub wins.
func (c *Claims) Identity() (model.Identity, error) {
	var id string
	for _, candidate := range []string{c.UserID, c.LegacyID, c.UID, c.Subject} {
		if candidate != "" {
			id = candidate
			break
		}
	}
	if id == "" {
		return model.Identity{}, ErrMissingIdentity
	}
	if c.Role != model.RoleTeacher && c.Role != model.RoleStudent {
		return model.Identity{}, ErrUnknownRole
	}
	return model.Identity{UserID: model.UserID(id), Role: c.Role, Email: c.Email, Name: c.Name}, nil
}

// AuthService verifies and issues bearer tokens.
type AuthService struct {
	cfg *config.Config
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

// GenerateToken issues a token for an identity. Used by seed tooling and the
// end-to-end suite; production tokens come from the identity provider.
func (s *AuthService) GenerateToken(ident model.Identity) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   string(ident.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		UserID: string(ident.UserID),
		Role:   ident.Role,
		Email:  ident.Email,
		Name:   ident.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// Authenticate validates a token and resolves its identity.
func (s *AuthService) Authenticate(tokenStr string) (model.Identity, error) {
	claims, err := s.ValidateToken(tokenStr)
	if err != nil {
		return model.Identity{}, err
	}
	return claims.Identity()
}
