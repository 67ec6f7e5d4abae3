package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Operator roles
const (
	// RoleAdmin may act on every tenant and run jobs.
	RoleAdmin = "admin"
	// RoleOperator is bound to a single tenant.
	RoleOperator = "operator"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims identify the operator behind a request.
type Claims struct {
	Subject  string
	TenantID string
	Role     string
}

type tokenClaims struct {
	TenantID string `json:"tenant_id,omitempty"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type JWTService struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewJWTService creates an HS256 token service. A zero ttl means 24 hours.
func NewJWTService(secretKey string, ttl time.Duration) *JWTService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTService{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		now:       time.Now,
	}
}

// GenerateToken signs an access token for claims.
func (s *JWTService) GenerateToken(claims Claims) (string, time.Time, error) {
	if claims.Role != RoleAdmin && claims.Role != RoleOperator {
		return "", time.Time{}, fmt.Errorf("unknown role %q", claims.Role)
	}
	if claims.Role == RoleOperator && claims.TenantID == "" {
		return "", time.Time{}, fmt.Errorf("operator token requires a tenant")
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		TenantID: claims.TenantID,
		Role:     claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken parses and verifies an access token.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return &Claims{
		Subject:  claims.Subject,
		TenantID: claims.TenantID,
		Role:     claims.Role,
	}, nil
}
