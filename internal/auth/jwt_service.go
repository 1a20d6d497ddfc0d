package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// DefaultAccessTokenExpiry is used when no TTL is configured.
const DefaultAccessTokenExpiry = time.Hour

// Claims represents JWT claims. Subject holds the account id.
type Claims struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// AccountID parses the subject claim.
func (c *Claims) AccountID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string, ttl time.Duration) *JWTService {
	if ttl <= 0 {
		ttl = DefaultAccessTokenExpiry
	}
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// TTL returns the access token lifetime.
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// GenerateAccessToken generates a new access token for the account.
func (s *JWTService) GenerateAccessToken(accountID uuid.UUID, email string, roles []string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: email,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        generateTokenID(),
			Subject:   accountID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken validates a JWT token and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token subject not found")
	}

	return claims, nil
}

// generateTokenID generates a unique token ID.
func generateTokenID() string {
	return uuid.New().String()
}
