package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// DefaultTokenExpiry is used when the service is built without an explicit expiry.
const DefaultTokenExpiry = 2 * time.Hour

// Payload is the identity signed into every token.
type Payload struct {
	ID       string
	FullName string
	Roles    []string
}

// Claims represents JWT claims.
type Claims struct {
	ID       string   `json:"id"`
	FullName string   `json:"fullName"`
	Roles    []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs payloads into bearer tokens.
type TokenIssuer interface {
	Sign(payload Payload) (string, error)
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// Ensure JWTService implements TokenIssuer
var _ TokenIssuer = (*JWTService)(nil)

// NewJWTService creates a new JWT service with the given secret and token lifetime.
func NewJWTService(secret string, expiry time.Duration) *JWTService {
	if expiry <= 0 {
		expiry = DefaultTokenExpiry
	}
	return &JWTService{
		secret: []byte(secret),
		expiry: expiry,
		now:    time.Now,
	}
}

// Sign issues an HS256 token for the payload.
func (s *JWTService) Sign(payload Payload) (string, error) {
	now := s.now()
	claims := &Claims{
		ID:       payload.ID,
		FullName: payload.FullName,
		Roles:    payload.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
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
	if claims.ID == "" {
		return nil, errors.New("token has no subject id")
	}

	return claims, nil
}
