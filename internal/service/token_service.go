package service

import (
	"errors"
	"time"

	"github.com/anish/devshowcase/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "devshowcase"

// AccessClaims is the access token payload: user id in the standard subject
// claim plus email and username for display without a DB round trip.
type AccessClaims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies the HS256 token pair. Access tokens are
// short-lived and stateless; refresh tokens are long-lived and only valid
// while they equal the value stored on the user record.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *TokenService) GenerateAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Email:    user.Email,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// GenerateRefreshToken issues a refresh token carrying only the user id. The
// jti claim makes every issued token distinct, so rotation always produces a
// new value even within the same second.
func (s *TokenService) GenerateRefreshToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		ID:        uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenService) ParseAccessToken(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := s.parse(tokenStr, claims); err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, domain.Unauthorized("token has no subject")
	}
	return claims, nil
}

// ParseRefreshToken verifies signature and expiry and returns the embedded
// user id. Equality with the stored token is the caller's responsibility.
func (s *TokenService) ParseRefreshToken(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if err := s.parse(tokenStr, claims); err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", domain.Unauthorized("token has no subject")
	}
	return claims.Subject, nil
}

func (s *TokenService) parse(tokenStr string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Unauthorized("token expired")
		}
		return domain.Unauthorized("invalid token")
	}
	if !token.Valid {
		return domain.Unauthorized("invalid token")
	}
	return nil
}
