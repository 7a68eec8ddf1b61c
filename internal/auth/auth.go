package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ukydev/bus-maintenance/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrNoSecret     = errors.New("jwt secret is empty")
)

// Service issues and validates operator tokens
type Service struct {
	jwtSecret []byte
	tokenExp  time.Duration
}

// NewService creates a new token service
func NewService(secret string, exp time.Duration) (*Service, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if exp <= 0 {
		exp = 24 * time.Hour // default 24 hours
	}
	return &Service{
		jwtSecret: []byte(secret),
		tokenExp:  exp,
	}, nil
}

// GenerateToken generates a JWT token for an operator
func (s *Service) GenerateToken(subject string, scope models.Scope) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("subject is required")
	}
	claims := jwt.MapClaims{
		"sub":   subject,
		"scope": string(scope),
		"exp":   time.Now().Add(s.tokenExp).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken validates a JWT token and returns the claims
func (s *Service) ValidateToken(tokenString string) (*models.Claims, error) {
	// Remove "Bearer " prefix if present
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return nil, ErrInvalidToken
	}

	scope, ok := claims["scope"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}

	return &models.Claims{
		Subject: subject,
		Scope:   models.Scope(scope),
		Exp:     int64(exp),
	}, nil
}

// ExtractTokenFromHeader extracts token from Authorization header
func (s *Service) ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrInvalidToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrInvalidToken
	}

	return parts[1], nil
}
