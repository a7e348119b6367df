// Package crypto содержит криптографические примитивы сервера рецептов:
// подпись и проверку JWT access-токенов, хэширование паролей
// и генерацию refresh-токенов.
package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Ошибки разбора access-токена.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// TokenTypeAccess — значение token_type в access-токенах.
const TokenTypeAccess = "access"

// JWTConfig — параметры выдачи и проверки access-токенов.
// Пустые Issuer и Audience не пишутся в токен и не проверяются.
type JWTConfig struct {
	Issuer     string
	Audience   string
	SigningKey string // HS256
	AccessTTL  time.Duration
}

// AccessClaims — claims access-токена: sub = ID пользователя, jti уникален для каждого токена.
type AccessClaims struct {
	jwt.RegisteredClaims
	TokenType string `json:"token_type"`
}

// NewAccessToken подписывает access-токен пользователя.
func NewAccessToken(userID uuid.UUID, cfg JWTConfig) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    cfg.Issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessTTL)),
		},
		TokenType: TokenTypeAccess,
	}
	if cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{cfg.Audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.SigningKey))
}

// ParseAccessToken проверяет токен и возвращает ID пользователя.
// Истёкший токен даёт ErrTokenExpired, любая другая проблема ErrTokenInvalid.
func ParseAccessToken(raw string, cfg JWTConfig) (uuid.UUID, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	var claims AccessClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return []byte(cfg.SigningKey), nil
	}, opts...)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return uuid.Nil, ErrTokenExpired
	case err != nil:
		return uuid.Nil, ErrTokenInvalid
	}

	// refresh-токены не JWT, но чужой JWT с тем же ключом сюда попасть может
	if claims.TokenType != TokenTypeAccess {
		return uuid.Nil, ErrTokenInvalid
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, ErrTokenInvalid
	}
	return userID, nil
}
