// Package middleware содержит HTTP middleware сервера.
package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/models"
)

// Тексты ответов 401.
const (
	msgNoCredentials = "authentication credentials were not provided"
	msgTokenExpired  = "token expired"
	msgInvalidToken  = "invalid token"
)

// JWTVerifier проверяет access-токены по тем же параметрам, с которыми их выдаёт AuthService.
type JWTVerifier struct {
	cfg crypto.JWTConfig
}

// NewJWTVerifier создаёт верификатор. Пустые issuer/audience не проверяются.
func NewJWTVerifier(signingKey, issuer, audience string) *JWTVerifier {
	return &JWTVerifier{cfg: crypto.JWTConfig{SigningKey: signingKey, Issuer: issuer, Audience: audience}}
}

// AuthMiddleware пропускает дальше только запросы с валидным
// "Authorization: Bearer <access>" и кладёт владельца токена в контекст.
// Refresh-токен сюда не подходит: он не JWT.
func (v *JWTVerifier) AuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := ExtractBearer(r.Header.Get("Authorization"))
			if raw == "" {
				unauthorized(w, msgNoCredentials)
				return
			}

			userID, err := crypto.ParseAccessToken(raw, v.cfg)
			switch {
			case errors.Is(err, crypto.ErrTokenExpired):
				unauthorized(w, msgTokenExpired)
				return
			case err != nil:
				unauthorized(w, msgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// ExtractBearer достаёт токен из значения заголовка Authorization.
// Схема сравнивается без учёта регистра; при любом другом формате вернётся "".
func ExtractBearer(h string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	writeError(w, http.StatusUnauthorized, msg)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: msg})
}
