package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// RefreshToken — выданный клиенту refresh-токен.
// Plain уходит клиенту, в БД хранится только Hash.
type RefreshToken struct {
	Plain string
	Hash  []byte
}

// NewRefreshToken генерирует случайный 256-битный токен.
func NewRefreshToken() (RefreshToken, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return RefreshToken{}, err
	}
	plain := base64.RawURLEncoding.EncodeToString(b)
	return RefreshToken{Plain: plain, Hash: HashRefreshToken(plain)}, nil
}

// HashRefreshToken — sha256 от токена, по нему ищется сессия.
func HashRefreshToken(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}
