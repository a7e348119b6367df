package models

import (
	"time"

	"github.com/google/uuid"
)

// Session — refresh-сессия пользователя. В БД хранится только хэш refresh-токена.
type Session struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	ExpiresAt  time.Time
	RevokedAt  *time.Time
	ReplacedBy *uuid.UUID
}

// Active — сессия не отозвана и не истекла на момент now.
func (s Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
