// Серверная модель пользователя
package models

import (
	"time"

	"github.com/google/uuid"
)

// User — учётная запись. Email хранится нормализованным (домен в нижнем регистре).
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
	LastLogin    *time.Time
	CreatedAt    time.Time
}

// NewUser — данные для создания пользователя.
type NewUser struct {
	Email        string
	Name         string
	PasswordHash string
	IsStaff      bool
	IsSuperuser  bool
}
