package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-recipe-api/internal/shared/errors"
)

// SessionsRepository — refresh-сессии. Сам refresh-токен не хранится, только его хэш.
type SessionsRepository struct {
	db *sql.DB
}

func NewSessionsRepository(db *sql.DB) *SessionsRepository {
	return &SessionsRepository{db: db}
}

// Create открывает сессию и возвращает её id.
// Совпадение хэша даёт ErrConflict.
func (r *SessionsRepository) Create(ctx context.Context, userID uuid.UUID, refreshHash []byte, expiresAt time.Time) (uuid.UUID, error) {
	var id uuid.UUID
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`INSERT INTO sessions (user_id, refresh_hash, expires_at) VALUES ($1,$2,$3) RETURNING id`,
		userID, refreshHash, expiresAt,
	).Scan(&id)
	switch {
	case err == nil:
		return id, nil
	case isUniqueViolation(err):
		return uuid.Nil, serr.ErrConflict
	default:
		return uuid.Nil, serr.ErrInternal
	}
}

// GetByRefreshHash ищет сессию по хэшу refresh-токена.
// Неизвестный токен для вызывающего то же, что невалидный: ErrUnauthorized.
func (r *SessionsRepository) GetByRefreshHash(ctx context.Context, refreshHash []byte) (models.Session, error) {
	var (
		s          models.Session
		revokedAt  sql.NullTime
		replacedBy uuid.NullUUID
	)
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, user_id, expires_at, revoked_at, replaced_by FROM sessions WHERE refresh_hash = $1`,
		refreshHash,
	).Scan(&s.ID, &s.UserID, &s.ExpiresAt, &revokedAt, &replacedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, serr.ErrUnauthorized
	}
	if err != nil {
		return models.Session{}, serr.ErrInternal
	}

	if revokedAt.Valid {
		s.RevokedAt = &revokedAt.Time
	}
	if replacedBy.Valid {
		s.ReplacedBy = &replacedBy.UUID
	}
	return s, nil
}

// RevokeAndReplace закрывает сессию oldID ротацией на newID.
//
// Закрыть можно только живую сессию: если её уже отозвал параллельный
// refresh с тем же токеном, вернётся ErrUnauthorized.
func (r *SessionsRepository) RevokeAndReplace(ctx context.Context, oldID, newID uuid.UUID) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE sessions SET revoked_at = now(), replaced_by = $2 WHERE id = $1 AND revoked_at IS NULL`,
		oldID, newID,
	)
	if err != nil {
		return serr.ErrInternal
	}
	n, err := res.RowsAffected()
	if err != nil {
		return serr.ErrInternal
	}
	if n == 0 {
		return serr.ErrUnauthorized
	}
	return nil
}

// RevokeAllForUser отзывает все живые сессии пользователя (реакция на повтор refresh-токена).
func (r *SessionsRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE sessions SET revoked_at = now() WHERE user_id = $1 AND revoked_at IS NULL`,
		userID,
	); err != nil {
		return serr.ErrInternal
	}
	return nil
}

// DeleteExpired удаляет сессии, истёкшие до before, и возвращает их число.
// Отозванные, но ещё не истёкшие сессии остаются: по ним работает reuse detection.
func (r *SessionsRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < $1`, before)
	if err != nil {
		return 0, serr.ErrInternal
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, serr.ErrInternal
	}
	return n, nil
}
