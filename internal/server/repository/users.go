package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-recipe-api/internal/shared/errors"
)

const userColumns = `id, email, name, password_hash, is_active, is_staff, is_superuser, last_login, created_at`

// UsersRepository — учётные записи пользователей.
type UsersRepository struct {
	db *sql.DB
}

func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// Create сохраняет пользователя.
//
// Email уникален без учёта регистра (индекс по lower(email)),
// при нарушении возвращается ErrAlreadyExists.
func (r *UsersRepository) Create(ctx context.Context, u models.NewUser) (models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO users (email, name, password_hash, is_staff, is_superuser)
		 VALUES ($1,$2,$3,$4,$5)
		 RETURNING `+userColumns,
		u.Email, u.Name, u.PasswordHash, u.IsStaff, u.IsSuperuser,
	)

	user, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, serr.ErrAlreadyExists
		}
		return models.User{}, serr.ErrInternal
	}
	return user, nil
}

// GetByEmail ищет пользователя по email без учёта регистра.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`,
		email,
	)
	user, err := scanUser(row)
	if err != nil {
		return models.User{}, notFoundOr(err)
	}
	return user, nil
}

func (r *UsersRepository) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	)
	user, err := scanUser(row)
	if err != nil {
		return models.User{}, notFoundOr(err)
	}
	return user, nil
}

// TouchLastLogin проставляет last_login = now().
func (r *UsersRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = now() WHERE id = $1`, id); err != nil {
		return serr.ErrInternal
	}
	return nil
}

func scanUser(row *sql.Row) (models.User, error) {
	var (
		u         models.User
		lastLogin sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash,
		&u.IsActive, &u.IsStaff, &u.IsSuperuser, &lastLogin, &u.CreatedAt)
	if err != nil {
		return models.User{}, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return u, nil
}
