package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/config"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/models"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/validation"
	serr "github.com/IvanChernomyrdin/go-recipe-api/internal/shared/errors"
)

// AuthService реализует бизнес-логику аутентификации и управления сессиями.
//
// Ответственность:
//   - регистрация пользователей и суперпользователей
//   - аутентификация (логин) и выпуск access / refresh токенов
//   - обновление токенов по refresh с rotation и reuse detection
type AuthService struct {
	users    UsersRepo
	sessions SessionsRepo
	hasher   crypto.Hasher
	v        *validation.Validator

	jwt            crypto.JWTConfig
	minPassword    int
	refreshTTL     time.Duration
	rotateRefresh  bool
	reuseDetection bool
}

// TokenPair представляет пару access / refresh токенов.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterInput — данные регистрации.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// NewAuthService создаёт AuthService с зависимостями и настройками из конфига.
func NewAuthService(users UsersRepo, sessions SessionsRepo, hasher crypto.Hasher, v *validation.Validator, cfg *config.Config) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		v:        v,

		jwt: crypto.JWTConfig{
			Issuer:     cfg.Auth.Issuer,
			Audience:   cfg.Auth.Audience,
			SigningKey: cfg.Auth.JWT.SigningKey,
			AccessTTL:  cfg.Auth.AccessTTL,
		},
		minPassword:    cfg.Password.MinLength,
		refreshTTL:     cfg.Auth.RefreshTTL,
		rotateRefresh:  cfg.Auth.Sessions.RotateRefresh,
		reuseDetection: cfg.Auth.Sessions.ReuseDetection,
	}
}

// NormalizeEmail приводит доменную часть email к нижнему регистру,
// локальную часть оставляет как есть: Test@ExampLE.com -> Test@example.com.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + strings.ToLower(email[at:])
}

// Register регистрирует обычного пользователя.
//
// Ошибки: *ValidationError (email, password, name): в том числе если email уже занят.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	return s.create(ctx, in, false)
}

// CreateSuperuser создаёт пользователя с is_staff и is_superuser.
func (s *AuthService) CreateSuperuser(ctx context.Context, in RegisterInput) (models.User, error) {
	return s.create(ctx, in, true)
}

func (s *AuthService) create(ctx context.Context, in RegisterInput, super bool) (models.User, error) {
	email := NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)

	verr := &serr.ValidationError{}
	if err := s.v.Var("email", email, "required,email,max=255"); err != nil {
		mergeFields(verr, err)
	}
	if err := s.v.Var("name", name, "max=255"); err != nil {
		mergeFields(verr, err)
	}
	switch {
	case strings.TrimSpace(in.Password) == "":
		verr.Add("password", "this field is required")
	case utf8.RuneCountInString(in.Password) < s.minPassword:
		verr.Add("password", fmt.Sprintf("ensure this field has at least %d characters", s.minPassword))
	}
	if !verr.Empty() {
		return models.User{}, verr
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return models.User{}, serr.ErrInternal
	}

	u, err := s.users.Create(ctx, models.NewUser{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsStaff:      super,
		IsSuperuser:  super,
	})
	if errors.Is(err, serr.ErrAlreadyExists) {
		return models.User{}, serr.NewValidationError("email", "user with this email already exists")
	}
	return u, err
}

// Login аутентифицирует пользователя и выдаёт пару токенов.
//
// Не раскрывает факт существования email: неизвестный email, неверный пароль
// и отключённый пользователь дают одну и ту же ErrInvalidCredentials.
// При успехе обновляет last_login.
func (s *AuthService) Login(ctx context.Context, email, password string) (TokenPair, error) {
	email = NormalizeEmail(email)

	verr := &serr.ValidationError{}
	if email == "" {
		verr.Add("email", "this field is required")
	}
	if password == "" {
		verr.Add("password", "this field is required")
	}
	if !verr.Empty() {
		return TokenPair{}, verr
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return TokenPair{}, serr.ErrInvalidCredentials
		}
		return TokenPair{}, err
	}

	ok, err := crypto.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return TokenPair{}, serr.ErrInternal
	}
	if !ok || !user.IsActive {
		return TokenPair{}, serr.ErrInvalidCredentials
	}

	pair, _, err := s.issue(ctx, user.ID, time.Now())
	if err != nil {
		return TokenPair{}, err
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// Refresh обновляет токены по refresh токену.
//
// Поддерживает:
//   - rotation refresh токенов
//   - reuse detection (отзыв всех сессий при повторном использовании)
//
// Ошибки: ErrInvalidInput, ErrUnauthorized.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return TokenPair{}, serr.NewValidationError("refresh_token", "this field is required")
	}

	sess, err := s.sessions.GetByRefreshHash(ctx, crypto.HashRefreshToken(refreshToken))
	if err != nil {
		return TokenPair{}, err
	}

	now := time.Now()

	// если токен уже отозван: значит кто-то пытается переиспользовать
	if sess.RevokedAt != nil {
		if s.reuseDetection {
			if err := s.sessions.RevokeAllForUser(ctx, sess.UserID); err != nil {
				return TokenPair{}, err
			}
		}
		return TokenPair{}, serr.ErrUnauthorized
	}
	if !sess.Active(now) {
		return TokenPair{}, serr.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return TokenPair{}, serr.ErrUnauthorized
		}
		return TokenPair{}, err
	}
	if !user.IsActive {
		return TokenPair{}, serr.ErrUnauthorized
	}

	if !s.rotateRefresh {
		access, err := crypto.NewAccessToken(user.ID, s.jwt)
		if err != nil {
			return TokenPair{}, serr.ErrInternal
		}
		return TokenPair{AccessToken: access, RefreshToken: refreshToken}, nil
	}

	pair, newID, err := s.issue(ctx, user.ID, now)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.sessions.RevokeAndReplace(ctx, sess.ID, newID); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// Me возвращает профиль пользователя.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (models.User, error) {
	if userID == uuid.Nil {
		return models.User{}, serr.ErrUserIDEmpty
	}
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, serr.ErrNotFound) {
		// токен выдан пользователю, которого больше нет
		return models.User{}, serr.ErrUnauthorized
	}
	return u, err
}

// issue выпускает access токен и новую refresh-сессию.
func (s *AuthService) issue(ctx context.Context, userID uuid.UUID, now time.Time) (TokenPair, uuid.UUID, error) {
	access, err := crypto.NewAccessToken(userID, s.jwt)
	if err != nil {
		return TokenPair{}, uuid.Nil, serr.ErrInternal
	}

	refresh, err := crypto.NewRefreshToken()
	if err != nil {
		return TokenPair{}, uuid.Nil, serr.ErrInternal
	}

	sessID, err := s.sessions.Create(ctx, userID, refresh.Hash, now.Add(s.refreshTTL))
	if err != nil {
		return TokenPair{}, uuid.Nil, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh.Plain}, sessID, nil
}

// mergeFields переносит сообщения по полям из err в dst.
func mergeFields(dst *serr.ValidationError, err error) {
	for f, msg := range serr.FieldErrors(err) {
		dst.Add(f, msg)
	}
}
