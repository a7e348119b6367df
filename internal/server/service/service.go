// Package service содержит бизнес-логику сервера рецептов.
// Это прослойка между HTTP-обработчиками (api) и хранилищем данных (repository).
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/config"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/models"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/validation"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// Repositories — набор интерфейсов, которые сервисный слой ожидает от слоя repository.
type Repositories struct {
	Tx       TxManager
	Users    UsersRepo
	Sessions SessionsRepo
	Recipes  RecipesRepo
	Labels   LabelsRepo
}

// Services — агрегатор всех сервисов приложения.
type Services struct {
	Auth    *AuthService
	Recipes *RecipesService
	Labels  *LabelsService
	Images  *ImagesService
}

// NewServices собирает все сервисы приложения.
func NewServices(repos Repositories, images ImageStore, hasher crypto.Hasher, cfg *config.Config) *Services {
	v := validation.New()
	return &Services{
		Auth:    NewAuthService(repos.Users, repos.Sessions, hasher, v, cfg),
		Recipes: NewRecipesService(repos.Tx, repos.Recipes, repos.Labels, images, v),
		Labels:  NewLabelsService(repos.Labels, v),
		Images:  NewImagesService(repos.Recipes, images, cfg.Recipes),
	}
}

// TxManager — единица работы: всё, что вызвано с ctx из fn, выполняется в одной транзакции.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UsersRepo — репозиторий пользователей (регистрация, вход, профиль).
type UsersRepo interface {
	Create(ctx context.Context, u models.NewUser) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}

// SessionsRepo — refresh-сессии.
type SessionsRepo interface {
	Create(ctx context.Context, userID uuid.UUID, refreshHash []byte, expiresAt time.Time) (uuid.UUID, error)
	GetByRefreshHash(ctx context.Context, refreshHash []byte) (models.Session, error)
	RevokeAndReplace(ctx context.Context, oldID, newID uuid.UUID) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
}

// RecipesRepo — рецепты, всегда в рамках владельца.
type RecipesRepo interface {
	Insert(ctx context.Context, userID uuid.UUID, f models.RecipeFields) (models.Recipe, error)
	GetForUpdate(ctx context.Context, userID, id uuid.UUID) (models.Recipe, error)
	Update(ctx context.Context, userID, id uuid.UUID, f models.RecipeFields) error
	Get(ctx context.Context, userID, id uuid.UUID) (models.Recipe, error)
	List(ctx context.Context, userID uuid.UUID, f models.RecipeFilter) ([]models.Recipe, error)
	Delete(ctx context.Context, userID, id uuid.UUID) (*string, error)
	Exists(ctx context.Context, userID, id uuid.UUID) error
	SetImage(ctx context.Context, userID, id uuid.UUID, path string) (*string, error)
}

// LabelsRepo — теги и ингредиенты.
type LabelsRepo interface {
	List(ctx context.Context, kind models.LabelKind, userID uuid.UUID, f models.LabelFilter) ([]models.Label, error)
	Upsert(ctx context.Context, kind models.LabelKind, userID uuid.UUID, name string) (models.Label, error)
	Rename(ctx context.Context, kind models.LabelKind, userID, id uuid.UUID, name string) (models.Label, error)
	Delete(ctx context.Context, kind models.LabelKind, userID, id uuid.UUID) error
	SetRecipeLabels(ctx context.Context, kind models.LabelKind, recipeID uuid.UUID, labelIDs []uuid.UUID) error
}

// ImageStore — хранилище файлов изображений.
type ImageStore interface {
	Save(name string, data []byte) error
	Delete(name string) error
	URL(name string) string
}
