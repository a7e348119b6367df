package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/models"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/validation"
	serr "github.com/IvanChernomyrdin/go-recipe-api/internal/shared/errors"
)

// LabelsService — управление тегами и ингредиентами владельца.
// Создаются они только через рецепты, здесь только список, переименование и удаление.
type LabelsService struct {
	labels LabelsRepo
	v      *validation.Validator
}

func NewLabelsService(labels LabelsRepo, v *validation.Validator) *LabelsService {
	return &LabelsService{labels: labels, v: v}
}

func (s *LabelsService) List(ctx context.Context, kind models.LabelKind, owner uuid.UUID, f models.LabelFilter) ([]models.Label, error) {
	if owner == uuid.Nil {
		return nil, serr.ErrUserIDEmpty
	}
	return s.labels.List(ctx, kind, owner, f)
}

// Rename меняет имя метки. Пустое имя или имя, уже занятое другой меткой
// того же владельца: ошибка валидации.
func (s *LabelsService) Rename(ctx context.Context, kind models.LabelKind, owner, id uuid.UUID, name string) (models.Label, error) {
	name = strings.TrimSpace(name)
	if err := s.v.Var("name", name, "required,max=255"); err != nil {
		return models.Label{}, err
	}

	l, err := s.labels.Rename(ctx, kind, owner, id, name)
	if errors.Is(err, serr.ErrAlreadyExists) {
		return models.Label{}, serr.NewValidationError("name", "a "+string(kind)+" with this name already exists")
	}
	return l, err
}

// Delete удаляет метку; рецепты, к которым она была привязана, остаются.
func (s *LabelsService) Delete(ctx context.Context, kind models.LabelKind, owner, id uuid.UUID) error {
	return s.labels.Delete(ctx, kind, owner, id)
}
