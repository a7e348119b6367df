package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/metrics"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/models"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/validation"
	serr "github.com/IvanChernomyrdin/go-recipe-api/internal/shared/errors"
)

// Ограничения поля price: NUMERIC(5,2).
var maxPrice = decimal.NewFromInt(1000)

const maxLabelName = 255

// RecipeInput — данные создания/обновления рецепта.
//
// nil означает «поле не передано». Для Tags/Ingredients пустой срез
// (не nil) означает «очистить связи».
type RecipeInput struct {
	Title       *string
	Description *string
	TimeMinutes *int
	Price       *decimal.Decimal
	Link        *string
	Tags        *[]string
	Ingredients *[]string
}

// RecipesService — создание, изменение, удаление и чтение рецептов
// с разрешением вложенных тегов и ингредиентов по имени (get-or-create).
type RecipesService struct {
	tx      TxManager
	recipes RecipesRepo
	labels  LabelsRepo
	images  ImageStore
	v       *validation.Validator
}

func NewRecipesService(tx TxManager, recipes RecipesRepo, labels LabelsRepo, images ImageStore, v *validation.Validator) *RecipesService {
	return &RecipesService{tx: tx, recipes: recipes, labels: labels, images: images, v: v}
}

// Create создаёт рецепт владельца вместе со связями в одной транзакции.
//
// title, time_minutes и price обязательны.
func (s *RecipesService) Create(ctx context.Context, owner uuid.UUID, in RecipeInput) (models.Recipe, error) {
	if owner == uuid.Nil {
		return models.Recipe{}, serr.ErrUserIDEmpty
	}
	if err := requireFull(in); err != nil {
		return models.Recipe{}, err
	}

	fields := applyInput(models.RecipeFields{}, in)
	tags, ingredients, err := s.validate(fields, in)
	if err != nil {
		return models.Recipe{}, err
	}

	var id uuid.UUID
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		rec, err := s.recipes.Insert(ctx, owner, fields)
		if err != nil {
			return err
		}
		id = rec.ID

		if err := s.setLabels(ctx, models.KindTag, owner, id, tags); err != nil {
			return err
		}
		return s.setLabels(ctx, models.KindIngredient, owner, id, ingredients)
	})
	if err != nil {
		return models.Recipe{}, err
	}

	metrics.RecipeOp(metrics.OpCreated)
	return s.recipes.Get(ctx, owner, id)
}

// Update изменяет рецепт владельца.
//
// partial=true (PATCH): меняются только переданные поля;
// partial=false (PUT): title, time_minutes и price обязательны.
// Переданный (даже пустой) список тегов/ингредиентов полностью заменяет связи,
// отсутствующий оставляет их как есть. Чужой рецепт: ErrNotFound.
func (s *RecipesService) Update(ctx context.Context, owner, id uuid.UUID, in RecipeInput, partial bool) (models.Recipe, error) {
	if owner == uuid.Nil {
		return models.Recipe{}, serr.ErrUserIDEmpty
	}
	if !partial {
		if err := requireFull(in); err != nil {
			return models.Recipe{}, err
		}
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		cur, err := s.recipes.GetForUpdate(ctx, owner, id)
		if err != nil {
			return err
		}

		fields := applyInput(cur.RecipeFields, in)
		tags, ingredients, err := s.validate(fields, in)
		if err != nil {
			return err
		}

		if err := s.recipes.Update(ctx, owner, id, fields); err != nil {
			return err
		}
		if err := s.setLabels(ctx, models.KindTag, owner, id, tags); err != nil {
			return err
		}
		return s.setLabels(ctx, models.KindIngredient, owner, id, ingredients)
	})
	if err != nil {
		return models.Recipe{}, err
	}

	metrics.RecipeOp(metrics.OpUpdated)
	return s.recipes.Get(ctx, owner, id)
}

// Delete удаляет рецепт владельца. Теги и ингредиенты остаются,
// файл изображения удаляется (ошибка удаления файла не мешает удалению рецепта).
func (s *RecipesService) Delete(ctx context.Context, owner, id uuid.UUID) error {
	image, err := s.recipes.Delete(ctx, owner, id)
	if err != nil {
		return err
	}
	if image != nil && *image != "" {
		_ = s.images.Delete(*image)
	}
	metrics.RecipeOp(metrics.OpDeleted)
	return nil
}

// Get — рецепт владельца со связями.
func (s *RecipesService) Get(ctx context.Context, owner, id uuid.UUID) (models.Recipe, error) {
	return s.recipes.Get(ctx, owner, id)
}

// List — рецепты владельца, новые первыми, с фильтрами по тегам/ингредиентам.
func (s *RecipesService) List(ctx context.Context, owner uuid.UUID, f models.RecipeFilter) ([]models.Recipe, error) {
	if owner == uuid.Nil {
		return nil, serr.ErrUserIDEmpty
	}
	return s.recipes.List(ctx, owner, f)
}

// setLabels разрешает имена в метки владельца и заменяет ими связи рецепта.
// names == nil: связи не трогаем.
func (s *RecipesService) setLabels(ctx context.Context, kind models.LabelKind, owner, recipeID uuid.UUID, names []string) error {
	if names == nil {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		l, err := s.labels.Upsert(ctx, kind, owner, name)
		if err != nil {
			return err
		}
		ids = append(ids, l.ID)
	}
	return s.labels.SetRecipeLabels(ctx, kind, recipeID, ids)
}

// validate проверяет итоговые поля рецепта и нормализует списки имён.
func (s *RecipesService) validate(f models.RecipeFields, in RecipeInput) (tags, ingredients []string, err error) {
	verr := &serr.ValidationError{}
	mergeFields(verr, s.v.Struct(f))

	switch {
	case f.Price.IsNegative():
		verr.Add("price", "ensure this value is greater than or equal to 0")
	case !f.Price.Equal(f.Price.Truncate(2)):
		verr.Add("price", "ensure that there are no more than 2 decimal places")
	case f.Price.GreaterThanOrEqual(maxPrice):
		verr.Add("price", "ensure that there are no more than 5 digits in total")
	}

	tags = normalizeNames(in.Tags, "tags", verr)
	ingredients = normalizeNames(in.Ingredients, "ingredients", verr)

	if !verr.Empty() {
		return nil, nil, verr
	}
	return tags, ingredients, nil
}

// requireFull — обязательные поля для создания и полного обновления.
func requireFull(in RecipeInput) error {
	verr := &serr.ValidationError{}
	if in.Title == nil {
		verr.Add("title", "this field is required")
	}
	if in.TimeMinutes == nil {
		verr.Add("time_minutes", "this field is required")
	}
	if in.Price == nil {
		verr.Add("price", "this field is required")
	}
	if !verr.Empty() {
		return verr
	}
	return nil
}

func applyInput(f models.RecipeFields, in RecipeInput) models.RecipeFields {
	if in.Title != nil {
		f.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		f.Description = *in.Description
	}
	if in.TimeMinutes != nil {
		f.TimeMinutes = *in.TimeMinutes
	}
	if in.Price != nil {
		f.Price = *in.Price
	}
	if in.Link != nil {
		f.Link = strings.TrimSpace(*in.Link)
	}
	return f
}

// normalizeNames обрезает пробелы и убирает повторы с сохранением порядка.
// nil на входе даёт nil на выходе (список не передан).
func normalizeNames(names *[]string, field string, verr *serr.ValidationError) []string {
	if names == nil {
		return nil
	}
	out := make([]string, 0, len(*names))
	seen := make(map[string]struct{}, len(*names))
	for i, raw := range *names {
		name := strings.TrimSpace(raw)
		switch {
		case name == "":
			verr.Add(fmt.Sprintf("%s[%d].name", field, i), "this field may not be blank")
			continue
		case utf8.RuneCountInString(name) > maxLabelName:
			verr.Add(fmt.Sprintf("%s[%d].name", field, i), fmt.Sprintf("ensure this field has no more than %d characters", maxLabelName))
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
