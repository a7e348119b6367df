// Серверные модели рецептов, тегов и ингредиентов
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LabelKind — вид «метки» рецепта: тег или ингредиент.
//
// У обоих видов одинаковая форма (owner + name) и независимые пространства имён,
// поэтому хранилище и сервис у них общие, а различаются только таблицы.
type LabelKind string

const (
	KindTag        LabelKind = "tag"
	KindIngredient LabelKind = "ingredient"
)

// Table — таблица с метками данного вида.
func (k LabelKind) Table() string {
	if k == KindIngredient {
		return "ingredients"
	}
	return "tags"
}

// LinkTable — таблица связей рецепт <-> метка.
func (k LabelKind) LinkTable() string {
	if k == KindIngredient {
		return "recipe_ingredients"
	}
	return "recipe_tags"
}

// LinkColumn — колонка с id метки в таблице связей.
func (k LabelKind) LinkColumn() string {
	if k == KindIngredient {
		return "ingredient_id"
	}
	return "tag_id"
}

// Label — тег или ингредиент пользователя.
type Label struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	CreatedAt time.Time
}

// RecipeFields — изменяемые скалярные поля рецепта.
type RecipeFields struct {
	Title       string          `json:"title" validate:"required,max=255"`
	Description string          `json:"description"`
	TimeMinutes int             `json:"time_minutes" validate:"gte=0,lte=2147483647"`
	Price       decimal.Decimal `json:"price"`
	Link        string          `json:"link" validate:"omitempty,max=255,url"`
}

// Recipe — рецепт вместе со связями.
//
// Image — относительный путь в хранилище (uploads/recipe/<uuid>.<ext>) или nil.
type Recipe struct {
	ID     uuid.UUID
	UserID uuid.UUID
	RecipeFields
	Image       *string
	Tags        []Label
	Ingredients []Label
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecipeFilter — фильтры списка рецептов.
//
// Внутри набора id работает ИЛИ, между наборами И.
// Пустой набор фильтр не применяет.
type RecipeFilter struct {
	TagIDs        []uuid.UUID
	IngredientIDs []uuid.UUID
}

// LabelFilter — фильтры списка тегов/ингредиентов.
type LabelFilter struct {
	// AssignedOnly — только метки, привязанные хотя бы к одному рецепту.
	AssignedOnly bool
}
