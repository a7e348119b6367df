package models

import "github.com/shopspring/decimal"

// Label — тег или ингредиент в ответах API.
//
// Поля:
//   - ID: идентификатор (UUID в виде строки)
//   - Name: имя, уникальное в пределах владельца
type Label struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LabelRequest — вложенный объект {name} в теле создания/обновления рецепта.
//
// Теги и ингредиенты ищутся по имени у текущего пользователя
// и создаются, если такого имени ещё нет.
type LabelRequest struct {
	Name string `json:"name"`
}

// RenameLabelRequest — запрос на переименование тега/ингредиента.
//
// Используется в:
//
//	PATCH /tags/{id}/
//	PATCH /ingredients/{id}/
type RenameLabelRequest struct {
	Name string `json:"name"`
}

// Recipe — элемент списка рецептов.
//
// Используется в:
//
//	GET /recipes/
//
// Price сериализуется строкой ("5.25"), чтобы не терять точность.
type Recipe struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	TimeMinutes int             `json:"time_minutes"`
	Price       decimal.Decimal `json:"price"`
	Link        string          `json:"link"`
	Tags        []Label         `json:"tags"`
	Ingredients []Label         `json:"ingredients"`
}

// RecipeDetail — полное представление рецепта.
//
// Используется в:
//
//	GET/PUT/PATCH /recipes/{id}/, POST /recipes/
//
// Дополнительно к полям списка содержит описание и URL изображения.
type RecipeDetail struct {
	Recipe
	Description string  `json:"description"`
	Image       *string `json:"image"`
}

// CreateRecipeRequest — запрос на создание рецепта.
//
// TimeMinutes и Price: указатели, чтобы отличать «не передано» от нуля.
// Поле владельца не предусмотрено: владелец всегда текущий пользователь.
type CreateRecipeRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	TimeMinutes *int             `json:"time_minutes"`
	Price       *decimal.Decimal `json:"price"`
	Link        string           `json:"link,omitempty"`
	Tags        []LabelRequest   `json:"tags,omitempty"`
	Ingredients []LabelRequest   `json:"ingredients,omitempty"`
}

// UpdateRecipeRequest — запрос на обновление рецепта (PUT/PATCH).
//
// Все поля указатели, отсутствующие поля не изменяются.
// Tags/Ingredients: nil не трогает связи, пустой список их очищает.
type UpdateRecipeRequest struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	TimeMinutes *int             `json:"time_minutes,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Link        *string          `json:"link,omitempty"`
	Tags        *[]LabelRequest  `json:"tags,omitempty"`
	Ingredients *[]LabelRequest  `json:"ingredients,omitempty"`
}

// RecipeImageResponse — ответ на загрузку изображения рецепта.
//
// Используется в:
//
//	POST /recipes/{id}/image/
type RecipeImageResponse struct {
	ID    string `json:"id"`
	Image string `json:"image"`
}

// UserResponse — публичное представление пользователя (без пароля).
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ErrorResponse стандартный формат ошибки API.
//
// Fields заполняется при ошибках валидации: поле -> сообщение.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
