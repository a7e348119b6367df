package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/middleware"
	srvmodels "github.com/IvanChernomyrdin/go-recipe-api/internal/server/models"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-recipe-api/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/models"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/utils"
)

// ListRecipes возвращает рецепты текущего пользователя, новые первыми.
//
// Фильтры tags и ingredients: списки id через запятую. Внутри списка
// достаточно совпадения с любым id, оба фильтра вместе должны выполниться.
//
// @Summary      List recipes
// @Tags         recipes
// @Produce      json
// @Security     BearerAuth
// @Param        tags        query string false "Comma separated tag IDs"
// @Param        ingredients query string false "Comma separated ingredient IDs"
// @Success      200 {array}  models.Recipe
// @Failure      400 {object} models.ErrorResponse "Invalid filter"
// @Failure      401 {object} models.ErrorResponse "Unauthorized"
// @Router       /recipes/ [get]
func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return
	}

	verr := &serr.ValidationError{}
	filter := srvmodels.RecipeFilter{
		TagIDs:        parseIDs(r.URL.Query().Get("tags"), "tags", verr),
		IngredientIDs: parseIDs(r.URL.Query().Get("ingredients"), "ingredients", verr),
	}
	if !verr.Empty() {
		WriteError(w, http.StatusBadRequest, verr)
		return
	}

	list, err := h.Svc.Recipes.List(r.Context(), userID, filter)
	if err != nil {
		h.fail(w, r, "list recipes", err)
		return
	}

	out := make([]models.Recipe, 0, len(list))
	for _, rec := range list {
		out = append(out, toRecipe(rec))
	}
	WriteJSON(w, http.StatusOK, out)
}

// CreateRecipe создаёт рецепт текущего пользователя.
//
// Теги и ингредиенты передаются по имени и создаются, если их ещё нет.
//
// @Summary      Create recipe
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body models.CreateRecipeRequest true "Recipe"
// @Success      201 {object} models.RecipeDetail
// @Failure      400 {object} models.ErrorResponse "Invalid input"
// @Failure      401 {object} models.ErrorResponse "Unauthorized"
// @Failure      500 {object} models.ErrorResponse "Internal server error"
// @Router       /recipes/ [post]
func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return
	}

	var req models.CreateRecipeRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "create recipe", err)
		return
	}

	in := service.RecipeInput{
		Title:       &req.Title,
		Description: &req.Description,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Link:        &req.Link,
		Tags:        labelNames(&req.Tags),
		Ingredients: labelNames(&req.Ingredients),
	}
	if req.Title == "" {
		// пустая строка и отсутствие поля для title равнозначны
		in.Title = nil
	}

	rec, err := h.Svc.Recipes.Create(r.Context(), userID, in)
	if err != nil {
		h.fail(w, r, "create recipe", err)
		return
	}

	WriteJSON(w, http.StatusCreated, h.toDetail(r, rec))
}

// GetRecipe возвращает рецепт текущего пользователя.
//
// @Summary      Get recipe
// @Tags         recipes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Recipe ID (UUID)"
// @Success      200 {object} models.RecipeDetail
// @Failure      401 {object} models.ErrorResponse "Unauthorized"
// @Failure      404 {object} models.ErrorResponse "Not found"
// @Router       /recipes/{id}/ [get]
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}

	rec, err := h.Svc.Recipes.Get(r.Context(), userID, id)
	if err != nil {
		h.fail(w, r, "get recipe", err)
		return
	}

	WriteJSON(w, http.StatusOK, h.toDetail(r, rec))
}

// UpdateRecipe полностью обновляет рецепт (title, time_minutes и price обязательны).
//
// @Summary      Replace recipe
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                     true "Recipe ID (UUID)"
// @Param        request body models.UpdateRecipeRequest true "Recipe"
// @Success      200 {object} models.RecipeDetail
// @Failure      400 {object} models.ErrorResponse "Invalid input"
// @Failure      401 {object} models.ErrorResponse "Unauthorized"
// @Failure      404 {object} models.ErrorResponse "Not found"
// @Router       /recipes/{id}/ [put]
func (h *Handler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	h.updateRecipe(w, r, false)
}

// PatchRecipe меняет только переданные поля рецепта.
//
// Переданный список tags/ingredients (даже пустой) заменяет связи целиком.
//
// @Summary      Update recipe
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                     true "Recipe ID (UUID)"
// @Param        request body models.UpdateRecipeRequest true "Changed fields"
// @Success      200 {object} models.RecipeDetail
// @Failure      400 {object} models.ErrorResponse "Invalid input"
// @Failure      401 {object} models.ErrorResponse "Unauthorized"
// @Failure      404 {object} models.ErrorResponse "Not found"
// @Router       /recipes/{id}/ [patch]
func (h *Handler) PatchRecipe(w http.ResponseWriter, r *http.Request) {
	h.updateRecipe(w, r, true)
}

func (h *Handler) updateRecipe(w http.ResponseWriter, r *http.Request, partial bool) {
	userID, id, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}

	var req models.UpdateRecipeRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "update recipe", err)
		return
	}

	in := service.RecipeInput{
		Title:       req.Title,
		Description: req.Description,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Link:        req.Link,
		Tags:        labelNames(req.Tags),
		Ingredients: labelNames(req.Ingredients),
	}

	rec, err := h.Svc.Recipes.Update(r.Context(), userID, id, in, partial)
	if err != nil {
		h.fail(w, r, "update recipe", err)
		return
	}

	WriteJSON(w, http.StatusOK, h.toDetail(r, rec))
}

// DeleteRecipe удаляет рецепт. Теги и ингредиенты остаются.
//
// @Summary      Delete recipe
// @Tags         recipes
// @Security     BearerAuth
// @Param        id path string true "Recipe ID (UUID)"
// @Success      204 "No Content"
// @Failure      401 {object} models.ErrorResponse "Unauthorized"
// @Failure      404 {object} models.ErrorResponse "Not found"
// @Router       /recipes/{id}/ [delete]
func (h *Handler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}

	if err := h.Svc.Recipes.Delete(r.Context(), userID, id); err != nil {
		h.fail(w, r, "delete recipe", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ownerAndID достаёт пользователя из контекста и id из пути.
// Некорректный id отдаётся как 404: такого объекта у пользователя нет.
func (h *Handler) ownerAndID(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusNotFound, serr.ErrNotFound)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}

// parseIDs разбирает список id через запятую; ошибки складываются в verr.
func parseIDs(raw, field string, verr *serr.ValidationError) []uuid.UUID {
	parts := utils.SplitCSV(raw)
	if len(parts) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(p)
		if err != nil {
			verr.Add(field, "enter a comma separated list of valid ids")
			return nil
		}
		ids = append(ids, id)
	}
	return ids
}

func labelNames(in *[]models.LabelRequest) *[]string {
	if in == nil || *in == nil {
		return nil
	}
	names := make([]string, 0, len(*in))
	for _, l := range *in {
		names = append(names, l.Name)
	}
	return &names
}

func toLabels(in []srvmodels.Label) []models.Label {
	out := make([]models.Label, 0, len(in))
	for _, l := range in {
		out = append(out, models.Label{ID: l.ID.String(), Name: l.Name})
	}
	return out
}

func toRecipe(rec srvmodels.Recipe) models.Recipe {
	return models.Recipe{
		ID:          rec.ID.String(),
		Title:       rec.Title,
		TimeMinutes: rec.TimeMinutes,
		Price:       rec.Price,
		Link:        rec.Link,
		Tags:        toLabels(rec.Tags),
		Ingredients: toLabels(rec.Ingredients),
	}
}

func (h *Handler) toDetail(r *http.Request, rec srvmodels.Recipe) models.RecipeDetail {
	d := models.RecipeDetail{
		Recipe:      toRecipe(rec),
		Description: rec.Description,
	}
	if rec.Image != nil && *rec.Image != "" {
		d.Image = utils.StrPtr(absoluteURL(r, h.Svc.Images.URL(*rec.Image)))
	}
	return d
}

// absoluteURL достраивает путь до полного адреса по хосту запроса.
func absoluteURL(r *http.Request, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host + path
}
