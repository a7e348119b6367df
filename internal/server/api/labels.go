package api

import (
	"net/http"
	"strconv"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/middleware"
	srvmodels "github.com/IvanChernomyrdin/go-recipe-api/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-recipe-api/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/models"
)

// ListTags godoc
// @Summary      List tags
// @Description  Returns tags of the authenticated user, newest first.
// @Tags         tags
// @Produce      json
// @Security     BearerAuth
// @Param        assigned_only query int false "Only tags linked to at least one recipe (0|1)"
// @Success      200 {array}  models.Label
// @Failure      400 {object} models.ErrorResponse "Invalid filter"
// @Failure      401 {object} models.ErrorResponse "Unauthorized"
// @Router       /tags/ [get]
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	h.listLabels(w, r, srvmodels.KindTag)
}

// RenameTag godoc
// @Summary      Rename tag
// @Tags         tags
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                    true "Tag ID (UUID)"
// @Param        request body models.RenameLabelRequest true "New name"
// @Success      200 {object} models.Label
// @Failure      400 {object} models.ErrorResponse "Empty or duplicate name"
// @Failure      401 {object} models.ErrorResponse "Unauthorized"
// @Failure      404 {object} models.ErrorResponse "Not found"
// @Router       /tags/{id}/ [patch]
func (h *Handler) RenameTag(w http.ResponseWriter, r *http.Request) {
	h.renameLabel(w, r, srvmodels.KindTag)
}

// DeleteTag godoc
// @Summary      Delete tag
// @Tags         tags
// @Security     BearerAuth
// @Param        id path string true "Tag ID (UUID)"
// @Success      204 "No Content"
// @Failure      401 {object} models.ErrorResponse "Unauthorized"
// @Failure      404 {object} models.ErrorResponse "Not found"
// @Router       /tags/{id}/ [delete]
func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	h.deleteLabel(w, r, srvmodels.KindTag)
}

// ListIngredients godoc
// @Summary      List ingredients
// @Description  Returns ingredients of the authenticated user, newest first.
// @Tags         ingredients
// @Produce      json
// @Security     BearerAuth
// @Param        assigned_only query int false "Only ingredients linked to at least one recipe (0|1)"
// @Success      200 {array}  models.Label
// @Failure      400 {object} models.ErrorResponse "Invalid filter"
// @Failure      401 {object} models.ErrorResponse "Unauthorized"
// @Router       /ingredients/ [get]
func (h *Handler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	h.listLabels(w, r, srvmodels.KindIngredient)
}

// RenameIngredient godoc
// @Summary      Rename ingredient
// @Tags         ingredients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                    true "Ingredient ID (UUID)"
// @Param        request body models.RenameLabelRequest true "New name"
// @Success      200 {object} models.Label
// @Failure      400 {object} models.ErrorResponse "Empty or duplicate name"
// @Failure      401 {object} models.ErrorResponse "Unauthorized"
// @Failure      404 {object} models.ErrorResponse "Not found"
// @Router       /ingredients/{id}/ [patch]
func (h *Handler) RenameIngredient(w http.ResponseWriter, r *http.Request) {
	h.renameLabel(w, r, srvmodels.KindIngredient)
}

// DeleteIngredient godoc
// @Summary      Delete ingredient
// @Tags         ingredients
// @Security     BearerAuth
// @Param        id path string true "Ingredient ID (UUID)"
// @Success      204 "No Content"
// @Failure      401 {object} models.ErrorResponse "Unauthorized"
// @Failure      404 {object} models.ErrorResponse "Not found"
// @Router       /ingredients/{id}/ [delete]
func (h *Handler) DeleteIngredient(w http.ResponseWriter, r *http.Request) {
	h.deleteLabel(w, r, srvmodels.KindIngredient)
}

func (h *Handler) listLabels(w http.ResponseWriter, r *http.Request, kind srvmodels.LabelKind) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return
	}

	var f srvmodels.LabelFilter
	if raw := r.URL.Query().Get("assigned_only"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, serr.NewValidationError("assigned_only", "must be 0 or 1"))
			return
		}
		f.AssignedOnly = v
	}

	list, err := h.Svc.Labels.List(r.Context(), kind, userID, f)
	if err != nil {
		h.fail(w, r, "list "+string(kind)+"s", err)
		return
	}

	WriteJSON(w, http.StatusOK, toLabels(list))
}

func (h *Handler) renameLabel(w http.ResponseWriter, r *http.Request, kind srvmodels.LabelKind) {
	userID, id, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}

	var req models.RenameLabelRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "rename "+string(kind), err)
		return
	}

	l, err := h.Svc.Labels.Rename(r.Context(), kind, userID, id, req.Name)
	if err != nil {
		h.fail(w, r, "rename "+string(kind), err)
		return
	}

	WriteJSON(w, http.StatusOK, models.Label{ID: l.ID.String(), Name: l.Name})
}

func (h *Handler) deleteLabel(w http.ResponseWriter, r *http.Request, kind srvmodels.LabelKind) {
	userID, id, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}

	if err := h.Svc.Labels.Delete(r.Context(), kind, userID, id); err != nil {
		h.fail(w, r, "delete "+string(kind), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
