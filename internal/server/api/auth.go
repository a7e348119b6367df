// HTTP-хендлеры регистрации, выдачи токенов, refresh и профиля
package api

import (
	"net/http"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/middleware"
	srvmodels "github.com/IvanChernomyrdin/go-recipe-api/internal/server/models"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-recipe-api/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/models"
)

// RegisterRequest описывает тело запроса регистрации пользователя.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest описывает тело запроса выдачи токенов.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse — пара access / refresh токенов.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshRequest описывает тело запроса обновления токенов.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Register обрабатывает регистрацию пользователя.
//
// @Summary      Register user
// @Description  Creates a new user. Email domain is normalised to lower case.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Register request"
// @Success      201 {object} models.UserResponse
// @Failure      400 {object} models.ErrorResponse "Invalid input, short password or duplicate email"
// @Failure      500 {object} models.ErrorResponse "Internal server error"
// @Router       /users/ [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "register", err)
		return
	}

	u, err := h.Svc.Auth.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		h.fail(w, r, "register", err)
		return
	}

	WriteJSON(w, http.StatusCreated, toUserResponse(u))
}

// Token выдаёт пару токенов по email и паролю.
//
// @Summary      Obtain token pair
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {object} TokenResponse
// @Failure      400 {object} models.ErrorResponse "Invalid input"
// @Failure      401 {object} models.ErrorResponse "Invalid credentials or inactive user"
// @Failure      500 {object} models.ErrorResponse "Internal server error"
// @Router       /users/token/ [post]
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "token", err)
		return
	}

	pair, err := h.Svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, "token", err)
		return
	}

	WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Refresh обрабатывает обновление токенов по refresh-токену.
//
// @Summary      Refresh token pair
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body RefreshRequest true "Refresh token"
// @Success      200 {object} TokenResponse
// @Failure      400 {object} models.ErrorResponse "Invalid input"
// @Failure      401 {object} models.ErrorResponse "Refresh token invalid, expired or revoked"
// @Failure      500 {object} models.ErrorResponse "Internal server error"
// @Router       /users/token/refresh/ [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "refresh", err)
		return
	}

	pair, err := h.Svc.Auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.fail(w, r, "refresh", err)
		return
	}

	WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Me возвращает профиль текущего пользователя.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} models.UserResponse
// @Failure      401 {object} models.ErrorResponse "Unauthorized"
// @Router       /users/me/ [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return
	}

	u, err := h.Svc.Auth.Me(r.Context(), userID)
	if err != nil {
		h.fail(w, r, "me", err)
		return
	}

	WriteJSON(w, http.StatusOK, toUserResponse(u))
}

func toUserResponse(u srvmodels.User) models.UserResponse {
	return models.UserResponse{
		ID:    u.ID.String(),
		Email: u.Email,
		Name:  u.Name,
	}
}
