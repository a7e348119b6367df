// Package api реализует HTTP-слой сервера рецептов.
//
// Пакет отвечает за:
//   - обработку входящих запросов и формирование ответов (JSON, статусы);
//   - маппинг доменных ошибок (service/repository) в HTTP-коды и сообщения;
//   - преобразование доменных моделей в DTO из internal/shared/models.
//
// Маршруты регистрируются в internal/server/net/http.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-recipe-api/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/logger"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/models"
)

// Каждый метод если будет возвращать ответ то будет это делать в JSON
// Вынес Content-Type и JSON для удобства
const (
	JsonContentType string = "application/json"
	ContentType     string = "Content-Type"
)

// лимиты тела запроса по умолчанию
const (
	defaultMaxBodyBytes   int64 = 1 << 20
	defaultMaxUploadBytes int64 = 10 << 20
)

// Handler агрегирует зависимости HTTP-слоя и предоставляет методы-хендлеры.
//
// Handler содержит:
//   - Svc: сервисный слой (бизнес-логика);
//   - Log: логгер для записи событий и ошибок;
//   - Verifier: компонент проверки JWT и middleware авторизации;
//   - MaxBodyBytes / MaxUploadBytes: лимиты тела JSON и multipart запросов.
type Handler struct {
	Svc      *service.Services
	Log      *logger.HTTPLogger
	Verifier *middleware.JWTVerifier

	MaxBodyBytes   int64
	MaxUploadBytes int64
}

// NewHandler создаёт экземпляр Handler с переданными зависимостями.
//
// Лимиты тела выставляются по умолчанию, при необходимости их можно
// переопределить после создания.
func NewHandler(svc *service.Services, log *logger.HTTPLogger, verifier *middleware.JWTVerifier) *Handler {
	if log == nil {
		log = logger.NewHTTPLogger()
	}
	return &Handler{
		Svc:            svc,
		Log:            log,
		Verifier:       verifier,
		MaxBodyBytes:   defaultMaxBodyBytes,
		MaxUploadBytes: defaultMaxUploadBytes,
	}
}

// WriteJSON пишет ответ с заданным статусом.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(ContentType, JsonContentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Вспомогательная функция вывода ошибки
//
// Если err содержит ValidationError, сообщения по полям попадают в fields.
func WriteError(w http.ResponseWriter, status int, err error) {
	resp := models.ErrorResponse{Error: err.Error()}
	if fields := serr.FieldErrors(err); fields != nil {
		resp.Fields = fields
		resp.Error = serr.ErrInvalidInput.Error()
		if errors.Is(err, serr.ErrInvalidImage) {
			resp.Error = serr.ErrInvalidImage.Error()
		}
	}
	WriteJSON(w, status, resp)
}

// fail переводит ошибку сервиса в HTTP-ответ.
//
// Неизвестные ошибки логируются и отдаются как 500 без подробностей.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, serr.ErrPayloadTooLarge):
		WriteError(w, http.StatusRequestEntityTooLarge, serr.ErrPayloadTooLarge)
	case errors.Is(err, serr.ErrInvalidInput),
		errors.Is(err, serr.ErrInvalidImage):
		WriteError(w, http.StatusBadRequest, err)
	case errors.Is(err, serr.ErrBadJSON):
		WriteError(w, http.StatusBadRequest, serr.ErrBadJSON)
	case errors.Is(err, serr.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, serr.ErrInvalidCredentials)
	case errors.Is(err, serr.ErrUnauthorized),
		errors.Is(err, serr.ErrUserIDEmpty):
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
	case errors.Is(err, serr.ErrNotFound):
		WriteError(w, http.StatusNotFound, serr.ErrNotFound)
	default:
		fields := []any{"error", err, "method", r.Method, "path", r.URL.Path}
		if userID, ok := middleware.UserIDFromContext(r.Context()); ok {
			fields = append(fields, "user_id", userID.String())
		}
		h.Log.Sugar().Errorw(op+" failed", fields...)
		WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
	}
}

// decodeJSON читает тело запроса в dst с ограничением размера.
//
// Неизвестные поля (например user) молча игнорируются.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	limit := h.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return serr.ErrPayloadTooLarge
		}
		return serr.ErrBadJSON
	}
	return nil
}
