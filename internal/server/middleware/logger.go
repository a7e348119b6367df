// Логирование HTTP-запросов
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/logger"
)

// ResponseWriter запоминает статус и размер ответа.
type ResponseWriter struct {
	http.ResponseWriter
	Status int
	Size   int
}

func (w *ResponseWriter) WriteHeader(status int) {
	w.Status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	if w.Status == 0 {
		w.Status = http.StatusOK
	}
	size, err := w.ResponseWriter.Write(b)
	w.Size += size
	return size, err
}

// LoggerMiddleware пишет access-лог каждого запроса.
// Если log == nil, создаётся логгер с настройками по умолчанию.
func LoggerMiddleware(log *logger.HTTPLogger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.NewHTTPLogger()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx, access := withAccessEntry(r.Context())
			wr := &ResponseWriter{ResponseWriter: w}
			next.ServeHTTP(wr, r.WithContext(ctx))

			entry := logger.Request{
				Method:    r.Method,
				Path:      r.URL.Path,
				Status:    wr.Status,
				Bytes:     wr.Size,
				Duration:  time.Since(start),
				RequestID: chimw.GetReqID(r.Context()),
			}
			// user_id выставляет Auth глубже по цепочке
			if uid, ok := UserIDFromContext(r.Context()); ok {
				entry.UserID = uid.String()
			} else if access.userID != uuid.Nil {
				entry.UserID = access.userID.String()
			}
			// хендлер ничего не записал: net/http отдаст 200
			if entry.Status == 0 {
				entry.Status = http.StatusOK
			}
			log.LogRequest(entry)
		})
	}
}
