package middleware

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	accessKey
)

// accessEntry заполняется по ходу цепочки и читается LoggerMiddleware
// после ответа: контекст, созданный глубже, наружу не виден.
type accessEntry struct {
	userID uuid.UUID
}

// WithUserID кладёт userID в контекст (используется Auth и тестами хендлеров).
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	if e, ok := ctx.Value(accessKey).(*accessEntry); ok {
		e.userID = userID
	}
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext возвращает ID аутентифицированного пользователя.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

func withAccessEntry(ctx context.Context) (context.Context, *accessEntry) {
	e := &accessEntry{}
	return context.WithValue(ctx, accessKey, e), e
}
