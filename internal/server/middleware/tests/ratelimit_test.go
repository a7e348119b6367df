package tests

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/middleware"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doReq(h http.Handler, remote string, userID uuid.UUID) int {
	req := httptest.NewRequest(http.MethodGet, "/recipes/", nil)
	req.RemoteAddr = remote
	if userID != uuid.Nil {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Code
}

func TestRateLimiter_ByIP(t *testing.T) {
	rl := middleware.NewRateLimiter(0.001, 2, "ip")
	h := rl.Handler(okHandler())

	require.Equal(t, http.StatusOK, doReq(h, "10.0.0.1:1234", uuid.Nil))
	require.Equal(t, http.StatusOK, doReq(h, "10.0.0.1:5555", uuid.Nil))
	require.Equal(t, http.StatusTooManyRequests, doReq(h, "10.0.0.1:1234", uuid.Nil))

	// другой IP: свой бакет
	require.Equal(t, http.StatusOK, doReq(h, "10.0.0.2:1234", uuid.Nil))
}

func TestRateLimiter_ByUser(t *testing.T) {
	rl := middleware.NewRateLimiter(0.001, 1, "user")
	h := rl.Handler(okHandler())

	u1, u2 := uuid.New(), uuid.New()
	require.Equal(t, http.StatusOK, doReq(h, "10.0.0.1:1", u1))
	require.Equal(t, http.StatusTooManyRequests, doReq(h, "10.0.0.1:1", u1))
	require.Equal(t, http.StatusOK, doReq(h, "10.0.0.1:1", u2))
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := middleware.NewRateLimiter(1, 1, "ip")
	h := rl.Handler(okHandler())

	doReq(h, "10.0.0.1:1", uuid.Nil)
	doReq(h, "10.0.0.2:1", uuid.Nil)
	require.Equal(t, 2, rl.Len())

	rl.Cleanup(time.Now())
	require.Equal(t, 2, rl.Len())

	rl.Cleanup(time.Now().Add(time.Hour))
	require.Equal(t, 0, rl.Len())
}
