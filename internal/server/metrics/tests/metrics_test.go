package tests

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/metrics"
)

func scrape(t *testing.T) string {
	t.Helper()
	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	b, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	return string(b)
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Get("/recipes/{id}/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/recipes/abc/", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)

	out := scrape(t)
	require.True(t, strings.Contains(out, `recipe_api_http_requests_total{method="GET",route="/recipes/{id}/",status="404"}`), out)
	require.False(t, strings.Contains(out, `route="/recipes/abc/"`))
}

func TestRecipeCounters(t *testing.T) {
	metrics.RecipeOp(metrics.OpCreated)
	metrics.ImageUpload("rejected")

	out := scrape(t)
	require.Contains(t, out, `recipe_api_recipes_operations_total{op="created"}`)
	require.Contains(t, out, `recipe_api_recipes_image_uploads_total{result="rejected"}`)
}
