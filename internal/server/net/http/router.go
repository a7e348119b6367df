// Package http реализует маршрутизацию HTTP-слоя сервера рецептов.
//
// Пакет отвечает за:
//   - регистрацию HTTP-маршрутов и настройку роутера (chi);
//   - общие middleware: request id, recover, CORS, access-лог, метрики, rate limit;
//   - проверку JWT access-токенов для приватных маршрутов;
//   - раздачу загруженных изображений, swagger, /metrics и /healthz.
package http

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/api"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/config"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/metrics"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/middleware"
)

// Options — необязательные части роутера.
type Options struct {
	// CORS — разрешённые origin; пустой список отключает CORS.
	CORS config.CORSConfig
	// Media — каталог и URL-префикс загруженных файлов; пустой MediaRoot отключает раздачу.
	MediaRoot string
	MediaURL  string
	// Metrics — публикация /metrics.
	Metrics config.MetricsConfig
	// RateLimiter — nil означает без ограничений.
	RateLimiter *middleware.RateLimiter
	// Health — проверка зависимостей для /healthz (обычно db.PingContext).
	Health func(ctx context.Context) error
}

// NewRouter создаёт и настраивает HTTP-роутер сервера.
//
// Роутер использует chi.Router и регистрирует:
//   - публичные эндпоинты пользователей (/users/, /users/token/, /users/token/refresh/);
//   - защищённые JWT эндпоинты рецептов, тегов, ингредиентов и профиля;
//   - служебные /healthz, /metrics, /swagger/* и раздачу изображений.
//
// Маршруты доступны и со слэшем на конце, и без него.
func NewRouter(h *api.Handler, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	// логирование всех запросов
	r.Use(middleware.LoggerMiddleware(h.Log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.StripSlashes)
	if len(opts.CORS.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORS.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}
	if opts.Metrics.Enabled {
		r.Use(metrics.Middleware)
		path := opts.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, metrics.Handler())
	}

	r.Get("/healthz", healthHandler(opts.Health))

	// добавляем swagger
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	if opts.MediaRoot != "" {
		prefix := "/" + strings.Trim(opts.MediaURL, "/") + "/"
		files := http.StripPrefix(prefix, http.FileServer(filesOnly{http.Dir(opts.MediaRoot)}))
		r.Method(http.MethodGet, prefix+"*", files)
	}

	limit := func(next http.Handler) http.Handler { return next }
	if opts.RateLimiter != nil {
		limit = opts.RateLimiter.Handler
	}

	// Публичные пути
	r.Group(func(r chi.Router) {
		r.Use(limit)
		r.Post("/users", h.Register)
		r.Post("/users/token", h.Token)
		r.Post("/users/token/refresh", h.Refresh)
	})

	// защищены пути
	r.Group(func(r chi.Router) {
		// проверка access токена
		r.Use(h.Verifier.AuthMiddleware())
		r.Use(limit)

		r.Get("/users/me", h.Me)

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", h.ListRecipes)
			r.Post("/", h.CreateRecipe)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetRecipe)
				r.Put("/", h.UpdateRecipe)
				r.Patch("/", h.PatchRecipe)
				r.Delete("/", h.DeleteRecipe)
				r.Post("/image", h.UploadRecipeImage)
			})
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", h.ListTags)
			r.Patch("/{id}", h.RenameTag)
			r.Delete("/{id}", h.DeleteTag)
		})

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", h.ListIngredients)
			r.Patch("/{id}", h.RenameIngredient)
			r.Delete("/{id}", h.DeleteIngredient)
		})
	})

	return r
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				api.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// filesOnly не отдаёт листинги каталогов.
type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	st, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if st.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}
