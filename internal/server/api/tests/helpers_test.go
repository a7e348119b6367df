package tests

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/api"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/config"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/service"
	svcmocks "github.com/IvanChernomyrdin/go-recipe-api/internal/server/service/mocks"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/logger"
)

const testSigningKey = "supersecretkeysupersecretkey123456"

var testHasher = crypto.BcryptHasher{Cost: 4}

// testEnv — Handler с настоящими сервисами поверх моков репозиториев
type testEnv struct {
	h        *api.Handler
	cfg      *config.Config
	tx       *svcmocks.MockTxManager
	users    *svcmocks.MockUsersRepo
	sessions *svcmocks.MockSessionsRepo
	recipes  *svcmocks.MockRecipesRepo
	labels   *svcmocks.MockLabelsRepo
	store    *svcmocks.MockImageStore
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			Issuer:     "issuer",
			Audience:   "audience",
			AccessTTL:  time.Minute,
			RefreshTTL: 24 * time.Hour,
			JWT: config.JWTConfig{
				Algorithm:  "HS256",
				SigningKey: testSigningKey,
			},
			Sessions: config.SessionsConfig{RotateRefresh: true, ReuseDetection: true},
		},
		Password: config.PasswordConfig{Hasher: "bcrypt", MinLength: 5},
		Recipes: config.RecipesConfig{
			MediaURL:            "/media/",
			MaxImageBytes:       1 << 20,
			AllowedImageFormats: []string{"jpeg", "png", "gif", "webp"},
		},
	}
}

// NewTestHandler создаёт Handler с моками и конфигом через dependency injection
func NewTestHandler(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()

	ctrl := gomock.NewController(t)
	env := &testEnv{
		cfg:      cfg,
		tx:       svcmocks.NewMockTxManager(ctrl),
		users:    svcmocks.NewMockUsersRepo(ctrl),
		sessions: svcmocks.NewMockSessionsRepo(ctrl),
		recipes:  svcmocks.NewMockRecipesRepo(ctrl),
		labels:   svcmocks.NewMockLabelsRepo(ctrl),
		store:    svcmocks.NewMockImageStore(ctrl),
	}

	svc := service.NewServices(service.Repositories{
		Tx:       env.tx,
		Users:    env.users,
		Sessions: env.sessions,
		Recipes:  env.recipes,
		Labels:   env.labels,
	}, env.store, testHasher, cfg)

	verifier := middleware.NewJWTVerifier(cfg.Auth.JWT.SigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)
	log := logger.New(logger.Options{Dir: t.TempDir()})

	env.h = api.NewHandler(svc, log, verifier)
	return env
}

// транзакция просто вызывает fn
func (e *testEnv) expectTx() {
	e.tx.EXPECT().
		WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		})
}

// asUser кладёт пользователя и параметр {id} в контекст запроса,
// как это делают AuthMiddleware и chi.
func asUser(req *http.Request, userID uuid.UUID, id string) *http.Request {
	ctx := middleware.WithUserID(req.Context(), userID)
	if id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}
