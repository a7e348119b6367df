// @title           Recipe API
// @version         1.0
// @description     Multi-tenant recipe backend.
// @description     Provides user authentication, recipes, tags, ingredients and recipe images.

// @contact.name   Ivan Chernomyrdin
// @contact.url    https://github.com/IvanChernomyrdin

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
//
// Package main содержит точку входа HTTP-сервера рецептов.
//
// Пакет отвечает за инициализацию и жизненный цикл сервера, а именно:
//   - загрузку переменных окружения из файла .env (если он присутствует);
//   - загрузку конфигурации сервера из файла (по умолчанию ./configs/server.yaml, переопределяется CONFIG_PATH);
//   - инициализацию подключения к базе данных и применение миграций;
//   - создание репозиториев, файлового хранилища, сервисов, middleware и HTTP-обработчиков;
//   - запуск HTTP или HTTPS (если tls.enabled) сервера с заданными таймаутами;
//   - корректное (graceful) завершение работы по SIGINT, SIGTERM, SIGQUIT.
//
// Пакет не содержит бизнес-логики и не предназначен для unit-тестирования.
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/api"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/config"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/middleware"
	h "github.com/IvanChernomyrdin/go-recipe-api/internal/server/net/http"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/repository"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/service"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/storage"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/logger"

	_ "github.com/IvanChernomyrdin/go-recipe-api/swagger/docs"
)

func main() {
	sugar := logger.NewHTTPLogger().Logger.Sugar()

	if err := godotenv.Load(); err != nil {
		sugar.Warnf("no .env file loaded, error: %v", err)
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./configs/server.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		sugar.Fatal(err)
	}

	// дальше пишем уже в логгер по настройкам из конфига
	httpLogger := logger.New(logger.Options{
		Dir:    cfg.Log.Dir,
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Stderr: cfg.Log.Stderr,
	})
	sugar = httpLogger.Sugar()
	defer httpLogger.Sync()

	// подключаем базу данных и накатываем миграции
	db, err := config.Init(cfg.DB, cfg.Migrations, httpLogger)
	if err != nil {
		sugar.Fatal(err)
	}
	defer db.Close()

	hasher, err := crypto.NewHasher(cfg.Password.Hasher, crypto.Argon2Params{
		Time:      cfg.Password.Argon2.Time,
		MemoryKiB: cfg.Password.Argon2.MemoryKiB,
		Threads:   cfg.Password.Argon2.Threads,
		KeyLen:    cfg.Password.Argon2.KeyLen,
		SaltLen:   cfg.Password.Argon2.SaltLen,
	}, cfg.Password.Bcrypt.Cost)
	if err != nil {
		sugar.Fatal(err)
	}

	images, err := storage.NewImageStorage(cfg.Recipes.MediaRoot, cfg.Recipes.MediaURL)
	if err != nil {
		sugar.Fatal(err)
	}

	// создаём репы и складываем в репозиторий
	repos := service.Repositories{
		Tx:       repository.NewTxManager(db),
		Users:    repository.NewUsersRepository(db),
		Sessions: repository.NewSessionsRepository(db),
		Recipes:  repository.NewRecipesRepository(db),
		Labels:   repository.NewLabelsRepository(db),
	}
	// создаём сервис
	svc := service.NewServices(repos, images, hasher, cfg)
	// создаём jwt
	verifier := middleware.NewJWTVerifier(
		cfg.Auth.JWT.SigningKey,
		cfg.Auth.Issuer,
		cfg.Auth.Audience,
	)
	// создаём хандлер
	handler := api.NewHandler(svc, httpLogger, verifier)
	if cfg.Server.MaxBodyBytes > 0 {
		handler.MaxBodyBytes = cfg.Server.MaxBodyBytes
	}
	// запас на заголовки multipart
	handler.MaxUploadBytes = cfg.Recipes.MaxImageBytes + 1<<20

	// создаём контекст и errgroup
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	var limiter *middleware.RateLimiter
	if cfg.Security.RateLimit.Enabled {
		rl := cfg.Security.RateLimit
		limiter = middleware.NewRateLimiter(rl.RPS, rl.Burst, rl.Key)
		limiter.StartCleanup(ctx, time.Minute)
	}

	// создаём роутер
	router := h.NewRouter(handler, h.Options{
		CORS:        cfg.CORS,
		MediaRoot:   images.Root(),
		MediaURL:    cfg.Recipes.MediaURL,
		Metrics:     cfg.Observability.Metrics,
		RateLimiter: limiter,
		Health:      db.PingContext,
	})

	//создаём сервер
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
	}
	if cfg.TLS.Enabled {
		server.TLSConfig = &tls.Config{MinVersion: tlsVersion(cfg.TLS.MinVersion)}
	}

	g, ctx := errgroup.WithContext(ctx)

	// запускаем сервер
	g.Go(func() error {
		sugar.Infof("server started on %s (tls=%t)", addr, cfg.TLS.Enabled)

		var err error
		if cfg.TLS.Enabled {
			err = server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// graceful shutdown с таймаутом из конфига
	g.Go(func() error {
		<-ctx.Done()

		sugar.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			cfg.Server.ShutdownTimeout,
		)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	// ожидание и единная обработка ошибок
	if err := g.Wait(); err != nil {
		sugar.Fatalf("server stopped with error: %v", err)
	}
	sugar.Info("server gracefully stopped")
}

func tlsVersion(v string) uint16 {
	if v == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}
