// Package manage реализует административный CLI сервера рецептов:
// миграции, создание суперпользователя и чистка истёкших сессий.
//
// Команды работают напрямую с базой по конфигурации сервера,
// HTTP-сервер для них не нужен.
package manage

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/config"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/models"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/repository"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/service"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/validation"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/prompt"
)

// Superusers создаёт суперпользователей.
type Superusers interface {
	CreateSuperuser(ctx context.Context, in service.RegisterInput) (models.User, error)
}

// для тестов
var (
	OpenDB        = config.Open
	Migrate       = config.Migrate
	NewSuperusers = newSuperusers
	ReadPassword  = func(cmd *cobra.Command, fromStdin bool) (string, error) {
		return prompt.ReadPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password", fromStdin)
	}
)

// App — состояние CLI: путь к конфигу и загруженная конфигурация.
type App struct {
	ConfigPath string
	Cfg        *config.Config
}

// NewRootCmd создаёт root-команду manage.
//
// Конфиг ищется в --config, затем в CONFIG_PATH, затем в ./configs/server.yaml.
// Переменные из .env подхватываются, если файл есть.
func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:   "manage",
		Short: "Администрирование сервера рецептов",
		Long: `Администрирование сервера рецептов.

Примеры:
  manage migrate up
  manage migrate down
  manage createsuperuser --email admin@example.com --name Admin
  manage clearsessions
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			if app.ConfigPath == "" {
				app.ConfigPath = os.Getenv("CONFIG_PATH")
			}
			if app.ConfigPath == "" {
				app.ConfigPath = "./configs/server.yaml"
			}

			cfg, err := config.Load(app.ConfigPath)
			if err != nil {
				return err
			}
			app.Cfg = cfg
			return nil
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "server config file")

	cmd.AddCommand(NewMigrateCmd(app))
	cmd.AddCommand(NewCreateSuperuserCmd(app))
	cmd.AddCommand(NewClearSessionsCmd(app))
	return cmd
}

// Execute запускает manage; при ошибке код выхода 1.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newSuperusers(db *sql.DB, cfg *config.Config) (Superusers, error) {
	hasher, err := crypto.NewHasher(cfg.Password.Hasher, crypto.Argon2Params{
		Time:      cfg.Password.Argon2.Time,
		MemoryKiB: cfg.Password.Argon2.MemoryKiB,
		Threads:   cfg.Password.Argon2.Threads,
		KeyLen:    cfg.Password.Argon2.KeyLen,
		SaltLen:   cfg.Password.Argon2.SaltLen,
	}, cfg.Password.Bcrypt.Cost)
	if err != nil {
		return nil, err
	}

	return service.NewAuthService(
		repository.NewUsersRepository(db),
		repository.NewSessionsRepository(db),
		hasher,
		validation.New(),
		cfg,
	), nil
}
