// Package cli реализует командный интерфейс (CLI) клиента сервера рецептов.
//
// Пакет отвечает за:
//   - определение root-команды и набора подкоманд;
//   - разбор аргументов и флагов командной строки;
//   - загрузку локальных учётных данных и офлайн-копии рецептов;
//   - выполнение команд и вывод результата пользователю.
//
// Точка входа пакета: функция Execute.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/agent/api"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/agent/config"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/agent/memory"
)

const defaultServerURL = "http://127.0.0.1:8080"

// errNotLoggedIn — нет сохранённого access токена.
var errNotLoggedIn = errors.New("no access_token, run: recipes login")

// App содержит состояние CLI-приложения, разделяемое между командами.
//
// Экземпляр App создаётся при построении root-команды и передаётся в подкоманды.
type App struct {
	// ServerURL — базовый URL сервера (например, "http://127.0.0.1:8080").
	ServerURL string
	// Insecure отключает проверку TLS-сертификата (самоподписанный dev-сертификат).
	Insecure bool
	// JSON — печатать ответы как JSON, а не таблицей.
	JSON bool

	// CredsPath — путь к файлу с токенами.
	CredsPath string
	// Creds — загруженные учётные данные. Может быть nil до PersistentPreRunE.
	Creds *config.Credentials

	// RecipesPath — путь к офлайн-копии рецептов.
	RecipesPath string
	// Recipes — офлайн-копия, загруженная из RecipesPath.
	Recipes *memory.RecipesStore
}

// client создаёт API-клиент с учётом флагов.
func (a *App) client() *api.Client {
	var opts []api.Option
	if a.Insecure {
		opts = append(opts, api.WithInsecureTLS())
	}
	return NewAPIClient(a.ServerURL, opts...)
}

// token возвращает сохранённый access токен.
func (a *App) token() (string, error) {
	if !a.Creds.LoggedIn() {
		return "", errNotLoggedIn
	}
	return a.Creds.AccessToken, nil
}

// NewRootCmd создаёт root-команду CLI и регистрирует подкоманды.
//
// В PersistentPreRunE определяются пути файлов и загружаются токены и офлайн-копия.
// Если --server не указан, используется сервер из последнего login.
func NewRootCmd(buildVersion, buildDate string) *cobra.Command {
	app := &App{ServerURL: defaultServerURL}

	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Recipes CLI — клиент сервера рецептов",
		Long: `Recipes CLI.

Команды:
  register    Регистрация нового пользователя
  login       Логин (получить access/refresh)
  refresh     Обновить пару токенов по refresh токену
  logout      Забыть токены и офлайн-копию
  me          Профиль текущего пользователя
  recipe      Рецепты: list, get, create, update, delete, image, sync
  tag         Теги: list, rename, delete
  ingredient  Ингредиенты: list, rename, delete
  version     Версия и дата сборки

Примеры:
  recipes register --email test@example.com --name Test
  recipes login --email test@example.com --server http://127.0.0.1:8080
  recipes recipe create --title "Soup" --time 30 --price 5.50 --tag Vegan --ingredient Salt
  recipes recipe list --tags <tag-id>
  recipes recipe sync && recipes recipe list --cached
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.CredsPath == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				app.CredsPath = p
			}
			creds, err := config.Load(app.CredsPath)
			if err != nil {
				return err
			}
			app.Creds = creds

			if !cmd.Flags().Changed("server") && creds.Server != "" {
				app.ServerURL = creds.Server
			}

			if app.RecipesPath == "" {
				p, err := memory.DefaultRecipesPath()
				if err != nil {
					return err
				}
				app.RecipesPath = p
			}
			app.Recipes = memory.NewRecipes()
			return memory.LoadFromFile(app.RecipesPath, app.Recipes)
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", defaultServerURL, "server base URL")
	cmd.PersistentFlags().BoolVar(&app.Insecure, "insecure", false, "skip TLS certificate verification (dev only)")
	cmd.PersistentFlags().BoolVar(&app.JSON, "json", false, "print responses as JSON")
	cmd.PersistentFlags().StringVar(&app.CredsPath, "credentials", "", "credentials file (default ~/.recipes/credentials.json)")
	cmd.PersistentFlags().StringVar(&app.RecipesPath, "cache", "", "offline recipes file (default ~/.recipes/recipes.json)")

	cmd.AddCommand(NewRegisterCmd(app))
	cmd.AddCommand(NewLoginCmd(app))
	cmd.AddCommand(NewRefreshCmd(app))
	cmd.AddCommand(NewLogoutCmd(app))
	cmd.AddCommand(NewMeCmd(app))
	cmd.AddCommand(NewRecipeCmd(app))
	cmd.AddCommand(NewLabelCmd(app, api.KindTags))
	cmd.AddCommand(NewLabelCmd(app, api.KindIngredients))
	cmd.AddCommand(NewVersionCmd(buildVersion, buildDate))

	return cmd
}

// Execute запускает обработку CLI-команд.
//
// При ошибке сообщение выводится в stderr, процесс завершается с кодом 1.
func Execute(buildVersion, buildDate string) {
	if err := NewRootCmd(buildVersion, buildDate).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
