package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/agent/config"
)

var errNoRefreshToken = errors.New("no refresh_token in config, run: recipes login")

// credentialFlags — email и пароль для register и login.
// Пароль берётся из --password, из STDIN (--password-stdin) или запрашивается с терминала.
type credentialFlags struct {
	email     string
	password  string
	fromStdin bool
}

func (f *credentialFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.email, "email", "", "account email")
	cmd.Flags().StringVar(&f.password, "password", "", "password (prompted if empty)")
	cmd.Flags().BoolVar(&f.fromStdin, "password-stdin", false, "read password from STDIN (for scripts)")
	_ = cmd.MarkFlagRequired("email")
}

func (f *credentialFlags) resolvePassword(cmd *cobra.Command) (string, error) {
	if f.password != "" {
		return f.password, nil
	}
	return ReadPassword(cmd, f.fromStdin)
}

// NewRegisterCmd регистрирует пользователя. Токены не выдаются, после регистрации нужен login.
//
//	recipes register --email test@example.com --name Test
//	echo "StrongPass123" | recipes register --email test@example.com --password-stdin
func NewRegisterCmd(app *App) *cobra.Command {
	var (
		creds credentialFlags
		name  string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Регистрация нового пользователя",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := creds.resolvePassword(cmd)
			if err != nil {
				return err
			}

			u, err := app.client().Register(creds.email, pw, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registration successful (id=%s)\n", u.ID)
			return nil
		},
	}

	creds.bind(cmd)
	cmd.Flags().StringVar(&name, "name", "", "display name")
	return cmd
}

// NewLoginCmd получает пару токенов и запоминает их вместе с адресом сервера,
// чтобы следующие команды работали без --server.
//
//	recipes login --email test@example.com --server https://recipes.example.com
func NewLoginCmd(app *App) *cobra.Command {
	var creds credentialFlags

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Войти (получить access/refresh токены)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := creds.resolvePassword(cmd)
			if err != nil {
				return err
			}

			pair, err := app.client().Login(creds.email, pw)
			if err != nil {
				return err
			}

			app.Creds.Server = app.ServerURL
			app.Creds.AccessToken = pair.AccessToken
			app.Creds.RefreshToken = pair.RefreshToken
			if err := config.Save(app.CredsPath, app.Creds); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "login ok (tokens saved)")
			return nil
		},
	}

	creds.bind(cmd)
	return cmd
}

// NewRefreshCmd меняет refresh-токен на новую пару. Сервер ротирует токены,
// поэтому старый refresh после обмена уже недействителен и новая пара сохраняется сразу.
func NewRefreshCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Обновить пару токенов",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Creds.RefreshToken == "" {
				return errNoRefreshToken
			}

			pair, err := app.client().Refresh(app.Creds.RefreshToken)
			if err != nil {
				return err
			}

			app.Creds.AccessToken = pair.AccessToken
			app.Creds.RefreshToken = pair.RefreshToken
			if err := config.Save(app.CredsPath, app.Creds); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "tokens refreshed")
			return nil
		},
	}
}

// NewLogoutCmd забывает токены и удаляет офлайн-копию рецептов.
// Адрес сервера остаётся для следующего login.
func NewLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Удалить сохранённые токены и офлайн-копию",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Creds.AccessToken = ""
			app.Creds.RefreshToken = ""
			if err := config.Save(app.CredsPath, app.Creds); err != nil {
				return err
			}
			if err := os.Remove(app.RecipesPath); err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

// NewMeCmd показывает профиль владельца сохранённого токена.
func NewMeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Профиль текущего пользователя",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.token()
			if err != nil {
				return err
			}

			u, err := app.client().Me(token)
			if err != nil {
				return err
			}
			if app.JSON {
				return printJSON(cmd.OutOrStdout(), u)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ID: %s\nEmail: %s\nName: %s\n", u.ID, u.Email, u.Name)
			return nil
		},
	}
}
