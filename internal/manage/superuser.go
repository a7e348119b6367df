package manage

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-recipe-api/internal/shared/errors"
)

// NewCreateSuperuserCmd создаёт пользователя с is_staff и is_superuser.
//
// Пароль проходит те же проверки, что и при регистрации через API.
// Вводится скрыто из терминала или читается из STDIN (--password-stdin).
//
//	manage createsuperuser --email admin@example.com --name Admin
//	echo "$ADMIN_PASSWORD" | manage createsuperuser --email admin@example.com --password-stdin
func NewCreateSuperuserCmd(app *App) *cobra.Command {
	var email, name string
	var passwordFromStdin bool

	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Создать суперпользователя",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := ReadPassword(cmd, passwordFromStdin)
			if err != nil {
				return err
			}

			db, err := OpenDB(app.Cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()

			users, err := NewSuperusers(db, app.Cfg)
			if err != nil {
				return err
			}

			u, err := users.CreateSuperuser(cmd.Context(), service.RegisterInput{
				Email:    email,
				Password: pw,
				Name:     name,
			})
			if err != nil {
				return describe(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "superuser %s created (id=%s)\n", u.Email, u.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "superuser email")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().BoolVar(&passwordFromStdin, "password-stdin", false, "read password from STDIN (for scripts)")
	cmd.MarkFlagRequired("email")
	return cmd
}

// describe раскрывает ошибки валидации по полям.
func describe(err error) error {
	fields := serr.FieldErrors(err)
	if len(fields) == 0 {
		return err
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+": "+fields[k])
	}
	return errors.New(strings.Join(lines, "\n"))
}
