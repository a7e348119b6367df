package manage

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/config"
)

// NewMigrateCmd применяет или откатывает миграции из migrations.path конфига.
//
//	manage migrate up
//	manage migrate down
func NewMigrateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <up|down>",
		Short:     "Применить (up) или откатить (down) миграции",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{config.MigrateUp, config.MigrateDown},
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := OpenDB(app.Cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := Migrate(db, app.Cfg.Migrations.Path, args[0]); err != nil {
				return fmt.Errorf("migrate %s: %w", args[0], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "migrations %s: ok\n", args[0])
			return nil
		},
	}
}
