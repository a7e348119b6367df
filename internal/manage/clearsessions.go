package manage

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/repository"
)

// NewClearSessionsCmd удаляет истёкшие refresh-сессии.
//
//	manage clearsessions
//	manage clearsessions --older-than 720h
func NewClearSessionsCmd(app *App) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "clearsessions",
		Short: "Удалить истёкшие refresh-сессии",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan < 0 {
				return fmt.Errorf("--older-than must not be negative")
			}

			db, err := OpenDB(app.Cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := repository.NewSessionsRepository(db).DeleteExpired(cmd.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return fmt.Errorf("clearsessions: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d expired sessions\n", n)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "удалять только сессии, истёкшие раньше чем столько назад")
	return cmd
}
