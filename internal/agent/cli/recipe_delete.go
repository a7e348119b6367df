package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RecipeDelete удаляет рецепт. Теги и ингредиенты на сервере остаются.
//
//	recipes recipe delete <id>
func RecipeDelete(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Удалить рецепт",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.token()
			if err != nil {
				return err
			}

			if err := app.client().DeleteRecipe(token, args[0]); err != nil {
				return err
			}
			if err := app.uncacheRecipe(args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted recipe %s\n", args[0])
			return nil
		},
	}
}
