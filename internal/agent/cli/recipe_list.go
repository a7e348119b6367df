package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/models"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/utils"
)

// RecipeList создаёт команду вывода списка рецептов.
//
// Фильтры --tags и --ingredients принимают ID через запятую: внутри списка
// достаточно любого совпадения, а условия по тегам и ингредиентам должны выполниться оба.
// С --cached список берётся из офлайн-копии без обращения к серверу.
//
//	recipes recipe list
//	recipes recipe list --tags <id>,<id> --ingredients <id>
//	recipes recipe list --cached
func RecipeList(app *App) *cobra.Command {
	var tags, ingredients string
	var cached bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Список рецептов (новые первыми)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tagIDs, ingredientIDs := utils.SplitCSV(tags), utils.SplitCSV(ingredients)

			var list []models.Recipe
			if cached {
				if !app.cached() {
					fmt.Fprintln(cmd.OutOrStdout(), "no local recipes (run: recipes recipe sync)")
					return nil
				}
				for _, r := range app.Recipes.Filter(tagIDs, ingredientIDs) {
					list = append(list, r.Recipe)
				}
			} else {
				token, err := app.token()
				if err != nil {
					return err
				}
				list, err = app.client().ListRecipes(token, tagIDs, ingredientIDs)
				if err != nil {
					return err
				}
			}

			if app.JSON {
				if list == nil {
					list = []models.Recipe{}
				}
				return printJSON(cmd.OutOrStdout(), list)
			}
			return printRecipes(cmd.OutOrStdout(), list)
		},
	}

	cmd.Flags().StringVar(&tags, "tags", "", "comma separated tag IDs")
	cmd.Flags().StringVar(&ingredients, "ingredients", "", "comma separated ingredient IDs")
	cmd.Flags().BoolVar(&cached, "cached", false, "read from the offline copy (see: recipe sync)")
	return cmd
}

// RecipeGet печатает один рецепт.
//
//	recipes recipe get <id>
//	recipes recipe get <id> --cached
func RecipeGet(app *App) *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Показать рецепт",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				rec models.RecipeDetail
				err error
			)
			if cached {
				rec, err = app.Recipes.Get(args[0])
				if err != nil {
					return fmt.Errorf("recipe %s: %w", args[0], err)
				}
			} else {
				token, terr := app.token()
				if terr != nil {
					return terr
				}
				rec, err = app.client().GetRecipe(token, args[0])
				if err != nil {
					return err
				}
			}

			if app.JSON {
				return printJSON(cmd.OutOrStdout(), rec)
			}
			printRecipe(cmd.OutOrStdout(), rec)
			return nil
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "read from the offline copy")
	return cmd
}
