package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/models"
)

// одновременных запросов деталей при sync
const syncConcurrency = 4

// RecipeSync создаёт CLI-команду синхронизации офлайн-копии с сервером.
//
// Поведение:
//  1. загружает список рецептов;
//  2. параллельно (не больше syncConcurrency запросов) загружает детали каждого;
//  3. полностью заменяет офлайн-копию и сохраняет её в файл.
//
// Если сервер вернул элемент без ID, команда завершится ошибкой: это
// рассинхрон JSON-модели между клиентом и сервером.
//
//	recipes recipe sync
func RecipeSync(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Сохранить рецепты локально для офлайн-просмотра",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.token()
			if err != nil {
				return err
			}

			c := app.client()
			list, err := c.ListRecipes(token, nil, nil)
			if err != nil {
				return err
			}

			for i, r := range list {
				if r.ID == "" {
					return fmt.Errorf("sync: server returned recipe with empty id at index %d (model mismatch)", i)
				}
			}

			details := make([]models.RecipeDetail, len(list))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(syncConcurrency)
			for i, r := range list {
				g.Go(func() error {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					d, err := c.GetRecipe(token, r.ID)
					if err != nil {
						return fmt.Errorf("sync recipe %s: %w", r.ID, err)
					}
					details[i] = d
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			app.Recipes.ReplaceAll(details, time.Now().UTC())
			if err := SaveRecipesToFile(app.RecipesPath, app.Recipes); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "synced %d recipes\n", len(details))
			return nil
		},
	}
}
