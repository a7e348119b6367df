package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// RecipeImage загружает изображение рецепта из файла.
//
// Формат проверяет сервер: файл должен быть картинкой, иначе 400.
//
//	recipes recipe image <id> ./cake.png
func RecipeImage(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "image <id> <file>",
		Short: "Загрузить изображение рецепта",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.token()
			if err != nil {
				return err
			}

			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			resp, err := app.client().UploadImage(token, args[0], filepath.Base(args[1]), f)
			if err != nil {
				return err
			}

			if app.cached() {
				if rec, err := app.Recipes.Get(resp.ID); err == nil {
					rec.Image = &resp.Image
					if err := app.cacheRecipe(rec); err != nil {
						return err
					}
				}
			}

			if app.JSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "image uploaded: %s\n", resp.Image)
			return nil
		},
	}
}
