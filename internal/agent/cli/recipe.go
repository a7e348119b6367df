package cli

import (
	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/models"
)

// NewRecipeCmd группирует команды работы с рецептами.
func NewRecipeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recipe",
		Aliases: []string{"recipes"},
		Short:   "Рецепты: list, get, create, update, delete, image, sync",
	}

	cmd.AddCommand(
		RecipeList(app),
		RecipeGet(app),
		RecipeCreate(app),
		RecipeUpdate(app),
		RecipeDelete(app),
		RecipeImage(app),
		RecipeSync(app),
	)
	return cmd
}

// cached сообщает, что офлайн-копия уже создавалась командой sync.
func (a *App) cached() bool {
	return a.Recipes != nil && !a.Recipes.SyncedAt().IsZero()
}

// cacheRecipe обновляет офлайн-копию после изменения на сервере.
// Без предварительного sync копию не создаём.
func (a *App) cacheRecipe(r models.RecipeDetail) error {
	if !a.cached() {
		return nil
	}
	a.Recipes.Put(r)
	return SaveRecipesToFile(a.RecipesPath, a.Recipes)
}

func (a *App) uncacheRecipe(id string) error {
	if !a.cached() {
		return nil
	}
	if err := a.Recipes.Delete(id); err != nil {
		// рецепт мог появиться после sync
		return nil
	}
	return SaveRecipesToFile(a.RecipesPath, a.Recipes)
}
