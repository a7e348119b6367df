package cli

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/models"
)

// recipeFlags — общие флаги create/update.
type recipeFlags struct {
	title, description, link, price string
	minutes                         int
	tags, ingredients               []string
}

func (f *recipeFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.title, "title", "", "recipe title")
	fs.StringVar(&f.description, "description", "", "recipe description")
	fs.IntVar(&f.minutes, "time", 0, "cooking time, minutes")
	fs.StringVar(&f.price, "price", "", "price, e.g. 5.50")
	fs.StringVar(&f.link, "link", "", "external link")
	fs.StringArrayVar(&f.tags, "tag", nil, "tag name (repeatable)")
	fs.StringArrayVar(&f.ingredients, "ingredient", nil, "ingredient name (repeatable)")
}

func parsePrice(s string) (*decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid --price %q: %w", s, err)
	}
	return &d, nil
}

func toLabelRequests(names []string) []models.LabelRequest {
	out := make([]models.LabelRequest, 0, len(names))
	for _, n := range names {
		out = append(out, models.LabelRequest{Name: n})
	}
	return out
}

// RecipeCreate создаёт рецепт.
//
// Теги и ингредиенты передаются по имени и создаются на сервере, если их нет.
//
//	recipes recipe create --title Soup --time 30 --price 5.50 --tag Vegan --ingredient Salt --ingredient Water
func RecipeCreate(app *App) *cobra.Command {
	var f recipeFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Создать рецепт",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.token()
			if err != nil {
				return err
			}

			req := models.CreateRecipeRequest{
				Title:       f.title,
				Description: f.description,
				Link:        f.link,
				Tags:        toLabelRequests(f.tags),
				Ingredients: toLabelRequests(f.ingredients),
			}
			// без флага поле не отправляется, сервер сообщит, что оно обязательно
			if cmd.Flags().Changed("time") {
				req.TimeMinutes = &f.minutes
			}
			if cmd.Flags().Changed("price") {
				if req.Price, err = parsePrice(f.price); err != nil {
					return err
				}
			}

			rec, err := app.client().CreateRecipe(token, req)
			if err != nil {
				return err
			}
			if err := app.cacheRecipe(rec); err != nil {
				return err
			}

			if app.JSON {
				return printJSON(cmd.OutOrStdout(), rec)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created recipe %s\n", rec.ID)
			return nil
		},
	}

	f.bind(cmd.Flags())
	return cmd
}

// RecipeUpdate меняет рецепт.
//
// По умолчанию отправляется PATCH только с указанными флагами.
// --put отправляет PUT: title, time и price тогда обязательны.
// --tag заменяет все теги рецепта, --clear-tags убирает их (аналогично для ингредиентов).
//
//	recipes recipe update <id> --price 6.00
//	recipes recipe update <id> --clear-tags
func RecipeUpdate(app *App) *cobra.Command {
	var f recipeFlags
	var put, clearTags, clearIngredients bool

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Изменить рецепт",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.token()
			if err != nil {
				return err
			}

			fs := cmd.Flags()
			var req models.UpdateRecipeRequest
			if fs.Changed("title") {
				req.Title = &f.title
			}
			if fs.Changed("description") {
				req.Description = &f.description
			}
			if fs.Changed("link") {
				req.Link = &f.link
			}
			if fs.Changed("time") {
				req.TimeMinutes = &f.minutes
			}
			if fs.Changed("price") {
				if req.Price, err = parsePrice(f.price); err != nil {
					return err
				}
			}

			if req.Tags, err = replaceLabels(f.tags, clearTags, "tag"); err != nil {
				return err
			}
			if req.Ingredients, err = replaceLabels(f.ingredients, clearIngredients, "ingredient"); err != nil {
				return err
			}

			rec, err := app.client().UpdateRecipe(token, args[0], req, !put)
			if err != nil {
				return err
			}
			if err := app.cacheRecipe(rec); err != nil {
				return err
			}

			if app.JSON {
				return printJSON(cmd.OutOrStdout(), rec)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated recipe %s\n", rec.ID)
			return nil
		},
	}

	f.bind(cmd.Flags())
	cmd.Flags().BoolVar(&put, "put", false, "full update (PUT): title, time and price are required")
	cmd.Flags().BoolVar(&clearTags, "clear-tags", false, "remove all tags from the recipe")
	cmd.Flags().BoolVar(&clearIngredients, "clear-ingredients", false, "remove all ingredients from the recipe")
	return cmd
}

// replaceLabels: nil: связи не трогаем, пустой список: очищаем.
func replaceLabels(names []string, clear bool, flag string) (*[]models.LabelRequest, error) {
	switch {
	case clear && len(names) > 0:
		return nil, errors.New("--clear-" + flag + "s conflicts with --" + flag)
	case clear:
		empty := []models.LabelRequest{}
		return &empty, nil
	case len(names) > 0:
		list := toLabelRequests(names)
		return &list, nil
	}
	return nil, nil
}
