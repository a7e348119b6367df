package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/agent/api"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/models"
)

// NewLabelCmd создаёт группу команд для тегов (kind=api.KindTags)
// или ингредиентов (kind=api.KindIngredients):
//
//	recipes tag list [--assigned-only]
//	recipes tag rename <id> <name>
//	recipes tag delete <id>
func NewLabelCmd(app *App, kind string) *cobra.Command {
	use, title := "tag", "Теги"
	if kind == api.KindIngredients {
		use, title = "ingredient", "Ингредиенты"
	}

	cmd := &cobra.Command{
		Use:     use,
		Aliases: []string{kind},
		Short:   title + ": list, rename, delete",
	}
	cmd.AddCommand(labelList(app, kind), labelRename(app, kind, use), labelDelete(app, kind, use))
	return cmd
}

func labelList(app *App, kind string) *cobra.Command {
	var assignedOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Список по имени",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.token()
			if err != nil {
				return err
			}

			list, err := app.client().ListLabels(token, kind, assignedOnly)
			if err != nil {
				return err
			}
			if app.JSON {
				if list == nil {
					list = []models.Label{}
				}
				return printJSON(cmd.OutOrStdout(), list)
			}
			return printLabels(cmd.OutOrStdout(), list)
		},
	}

	cmd.Flags().BoolVar(&assignedOnly, "assigned-only", false, "only those used by at least one recipe")
	return cmd
}

func labelRename(app *App, kind, use string) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Переименовать",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.token()
			if err != nil {
				return err
			}

			// имя из нескольких слов можно не брать в кавычки
			l, err := app.client().RenameLabel(token, kind, args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if app.JSON {
				return printJSON(cmd.OutOrStdout(), l)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "renamed %s %s to %q\n", use, l.ID, l.Name)
			return nil
		},
	}
}

func labelDelete(app *App, kind, use string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Удалить (связи с рецептами тоже удаляются)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.token()
			if err != nil {
				return err
			}

			if err := app.client().DeleteLabel(token, kind, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s %s\n", use, args[0])
			return nil
		},
	}
}
