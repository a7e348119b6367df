package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/models"
)

// printJSON печатает v с отступами.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func labelNames(labels []models.Label) string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.Name)
	}
	return strings.Join(names, ", ")
}

// printRecipes печатает список рецептов таблицей.
func printRecipes(w io.Writer, list []models.Recipe) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tMINUTES\tPRICE\tTAGS")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", r.ID, r.Title, r.TimeMinutes, r.Price.StringFixed(2), labelNames(r.Tags))
	}
	return tw.Flush()
}

// printRecipe печатает рецепт целиком.
func printRecipe(w io.Writer, r models.RecipeDetail) {
	fmt.Fprintf(w, "ID: %s\nTitle: %s\nTime: %d min\nPrice: %s\n",
		r.ID, r.Title, r.TimeMinutes, r.Price.StringFixed(2))
	if r.Link != "" {
		fmt.Fprintf(w, "Link: %s\n", r.Link)
	}
	if r.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", r.Description)
	}
	fmt.Fprintf(w, "Tags: %s\nIngredients: %s\n", labelNames(r.Tags), labelNames(r.Ingredients))
	if r.Image != nil {
		fmt.Fprintf(w, "Image: %s\n", *r.Image)
	}
}

func printLabels(w io.Writer, list []models.Label) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, l := range list {
		fmt.Fprintf(tw, "%s\t%s\n", l.ID, l.Name)
	}
	return tw.Flush()
}
