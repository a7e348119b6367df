package api

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/models"
)

// ListRecipes загружает рецепты пользователя.
//
// Выполняет запрос:
//
//	GET /recipes/?tags=<id,id>&ingredients=<id,id>
//
// Пустые списки фильтров не передаются.
func (c *Client) ListRecipes(accessToken string, tagIDs, ingredientIDs []string) ([]models.Recipe, error) {
	q := url.Values{}
	if len(tagIDs) > 0 {
		q.Set("tags", strings.Join(tagIDs, ","))
	}
	if len(ingredientIDs) > 0 {
		q.Set("ingredients", strings.Join(ingredientIDs, ","))
	}

	path := "/recipes/"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp []models.Recipe
	err := c.GetJSON(path, &resp, accessToken)
	return resp, err
}

// GetRecipe загружает один рецепт (GET /recipes/{id}/).
func (c *Client) GetRecipe(accessToken, id string) (models.RecipeDetail, error) {
	var resp models.RecipeDetail
	err := c.GetJSON(recipePath(id), &resp, accessToken)
	return resp, err
}

// CreateRecipe создаёт рецепт (POST /recipes/).
func (c *Client) CreateRecipe(accessToken string, req models.CreateRecipeRequest) (models.RecipeDetail, error) {
	var resp models.RecipeDetail
	err := c.PostJSON("/recipes/", req, &resp, accessToken)
	return resp, err
}

// UpdateRecipe обновляет рецепт.
//
// partial=true отправляет PATCH (меняются только переданные поля),
// иначе PUT, для которого title, time_minutes и price обязательны.
func (c *Client) UpdateRecipe(accessToken, id string, req models.UpdateRecipeRequest, partial bool) (models.RecipeDetail, error) {
	var resp models.RecipeDetail
	var err error
	if partial {
		err = c.PatchJSON(recipePath(id), req, &resp, accessToken)
	} else {
		err = c.PutJSON(recipePath(id), req, &resp, accessToken)
	}
	return resp, err
}

// DeleteRecipe удаляет рецепт (DELETE /recipes/{id}/, ответ 204).
func (c *Client) DeleteRecipe(accessToken, id string) error {
	return c.DeleteJSON(recipePath(id), nil, accessToken)
}

// UploadImage загружает изображение рецепта (POST /recipes/{id}/image/, поле image).
func (c *Client) UploadImage(accessToken, id, filename string, src io.Reader) (models.RecipeImageResponse, error) {
	var resp models.RecipeImageResponse
	err := c.PostFile(recipePath(id)+"image/", "image", filename, src, &resp, accessToken)
	return resp, err
}

func recipePath(id string) string {
	return fmt.Sprintf("/recipes/%s/", url.PathEscape(id))
}
