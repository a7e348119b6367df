package api

import (
	"fmt"
	"net/url"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/models"
)

// Виды меток: сегмент пути на сервере.
const (
	KindTags        = "tags"
	KindIngredients = "ingredients"
)

// ListLabels загружает теги или ингредиенты пользователя.
//
// assignedOnly оставляет только те, что привязаны хотя бы к одному рецепту.
func (c *Client) ListLabels(accessToken, kind string, assignedOnly bool) ([]models.Label, error) {
	path := "/" + kind + "/"
	if assignedOnly {
		path += "?assigned_only=1"
	}

	var resp []models.Label
	err := c.GetJSON(path, &resp, accessToken)
	return resp, err
}

// RenameLabel переименовывает тег или ингредиент (PATCH /{kind}/{id}/).
func (c *Client) RenameLabel(accessToken, kind, id, name string) (models.Label, error) {
	var resp models.Label
	err := c.PatchJSON(labelPath(kind, id), models.RenameLabelRequest{Name: name}, &resp, accessToken)
	return resp, err
}

// DeleteLabel удаляет тег или ингредиент вместе со связями с рецептами.
func (c *Client) DeleteLabel(accessToken, kind, id string) error {
	return c.DeleteJSON(labelPath(kind, id), nil, accessToken)
}

func labelPath(kind, id string) string {
	return fmt.Sprintf("/%s/%s/", kind, url.PathEscape(id))
}
