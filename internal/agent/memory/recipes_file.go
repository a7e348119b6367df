package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/agent/config"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/models"
)

// RecipesDump — формат файла офлайн-копии:
//
//	{ "synced_at": "...", "recipes": [ ... ] }
type RecipesDump struct {
	SyncedAt time.Time             `json:"synced_at"`
	Recipes  []models.RecipeDetail `json:"recipes"`
}

// DefaultRecipesPath возвращает $HOME/.recipes/recipes.json.
func DefaultRecipesPath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "recipes.json"), nil
}

// SaveToFile сохраняет содержимое store в path (каталог 0700, файл 0600).
func SaveToFile(path string, store *RecipesStore) error {
	return config.WriteJSON(path, RecipesDump{
		SyncedAt: store.SyncedAt(),
		Recipes:  store.List(),
	})
}

// LoadFromFile заполняет store из файла.
//
// Отсутствующий файл не ошибка (первый запуск): store остаётся как есть.
func LoadFromFile(path string, store *RecipesStore) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var dump RecipesDump
	if err := json.Unmarshal(b, &dump); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	store.ReplaceAll(dump.Recipes, dump.SyncedAt)
	return nil
}
