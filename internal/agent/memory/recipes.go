// Package memory хранит офлайн-копию рецептов пользователя.
//
// Копия заполняется командой "recipe sync" и читается "recipe list --cached"
// и "recipe get --cached" без обращения к серверу.
package memory

import (
	"sync"
	"time"

	serr "github.com/IvanChernomyrdin/go-recipe-api/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/models"
)

// RecipesStore — потокобезопасное in-memory хранилище рецептов.
//
// Порядок рецептов сохраняется таким, каким его отдал сервер (новые первыми).
type RecipesStore struct {
	mu       sync.RWMutex
	recipes  map[string]models.RecipeDetail
	order    []string
	syncedAt time.Time
}

// NewRecipes создаёт пустое хранилище.
func NewRecipes() *RecipesStore {
	return &RecipesStore{recipes: make(map[string]models.RecipeDetail)}
}

// Get возвращает рецепт по ID или serr.ErrNotFound.
func (s *RecipesStore) Get(id string) (models.RecipeDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		return models.RecipeDetail{}, serr.ErrNotFound
	}
	return r, nil
}

// ReplaceAll заменяет содержимое стора результатом sync.
//
// Дубликаты по ID: побеждает последнее значение, позиция остаётся первой.
func (s *RecipesStore) ReplaceAll(recipes []models.RecipeDetail, syncedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recipes = make(map[string]models.RecipeDetail, len(recipes))
	s.order = make([]string, 0, len(recipes))
	for _, r := range recipes {
		if _, ok := s.recipes[r.ID]; !ok {
			s.order = append(s.order, r.ID)
		}
		s.recipes[r.ID] = r
	}
	s.syncedAt = syncedAt
}

// Put добавляет новый рецепт в начало или заменяет существующий на месте.
func (s *RecipesStore) Put(r models.RecipeDetail) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[r.ID]; !ok {
		s.order = append([]string{r.ID}, s.order...)
	}
	s.recipes[r.ID] = r
}

// Delete удаляет рецепт; отсутствующий ID даёт serr.ErrNotFound.
func (s *RecipesStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		return serr.ErrNotFound
	}
	delete(s.recipes, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// List возвращает все рецепты в порядке сервера.
func (s *RecipesStore) List() []models.RecipeDetail {
	return s.Filter(nil, nil)
}

// Filter фильтрует так же, как сервер: внутри списка достаточно
// совпадения с любым ID, а условия по tagIDs и ingredientIDs должны выполниться оба.
// Пустой список не ограничивает выборку.
func (s *RecipesStore) Filter(tagIDs, ingredientIDs []string) []models.RecipeDetail {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.RecipeDetail, 0, len(s.order))
	for _, id := range s.order {
		r := s.recipes[id]
		if matchAny(r.Tags, tagIDs) && matchAny(r.Ingredients, ingredientIDs) {
			out = append(out, r)
		}
	}
	return out
}

// SyncedAt — время последнего sync (нулевое, если его не было).
func (s *RecipesStore) SyncedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.syncedAt
}

func matchAny(labels []models.Label, ids []string) bool {
	if len(ids) == 0 {
		return true
	}
	for _, l := range labels {
		for _, id := range ids {
			if l.ID == id {
				return true
			}
		}
	}
	return false
}
