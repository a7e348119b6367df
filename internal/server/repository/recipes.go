package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-recipe-api/internal/shared/errors"
)

const recipeColumns = `r.id, r.user_id, r.title, r.description, r.time_minutes, r.price, r.link, r.image, r.created_at, r.updated_at`

// RecipesRepository — рецепты. Любой запрос ограничен владельцем (user_id),
// чужой рецепт неотличим от несуществующего (ErrNotFound).
type RecipesRepository struct {
	db     *sql.DB
	labels *LabelsRepository
}

func NewRecipesRepository(db *sql.DB) *RecipesRepository {
	return &RecipesRepository{db: db, labels: NewLabelsRepository(db)}
}

// Insert создаёт рецепт без связей.
func (r *RecipesRepository) Insert(ctx context.Context, userID uuid.UUID, f models.RecipeFields) (models.Recipe, error) {
	rec := models.Recipe{UserID: userID, RecipeFields: f}
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`INSERT INTO recipes (user_id, title, description, time_minutes, price, link)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 RETURNING id, created_at, updated_at`,
		userID, f.Title, f.Description, f.TimeMinutes, f.Price, f.Link,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return models.Recipe{}, serr.ErrInternal
	}
	return rec, nil
}

// GetForUpdate читает скалярные поля рецепта и блокирует строку до конца транзакции.
func (r *RecipesRepository) GetForUpdate(ctx context.Context, userID, id uuid.UUID) (models.Recipe, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes r
		  WHERE r.id = $1 AND r.user_id = $2
		  FOR UPDATE`,
		id, userID,
	)
	rec, err := scanRecipe(row)
	if err != nil {
		return models.Recipe{}, notFoundOr(err)
	}
	return rec, nil
}

// Update перезаписывает скалярные поля. Владелец не меняется.
func (r *RecipesRepository) Update(ctx context.Context, userID, id uuid.UUID, f models.RecipeFields) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE recipes
		    SET title = $3, description = $4, time_minutes = $5, price = $6, link = $7, updated_at = now()
		  WHERE id = $1 AND user_id = $2`,
		id, userID, f.Title, f.Description, f.TimeMinutes, f.Price, f.Link,
	)
	return affectedOne(res, err)
}

// Get — рецепт владельца со связями.
func (r *RecipesRepository) Get(ctx context.Context, userID, id uuid.UUID) (models.Recipe, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes r WHERE r.id = $1 AND r.user_id = $2`,
		id, userID,
	)
	rec, err := scanRecipe(row)
	if err != nil {
		return models.Recipe{}, notFoundOr(err)
	}

	list := []models.Recipe{rec}
	if err := r.attachLabels(ctx, list); err != nil {
		return models.Recipe{}, err
	}
	return list[0], nil
}

// List — рецепты владельца, новые первыми.
//
// Фильтр по тегам и ингредиентам делается через EXISTS, поэтому рецепт,
// подходящий под несколько id, возвращается один раз.
func (r *RecipesRepository) List(ctx context.Context, userID uuid.UUID, f models.RecipeFilter) ([]models.Recipe, error) {
	q := `SELECT ` + recipeColumns + ` FROM recipes r WHERE r.user_id = $1`
	args := []any{userID}

	addFilter := func(kind models.LabelKind, ids []uuid.UUID) {
		if len(ids) == 0 {
			return
		}
		q += ` AND EXISTS (SELECT 1 FROM ` + kind.LinkTable() + ` x
		                    WHERE x.recipe_id = r.id
		                      AND x.` + kind.LinkColumn() + ` IN (` + placeholders(len(args)+1, len(ids)) + `))`
		for _, id := range ids {
			args = append(args, id)
		}
	}
	addFilter(models.KindTag, f.TagIDs)
	addFilter(models.KindIngredient, f.IngredientIDs)

	q += ` ORDER BY r.created_at DESC, r.id DESC`

	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, serr.ErrInternal
	}
	defer rows.Close()

	out := make([]models.Recipe, 0)
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, serr.ErrInternal
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, serr.ErrInternal
	}

	if err := r.attachLabels(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete удаляет рецепт и возвращает путь его изображения (nil, если не было).
// Связи удаляются каскадом, метки остаются.
func (r *RecipesRepository) Delete(ctx context.Context, userID, id uuid.UUID) (*string, error) {
	var image *string
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`DELETE FROM recipes WHERE id = $1 AND user_id = $2 RETURNING image`,
		id, userID,
	).Scan(&image)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return image, nil
}

// Exists проверяет, что рецепт принадлежит пользователю.
func (r *RecipesRepository) Exists(ctx context.Context, userID, id uuid.UUID) error {
	var one int
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT 1 FROM recipes WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&one)
	if err != nil {
		return notFoundOr(err)
	}
	return nil
}

// SetImage записывает новый путь изображения и возвращает предыдущий.
func (r *RecipesRepository) SetImage(ctx context.Context, userID, id uuid.UUID, path string) (*string, error) {
	var prev *string
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`WITH old AS (
		     SELECT id, image FROM recipes WHERE id = $1 AND user_id = $2 FOR UPDATE
		 )
		 UPDATE recipes r
		    SET image = $3, updated_at = now()
		   FROM old
		  WHERE r.id = old.id
		 RETURNING old.image`,
		id, userID, path,
	).Scan(&prev)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return prev, nil
}

func (r *RecipesRepository) attachLabels(ctx context.Context, list []models.Recipe) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(list))
	for i := range list {
		ids[i] = list[i].ID
	}

	tags, err := r.labels.ForRecipes(ctx, models.KindTag, ids)
	if err != nil {
		return err
	}
	ingredients, err := r.labels.ForRecipes(ctx, models.KindIngredient, ids)
	if err != nil {
		return err
	}

	for i := range list {
		list[i].Tags = nonNil(tags[list[i].ID])
		list[i].Ingredients = nonNil(ingredients[list[i].ID])
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (models.Recipe, error) {
	var (
		rec   models.Recipe
		image sql.NullString
	)
	err := row.Scan(&rec.ID, &rec.UserID, &rec.Title, &rec.Description, &rec.TimeMinutes,
		&rec.Price, &rec.Link, &image, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return models.Recipe{}, err
	}
	if image.Valid {
		s := image.String
		rec.Image = &s
	}
	return rec, nil
}

func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return serr.ErrInternal
	}
	n, err := res.RowsAffected()
	if err != nil {
		return serr.ErrInternal
	}
	if n == 0 {
		return serr.ErrNotFound
	}
	return nil
}

func nonNil(l []models.Label) []models.Label {
	if l == nil {
		return []models.Label{}
	}
	return l
}
