package tests

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/models"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/repository"
	serr "github.com/IvanChernomyrdin/go-recipe-api/internal/shared/errors"
)

var recipeCols = []string{"id", "user_id", "title", "description", "time_minutes", "price", "link", "image", "created_at", "updated_at"}

var linkCols = []string{"recipe_id", "id", "user_id", "name", "created_at"}

func recipeRow(rows *sqlmock.Rows, id, userID uuid.UUID, title string, image any) *sqlmock.Rows {
	return rows.AddRow(id.String(), userID.String(), title, "", 5, "5.50", "", image, time.Now(), time.Now())
}

func TestRecipesRepository_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewRecipesRepository(db)
	userID, id := uuid.New(), uuid.New()
	f := models.RecipeFields{Title: "Soup", TimeMinutes: 10, Price: decimal.RequireFromString("5.25")}

	mock.ExpectQuery(`INSERT INTO recipes`).
		WithArgs(userID, "Soup", "", 10, f.Price, "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(id.String(), time.Now(), time.Now()))

	rec, err := repo.Insert(context.Background(), userID, f)
	require.NoError(t, err)
	require.Equal(t, id, rec.ID)
	require.Equal(t, userID, rec.UserID)
	require.Equal(t, "Soup", rec.Title)
}

func TestRecipesRepository_Get_WithLabels(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewRecipesRepository(db)
	userID, id, tag, ing := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM recipes r WHERE r.id = $1 AND r.user_id = $2`)).
		WithArgs(id, userID).
		WillReturnRows(recipeRow(sqlmock.NewRows(recipeCols), id, userID, "Soup", "uploads/recipe/a.jpg"))
	mock.ExpectQuery(`FROM recipe_tags x`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(linkCols).AddRow(id.String(), tag.String(), userID.String(), "Vegan", time.Now()))
	mock.ExpectQuery(`FROM recipe_ingredients x`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(linkCols).AddRow(id.String(), ing.String(), userID.String(), "Salt", time.Now()))

	rec, err := repo.Get(context.Background(), userID, id)
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("5.50").Equal(rec.Price))
	require.NotNil(t, rec.Image)
	require.Equal(t, "uploads/recipe/a.jpg", *rec.Image)
	require.Len(t, rec.Tags, 1)
	require.Equal(t, "Vegan", rec.Tags[0].Name)
	require.Len(t, rec.Ingredients, 1)
	require.Equal(t, ing, rec.Ingredients[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

// чужой рецепт неотличим от отсутствующего
func TestRecipesRepository_Get_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewRecipesRepository(db)

	mock.ExpectQuery(`FROM recipes r`).WillReturnError(sql.ErrNoRows)

	_, err = repo.Get(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, serr.ErrNotFound)
}

func TestRecipesRepository_List_NoFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewRecipesRepository(db)
	userID, r1, r2 := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM recipes r WHERE r.user_id = $1 ORDER BY r.created_at DESC, r.id DESC`)).
		WithArgs(userID).
		WillReturnRows(recipeRow(recipeRow(sqlmock.NewRows(recipeCols), r2, userID, "New", nil), r1, userID, "Old", nil))
	mock.ExpectQuery(`FROM recipe_tags x`).WithArgs(r2, r1).WillReturnRows(sqlmock.NewRows(linkCols))
	mock.ExpectQuery(`FROM recipe_ingredients x`).WithArgs(r2, r1).WillReturnRows(sqlmock.NewRows(linkCols))

	got, err := repo.List(context.Background(), userID, models.RecipeFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "New", got[0].Title)
	require.Nil(t, got[0].Image)
	require.NotNil(t, got[0].Tags)
	require.Empty(t, got[0].Tags)
}

// ИЛИ внутри набора, И между наборами
func TestRecipesRepository_List_Filters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewRecipesRepository(db)
	userID := uuid.New()
	t1, t2, i1 := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(`EXISTS \(SELECT 1 FROM recipe_tags x\s+WHERE x.recipe_id = r.id\s+AND x.tag_id IN \(\$2,\$3\)\).*EXISTS \(SELECT 1 FROM recipe_ingredients x\s+WHERE x.recipe_id = r.id\s+AND x.ingredient_id IN \(\$4\)\)`).
		WithArgs(userID, t1, t2, i1).
		WillReturnRows(sqlmock.NewRows(recipeCols))

	got, err := repo.List(context.Background(), userID, models.RecipeFilter{
		TagIDs:        []uuid.UUID{t1, t2},
		IngredientIDs: []uuid.UUID{i1},
	})
	require.NoError(t, err)
	require.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipesRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewRecipesRepository(db)
	userID, id := uuid.New(), uuid.New()
	f := models.RecipeFields{Title: "New", TimeMinutes: 1, Price: decimal.NewFromInt(2)}

	mock.ExpectExec(`UPDATE recipes`).
		WithArgs(id, userID, "New", "", 1, f.Price, "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Update(context.Background(), userID, id, f))

	mock.ExpectExec(`UPDATE recipes`).WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.Update(context.Background(), userID, id, f), serr.ErrNotFound)
}

func TestRecipesRepository_GetForUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewRecipesRepository(db)
	userID, id := uuid.New(), uuid.New()

	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(id, userID).
		WillReturnRows(recipeRow(sqlmock.NewRows(recipeCols), id, userID, "Soup", nil))

	rec, err := repo.GetForUpdate(context.Background(), userID, id)
	require.NoError(t, err)
	require.Equal(t, "Soup", rec.Title)
	require.Equal(t, 5, rec.TimeMinutes)
}

func TestRecipesRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewRecipesRepository(db)
	userID, id := uuid.New(), uuid.New()

	mock.ExpectQuery(`DELETE FROM recipes WHERE id = \$1 AND user_id = \$2 RETURNING image`).
		WithArgs(id, userID).
		WillReturnRows(sqlmock.NewRows([]string{"image"}).AddRow("uploads/recipe/x.png"))

	img, err := repo.Delete(context.Background(), userID, id)
	require.NoError(t, err)
	require.NotNil(t, img)
	require.Equal(t, "uploads/recipe/x.png", *img)

	mock.ExpectQuery(`DELETE FROM recipes`).
		WillReturnRows(sqlmock.NewRows([]string{"image"}).AddRow(nil))
	img, err = repo.Delete(context.Background(), userID, id)
	require.NoError(t, err)
	require.Nil(t, img)

	mock.ExpectQuery(`DELETE FROM recipes`).WillReturnError(sql.ErrNoRows)
	_, err = repo.Delete(context.Background(), userID, id)
	require.ErrorIs(t, err, serr.ErrNotFound)
}

func TestRecipesRepository_SetImage(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewRecipesRepository(db)
	userID, id := uuid.New(), uuid.New()

	mock.ExpectQuery(`RETURNING old.image`).
		WithArgs(id, userID, "uploads/recipe/new.jpg").
		WillReturnRows(sqlmock.NewRows([]string{"image"}).AddRow("uploads/recipe/old.jpg"))

	prev, err := repo.SetImage(context.Background(), userID, id, "uploads/recipe/new.jpg")
	require.NoError(t, err)
	require.Equal(t, "uploads/recipe/old.jpg", *prev)
}

func TestRecipesRepository_Exists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewRecipesRepository(db)
	userID, id := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT 1 FROM recipes`).
		WithArgs(id, userID).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	require.NoError(t, repo.Exists(context.Background(), userID, id))

	mock.ExpectQuery(`SELECT 1 FROM recipes`).WillReturnError(sql.ErrNoRows)
	require.ErrorIs(t, repo.Exists(context.Background(), userID, id), serr.ErrNotFound)
}

// репозитории внутри WithinTx работают в одной транзакции
func TestTxManager_CommitAndRollback(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tm := repository.NewTxManager(db)
	repo := repository.NewRecipesRepository(db)
	userID, id := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT 1 FROM recipes`).WillReturnRows(sqlmock.NewRows([]string{"x"}).AddRow(1))
	mock.ExpectCommit()

	err = tm.WithinTx(context.Background(), func(ctx context.Context) error {
		return repo.Exists(ctx, userID, id)
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT 1 FROM recipes`).WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err = tm.WithinTx(context.Background(), func(ctx context.Context) error {
		return repo.Exists(ctx, userID, id)
	})
	require.ErrorIs(t, err, serr.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
