package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-recipe-api/internal/shared/errors"
)

// LabelsRepository — теги и ингредиенты. Вид метки задаёт таблицы,
// сами запросы у обоих видов одинаковые.
//
// Имена таблиц берутся только из models.LabelKind, пользовательский ввод в SQL не попадает.
type LabelsRepository struct {
	db *sql.DB
}

func NewLabelsRepository(db *sql.DB) *LabelsRepository {
	return &LabelsRepository{db: db}
}

// List возвращает метки владельца, новые первыми.
func (r *LabelsRepository) List(ctx context.Context, kind models.LabelKind, userID uuid.UUID, f models.LabelFilter) ([]models.Label, error) {
	q := `SELECT l.id, l.user_id, l.name, l.created_at FROM ` + kind.Table() + ` l WHERE l.user_id = $1`
	if f.AssignedOnly {
		q += ` AND EXISTS (SELECT 1 FROM ` + kind.LinkTable() + ` x WHERE x.` + kind.LinkColumn() + ` = l.id)`
	}
	q += ` ORDER BY l.created_at DESC, l.id DESC`

	rows, err := conn(ctx, r.db).QueryContext(ctx, q, userID)
	if err != nil {
		return nil, serr.ErrInternal
	}
	defer rows.Close()

	out := make([]models.Label, 0)
	for rows.Next() {
		var l models.Label
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name, &l.CreatedAt); err != nil {
			return nil, serr.ErrInternal
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, serr.ErrInternal
	}
	return out, nil
}

// Upsert — get-or-create метки по (владелец, имя).
//
// ON CONFLICT ... DO UPDATE нужен, чтобы RETURNING вернул существующую строку:
// два параллельных запроса с одним именем получат одну и ту же метку.
func (r *LabelsRepository) Upsert(ctx context.Context, kind models.LabelKind, userID uuid.UUID, name string) (models.Label, error) {
	l := models.Label{UserID: userID}
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`INSERT INTO `+kind.Table()+` (user_id, name)
		 VALUES ($1,$2)
		 ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id, name, created_at`,
		userID, name,
	).Scan(&l.ID, &l.Name, &l.CreatedAt)
	if err != nil {
		return models.Label{}, serr.ErrInternal
	}
	return l, nil
}

// Rename переименовывает метку владельца.
//
// ErrNotFound — чужая или несуществующая, ErrAlreadyExists: имя занято.
func (r *LabelsRepository) Rename(ctx context.Context, kind models.LabelKind, userID, id uuid.UUID, name string) (models.Label, error) {
	l := models.Label{ID: id, UserID: userID}
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`UPDATE `+kind.Table()+` SET name = $3
		  WHERE id = $1 AND user_id = $2
		 RETURNING name, created_at`,
		id, userID, name,
	).Scan(&l.Name, &l.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Label{}, serr.ErrAlreadyExists
		}
		return models.Label{}, notFoundOr(err)
	}
	return l, nil
}

// Delete удаляет метку владельца. Связи с рецептами удаляются каскадом,
// сами рецепты остаются.
func (r *LabelsRepository) Delete(ctx context.Context, kind models.LabelKind, userID, id uuid.UUID) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`DELETE FROM `+kind.Table()+` WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	return affectedOne(res, err)
}

// SetRecipeLabels заменяет набор меток рецепта на labelIDs.
func (r *LabelsRepository) SetRecipeLabels(ctx context.Context, kind models.LabelKind, recipeID uuid.UUID, labelIDs []uuid.UUID) error {
	q := conn(ctx, r.db)

	if _, err := q.ExecContext(ctx,
		`DELETE FROM `+kind.LinkTable()+` WHERE recipe_id = $1`, recipeID,
	); err != nil {
		return serr.ErrInternal
	}
	if len(labelIDs) == 0 {
		return nil
	}

	values := make([]string, 0, len(labelIDs))
	args := make([]any, 0, len(labelIDs)+1)
	args = append(args, recipeID)
	for i, id := range labelIDs {
		values = append(values, "($1,"+placeholders(i+2, 1)+")")
		args = append(args, id)
	}

	if _, err := q.ExecContext(ctx,
		`INSERT INTO `+kind.LinkTable()+` (recipe_id, `+kind.LinkColumn()+`)
		 VALUES `+strings.Join(values, ",")+`
		 ON CONFLICT DO NOTHING`,
		args...,
	); err != nil {
		return serr.ErrInternal
	}
	return nil
}

// ForRecipes загружает метки для набора рецептов, по имени внутри рецепта.
func (r *LabelsRepository) ForRecipes(ctx context.Context, kind models.LabelKind, recipeIDs []uuid.UUID) (map[uuid.UUID][]models.Label, error) {
	out := make(map[uuid.UUID][]models.Label, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return out, nil
	}

	args := make([]any, len(recipeIDs))
	for i, id := range recipeIDs {
		args[i] = id
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`SELECT x.recipe_id, l.id, l.user_id, l.name, l.created_at
		   FROM `+kind.LinkTable()+` x
		   JOIN `+kind.Table()+` l ON l.id = x.`+kind.LinkColumn()+`
		  WHERE x.recipe_id IN (`+placeholders(1, len(recipeIDs))+`)
		  ORDER BY l.name, l.id`,
		args...,
	)
	if err != nil {
		return nil, serr.ErrInternal
	}
	defer rows.Close()

	for rows.Next() {
		var (
			recipeID uuid.UUID
			l        models.Label
		)
		if err := rows.Scan(&recipeID, &l.ID, &l.UserID, &l.Name, &l.CreatedAt); err != nil {
			return nil, serr.ErrInternal
		}
		out[recipeID] = append(out[recipeID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, serr.ErrInternal
	}
	return out, nil
}
