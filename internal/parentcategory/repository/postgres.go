package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-catalog-service/internal/database"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, pc *model.ParentCategory) error {
	query := `
        INSERT INTO parent_categories (id, name, created_at, updated_at)
        VALUES (:id, :name, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, pc)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.ParentCategory, error) {
	var pc model.ParentCategory
	query := `SELECT id, name, created_at, updated_at FROM parent_categories WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &pc, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &pc, nil
}

// FindAll returns every parent category with its sub-categories attached.
func (r *PGRepository) FindAll(ctx context.Context) ([]model.ParentCategory, error) {
	var parents []model.ParentCategory
	err := r.DB.SelectContext(ctx, &parents,
		`SELECT id, name, created_at, updated_at FROM parent_categories ORDER BY created_at ASC, name ASC`)
	if err != nil {
		return nil, err
	}

	var subs []model.Category
	err = r.DB.SelectContext(ctx, &subs,
		`SELECT id, name, parent_category_id, created_at, updated_at FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}

	byParent := make(map[string][]model.Category, len(parents))
	for _, c := range subs {
		byParent[c.ParentCategoryID] = append(byParent[c.ParentCategoryID], c)
	}
	for i := range parents {
		parents[i].SubCategories = byParent[parents[i].ID]
		if parents[i].SubCategories == nil {
			parents[i].SubCategories = []model.Category{}
		}
	}
	return parents, nil
}

// Rename updates the name and moves the stored image paths of every
// product below the parent in the same transaction.
func (r *PGRepository) Rename(ctx context.Context, pc *model.ParentCategory, images model.PathRewrite) (int64, error) {
	var rewritten int64
	err := database.InTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		query := `
            UPDATE parent_categories
            SET name = :name,
                updated_at = :updated_at
            WHERE id = :id
        `
		if _, err := tx.NamedExecContext(ctx, query, pc); err != nil {
			return err
		}

		var err error
		rewritten, err = database.RewriteImagePaths(ctx, tx, images,
			`category_id IN (SELECT id FROM categories WHERE parent_category_id = $3)`, pc.ID)
		return err
	})
	return rewritten, err
}

// DeleteCascade removes the parent, every category below it and their
// products. The ids are collected inside the deleting transaction.
func (r *PGRepository) DeleteCascade(ctx context.Context, id string) (map[string]int64, error) {
	return database.ExecCascade(ctx, r.DB, func(ctx context.Context, tx *sqlx.Tx) (*model.CascadePlan, error) {
		categoryIDs := []string{}
		err := tx.SelectContext(ctx, &categoryIDs,
			`SELECT id FROM categories WHERE parent_category_id = $1 FOR UPDATE`, id)
		if err != nil {
			return nil, err
		}

		productIDs := []string{}
		if len(categoryIDs) > 0 {
			err = tx.SelectContext(ctx, &productIDs,
				`SELECT id FROM products WHERE category_id = ANY($1::uuid[]) FOR UPDATE`, pq.Array(categoryIDs))
			if err != nil {
				return nil, err
			}
		}

		return model.NewCascadePlan(productIDs, categoryIDs, []string{id}), nil
	})
}
