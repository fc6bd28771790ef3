package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/database"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const selectCategoryWithParent = `
    SELECT c.id, c.name, c.parent_category_id, c.created_at, c.updated_at,
           COALESCE(pc.name, '') AS parent_category_name
    FROM categories c
    LEFT JOIN parent_categories pc ON pc.id = c.parent_category_id
`

func (r *PGRepository) Create(ctx context.Context, c *model.Category) error {
	query := `
        INSERT INTO categories (id, name, parent_category_id, created_at, updated_at)
        VALUES (:id, :name, :parent_category_id, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	var c model.Category
	err := r.DB.GetContext(ctx, &c, selectCategoryWithParent+` WHERE c.id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	attachParent(&c)
	return &c, nil
}

// FindAll lists categories whose parent still exists; dangling rows are
// dropped.
func (r *PGRepository) FindAll(ctx context.Context, f *dto.CategoryFilters) ([]model.Category, error) {
	query := `
        SELECT c.id, c.name, c.parent_category_id, c.created_at, c.updated_at,
               pc.name AS parent_category_name
        FROM categories c
        JOIN parent_categories pc ON pc.id = c.parent_category_id
    `
	args := []interface{}{}
	if f != nil && f.ParentCategoryID != "" {
		query += ` WHERE c.parent_category_id = $1`
		args = append(args, f.ParentCategoryID)
	}
	query += ` ORDER BY pc.name ASC, c.name ASC`

	categories := []model.Category{}
	if err := r.DB.SelectContext(ctx, &categories, query, args...); err != nil {
		return nil, err
	}
	for i := range categories {
		attachParent(&categories[i])
	}
	return categories, nil
}

// Rename updates the name and moves the stored image paths of the
// category's products in the same transaction.
func (r *PGRepository) Rename(ctx context.Context, c *model.Category, images model.PathRewrite) (int64, error) {
	var rewritten int64
	err := database.InTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		query := `
            UPDATE categories
            SET name = :name,
                updated_at = :updated_at
            WHERE id = :id
        `
		if _, err := tx.NamedExecContext(ctx, query, c); err != nil {
			return err
		}

		var err error
		rewritten, err = database.RewriteImagePaths(ctx, tx, images, `category_id = $3`, c.ID)
		return err
	})
	return rewritten, err
}

// DeleteCascade removes the category and its products. The product ids are
// collected inside the deleting transaction.
func (r *PGRepository) DeleteCascade(ctx context.Context, id string) (map[string]int64, error) {
	return database.ExecCascade(ctx, r.DB, func(ctx context.Context, tx *sqlx.Tx) (*model.CascadePlan, error) {
		productIDs := []string{}
		err := tx.SelectContext(ctx, &productIDs, `SELECT id FROM products WHERE category_id = $1 FOR UPDATE`, id)
		if err != nil {
			return nil, err
		}
		return model.NewCascadePlan(productIDs, []string{id}, nil), nil
	})
}

func attachParent(c *model.Category) {
	if c.ParentCategoryName == "" {
		return
	}
	c.ParentCategory = &model.ParentCategory{
		BaseModel: model.BaseModel{ID: c.ParentCategoryID},
		Name:      c.ParentCategoryName,
	}
}
