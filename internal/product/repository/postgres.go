package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

type productRow struct {
	model.Product
	CategoryName       string `db:"category_name"`
	ParentCategoryID   string `db:"parent_category_id"`
	ParentCategoryName string `db:"parent_category_name"`
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, name, description, brand, category_id, options,
            pinned, product_status, image_paths, created_at, updated_at
        )
        VALUES (
            :id, :name, :description, :brand, :category_id, :options,
            :pinned, :product_status, :image_paths, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var row productRow
	query := `
        SELECT p.id, p.name, p.description, p.brand, p.category_id, p.options,
               p.pinned, p.product_status, p.image_paths, p.created_at, p.updated_at,
               COALESCE(c.name, '') AS category_name,
               COALESCE(c.parent_category_id::text, '') AS parent_category_id,
               COALESCE(pc.name, '') AS parent_category_name
        FROM products p
        LEFT JOIN categories c ON c.id = p.category_id
        LEFT JOIN parent_categories pc ON pc.id = c.parent_category_id
        WHERE p.id = $1
        LIMIT 1
    `
	err := r.DB.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	p := row.Product
	if row.CategoryName != "" && row.ParentCategoryName != "" {
		p.Category = &model.Category{
			BaseModel:          model.BaseModel{ID: p.CategoryID},
			Name:               row.CategoryName,
			ParentCategoryID:   row.ParentCategoryID,
			ParentCategoryName: row.ParentCategoryName,
			ParentCategory: &model.ParentCategory{
				BaseModel: model.BaseModel{ID: row.ParentCategoryID},
				Name:      row.ParentCategoryName,
			},
		}
	}
	return &p, nil
}

func (r *PGRepository) Edit(ctx context.Context, id string, e *dto.ProductEdit) (bool, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id}

	if v := e.Variant; v != nil {
		option, err := json.Marshal(v.Option)
		if err != nil {
			return false, err
		}
		args = append(args, v.OptionKey, string(option))
		sets = append(sets, fmt.Sprintf(
			"options = jsonb_set(options, ARRAY[$%d::text], $%d::jsonb, true)", len(args)-1, len(args)))
	}
	if vis := e.Visibility; vis != nil {
		args = append(args, vis.Pinned, vis.ProductStatus)
		sets = append(sets,
			fmt.Sprintf("pinned = $%d", len(args)-1),
			fmt.Sprintf("product_status = $%d", len(args)))
	}

	query := "UPDATE products SET " + strings.Join(sets, ", ") + " WHERE id = $1"
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PGRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
