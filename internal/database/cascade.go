package database

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var cascadeTables = map[string]string{
	model.CollectionProducts:         "products",
	model.CollectionCategories:       "categories",
	model.CollectionParentCategories: "parent_categories",
}

// Planner collects the ids a cascade removes. It reads through the cascade
// transaction so rows it sees are the rows that get deleted.
type Planner func(ctx context.Context, tx *sqlx.Tx) (*model.CascadePlan, error)

// ExecCascade plans and runs every deletion step inside one transaction,
// in plan order. It returns the number of rows removed per collection.
func ExecCascade(ctx context.Context, db *sqlx.DB, plan Planner) (map[string]int64, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	p, err := plan(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("cascade plan: %w", err)
	}

	deleted := make(map[string]int64, len(p.Steps))
	for _, step := range p.Steps {
		if len(step.IDs) == 0 {
			continue
		}
		table, ok := cascadeTables[step.Collection]
		if !ok {
			return nil, fmt.Errorf("cascade: unknown collection %q", step.Collection)
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ANY($1::uuid[])", pq.Array(step.IDs))
		if err != nil {
			return nil, fmt.Errorf("cascade delete %s: %w", table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		deleted[step.Collection] += n
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return deleted, nil
}

// FixedPlan is a Planner for a plan computed elsewhere.
func FixedPlan(p *model.CascadePlan) Planner {
	return func(context.Context, *sqlx.Tx) (*model.CascadePlan, error) {
		return p, nil
	}
}

// RewriteImagePaths applies rw to the image_paths of the products selected
// by where, which may reference $3 as arg. Products with no matching path
// are left untouched. It returns the number of products rewritten.
func RewriteImagePaths(ctx context.Context, tx *sqlx.Tx, rw model.PathRewrite, where string, arg any) (int64, error) {
	if rw.IsZero() {
		return 0, nil
	}

	query := `
        UPDATE products
        SET image_paths = (
            SELECT jsonb_agg(
                       CASE WHEN left(t.path, length($1)) = $1
                            THEN $2 || substr(t.path, length($1) + 1)
                            ELSE t.path
                       END
                       ORDER BY t.ord)
            FROM jsonb_array_elements_text(image_paths) WITH ORDINALITY AS t(path, ord)
        )
        WHERE ` + where + `
          AND EXISTS (
              SELECT 1 FROM jsonb_array_elements_text(image_paths) AS e(path)
              WHERE left(e.path, length($1)) = $1
          )
    `
	res, err := tx.ExecContext(ctx, query, rw.Old, rw.New, arg)
	if err != nil {
		return 0, fmt.Errorf("rewrite image paths: %w", err)
	}
	return res.RowsAffected()
}

// InTx runs fn in a transaction, committing when it returns nil.
func InTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
