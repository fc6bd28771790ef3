package repository

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, o *model.Order) (bool, error) {
	query := `
        INSERT INTO orders (id, products, created_at)
        VALUES (:id, :products, :created_at)
        ON CONFLICT (id) DO NOTHING
    `
	res, err := r.DB.NamedExecContext(ctx, query, o)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
