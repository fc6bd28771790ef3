package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/catalog/dto"
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

const productColumns = `
    p.id, p.name, p.description, p.brand, p.category_id, p.options,
    p.pinned, p.product_status, p.image_paths, p.created_at, p.updated_at,
    c.name AS category_name,
    c.parent_category_id AS parent_category_id,
    COALESCE(pc.name, '') AS parent_category_name
`

// fromHierarchy inner-joins both levels so a dangling reference drops the
// product row.
const fromHierarchy = `
    FROM products p
    JOIN categories c ON c.id = p.category_id
    JOIN parent_categories pc ON pc.id = c.parent_category_id
`

const listingOrder = ` ORDER BY p.pinned DESC, p.created_at DESC, p.id`

type productRow struct {
	model.Product
	CategoryName       string `db:"category_name"`
	ParentCategoryID   string `db:"parent_category_id"`
	ParentCategoryName string `db:"parent_category_name"`
}

func (r productRow) toModel() model.Product {
	p := r.Product
	cat := &model.Category{
		BaseModel:          model.BaseModel{ID: p.CategoryID},
		Name:               r.CategoryName,
		ParentCategoryID:   r.ParentCategoryID,
		ParentCategoryName: r.ParentCategoryName,
	}
	if r.ParentCategoryName != "" {
		cat.ParentCategory = &model.ParentCategory{
			BaseModel: model.BaseModel{ID: r.ParentCategoryID},
			Name:      r.ParentCategoryName,
		}
	}
	p.Category = cat
	return p
}

func toModels(rows []productRow) []model.Product {
	products := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toModel())
	}
	return products
}

func (r *PGRepository) ListProducts(ctx context.Context, categoryID string, skip, limit int) ([]model.Product, int64, error) {
	where := ` WHERE p.product_status = TRUE`
	args := []interface{}{}
	if categoryID != "" {
		args = append(args, categoryID)
		where += fmt.Sprintf(` AND p.category_id = $%d`, len(args))
	}

	return r.page(ctx, fromHierarchy+where, args, skip, limit)
}

func (r *PGRepository) BrowseProducts(ctx context.Context, categoryName string, tokens []string, skip, limit int) ([]model.Product, int64, error) {
	from := `
        FROM products p
        JOIN categories c ON c.id = p.category_id
        LEFT JOIN parent_categories pc ON pc.id = c.parent_category_id
    `
	conds := []string{}
	args := []interface{}{}
	if categoryName != "" {
		args = append(args, categoryName)
		conds = append(conds, fmt.Sprintf(`c.name = $%d`, len(args)))
	}
	if len(tokens) > 0 {
		args = append(args, pq.Array(likePatterns(tokens)))
		conds = append(conds, fmt.Sprintf(`p.name ILIKE ANY($%d)`, len(args)))
	}
	if len(conds) > 0 {
		from += ` WHERE ` + strings.Join(conds, " AND ")
	}

	return r.page(ctx, from, args, skip, limit)
}

// page runs the count and the windowed select over the same FROM/WHERE.
func (r *PGRepository) page(ctx context.Context, from string, args []interface{}, skip, limit int) ([]model.Product, int64, error) {
	var total int64
	if err := r.DB.GetContext(ctx, &total, `SELECT COUNT(*) `+from, args...); err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := `SELECT ` + productColumns + from + listingOrder +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, n+1, n+2)
	args = append(args, limit, skip)

	var rows []productRow
	if err := r.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, err
	}
	return toModels(rows), total, nil
}

func (r *PGRepository) Search(ctx context.Context, tokens []string) ([]model.Product, error) {
	query := `SELECT ` + productColumns + fromHierarchy + `
        WHERE p.product_status = TRUE
          AND (p.name ILIKE ANY($1) OR p.brand ILIKE ANY($1))
    ` + listingOrder

	var rows []productRow
	if err := r.DB.SelectContext(ctx, &rows, query, pq.Array(likePatterns(tokens))); err != nil {
		return nil, err
	}
	return toModels(rows), nil
}

func (r *PGRepository) ParentCategoryProducts(ctx context.Context, parentID string) ([]model.Product, error) {
	query := `SELECT ` + productColumns + fromHierarchy + `
        WHERE pc.id = $1 AND p.product_status = TRUE
        ORDER BY c.name ASC, c.id, p.created_at ASC, p.id
    `

	var rows []productRow
	if err := r.DB.SelectContext(ctx, &rows, query, parentID); err != nil {
		return nil, err
	}
	return toModels(rows), nil
}

func (r *PGRepository) OrdersExist(ctx context.Context) (bool, error) {
	var exists bool
	err := r.DB.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM orders)`)
	return exists, err
}

type trendingRow struct {
	productRow
	OrderCount        int64 `db:"order_count"`
	TotalQuantitySold int64 `db:"total_quantity_sold"`
}

// Trending unwinds every order's line items, counts occurrences and summed
// quantity per product, and keeps the visible products with an intact
// hierarchy.
func (r *PGRepository) Trending(ctx context.Context, limit int) ([]dto.TrendingProduct, error) {
	query := `
        WITH ranked AS (
            SELECT l.product AS product_id,
                   COUNT(*) AS order_count,
                   COALESCE(SUM(l.quantity), 0) AS total_quantity_sold
            FROM orders o
            CROSS JOIN LATERAL jsonb_to_recordset(o.products) AS l(product TEXT, quantity BIGINT)
            GROUP BY l.product
        )
        SELECT ` + productColumns + `,
               r.order_count, r.total_quantity_sold
        FROM ranked r
        JOIN products p ON p.id::text = r.product_id
        JOIN categories c ON c.id = p.category_id
        JOIN parent_categories pc ON pc.id = c.parent_category_id
        WHERE p.product_status = TRUE
        ORDER BY r.order_count DESC, p.id
        LIMIT $1
    `

	var rows []trendingRow
	if err := r.DB.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, err
	}

	trending := make([]dto.TrendingProduct, 0, len(rows))
	for _, row := range rows {
		trending = append(trending, dto.TrendingProduct{
			Product:           row.toModel(),
			OrderCount:        row.OrderCount,
			TotalQuantitySold: row.TotalQuantitySold,
		})
	}
	return trending, nil
}

func (r *PGRepository) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var row productRow
	err := r.DB.GetContext(ctx, &row, `SELECT `+productColumns+fromHierarchy+` WHERE p.id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	p := row.toModel()
	return &p, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePatterns turns tokens into substring patterns with LIKE
// metacharacters escaped.
func likePatterns(tokens []string) []string {
	patterns := make([]string, 0, len(tokens))
	for _, t := range tokens {
		patterns = append(patterns, "%"+likeEscaper.Replace(t)+"%")
	}
	return patterns
}
