package pgrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/atom-point/internal/domain"
	"github.com/fsdevblog/atom-point/internal/repository/repoargs"
)

const productColumns = `id, operator, category, name, price_mmk, extra`

type ProductRepository struct {
	conn DBTX
}

func NewProductRepository(conn DBTX) *ProductRepository {
	return &ProductRepository{conn: conn}
}

// Find ищет товар по оператору, категории и id. Каталог для ядра read-only,
// поэтому блокировок здесь нет.
func (p *ProductRepository) Find(ctx context.Context, operator, category, id string) (*domain.Product, error) {
	row := p.conn.QueryRow(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE operator = $1 AND category = $2 AND id = $3`, operator, category, id)
	product, err := scanProduct(row)
	if err != nil {
		return nil, convertErr(err, "finding product `%s/%s/%s`", operator, category, id)
	}
	return product, nil
}

func (p *ProductRepository) ListByOperator(ctx context.Context, operator string) ([]domain.Product, error) {
	rows, err := p.conn.Query(ctx, `
		SELECT `+productColumns+` FROM products WHERE operator = $1 ORDER BY category, id`, operator)
	if err != nil {
		return nil, convertErr(err, "listing products of operator `%s`", operator)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, scanErr := scanProduct(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning product row")
		}
		products = append(products, *product)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "iterating product rows")
	}
	return products, nil
}

// Upsert создает или обновляет позицию каталога из типизированной админской команды.
func (p *ProductRepository) Upsert(ctx context.Context, args repoargs.ProductUpsert) (*domain.Product, error) {
	row := p.conn.QueryRow(ctx, `
		INSERT INTO products (id, operator, category, name, price_mmk, extra)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET operator = $2, category = $3, name = $4, price_mmk = $5, extra = $6
		RETURNING `+productColumns,
		args.ID, args.Operator, args.Category, args.Name, args.PriceMMK, args.Extra,
	)
	product, err := scanProduct(row)
	if err != nil {
		return nil, convertErr(err, "upserting product `%s`", args.ID)
	}
	return product, nil
}

func (p *ProductRepository) Delete(ctx context.Context, id string) error {
	if _, err := p.conn.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return convertErr(err, "deleting product `%s`", id)
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var product domain.Product
	err := row.Scan(
		&product.ID, &product.Operator, &product.Category, &product.Name,
		&product.PriceMMK, &product.Extra,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &product, nil
}
