package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, company_id, sku, name, category, provider, location,
	stock, quantity, total_stock, min_stock, expiry_date, packaging, units_per_box, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// rowScanner pgx.Row y pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.SKU, &p.Name, &p.Category, &p.Provider, &p.Location,
		&p.Stock, &p.Quantity, &p.TotalStock, &p.MinStock, &p.ExpiryDate, &p.Packaging, &p.UnitsPerBox,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.CompanyID, product.SKU, product.Name, product.Category, product.Provider, product.Location,
		product.Stock, product.Quantity, product.TotalStock, product.MinStock, product.ExpiryDate,
		product.Packaging, product.UnitsPerBox, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Product, error) {
	return r.getOne(ctx, "get product",
		`SELECT `+productColumns+` FROM products WHERE company_id = $1 AND id = $2`, companyID, id)
}

// GetForUpdate obtiene el producto bloqueando la fila hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error) {
	return r.getOne(ctx, "get product for update",
		`SELECT `+productColumns+` FROM products WHERE company_id = $1 AND id = $2 FOR UPDATE`, companyID, id)
}

// GetByCompanyAndSKU obtiene un producto por empresa y SKU.
func (r *ProductRepo) GetByCompanyAndSKU(ctx context.Context, companyID, sku string) (*entity.Product, error) {
	return r.getOne(ctx, "get product by sku",
		`SELECT `+productColumns+` FROM products WHERE company_id = $1 AND sku = $2`, companyID, sku)
}

func (r *ProductRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ListByCompany lista productos por empresa con paginación.
func (r *ProductRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE company_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, companyID, limit, offset)
}

// ListAll instantánea completa de productos de la empresa, en orden de creación.
func (r *ProductRepo) ListAll(ctx context.Context, companyID string) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE company_id = $1 ORDER BY created_at, id`, companyID)
}

// ListByLocation productos de una ubicación ordenados por SKU (orden de la planilla de conteo).
func (r *ProductRepo) ListByLocation(ctx context.Context, companyID, location string) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE company_id = $1 AND location = $2 ORDER BY sku`,
		companyID, location)
}

// Update actualiza los datos maestros. No toca el stock (se maneja con SetStock).
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET name = $3, category = $4, provider = $5, location = $6, min_stock = $7,
			expiry_date = $8, packaging = $9, units_per_box = $10, updated_at = $11
		WHERE company_id = $1 AND id = $2`
	_, err := r.q.Exec(ctx, query,
		product.CompanyID, product.ID, product.Name, product.Category, product.Provider, product.Location,
		product.MinStock, product.ExpiryDate, product.Packaging, product.UnitsPerBox, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// SetStock colapsa stock, quantity y total_stock al mismo valor.
func (r *ProductRepo) SetStock(ctx context.Context, companyID, id string, qty decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET stock = $3, quantity = $3, total_stock = $3, updated_at = now()
		 WHERE company_id = $1 AND id = $2`,
		companyID, id, qty,
	)
	if err != nil {
		return fmt.Errorf("set product stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CompanyIDs empresas con al menos un producto (jobs programados).
func (r *ProductRepo) CompanyIDs(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT DISTINCT company_id FROM products ORDER BY company_id`)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan company id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
