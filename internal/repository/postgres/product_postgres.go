package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/catalog-service/internal/model"
	"github.com/maxviazov/catalog-service/internal/repository"
)

type productRepository struct{ pool *pgxpool.Pool }

func NewProductRepository(pool *pgxpool.Pool) repository.ProductRepository {
	return &productRepository{pool: pool}
}

func ensurePool(pool *pgxpool.Pool) error {
	if pool == nil {
		return errors.New("pgx pool is nil")
	}
	return nil
}

// productColumns aggregates each product row with its attributes as a JSON
// array, so a product and its attributes come back in a single scan.
const productColumns = `
	p.sku, p.parent_sku, p.title, p.category_code, c.category_name,
	p.description, p.short_description, p.is_published,
	COALESCE(
		JSON_AGG(JSON_BUILD_OBJECT(
			'name_code', pa.name_code,
			'name', a.name,
			'value_code', pa.value_code,
			'value', v.value
		)) FILTER (WHERE pa.sku IS NOT NULL), '[]'
	) AS attributes`

const productJoins = `
	FROM products p
	LEFT JOIN categories c ON c.category_code = p.category_code
	LEFT JOIN products_attributes pa ON pa.sku = p.sku
	LEFT JOIN attributes a ON a.name_code = pa.name_code
	LEFT JOIN value_list v ON v.value_code = pa.value_code`

const productGroupBy = `
	GROUP BY p.sku, p.parent_sku, p.title, p.category_code, c.category_name,
	         p.description, p.short_description, p.is_published`

// buildProductWhere renders filter clauses with placeholders starting at $1.
func buildProductWhere(f model.ProductFilters) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if f.SKU != "" {
		args = append(args, f.SKU)
		clauses = append(clauses, fmt.Sprintf("p.sku = $%d", len(args)))
	}
	if f.CategoryCode != "" {
		args = append(args, f.CategoryCode)
		clauses = append(clauses, fmt.Sprintf("p.category_code = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanProduct(row pgx.Row) (model.Product, error) {
	var (
		out       model.Product
		parentSKU *string
		catName   *string
		shortDesc *string
		published bool
		attrsJSON []byte
	)
	if err := row.Scan(&out.SKU, &parentSKU, &out.Title, &out.CategoryCode, &catName,
		&out.Description, &shortDesc, &published, &attrsJSON); err != nil {
		return model.Product{}, err
	}
	if parentSKU != nil {
		out.ParentSKU = *parentSKU
	}
	if catName != nil {
		out.CategoryName = *catName
	}
	if shortDesc != nil {
		out.ShortDescription = *shortDesc
	}
	out.IsPublished = &published
	if err := json.Unmarshal(attrsJSON, &out.Attributes); err != nil {
		return model.Product{}, fmt.Errorf("decode attributes for sku %s: %w", out.SKU, err)
	}
	return out, nil
}

// Create inserts every product with its attributes. A duplicate SKU surfaces
// as *repository.SKUAlreadyExistsError so callers can name the offender; run
// inside TxManager.WithinTx to make the batch all-or-nothing.
func (r *productRepository) Create(ctx context.Context, products []model.Product) ([]model.Product, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	exec := getQ(ctx, r.pool)
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		_, err := exec.Exec(ctx,
			`INSERT INTO products (sku, parent_sku, title, category_code, description, short_description, is_published)
			 VALUES ($1, NULLIF($2, ''), $3, $4, $5, NULLIF($6, ''), $7)`,
			p.SKU, p.ParentSKU, p.Title, p.CategoryCode, p.Description, p.ShortDescription, p.IsPublished,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return nil, &repository.SKUAlreadyExistsError{SKU: p.SKU}
			}
			return nil, repository.MapPgError(err)
		}
		if err := r.insertAttributes(ctx, exec, p.SKU, p.Attributes); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *productRepository) insertAttributes(ctx context.Context, exec q, sku string, attrs []model.Attribute) error {
	for _, a := range attrs {
		_, err := exec.Exec(ctx,
			`INSERT INTO products_attributes (sku, name_code, value_code) VALUES ($1, $2, $3)`,
			sku, a.NameCode, a.ValueCode,
		)
		if err != nil {
			return repository.MapPgError(err)
		}
	}
	return nil
}

func (r *productRepository) List(ctx context.Context, f model.ProductFilters, page repository.Page) ([]model.Product, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	where, args := buildProductWhere(f)
	args = append(args, page.Limit, page.Offset)
	query := "SELECT" + productColumns + productJoins + where + productGroupBy +
		fmt.Sprintf("\n\tORDER BY p.sku LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()

	out := make([]model.Product, 0, page.Limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, repository.MapPgError(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

func (r *productRepository) GetBySKU(ctx context.Context, sku string) (model.Product, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Product{}, err
	}
	query := "SELECT" + productColumns + productJoins + "\n\tWHERE p.sku = $1" + productGroupBy
	exec := getQ(ctx, r.pool)
	p, err := scanProduct(exec.QueryRow(ctx, query, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, &repository.SKUNotFoundError{SKU: sku}
		}
		return model.Product{}, repository.MapPgError(err)
	}
	return p, nil
}

func (r *productRepository) Count(ctx context.Context, f model.ProductFilters) (int, error) {
	if err := ensurePool(r.pool); err != nil {
		return 0, err
	}
	where, args := buildProductWhere(f)
	var total int
	exec := getQ(ctx, r.pool)
	if err := exec.QueryRow(ctx, "SELECT COUNT(*) FROM products p"+where, args...).Scan(&total); err != nil {
		return 0, repository.MapPgError(err)
	}
	return total, nil
}

// UpdateFull replaces each product row and its whole attribute set. A SKU
// that matches no row surfaces as *repository.SKUNotFoundError.
func (r *productRepository) UpdateFull(ctx context.Context, products []model.Product) ([]model.Product, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	exec := getQ(ctx, r.pool)
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		tag, err := exec.Exec(ctx,
			`UPDATE products
			 SET parent_sku = NULLIF($2, ''), title = $3, category_code = $4,
			     description = $5, short_description = NULLIF($6, ''), is_published = $7
			 WHERE sku = $1`,
			p.SKU, p.ParentSKU, p.Title, p.CategoryCode, p.Description, p.ShortDescription, p.IsPublished,
		)
		if err != nil {
			return nil, repository.MapPgError(err)
		}
		if tag.RowsAffected() == 0 {
			return nil, &repository.SKUNotFoundError{SKU: p.SKU}
		}
		if _, err := exec.Exec(ctx, `DELETE FROM products_attributes WHERE sku = $1`, p.SKU); err != nil {
			return nil, repository.MapPgError(err)
		}
		if err := r.insertAttributes(ctx, exec, p.SKU, p.Attributes); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return r.reload(ctx, out)
}

// UpdatePartial writes only the fields each patch provides. Attributes, when
// present, are upserted by (sku, name_code) without touching the rest.
func (r *productRepository) UpdatePartial(ctx context.Context, patches []model.ProductPatch) ([]model.Product, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	exec := getQ(ctx, r.pool)
	updated := make([]model.Product, 0, len(patches))
	for _, p := range patches {
		set, args := buildPatchSet(p)
		if len(set) > 0 {
			args = append(args, p.SKU)
			tag, err := exec.Exec(ctx,
				fmt.Sprintf("UPDATE products SET %s WHERE sku = $%d", strings.Join(set, ", "), len(args)),
				args...,
			)
			if err != nil {
				return nil, repository.MapPgError(err)
			}
			if tag.RowsAffected() == 0 {
				return nil, &repository.SKUNotFoundError{SKU: p.SKU}
			}
		} else if len(p.Attributes) == 0 {
			// Nothing to write for this entry; still verify the SKU exists.
			var exists bool
			if err := exec.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE sku = $1)`, p.SKU).Scan(&exists); err != nil {
				return nil, repository.MapPgError(err)
			}
			if !exists {
				return nil, &repository.SKUNotFoundError{SKU: p.SKU}
			}
		}
		for _, a := range p.Attributes {
			_, err := exec.Exec(ctx,
				`INSERT INTO products_attributes (sku, name_code, value_code)
				 VALUES ($1, $2, $3)
				 ON CONFLICT (sku, name_code) DO UPDATE SET value_code = EXCLUDED.value_code`,
				p.SKU, a.NameCode, a.ValueCode,
			)
			if err != nil {
				return nil, repository.MapPgError(err)
			}
		}
		updated = append(updated, model.Product{SKU: p.SKU})
	}
	return r.reload(ctx, updated)
}

func buildPatchSet(p model.ProductPatch) ([]string, []any) {
	var (
		set  []string
		args []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.ParentSKU != nil {
		add("parent_sku", nullify(*p.ParentSKU))
	}
	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.CategoryCode != nil {
		add("category_code", *p.CategoryCode)
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.ShortDescription != nil {
		add("short_description", nullify(*p.ShortDescription))
	}
	if p.IsPublished != nil {
		add("is_published", *p.IsPublished)
	}
	return set, args
}

func nullify(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// reload re-reads the given products so responses carry resolved category and
// attribute names rather than just codes.
func (r *productRepository) reload(ctx context.Context, products []model.Product) ([]model.Product, error) {
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		full, err := r.GetBySKU(ctx, p.SKU)
		if err != nil {
			return nil, err
		}
		out = append(out, full)
	}
	return out, nil
}

// Delete removes the given products and their attributes, returning the SKUs
// actually removed. A SKU that matches no row fails the whole batch.
func (r *productRepository) Delete(ctx context.Context, skus []string) ([]string, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	exec := getQ(ctx, r.pool)
	deleted := make([]string, 0, len(skus))
	for _, sku := range skus {
		if _, err := exec.Exec(ctx, `DELETE FROM products_attributes WHERE sku = $1`, sku); err != nil {
			return nil, repository.MapPgError(err)
		}
		tag, err := exec.Exec(ctx, `DELETE FROM products WHERE sku = $1`, sku)
		if err != nil {
			return nil, repository.MapPgError(err)
		}
		if tag.RowsAffected() == 0 {
			return nil, &repository.SKUNotFoundError{SKU: sku}
		}
		deleted = append(deleted, sku)
	}
	return deleted, nil
}

var _ repository.ProductRepository = (*productRepository)(nil)
