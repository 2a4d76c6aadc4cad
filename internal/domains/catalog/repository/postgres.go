package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chvvasss/gastrotech-website-sub001/internal/domains/catalog/model"
	"github.com/chvvasss/gastrotech-website-sub001/pkg/database"
)

// queryer is the subset of pgx shared by pool and transaction.
type queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgStore struct {
	pool *pgxpool.Pool
	ops  catalogOps
}

type pgTx struct {
	tx  pgx.Tx
	ops catalogOps
}

// NewStore creates the Postgres-backed catalog store.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool, ops: catalogOps{q: pool}}
}

func (s *pgStore) RunInTx(ctx context.Context, fn func(Tx) error) error {
	return database.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&pgTx{tx: tx, ops: catalogOps{q: tx}})
	})
}

func (t *pgTx) WithSavepoint(ctx context.Context, fn func(Tx) error) error {
	return database.WithSavepoint(ctx, t.tx, func(nested pgx.Tx) error {
		return fn(&pgTx{tx: nested, ops: catalogOps{q: nested}})
	})
}

// catalogOps implements the shared SQL against either the pool or a tx.
type catalogOps struct {
	q queryer
}

// wrapWriteErr maps unique violations onto the domain error.
func wrapWriteErr(entity string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%s: %w", entity, model.ErrDuplicateKey)
	}
	return fmt.Errorf("%s write failed: %w", entity, err)
}

func notFoundOr(entity string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", entity, model.ErrNotFound)
	}
	return fmt.Errorf("%s lookup failed: %w", entity, err)
}

// ---- categories ----

func (o catalogOps) findCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	query := `
        SELECT id, slug, name_tr, name_en, parent_id, sort_order, created_at, updated_at
        FROM categories
        WHERE slug = $1
    `

	var c model.Category
	err := o.q.QueryRow(ctx, query, slug).Scan(
		&c.ID, &c.Slug, &c.NameTR, &c.NameEN, &c.ParentID, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, notFoundOr("category", err)
	}
	return &c, nil
}

func (o catalogOps) createCategory(ctx context.Context, c *model.Category) error {
	query := `
        INSERT INTO categories (id, slug, name_tr, name_en, parent_id, sort_order, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `

	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := o.q.Exec(ctx, query, c.ID, c.Slug, c.NameTR, c.NameEN, c.ParentID, c.SortOrder, c.CreatedAt, c.UpdatedAt)
	return wrapWriteErr("category", err)
}

func (o catalogOps) updateCategory(ctx context.Context, c *model.Category) error {
	query := `
        UPDATE categories
        SET name_tr = $1, name_en = $2, parent_id = $3, sort_order = $4, updated_at = NOW()
        WHERE slug = $5
    `

	tag, err := o.q.Exec(ctx, query, c.NameTR, c.NameEN, c.ParentID, c.SortOrder, c.Slug)
	if err != nil {
		return wrapWriteErr("category", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("category %s: %w", c.Slug, model.ErrNotFound)
	}
	return nil
}

// ---- brands ----

func (o catalogOps) findBrandBySlug(ctx context.Context, slug string) (*model.Brand, error) {
	query := `
        SELECT id, slug, name_tr, name_en, created_at, updated_at
        FROM brands
        WHERE slug = $1
    `

	var b model.Brand
	err := o.q.QueryRow(ctx, query, slug).Scan(
		&b.ID, &b.Slug, &b.NameTR, &b.NameEN, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, notFoundOr("brand", err)
	}
	return &b, nil
}

func (o catalogOps) createBrand(ctx context.Context, b *model.Brand) error {
	query := `
        INSERT INTO brands (id, slug, name_tr, name_en, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `

	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	_, err := o.q.Exec(ctx, query, b.ID, b.Slug, b.NameTR, b.NameEN, b.CreatedAt, b.UpdatedAt)
	return wrapWriteErr("brand", err)
}

func (o catalogOps) updateBrand(ctx context.Context, b *model.Brand) error {
	query := `
        UPDATE brands
        SET name_tr = $1, name_en = $2, updated_at = NOW()
        WHERE slug = $3
    `

	tag, err := o.q.Exec(ctx, query, b.NameTR, b.NameEN, b.Slug)
	if err != nil {
		return wrapWriteErr("brand", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("brand %s: %w", b.Slug, model.ErrNotFound)
	}
	return nil
}

// ---- series ----

func (o catalogOps) findSeriesBySlug(ctx context.Context, slug string) (*model.Series, error) {
	query := `
        SELECT id, slug, name_tr, name_en, brand_id, created_at, updated_at
        FROM series
        WHERE slug = $1
    `

	var s model.Series
	err := o.q.QueryRow(ctx, query, slug).Scan(
		&s.ID, &s.Slug, &s.NameTR, &s.NameEN, &s.BrandID, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, notFoundOr("series", err)
	}
	return &s, nil
}

func (o catalogOps) createSeries(ctx context.Context, s *model.Series) error {
	query := `
        INSERT INTO series (id, slug, name_tr, name_en, brand_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now

	_, err := o.q.Exec(ctx, query, s.ID, s.Slug, s.NameTR, s.NameEN, s.BrandID, s.CreatedAt, s.UpdatedAt)
	return wrapWriteErr("series", err)
}

func (o catalogOps) updateSeries(ctx context.Context, s *model.Series) error {
	query := `
        UPDATE series
        SET name_tr = $1, name_en = $2, brand_id = $3, updated_at = NOW()
        WHERE slug = $4
    `

	tag, err := o.q.Exec(ctx, query, s.NameTR, s.NameEN, s.BrandID, s.Slug)
	if err != nil {
		return wrapWriteErr("series", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("series %s: %w", s.Slug, model.ErrNotFound)
	}
	return nil
}

// ---- products ----

func (o catalogOps) findProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	query := `
        SELECT id, slug, name_tr, name_en, description_tr, series_id, brand_id, category_id, is_active, created_at, updated_at
        FROM products
        WHERE slug = $1
    `

	var p model.Product
	err := o.q.QueryRow(ctx, query, slug).Scan(
		&p.ID, &p.Slug, &p.NameTR, &p.NameEN, &p.DescriptionTR,
		&p.SeriesID, &p.BrandID, &p.CategoryID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, notFoundOr("product", err)
	}
	return &p, nil
}

func (o catalogOps) createProduct(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (id, slug, name_tr, name_en, description_tr, series_id, brand_id, category_id, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := o.q.Exec(ctx, query,
		p.ID, p.Slug, p.NameTR, p.NameEN, p.DescriptionTR,
		p.SeriesID, p.BrandID, p.CategoryID, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	return wrapWriteErr("product", err)
}

func (o catalogOps) updateProduct(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET name_tr = $1, name_en = $2, description_tr = $3, series_id = $4,
            brand_id = $5, category_id = $6, is_active = $7, updated_at = NOW()
        WHERE slug = $8
    `

	tag, err := o.q.Exec(ctx, query,
		p.NameTR, p.NameEN, p.DescriptionTR, p.SeriesID, p.BrandID, p.CategoryID, p.IsActive, p.Slug,
	)
	if err != nil {
		return wrapWriteErr("product", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", p.Slug, model.ErrNotFound)
	}
	return nil
}

// ---- variants ----

func (o catalogOps) findVariantByModelCode(ctx context.Context, modelCode string) (*model.Variant, error) {
	query := `
        SELECT id, model_code, product_id, name_tr, name_en, dimensions, list_price, weight_kg, power_kw, voltage, capacity, created_at, updated_at
        FROM variants
        WHERE model_code = $1
    `

	var v model.Variant
	err := o.q.QueryRow(ctx, query, modelCode).Scan(
		&v.ID, &v.ModelCode, &v.ProductID, &v.NameTR, &v.NameEN, &v.Dimensions,
		&v.ListPrice, &v.WeightKG, &v.PowerKW, &v.Voltage, &v.Capacity, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, notFoundOr("variant", err)
	}
	return &v, nil
}

func (o catalogOps) createVariant(ctx context.Context, v *model.Variant) error {
	query := `
        INSERT INTO variants (id, model_code, product_id, name_tr, name_en, dimensions, list_price, weight_kg, power_kw, voltage, capacity, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
    `

	now := time.Now()
	v.CreatedAt = now
	v.UpdatedAt = now

	_, err := o.q.Exec(ctx, query,
		v.ID, v.ModelCode, v.ProductID, v.NameTR, v.NameEN, v.Dimensions,
		v.ListPrice, v.WeightKG, v.PowerKW, v.Voltage, v.Capacity, v.CreatedAt, v.UpdatedAt,
	)
	return wrapWriteErr("variant", err)
}

func (o catalogOps) updateVariant(ctx context.Context, v *model.Variant) error {
	query := `
        UPDATE variants
        SET product_id = $1, name_tr = $2, name_en = $3, dimensions = $4,
            list_price = $5, weight_kg = $6, power_kw = $7, voltage = $8, capacity = $9, updated_at = NOW()
        WHERE model_code = $10
    `

	tag, err := o.q.Exec(ctx, query,
		v.ProductID, v.NameTR, v.NameEN, v.Dimensions,
		v.ListPrice, v.WeightKG, v.PowerKW, v.Voltage, v.Capacity, v.ModelCode,
	)
	if err != nil {
		return wrapWriteErr("variant", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("variant %s: %w", v.ModelCode, model.ErrNotFound)
	}
	return nil
}

// ---- interface plumbing ----

func (s *pgStore) FindCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	return s.ops.findCategoryBySlug(ctx, slug)
}
func (s *pgStore) FindBrandBySlug(ctx context.Context, slug string) (*model.Brand, error) {
	return s.ops.findBrandBySlug(ctx, slug)
}
func (s *pgStore) FindSeriesBySlug(ctx context.Context, slug string) (*model.Series, error) {
	return s.ops.findSeriesBySlug(ctx, slug)
}
func (s *pgStore) FindProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return s.ops.findProductBySlug(ctx, slug)
}
func (s *pgStore) FindVariantByModelCode(ctx context.Context, modelCode string) (*model.Variant, error) {
	return s.ops.findVariantByModelCode(ctx, modelCode)
}

func (t *pgTx) FindCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	return t.ops.findCategoryBySlug(ctx, slug)
}
func (t *pgTx) FindBrandBySlug(ctx context.Context, slug string) (*model.Brand, error) {
	return t.ops.findBrandBySlug(ctx, slug)
}
func (t *pgTx) FindSeriesBySlug(ctx context.Context, slug string) (*model.Series, error) {
	return t.ops.findSeriesBySlug(ctx, slug)
}
func (t *pgTx) FindProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return t.ops.findProductBySlug(ctx, slug)
}
func (t *pgTx) FindVariantByModelCode(ctx context.Context, modelCode string) (*model.Variant, error) {
	return t.ops.findVariantByModelCode(ctx, modelCode)
}

func (t *pgTx) CreateCategory(ctx context.Context, c *model.Category) error {
	return t.ops.createCategory(ctx, c)
}
func (t *pgTx) UpdateCategory(ctx context.Context, c *model.Category) error {
	return t.ops.updateCategory(ctx, c)
}
func (t *pgTx) CreateBrand(ctx context.Context, b *model.Brand) error {
	return t.ops.createBrand(ctx, b)
}
func (t *pgTx) UpdateBrand(ctx context.Context, b *model.Brand) error {
	return t.ops.updateBrand(ctx, b)
}
func (t *pgTx) CreateSeries(ctx context.Context, s *model.Series) error {
	return t.ops.createSeries(ctx, s)
}
func (t *pgTx) UpdateSeries(ctx context.Context, s *model.Series) error {
	return t.ops.updateSeries(ctx, s)
}
func (t *pgTx) CreateProduct(ctx context.Context, p *model.Product) error {
	return t.ops.createProduct(ctx, p)
}
func (t *pgTx) UpdateProduct(ctx context.Context, p *model.Product) error {
	return t.ops.updateProduct(ctx, p)
}
func (t *pgTx) CreateVariant(ctx context.Context, v *model.Variant) error {
	return t.ops.createVariant(ctx, v)
}
func (t *pgTx) UpdateVariant(ctx context.Context, v *model.Variant) error {
	return t.ops.updateVariant(ctx, v)
}

// ---- storefront reads ----

func (s *pgStore) ListCategories(ctx context.Context) ([]*model.Category, error) {
	query := `
        SELECT id, slug, name_tr, name_en, parent_id, sort_order, created_at, updated_at
        FROM categories
        ORDER BY sort_order, slug
    `

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.NameTR, &c.NameEN, &c.ParentID, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func (s *pgStore) ListBrands(ctx context.Context) ([]*model.Brand, error) {
	query := `
        SELECT id, slug, name_tr, name_en, created_at, updated_at
        FROM brands
        ORDER BY slug
    `

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	defer rows.Close()

	var brands []*model.Brand
	for rows.Next() {
		var b model.Brand
		if err := rows.Scan(&b.ID, &b.Slug, &b.NameTR, &b.NameEN, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan brand: %w", err)
		}
		brands = append(brands, &b)
	}
	return brands, rows.Err()
}

func (s *pgStore) ListProducts(ctx context.Context, limit, offset int) ([]*model.Product, error) {
	query := `
        SELECT id, slug, name_tr, name_en, description_tr, series_id, brand_id, category_id, is_active, created_at, updated_at
        FROM products
        ORDER BY slug
        LIMIT $1 OFFSET $2
    `

	rows, err := s.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(
			&p.ID, &p.Slug, &p.NameTR, &p.NameEN, &p.DescriptionTR,
			&p.SeriesID, &p.BrandID, &p.CategoryID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

func (s *pgStore) ListVariantsByProduct(ctx context.Context, productID uuid.UUID) ([]*model.Variant, error) {
	query := `
        SELECT id, model_code, product_id, name_tr, name_en, dimensions, list_price, weight_kg, power_kw, voltage, capacity, created_at, updated_at
        FROM variants
        WHERE product_id = $1
        ORDER BY model_code
    `

	rows, err := s.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list variants: %w", err)
	}
	defer rows.Close()

	var variants []*model.Variant
	for rows.Next() {
		var v model.Variant
		if err := rows.Scan(
			&v.ID, &v.ModelCode, &v.ProductID, &v.NameTR, &v.NameEN, &v.Dimensions,
			&v.ListPrice, &v.WeightKG, &v.PowerKW, &v.Voltage, &v.Capacity, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan variant: %w", err)
		}
		variants = append(variants, &v)
	}
	return variants, rows.Err()
}
