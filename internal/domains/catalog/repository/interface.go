package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/chvvasss/gastrotech-website-sub001/internal/domains/catalog/model"
)

// Reader resolves catalog entities by their natural keys. Lookups return
// model.ErrNotFound when no entity exists for the key.
type Reader interface {
	FindCategoryBySlug(ctx context.Context, slug string) (*model.Category, error)
	FindBrandBySlug(ctx context.Context, slug string) (*model.Brand, error)
	FindSeriesBySlug(ctx context.Context, slug string) (*model.Series, error)
	FindProductBySlug(ctx context.Context, slug string) (*model.Product, error)
	FindVariantByModelCode(ctx context.Context, modelCode string) (*model.Variant, error)
}

// Writer mutates catalog entities. Creates return model.ErrDuplicateKey on
// a natural-key collision.
type Writer interface {
	CreateCategory(ctx context.Context, c *model.Category) error
	UpdateCategory(ctx context.Context, c *model.Category) error
	CreateBrand(ctx context.Context, b *model.Brand) error
	UpdateBrand(ctx context.Context, b *model.Brand) error
	CreateSeries(ctx context.Context, s *model.Series) error
	UpdateSeries(ctx context.Context, s *model.Series) error
	CreateProduct(ctx context.Context, p *model.Product) error
	UpdateProduct(ctx context.Context, p *model.Product) error
	CreateVariant(ctx context.Context, v *model.Variant) error
	UpdateVariant(ctx context.Context, v *model.Variant) error
}

// Tx is the transactional view of the catalog handed to a commit batch.
type Tx interface {
	Reader
	Writer

	// WithSavepoint scopes fn to a nested transaction so a failed row does
	// not poison the surrounding batch transaction.
	WithSavepoint(ctx context.Context, fn func(Tx) error) error
}

// Store is the catalog root. Reader methods on the Store read the durable
// store directly (no transaction, no cache), which is what the post-commit
// verifier depends on.
type Store interface {
	Reader

	// RunInTx executes fn inside a single transaction. fn returning an
	// error rolls everything back.
	RunInTx(ctx context.Context, fn func(Tx) error) error

	// Storefront reads.
	ListCategories(ctx context.Context) ([]*model.Category, error)
	ListBrands(ctx context.Context) ([]*model.Brand, error)
	ListProducts(ctx context.Context, limit, offset int) ([]*model.Product, error)
	ListVariantsByProduct(ctx context.Context, productID uuid.UUID) ([]*model.Variant, error)
}
