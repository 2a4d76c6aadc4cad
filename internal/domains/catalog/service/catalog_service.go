package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chvvasss/gastrotech-website-sub001/internal/domains/catalog/model"
	"github.com/chvvasss/gastrotech-website-sub001/internal/domains/catalog/repository"
	"github.com/chvvasss/gastrotech-website-sub001/pkg/cache"
)

const storefrontCacheTTL = 5 * time.Minute

// ProductDetail is the storefront projection: the product plus all of its
// purchasable variants.
type ProductDetail struct {
	Product  *model.Product   `json:"product"`
	Variants []*model.Variant `json:"variants"`
}

// Service serves the storefront read side of the catalog.
type Service interface {
	ListCategories(ctx context.Context) ([]*model.Category, error)
	ListBrands(ctx context.Context) ([]*model.Brand, error)
	ListProducts(ctx context.Context, limit, offset int) ([]*model.Product, error)
	GetProduct(ctx context.Context, slug string) (*ProductDetail, error)
}

type catalogService struct {
	store repository.Store
	cache cache.Cache
}

// NewCatalogService wires the storefront reads. cacheClient may be nil.
func NewCatalogService(store repository.Store, cacheClient cache.Cache) Service {
	return &catalogService{store: store, cache: cacheClient}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*model.Category, error) {
	var categories []*model.Category
	if s.cached(ctx, "catalog:categories", &categories) {
		return categories, nil
	}

	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	s.put(ctx, "catalog:categories", categories)
	return categories, nil
}

func (s *catalogService) ListBrands(ctx context.Context) ([]*model.Brand, error) {
	var brands []*model.Brand
	if s.cached(ctx, "catalog:brands", &brands) {
		return brands, nil
	}

	brands, err := s.store.ListBrands(ctx)
	if err != nil {
		return nil, err
	}
	s.put(ctx, "catalog:brands", brands)
	return brands, nil
}

func (s *catalogService) ListProducts(ctx context.Context, limit, offset int) ([]*model.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	key := fmt.Sprintf("catalog:products:%d:%d", limit, offset)
	var products []*model.Product
	if s.cached(ctx, key, &products) {
		return products, nil
	}

	products, err := s.store.ListProducts(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	s.put(ctx, key, products)
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, slug string) (*ProductDetail, error) {
	key := "catalog:product:" + slug
	var detail ProductDetail
	if s.cached(ctx, key, &detail) {
		return &detail, nil
	}

	product, err := s.store.FindProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	variants, err := s.store.ListVariantsByProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	detail = ProductDetail{Product: product, Variants: variants}
	s.put(ctx, key, &detail)
	return &detail, nil
}

func (s *catalogService) cached(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("catalog cache read failed")
		return false
	}
	return found
}

func (s *catalogService) put(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, storefrontCacheTTL); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("catalog cache write failed")
	}
}
