package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	catalogModel "github.com/chvvasss/gastrotech-website-sub001/internal/domains/catalog/model"
	catalogRepo "github.com/chvvasss/gastrotech-website-sub001/internal/domains/catalog/repository"
	"github.com/chvvasss/gastrotech-website-sub001/internal/domains/importer/model"
	"github.com/chvvasss/gastrotech-website-sub001/internal/domains/importer/repository"
)

// fakeData holds catalog state keyed by natural key.
type fakeData struct {
	categories map[string]catalogModel.Category
	brands     map[string]catalogModel.Brand
	series     map[string]catalogModel.Series
	products   map[string]catalogModel.Product
	variants   map[string]catalogModel.Variant
}

func newFakeData() *fakeData {
	return &fakeData{
		categories: map[string]catalogModel.Category{},
		brands:     map[string]catalogModel.Brand{},
		series:     map[string]catalogModel.Series{},
		products:   map[string]catalogModel.Product{},
		variants:   map[string]catalogModel.Variant{},
	}
}

func (d *fakeData) clone() *fakeData {
	c := newFakeData()
	for k, v := range d.categories {
		c.categories[k] = v
	}
	for k, v := range d.brands {
		c.brands[k] = v
	}
	for k, v := range d.series {
		c.series[k] = v
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.variants {
		c.variants[k] = v
	}
	return c
}

func (d *fakeData) findCategory(slug string) (*catalogModel.Category, error) {
	if c, ok := d.categories[slug]; ok {
		return &c, nil
	}
	return nil, catalogModel.ErrNotFound
}

func (d *fakeData) findBrand(slug string) (*catalogModel.Brand, error) {
	if b, ok := d.brands[slug]; ok {
		return &b, nil
	}
	return nil, catalogModel.ErrNotFound
}

func (d *fakeData) findSeries(slug string) (*catalogModel.Series, error) {
	if s, ok := d.series[slug]; ok {
		return &s, nil
	}
	return nil, catalogModel.ErrNotFound
}

func (d *fakeData) findProduct(slug string) (*catalogModel.Product, error) {
	if p, ok := d.products[slug]; ok {
		return &p, nil
	}
	return nil, catalogModel.ErrNotFound
}

func (d *fakeData) findVariant(modelCode string) (*catalogModel.Variant, error) {
	if v, ok := d.variants[modelCode]; ok {
		return &v, nil
	}
	return nil, catalogModel.ErrNotFound
}

// fakeCatalog implements catalogRepo.Store in memory with transactional
// clone-on-write semantics: a transaction works on a copy that replaces
// the live data only when the function returns nil.
//
// loseWrites simulates a store that acknowledges a commit without
// persisting it, which is exactly what the post-commit verifier exists to
// catch.
type fakeCatalog struct {
	mu         sync.Mutex
	data       *fakeData
	loseWrites bool
}

var _ catalogRepo.Store = (*fakeCatalog)(nil)

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{data: newFakeData()}
}

func (f *fakeCatalog) RunInTx(_ context.Context, fn func(catalogRepo.Tx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	clone := f.data.clone()
	if err := fn(&fakeTx{data: clone}); err != nil {
		return err
	}
	if !f.loseWrites {
		f.data = clone
	}
	return nil
}

func (f *fakeCatalog) FindCategoryBySlug(_ context.Context, slug string) (*catalogModel.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data.findCategory(slug)
}

func (f *fakeCatalog) FindBrandBySlug(_ context.Context, slug string) (*catalogModel.Brand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data.findBrand(slug)
}

func (f *fakeCatalog) FindSeriesBySlug(_ context.Context, slug string) (*catalogModel.Series, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data.findSeries(slug)
}

func (f *fakeCatalog) FindProductBySlug(_ context.Context, slug string) (*catalogModel.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data.findProduct(slug)
}

func (f *fakeCatalog) FindVariantByModelCode(_ context.Context, modelCode string) (*catalogModel.Variant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data.findVariant(modelCode)
}

func (f *fakeCatalog) ListCategories(context.Context) ([]*catalogModel.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*catalogModel.Category
	for k := range f.data.categories {
		c := f.data.categories[k]
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeCatalog) ListBrands(context.Context) ([]*catalogModel.Brand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*catalogModel.Brand
	for k := range f.data.brands {
		b := f.data.brands[k]
		out = append(out, &b)
	}
	return out, nil
}

func (f *fakeCatalog) ListProducts(context.Context, int, int) ([]*catalogModel.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*catalogModel.Product
	for k := range f.data.products {
		p := f.data.products[k]
		out = append(out, &p)
	}
	return out, nil
}

func (f *fakeCatalog) ListVariantsByProduct(_ context.Context, productID uuid.UUID) ([]*catalogModel.Variant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*catalogModel.Variant
	for k := range f.data.variants {
		v := f.data.variants[k]
		if v.ProductID == productID {
			out = append(out, &v)
		}
	}
	return out, nil
}

// seeding helpers

func (f *fakeCatalog) seedTaxonomy(brandSlug, seriesSlug, categorySlug string) (brand catalogModel.Brand, series catalogModel.Series, category catalogModel.Category) {
	brand = catalogModel.Brand{ID: uuid.New(), Slug: brandSlug, NameTR: brandSlug}
	series = catalogModel.Series{ID: uuid.New(), Slug: seriesSlug, NameTR: seriesSlug, BrandID: brand.ID}
	category = catalogModel.Category{ID: uuid.New(), Slug: categorySlug, NameTR: categorySlug}
	f.data.brands[brandSlug] = brand
	f.data.series[seriesSlug] = series
	f.data.categories[categorySlug] = category
	return brand, series, category
}

func (f *fakeCatalog) seedProduct(slug string, series catalogModel.Series, category catalogModel.Category) catalogModel.Product {
	p := catalogModel.Product{
		ID: uuid.New(), Slug: slug, NameTR: slug,
		SeriesID: series.ID, BrandID: series.BrandID, CategoryID: category.ID, IsActive: true,
	}
	f.data.products[slug] = p
	return p
}

func (f *fakeCatalog) seedVariant(modelCode string, product catalogModel.Product) catalogModel.Variant {
	v := catalogModel.Variant{
		ID: uuid.New(), ModelCode: modelCode, ProductID: product.ID,
		NameTR: modelCode, Dimensions: "800x700x850",
	}
	f.data.variants[modelCode] = v
	return v
}

// fakeTx implements catalogRepo.Tx over a cloned fakeData.
type fakeTx struct {
	data *fakeData
}

var _ catalogRepo.Tx = (*fakeTx)(nil)

func (t *fakeTx) WithSavepoint(_ context.Context, fn func(catalogRepo.Tx) error) error {
	sp := t.data.clone()
	if err := fn(&fakeTx{data: sp}); err != nil {
		return err
	}
	*t.data = *sp
	return nil
}

func (t *fakeTx) FindCategoryBySlug(_ context.Context, slug string) (*catalogModel.Category, error) {
	return t.data.findCategory(slug)
}
func (t *fakeTx) FindBrandBySlug(_ context.Context, slug string) (*catalogModel.Brand, error) {
	return t.data.findBrand(slug)
}
func (t *fakeTx) FindSeriesBySlug(_ context.Context, slug string) (*catalogModel.Series, error) {
	return t.data.findSeries(slug)
}
func (t *fakeTx) FindProductBySlug(_ context.Context, slug string) (*catalogModel.Product, error) {
	return t.data.findProduct(slug)
}
func (t *fakeTx) FindVariantByModelCode(_ context.Context, modelCode string) (*catalogModel.Variant, error) {
	return t.data.findVariant(modelCode)
}

func (t *fakeTx) CreateCategory(_ context.Context, c *catalogModel.Category) error {
	if _, ok := t.data.categories[c.Slug]; ok {
		return fmt.Errorf("category: %w", catalogModel.ErrDuplicateKey)
	}
	t.data.categories[c.Slug] = *c
	return nil
}

func (t *fakeTx) UpdateCategory(_ context.Context, c *catalogModel.Category) error {
	if _, ok := t.data.categories[c.Slug]; !ok {
		return fmt.Errorf("category: %w", catalogModel.ErrNotFound)
	}
	t.data.categories[c.Slug] = *c
	return nil
}

func (t *fakeTx) CreateBrand(_ context.Context, b *catalogModel.Brand) error {
	if _, ok := t.data.brands[b.Slug]; ok {
		return fmt.Errorf("brand: %w", catalogModel.ErrDuplicateKey)
	}
	t.data.brands[b.Slug] = *b
	return nil
}

func (t *fakeTx) UpdateBrand(_ context.Context, b *catalogModel.Brand) error {
	if _, ok := t.data.brands[b.Slug]; !ok {
		return fmt.Errorf("brand: %w", catalogModel.ErrNotFound)
	}
	t.data.brands[b.Slug] = *b
	return nil
}

func (t *fakeTx) CreateSeries(_ context.Context, s *catalogModel.Series) error {
	if _, ok := t.data.series[s.Slug]; ok {
		return fmt.Errorf("series: %w", catalogModel.ErrDuplicateKey)
	}
	t.data.series[s.Slug] = *s
	return nil
}

func (t *fakeTx) UpdateSeries(_ context.Context, s *catalogModel.Series) error {
	if _, ok := t.data.series[s.Slug]; !ok {
		return fmt.Errorf("series: %w", catalogModel.ErrNotFound)
	}
	t.data.series[s.Slug] = *s
	return nil
}

func (t *fakeTx) CreateProduct(_ context.Context, p *catalogModel.Product) error {
	if _, ok := t.data.products[p.Slug]; ok {
		return fmt.Errorf("product: %w", catalogModel.ErrDuplicateKey)
	}
	t.data.products[p.Slug] = *p
	return nil
}

func (t *fakeTx) UpdateProduct(_ context.Context, p *catalogModel.Product) error {
	if _, ok := t.data.products[p.Slug]; !ok {
		return fmt.Errorf("product: %w", catalogModel.ErrNotFound)
	}
	t.data.products[p.Slug] = *p
	return nil
}

func (t *fakeTx) CreateVariant(_ context.Context, v *catalogModel.Variant) error {
	if _, ok := t.data.variants[v.ModelCode]; ok {
		return fmt.Errorf("variant: %w", catalogModel.ErrDuplicateKey)
	}
	t.data.variants[v.ModelCode] = *v
	return nil
}

func (t *fakeTx) UpdateVariant(_ context.Context, v *catalogModel.Variant) error {
	if _, ok := t.data.variants[v.ModelCode]; !ok {
		return fmt.Errorf("variant: %w", catalogModel.ErrNotFound)
	}
	t.data.variants[v.ModelCode] = *v
	return nil
}

// fakeJobs is an in-memory repository.JobRepository.
type fakeJobs struct {
	mu    sync.Mutex
	jobs  map[uuid.UUID]model.ImportJob
	order []uuid.UUID
}

var _ repository.JobRepository = (*fakeJobs)(nil)

func newFakeJobs() *fakeJobs {
	return &fakeJobs{jobs: map[uuid.UUID]model.ImportJob{}}
}

func (f *fakeJobs) Create(_ context.Context, job *model.ImportJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[job.ID] = *job
	f.order = append(f.order, job.ID)
	return nil
}

func (f *fakeJobs) TransitionStatus(_ context.Context, id uuid.UUID, from, to model.JobStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return model.ErrJobNotFound
	}
	if job.Status != from {
		return fmt.Errorf("import job %s (%s -> %s): %w", id, from, to, repository.ErrInvalidTransition)
	}
	job.Status = to
	f.jobs[id] = job
	return nil
}

func (f *fakeJobs) Finalize(_ context.Context, job *model.ImportJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.jobs[job.ID]; !ok {
		return model.ErrJobNotFound
	}
	if job.Status == model.StatusSuccess && !job.IsPreview {
		for id, other := range f.jobs {
			if id != job.ID && other.Kind == job.Kind && other.FileFingerprint == job.FileFingerprint &&
				other.Status == model.StatusSuccess && !other.IsPreview {
				return fmt.Errorf("import job %s: %w", job.ID, repository.ErrDuplicateSuccess)
			}
		}
	}
	f.jobs[job.ID] = *job
	return nil
}

func (f *fakeJobs) GetByID(_ context.Context, id uuid.UUID) (*model.ImportJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return nil, model.ErrJobNotFound
	}
	return &job, nil
}

func (f *fakeJobs) List(_ context.Context, limit, offset int) ([]*model.ImportJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.ImportJob
	// newest first
	for i := len(f.order) - 1; i >= 0; i-- {
		job := f.jobs[f.order[i]]
		out = append(out, &job)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeJobs) FindLatestSuccess(_ context.Context, kind model.ImportKind, fingerprint string) (*model.ImportJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.order) - 1; i >= 0; i-- {
		job := f.jobs[f.order[i]]
		if job.Kind == kind && job.FileFingerprint == fingerprint &&
			job.Status == model.StatusSuccess && !job.IsPreview {
			return &job, nil
		}
	}
	return nil, model.ErrJobNotFound
}
