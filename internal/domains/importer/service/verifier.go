package service

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog/log"

	catalogModel "github.com/chvvasss/gastrotech-website-sub001/internal/domains/catalog/model"
	catalogRepo "github.com/chvvasss/gastrotech-website-sub001/internal/domains/catalog/repository"
	"github.com/chvvasss/gastrotech-website-sub001/internal/domains/importer/model"
)

// Verifier is the post-commit gate: it re-reads every key a commit claims
// to have written, through the pool rather than the commit transaction or
// any cache, so a reported success is backed by durable state.
type Verifier struct {
	catalog catalogRepo.Store
}

func NewVerifier(catalog catalogRepo.Store) *Verifier {
	return &Verifier{catalog: catalog}
}

// Verify re-locates keys grouped by entity type. A key whose lookup fails
// for any reason counts as missing: "could not confirm" and "absent" gate
// the job the same way.
func (v *Verifier) Verify(ctx context.Context, keys map[model.EntityType][]string) *model.DBVerify {
	verify := &model.DBVerify{
		CreatedEntitiesFoundInDB: true,
		VerificationDetails:      make(map[model.EntityType]model.VerifyDetail),
	}

	entityTypes := make([]model.EntityType, 0, len(keys))
	for entityType := range keys {
		entityTypes = append(entityTypes, entityType)
	}
	sort.Slice(entityTypes, func(i, j int) bool { return entityTypes[i] < entityTypes[j] })

	for _, entityType := range entityTypes {
		detail := model.VerifyDetail{}
		for _, key := range keys[entityType] {
			found, err := v.lookup(ctx, entityType, key)
			if err != nil {
				log.Error().Err(err).
					Str("entity_type", string(entityType)).
					Str("key", key).
					Msg("post-commit verification lookup failed")
				found = false
			}
			if found {
				detail.Found = append(detail.Found, key)
			} else {
				detail.Missing = append(detail.Missing, key)
				verify.CreatedEntitiesFoundInDB = false
			}
		}
		verify.VerificationDetails[entityType] = detail
	}

	return verify
}

func (v *Verifier) lookup(ctx context.Context, entityType model.EntityType, key string) (bool, error) {
	var err error
	switch entityType {
	case model.EntityCategories:
		_, err = v.catalog.FindCategoryBySlug(ctx, key)
	case model.EntityBrands:
		_, err = v.catalog.FindBrandBySlug(ctx, key)
	case model.EntitySeries:
		_, err = v.catalog.FindSeriesBySlug(ctx, key)
	case model.EntityProducts:
		_, err = v.catalog.FindProductBySlug(ctx, key)
	case model.EntityVariants:
		_, err = v.catalog.FindVariantByModelCode(ctx, key)
	default:
		return false, nil
	}

	if err == nil {
		return true, nil
	}
	if errors.Is(err, catalogModel.ErrNotFound) {
		return false, nil
	}
	return false, err
}
