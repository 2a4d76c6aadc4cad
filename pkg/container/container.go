// Package container wires the application dependency graph: config,
// infrastructure, repositories, services and handlers.
package container

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/chvvasss/gastrotech-website-sub001/internal/config"
	catalogHandler "github.com/chvvasss/gastrotech-website-sub001/internal/domains/catalog/handler"
	catalogRepo "github.com/chvvasss/gastrotech-website-sub001/internal/domains/catalog/repository"
	catalogService "github.com/chvvasss/gastrotech-website-sub001/internal/domains/catalog/service"
	importHandler "github.com/chvvasss/gastrotech-website-sub001/internal/domains/importer/handler"
	importRepo "github.com/chvvasss/gastrotech-website-sub001/internal/domains/importer/repository"
	importService "github.com/chvvasss/gastrotech-website-sub001/internal/domains/importer/service"
	infraCache "github.com/chvvasss/gastrotech-website-sub001/internal/infrastructure/cache"
	"github.com/chvvasss/gastrotech-website-sub001/internal/infrastructure/database"
	"github.com/chvvasss/gastrotech-website-sub001/pkg/cache"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton for the application lifetime.
type Container struct {
	Config *config.Config
	DB     *database.PostgresDB
	Cache  cache.Cache

	CatalogStore catalogRepo.Store
	JobRepo      importRepo.JobRepository

	CatalogService catalogService.Service
	ImportService  importService.Service

	CatalogHandler *catalogHandler.CatalogHandler
	ImportHandler  *importHandler.ImportHandler

	redis *infraCache.RedisCache
}

// New builds the container. The database connection is required; Redis is
// optional and the app degrades to uncached reads without it.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	c.DB = database.NewPostgresDB(cfg.Database)
	if err := c.DB.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	c.redis = infraCache.NewRedisCache(cfg.Redis)
	if err := c.redis.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, continuing without cache")
		c.redis = nil
	} else {
		c.Cache = c.redis
	}

	c.CatalogStore = catalogRepo.NewStore(c.DB.Pool)
	c.JobRepo = importRepo.NewJobRepository(c.DB.Pool)

	c.CatalogService = catalogService.NewCatalogService(c.CatalogStore, c.Cache)
	c.ImportService = importService.NewImportService(c.JobRepo, c.CatalogStore, c.Cache, cfg.Import)

	c.CatalogHandler = catalogHandler.NewCatalogHandler(c.CatalogService)
	c.ImportHandler = importHandler.NewImportHandler(c.ImportService)

	log.Info().Msg("Dependency container initialized")
	return c, nil
}

// Cleanup releases infrastructure resources. Call on shutdown.
func (c *Container) Cleanup() {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis client")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
	log.Info().Msg("Dependency container cleaned up")
}

// HealthCheck verifies the critical dependencies.
func (c *Container) HealthCheck(ctx context.Context) error {
	if err := c.DB.HealthCheck(ctx); err != nil {
		return err
	}
	if c.redis != nil {
		if err := c.redis.Ping(ctx); err != nil {
			return fmt.Errorf("redis health check failed: %w", err)
		}
	}
	return nil
}
