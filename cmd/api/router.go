package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chvvasss/gastrotech-website-sub001/internal/shared/middleware"
	"github.com/chvvasss/gastrotech-website-sub001/internal/shared/response"
	"github.com/chvvasss/gastrotech-website-sub001/pkg/container"
)

// SetupRouter declares every route of the API.
func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthHandler(c))

		catalog := v1.Group("/catalog")
		{
			catalog.GET("/categories", c.CatalogHandler.ListCategories)
			catalog.GET("/brands", c.CatalogHandler.ListBrands)
			catalog.GET("/products", c.CatalogHandler.ListProducts)
			catalog.GET("/products/:slug", c.CatalogHandler.GetProduct)
		}

		admin := v1.Group("/admin", middleware.AdminGate(c.Config.App.AdminToken))
		{
			admin.POST("/import", c.ImportHandler.Upload)
			admin.GET("/import", c.ImportHandler.List)
			admin.GET("/import/:id", c.ImportHandler.Get)
			admin.POST("/import/:id/apply", c.ImportHandler.Apply)
		}
	}

	return router
}

func healthHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := c.HealthCheck(ctx.Request.Context()); err != nil {
			response.ErrorResponse(ctx, http.StatusServiceUnavailable, "UNHEALTHY", err.Error())
			return
		}
		response.Success(ctx, http.StatusOK, gin.H{
			"status":  "ok",
			"name":    c.Config.App.Name,
			"version": c.Config.App.Version,
		})
	}
}
