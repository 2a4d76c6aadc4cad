package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/chvvasss/gastrotech-website-sub001/internal/domains/catalog/model"
	"github.com/chvvasss/gastrotech-website-sub001/internal/domains/catalog/service"
	"github.com/chvvasss/gastrotech-website-sub001/internal/shared/response"
)

// CatalogHandler exposes the storefront reads.
type CatalogHandler struct {
	service service.Service
}

func NewCatalogHandler(svc service.Service) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// ListCategories handles GET /catalog/categories.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, categories)
}

// ListBrands handles GET /catalog/brands.
func (h *CatalogHandler) ListBrands(c *gin.Context) {
	brands, err := h.service.ListBrands(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, brands)
}

// ListProducts handles GET /catalog/products.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	products, err := h.service.ListProducts(c.Request.Context(), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, products, &response.Meta{
		Limit: limit,
		Total: len(products),
	})
}

// GetProduct handles GET /catalog/products/:slug.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	detail, err := h.service.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

func (h *CatalogHandler) writeError(c *gin.Context, err error) {
	if errors.Is(err, model.ErrNotFound) {
		response.NotFound(c, "not found")
		return
	}
	log.Error().Err(err).Str("path", c.FullPath()).Msg("catalog request failed")
	response.InternalServerError(c, "internal server error")
}
