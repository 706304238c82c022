// Package handler provides the HTTP handlers for the catalog feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"cosmetics_store/internal/api"
	"cosmetics_store/internal/feature/catalog/domain/entity"
	"cosmetics_store/internal/feature/catalog/transport/http/dto"
	"cosmetics_store/internal/feature/catalog/usecase"
)

// CatalogUsecase defines the catalog read operations used by the handler.
type CatalogUsecase interface {
	List(ctx context.Context, f usecase.Filter) (*usecase.Page, error)
	Get(ctx context.Context, id string) (*entity.Cosmetic, error)
}

// CatalogHandler serves /cosmetics.
type CatalogHandler struct {
	catalog CatalogUsecase
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(catalog CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// bindListParams decodes the query string with the same rules as generated oapi-codegen wrappers.
func bindListParams(c *gin.Context) (api.ListCosmeticsParams, error) {
	var p api.ListCosmeticsParams
	q := c.Request.URL.Query()
	binds := []struct {
		name string
		dest any
	}{
		{"page", &p.Page},
		{"limit", &p.Limit},
		{"search", &p.Search},
		{"type", &p.Type},
		{"rarity", &p.Rarity},
		{"isNew", &p.IsNew},
		{"isOnSale", &p.IsOnSale},
	}
	for _, b := range binds {
		if err := runtime.BindQueryParameter("form", true, false, b.name, q, b.dest); err != nil {
			return p, err
		}
	}
	return p, nil
}

func toFilter(p api.ListCosmeticsParams) usecase.Filter {
	f := usecase.Filter{IsNew: p.IsNew, IsOnSale: p.IsOnSale}
	if p.Page != nil {
		f.Page = *p.Page
	}
	if p.Limit != nil {
		f.Limit = *p.Limit
	}
	if p.Search != nil {
		f.Search = *p.Search
	}
	if p.Type != nil {
		f.Type = *p.Type
	}
	if p.Rarity != nil {
		f.Rarity = *p.Rarity
	}
	return f
}

// List handles GET /cosmetics.
func (h *CatalogHandler) List(c *gin.Context) {
	params, err := bindListParams(c)
	if err != nil {
		slog.Warn("invalid catalog query", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid query parameter"})
		return
	}

	page, err := h.catalog.List(c.Request.Context(), toFilter(params))
	if err != nil {
		slog.Error("failed to list cosmetics", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, api.CosmeticPage{
		Data: dto.FromEntities(page.Items),
		Meta: api.PageMeta{Page: page.Page, Limit: page.Limit, Total: page.Total, Pages: page.Pages},
	})
}

// Get handles GET /cosmetics/:id.
func (h *CatalogHandler) Get(c *gin.Context) {
	id := c.Param("id")
	cosmetic, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrCosmeticNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "cosmetic not found"})
			return
		}
		slog.Error("failed to get cosmetic", "error", err, "cosmetic_id", id)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(*cosmetic))
}
