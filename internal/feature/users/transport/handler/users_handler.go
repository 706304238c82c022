// Package handler provides the HTTP handlers for the users feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"cosmetics_store/internal/api"
	authentity "cosmetics_store/internal/feature/auth/domain/entity"
	shopdto "cosmetics_store/internal/feature/shop/transport/http/dto"
	"cosmetics_store/internal/feature/users/usecase"
)

// UsersUsecase defines the read operations used by the handler.
type UsersUsecase interface {
	List(ctx context.Context, page, limit int) (*usecase.UserPage, error)
	Get(ctx context.Context, id uint, page, limit int) (*usecase.UserDetail, error)
}

// UsersHandler serves /users.
type UsersHandler struct {
	users UsersUsecase
}

// NewUsersHandler creates a UsersHandler.
func NewUsersHandler(users UsersUsecase) *UsersHandler {
	return &UsersHandler{users: users}
}

// bindPaging は page / limit クエリを取り出します。未指定は0を返します。
func bindPaging(c *gin.Context) (page, limit int, err error) {
	var p api.ListUsersParams
	q := c.Request.URL.Query()
	if err = runtime.BindQueryParameter("form", true, false, "page", q, &p.Page); err != nil {
		return 0, 0, err
	}
	if err = runtime.BindQueryParameter("form", true, false, "limit", q, &p.Limit); err != nil {
		return 0, 0, err
	}
	if p.Page != nil {
		page = *p.Page
	}
	if p.Limit != nil {
		limit = *p.Limit
	}
	return page, limit, nil
}

func toSummary(u authentity.User) api.UserSummary {
	return api.UserSummary{Id: u.ID, Email: u.Email, Vbucks: u.VBucks, CreatedAt: u.CreatedAt}
}

func toMeta(m usecase.Meta) api.PageMeta {
	return api.PageMeta{Page: m.Page, Limit: m.Limit, Total: m.Total, Pages: m.Pages}
}

// List handles GET /users.
func (h *UsersHandler) List(c *gin.Context) {
	page, limit, err := bindPaging(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid query parameter"})
		return
	}
	res, err := h.users.List(c.Request.Context(), page, limit)
	if err != nil {
		slog.Error("failed to list users", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	data := make([]api.UserSummary, 0, len(res.Users))
	for _, u := range res.Users {
		data = append(data, toSummary(u))
	}
	c.JSON(http.StatusOK, api.UserPage{Data: data, Meta: toMeta(res.Meta)})
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid user id"})
		return
	}
	page, limit, err := bindPaging(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid query parameter"})
		return
	}
	res, err := h.users.Get(c.Request.Context(), uint(id), page, limit)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
			return
		}
		slog.Error("failed to get user", "error", err, "user_id", id)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, api.UserDetail{
		User: toSummary(res.User),
		Purchases: api.PurchasePage{
			Data: shopdto.FromPurchases(res.Purchases),
			Meta: toMeta(res.Meta),
		},
	})
}
