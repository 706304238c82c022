// Package handler はshopフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"cosmetics_store/internal/api"
	"cosmetics_store/internal/feature/shop/domain/entity"
	"cosmetics_store/internal/feature/shop/transport/http/dto"
	"cosmetics_store/internal/feature/shop/usecase"
	jwtmw "cosmetics_store/internal/platform/jwt"
)

// ShopUsecase は購入・返品・履歴のユースケースを定義します。
type ShopUsecase interface {
	Buy(ctx context.Context, userID uint, cosmeticID string) (*usecase.BuyResult, error)
	Refund(ctx context.Context, userID, purchaseID uint) (*usecase.RefundResult, error)
	Purchases(ctx context.Context, userID uint) ([]entity.Purchase, error)
	History(ctx context.Context, userID uint) ([]entity.LedgerEntry, error)
}

// ShopHandler serves /shop.
type ShopHandler struct {
	shop ShopUsecase
}

// NewShopHandler creates a ShopHandler.
func NewShopHandler(shop ShopUsecase) *ShopHandler {
	return &ShopHandler{shop: shop}
}

// writeShopError はユースケースのエラーをHTTPステータスに変換します。
func writeShopError(c *gin.Context, userID uint, err error) {
	status, msg := http.StatusInternalServerError, "internal server error"
	switch {
	case errors.Is(err, usecase.ErrUserNotFound):
		status, msg = http.StatusNotFound, "user not found"
	case errors.Is(err, usecase.ErrCosmeticNotFound):
		status, msg = http.StatusNotFound, "cosmetic not found"
	case errors.Is(err, usecase.ErrPurchaseNotFound):
		status, msg = http.StatusNotFound, "purchase not found"
	case errors.Is(err, usecase.ErrAlreadyOwned):
		status, msg = http.StatusConflict, "cosmetic already owned"
	case errors.Is(err, usecase.ErrAlreadyReturned):
		status, msg = http.StatusConflict, "purchase already returned"
	case errors.Is(err, usecase.ErrInsufficientFunds):
		status, msg = http.StatusForbidden, "insufficient vbucks"
	case errors.Is(err, usecase.ErrNotOwner):
		status, msg = http.StatusForbidden, "purchase belongs to another user"
	}
	if status == http.StatusInternalServerError {
		slog.Error("shop operation failed", "error", err, "user_id", userID)
	} else {
		slog.Warn("shop request rejected", "error", err, "user_id", userID, "remote_addr", c.ClientIP())
	}
	c.JSON(status, api.ErrorResponse{Error: msg})
}

func currentUser(c *gin.Context) (uint, bool) {
	id, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
	}
	return id, ok
}

// Buy handles POST /shop/buy. cosmeticName and price in the body are accepted but ignored.
func (h *ShopHandler) Buy(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req api.BuyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("buy validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	res, err := h.shop.Buy(c.Request.Context(), userID, req.CosmeticId)
	if err != nil {
		writeShopError(c, userID, err)
		return
	}
	slog.Info("cosmetic purchased", "user_id", userID, "cosmetic_id", res.Purchase.CosmeticID,
		"price", res.Purchase.Price, "new_balance", res.NewBalance)
	c.JSON(http.StatusCreated, api.BuyResponse{
		Message:    fmt.Sprintf("purchased %s", res.Purchase.CosmeticName),
		Purchase:   dto.FromPurchase(res.Purchase),
		NewBalance: res.NewBalance,
	})
}

// Refund handles POST /shop/return and POST /shop/refund.
func (h *ShopHandler) Refund(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req api.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("refund validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	res, err := h.shop.Refund(c.Request.Context(), userID, req.PurchaseId)
	if err != nil {
		writeShopError(c, userID, err)
		return
	}
	slog.Info("purchase refunded", "user_id", userID, "purchase_id", res.PurchaseID,
		"refunded", res.Refunded, "new_balance", res.NewBalance)
	c.JSON(http.StatusOK, api.RefundResponse{
		Message:    "purchase returned",
		Refunded:   res.Refunded,
		NewBalance: res.NewBalance,
	})
}

// Purchases handles GET /shop/purchases.
func (h *ShopHandler) Purchases(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ps, err := h.shop.Purchases(c.Request.Context(), userID)
	if err != nil {
		writeShopError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromPurchases(ps))
}

// History handles GET /shop/history and GET /history.
func (h *ShopHandler) History(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	es, err := h.shop.History(c.Request.Context(), userID)
	if err != nil {
		writeShopError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntries(es))
}
