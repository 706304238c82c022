// Package handler はカタログ同期の手動実行エンドポイントを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cosmetics_store/internal/api"
	"cosmetics_store/internal/feature/catalogsync/usecase"
	jwtmw "cosmetics_store/internal/platform/jwt"
)

// ManualSyncTimeout は手動同期1回あたりの上限時間です。
const ManualSyncTimeout = 5 * time.Minute

// SyncUsecase は同期ユースケースを定義します。
type SyncUsecase interface {
	SyncAll(ctx context.Context) (usecase.Summary, error)
}

// SyncHandler serves POST /admin/sync.
type SyncHandler struct {
	sync SyncUsecase
}

func NewSyncHandler(sync SyncUsecase) *SyncHandler {
	return &SyncHandler{sync: sync}
}

// stageErrors は errors.Join で結合されたエラーを個別のメッセージに展開します。
func stageErrors(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}

// Sync は同期を実行し集計を返します。
// 一部のステージが失敗しても 200 を返し、失敗内容は errors に含めます。
// クライアントが切断しても同期は中断しません。
func (h *SyncHandler) Sync(c *gin.Context) {
	userID, _ := jwtmw.UserID(c)
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), ManualSyncTimeout)
	defer cancel()

	sum, err := h.sync.SyncAll(ctx)
	if errors.Is(err, usecase.ErrSyncInProgress) {
		slog.Warn("manual sync rejected: already running", "user_id", userID, "remote_addr", c.ClientIP())
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "sync already in progress"})
		return
	}

	res := api.SyncSummary{
		CatalogImported: sum.CatalogImported,
		CatalogUpdated:  sum.CatalogUpdated,
		MarkedOnSale:    sum.MarkedOnSale,
		MarkedAsNew:     sum.MarkedAsNew,
		Seeded:          sum.Seeded,
		DurationMs:      sum.Duration.Milliseconds(),
	}
	if msgs := stageErrors(err); len(msgs) > 0 {
		slog.Warn("manual sync finished with errors", "error", err, "user_id", userID)
		res.Errors = &msgs
	} else {
		slog.Info("manual sync finished", "user_id", userID)
	}
	c.JSON(http.StatusOK, res)
}
