package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"cosmetics_store/internal/feature/catalogsync/usecase"
)

type mockSyncUsecase struct {
	SyncAllFunc func(ctx context.Context) (usecase.Summary, error)
}

func (m *mockSyncUsecase) SyncAll(ctx context.Context) (usecase.Summary, error) {
	return m.SyncAllFunc(ctx)
}

func TestSyncHandler_Sync(t *testing.T) {
	sum := usecase.Summary{CatalogImported: 3, CatalogUpdated: 1, MarkedOnSale: 2, MarkedAsNew: 1, Duration: 1500 * time.Millisecond}

	tests := []struct {
		name           string
		sum            usecase.Summary
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success",
			sum:            sum,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"catalogImported":3,"catalogUpdated":1,"markedOnSale":2,"markedAsNew":1,"seeded":false,"durationMs":1500}`,
		},
		{
			name:           "partial failure lists stages",
			sum:            usecase.Summary{Seeded: true},
			err:            errors.Join(fmt.Errorf("catalog: %w", usecase.ErrCatalogUnavailable), errors.New("shop: http 503")),
			expectedStatus: http.StatusOK,
			expectedBody: `{"catalogImported":0,"catalogUpdated":0,"markedOnSale":0,"markedAsNew":0,"seeded":true,"durationMs":0,
				"errors":["catalog: catalog source unavailable","shop: http 503"]}`,
		},
		{
			name:           "plain error",
			err:            errors.New("boom"),
			expectedStatus: http.StatusOK,
			expectedBody:   `{"catalogImported":0,"catalogUpdated":0,"markedOnSale":0,"markedAsNew":0,"seeded":false,"durationMs":0,"errors":["boom"]}`,
		},
		{
			name:           "already running",
			err:            usecase.ErrSyncInProgress,
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"error":"sync already in progress"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			h := NewSyncHandler(&mockSyncUsecase{SyncAllFunc: func(ctx context.Context) (usecase.Summary, error) {
				_, hasDeadline := ctx.Deadline()
				assert.True(t, hasDeadline)
				return tt.sum, tt.err
			}})
			r := gin.New()
			r.POST("/admin/sync", h.Sync)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/sync", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestSyncHandler_SurvivesClientDisconnect(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewSyncHandler(&mockSyncUsecase{SyncAllFunc: func(ctx context.Context) (usecase.Summary, error) {
		return usecase.Summary{}, ctx.Err()
	}})
	r := gin.New()
	r.POST("/admin/sync", h.Sync)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/admin/sync", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "errors")
}
