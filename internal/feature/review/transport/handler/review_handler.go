// Package handler はreviewフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mailtrade_backend/internal/feature/review/domain/entity"
	"mailtrade_backend/internal/feature/review/transport/http/dto"
	"mailtrade_backend/internal/feature/review/usecase"
	txentity "mailtrade_backend/internal/feature/transactions/domain/entity"
	txusecase "mailtrade_backend/internal/feature/transactions/usecase"
)

// ReviewUsecase はレビューキューに関するユースケースのインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type ReviewUsecase interface {
	ListPending(ctx context.Context) ([]entity.ReviewItem, error)
	Approve(ctx context.Context, id, notes string) (*txentity.Transaction, error)
	Reject(ctx context.Context, id, notes string) error
}

// ReviewHandler はレビューキューに関するHTTPリクエストを処理します。
type ReviewHandler struct {
	uc ReviewUsecase
}

// NewReviewHandler は新しい ReviewHandler を作成します。
func NewReviewHandler(uc ReviewUsecase) *ReviewHandler {
	return &ReviewHandler{uc: uc}
}

// List は判断待ちのレビューアイテム一覧を取得するAPIです。
func (h *ReviewHandler) List(c *gin.Context) {
	items, err := h.uc.ListPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]dto.ReviewItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.FromEntity(item))
	}
	c.JSON(http.StatusOK, out)
}

// Approve はアイテムを承認し、作成された取引IDを返すAPIです。
// 終端状態・重複message-id・ゲートが拒否する候補には409、存在しないIDには404を返します。
func (h *ReviewHandler) Approve(c *gin.Context) {
	var req dto.DecisionRequest
	// ボディは任意（notes省略可）
	_ = c.ShouldBindJSON(&req)

	tx, err := h.uc.Approve(c.Request.Context(), c.Param("id"), req.Notes)
	if err != nil {
		c.JSON(statusForDecisionError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactionId": tx.ID})
}

// Reject はアイテムを却下するAPIです。
func (h *ReviewHandler) Reject(c *gin.Context) {
	var req dto.DecisionRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.uc.Reject(c.Request.Context(), c.Param("id"), req.Notes); err != nil {
		c.JSON(statusForDecisionError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rejected"})
}

// statusForDecisionError は承認・却下エラーをHTTPステータスに対応付けます。
func statusForDecisionError(err error) int {
	switch {
	case errors.Is(err, usecase.ErrReviewItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrReviewItemTerminal),
		errors.Is(err, txusecase.ErrDuplicateMessage),
		errors.Is(err, txusecase.ErrNoPortfolioMatch),
		errors.Is(err, txusecase.ErrInvalidCandidate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
