// Package dto はreviewフィーチャーのHTTPリクエスト/レスポンスDTOを定義します。
package dto

import (
	"time"

	extentity "mailtrade_backend/internal/feature/extraction/domain/entity"
	"mailtrade_backend/internal/feature/review/domain/entity"
)

// CandidateItem はレビュー画面に表示する抽出候補です。
type CandidateItem struct {
	PortfolioName   string  `json:"portfolioName"`
	Symbol          string  `json:"symbol"`
	AssetType       string  `json:"assetType"`
	TransactionType string  `json:"transactionType"`
	Quantity        string  `json:"quantity"`
	Price           string  `json:"price"`
	TotalAmount     string  `json:"totalAmount"`
	Fees            string  `json:"fees"`
	Currency        string  `json:"currency"`
	TransactionDate string  `json:"transactionDate"`
	Notes           string  `json:"notes"`
	Confidence      float64 `json:"confidence"`
	ParsingType     string  `json:"parsingType"`
}

// ReviewItemResponse はレビューアイテム1件のレスポンスです。
type ReviewItemResponse struct {
	ID        string        `json:"id"`
	MessageID string        `json:"messageId"`
	Candidate CandidateItem `json:"candidate"`
	Reason    string        `json:"reason"`
	Status    string        `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}

// FromEntity はドメインエンティティからレスポンスDTOを組み立てます。
func FromEntity(item entity.ReviewItem) ReviewItemResponse {
	return ReviewItemResponse{
		ID:        item.ID,
		MessageID: item.MessageID,
		Candidate: fromCandidate(item.Candidate),
		Reason:    item.Reason,
		Status:    string(item.Status),
		CreatedAt: item.CreatedAt,
	}
}

func fromCandidate(c extentity.TransactionCandidate) CandidateItem {
	return CandidateItem{
		PortfolioName:   c.PortfolioName,
		Symbol:          c.Symbol,
		AssetType:       string(c.AssetType),
		TransactionType: string(c.TransactionType),
		Quantity:        c.Quantity.String(),
		Price:           c.Price.String(),
		TotalAmount:     c.TotalAmount.String(),
		Fees:            c.Fees.String(),
		Currency:        c.Currency,
		TransactionDate: c.TransactionDate,
		Notes:           c.Notes,
		Confidence:      c.Confidence,
		ParsingType:     string(c.ParsingType),
	}
}

// DecisionRequest は承認・却下リクエストのボディです。
type DecisionRequest struct {
	// Notes はレビュアーの任意のメモです。
	Notes string `json:"notes"`
}
