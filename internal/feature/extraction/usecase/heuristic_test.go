package usecase

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailtrade_backend/internal/feature/extraction/domain/entity"
)

// TestHeuristicExtractor_Extract_FullTradeConfirmation は典型的な約定通知から
// 全必須フィールドが抽出されることを検証します。
func TestHeuristicExtractor_Extract_FullTradeConfirmation(t *testing.T) {
	t.Parallel()

	h := NewHeuristicExtractor()
	received := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	c, sufficient := h.Extract(
		"Trade Confirmation",
		"Bought 15 shares of AAPL at $166.67 total $2500.00",
		received,
	)

	require.True(t, sufficient, "all required fields are present")
	assert.Equal(t, entity.TransactionTypeBuy, c.TransactionType)
	assert.Equal(t, "AAPL", c.Symbol)
	assert.Equal(t, entity.AssetTypeStock, c.AssetType)
	assert.True(t, c.Quantity.Equal(decimal.NewFromInt(15)), "quantity = %s", c.Quantity)
	assert.True(t, c.Price.Equal(decimal.RequireFromString("166.67")), "price = %s", c.Price)
	assert.True(t, c.TotalAmount.Equal(decimal.RequireFromString("2500.00")), "total = %s", c.TotalAmount)
	assert.Equal(t, 1.0, c.Confidence)
	assert.Equal(t, entity.ParsingTypeTrading, c.ParsingType)
	// 明示的な日付が無いので受信日へフォールバック
	assert.Equal(t, "2025-06-15", c.TransactionDate)
}

// TestHeuristicExtractor_Extract はさまざまなメール本文に対する抽出結果を
// テーブル駆動テストで検証します。
func TestHeuristicExtractor_Extract(t *testing.T) {
	t.Parallel()

	received := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		subject        string
		body           string
		wantSufficient bool
		wantSymbol     string
		wantType       entity.TransactionType
		wantAssetType  entity.AssetType
		wantDate       string
	}{
		{
			name:           "sell confirmation with explicit date",
			subject:        "Order Executed",
			body:           "Sold 100 shares of MSFT at $420.10 on 2025-01-08. Total proceeds: $42,010.00",
			wantSufficient: true,
			wantSymbol:     "MSFT",
			wantType:       entity.TransactionTypeSell,
			wantAssetType:  entity.AssetTypeStock,
			wantDate:       "2025-01-08",
		},
		{
			// 満期・権利行使価格が無いオプションは契約シンボルを構築できず不十分
			name:           "option contract without strike or expiry",
			subject:        "Options Trade",
			body:           "Bought 2 contracts of AAPL call at $3.50, total $700.00",
			wantSufficient: false,
			wantType:       entity.TransactionTypeBuy,
			wantAssetType:  entity.AssetTypeOption,
			wantDate:       "2025-01-10",
		},
		{
			name:           "option contract with full details builds contract symbol",
			subject:        "Options Trade",
			body:           "Bought 2 contracts of AAPL call at $3.50, strike $200, expiring 2025-06-21, total $700.00",
			wantSufficient: true,
			wantSymbol:     "AAPL250621C00200000",
			wantType:       entity.TransactionTypeBuy,
			wantAssetType:  entity.AssetTypeOption,
			wantDate:       "2025-06-21",
		},
		{
			name:           "put contract with prose expiry",
			subject:        "Options Trade",
			body:           "Sold 1 contract of TSLA put at $12.00, strike price: 250.50, expiration date: January 16, 2026",
			wantSufficient: true,
			wantSymbol:     "TSLA260116P00250500",
			wantType:       entity.TransactionTypeSell,
			wantAssetType:  entity.AssetTypeOption,
			wantDate:       "2026-01-16",
		},
		{
			name:           "newsletter without trade data",
			subject:        "Weekly Market Update",
			body:           "The market was volatile this week. Read our analysis.",
			wantSufficient: false,
			wantDate:       "2025-01-10",
		},
		{
			name:           "dividend notice is not a trade",
			subject:        "Dividend Payment",
			body:           "You received a dividend of $12.40 from your holdings.",
			wantSufficient: false,
			wantDate:       "2025-01-10",
		},
		{
			name:           "missing price is insufficient",
			subject:        "Partial notice",
			body:           "Bought 10 shares of NVDA today.",
			wantSufficient: false,
			wantSymbol:     "NVDA",
			wantType:       entity.TransactionTypeBuy,
			wantDate:       "2025-01-10",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewHeuristicExtractor()
			c, sufficient := h.Extract(tt.subject, tt.body, received)

			assert.Equal(t, tt.wantSufficient, sufficient)
			assert.Equal(t, tt.wantDate, c.TransactionDate)
			if tt.wantSymbol != "" {
				assert.Equal(t, tt.wantSymbol, c.Symbol)
			}
			if tt.wantType != "" {
				assert.Equal(t, tt.wantType, c.TransactionType)
			}
			if tt.wantAssetType != "" {
				assert.Equal(t, tt.wantAssetType, c.AssetType)
			}
			if sufficient {
				assert.Equal(t, 1.0, c.Confidence)
				assert.Equal(t, entity.ParsingTypeTrading, c.ParsingType)
			} else {
				assert.Equal(t, 0.0, c.Confidence)
				assert.Equal(t, entity.ParsingTypeUnknown, c.ParsingType)
			}
		})
	}
}

// TestNormalizeAmount は金額表記の正規化を検証します。
func TestNormalizeAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"$2,500.00", "2500.00", true},
		{"166.67", "166.67", true},
		{" $15 ", "15", true},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := normalizeAmount(tt.in)
		assert.Equal(t, tt.wantOK, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

// TestNormalizeDate は複数の日付表記がYYYY-MM-DDへ揃うことを検証します。
func TestNormalizeDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"2025-06-21", "2025-06-21", true},
		{"June 21, 2025", "2025-06-21", true},
		{"06/21/2025", "2025-06-21", true},
		{"not a date", "", false},
	}

	for _, tt := range tests {
		got, ok := normalizeDate(tt.in)
		assert.Equal(t, tt.wantOK, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}
