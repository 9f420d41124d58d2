// Package entity はextractionフィーチャーのドメインモデルを定義します。
package entity

import (
	"github.com/shopspring/decimal"
)

// AssetType は抽出対象の資産種別です。
type AssetType string

// TransactionType は売買区分です。
type TransactionType string

// ParsingType は抽出結果の分類タグです。
type ParsingType string

const (
	AssetTypeStock  AssetType = "stock"
	AssetTypeOption AssetType = "option"

	TransactionTypeBuy  TransactionType = "buy"
	TransactionTypeSell TransactionType = "sell"

	// ParsingTypeTrading は売買取引として完全に解釈できたことを示します。
	ParsingTypeTrading ParsingType = "trading"
	// ParsingTypeBasic は一部のフィールドのみ解釈できたことを示します。
	ParsingTypeBasic ParsingType = "basic"
	// ParsingTypeUnknown は解釈に失敗したことを示します。
	ParsingTypeUnknown ParsingType = "unknown"
)

// ValidAssetType は資産種別が許可された値かを返します。
func ValidAssetType(s string) bool {
	return s == string(AssetTypeStock) || s == string(AssetTypeOption)
}

// ValidTransactionType は売買区分が許可された値かを返します。
func ValidTransactionType(s string) bool {
	return s == string(TransactionTypeBuy) || s == string(TransactionTypeSell)
}

// TransactionCandidate は1通のメールから抽出された未確定の取引データです。
// 抽出した時点では取引として確定せず、必ず検証とデデュープを経て永続化されます。
type TransactionCandidate struct {
	PortfolioName   string          `json:"portfolioName"`
	Symbol          string          `json:"symbol"`
	AssetType       AssetType       `json:"assetType"`
	TransactionType TransactionType `json:"transactionType"`
	Quantity        decimal.Decimal `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Fees            decimal.Decimal `json:"fees"`
	Currency        string          `json:"currency"`
	// TransactionDate はYYYY-MM-DD形式のカレンダー日付です（時刻は持ちません）。
	TransactionDate string `json:"transactionDate"`
	Notes           string `json:"notes"`
	// Confidence は[0,1]の抽出信頼度です。較正された確率ではありません。
	Confidence  float64     `json:"confidence"`
	ParsingType ParsingType `json:"parsingType"`
}

// HasRequiredTradingFields は取引として確定するために最低限必要なフィールドが
// すべて揃っているかを返します（symbol, assetType, transactionType, quantity>0, price>0）。
func (c TransactionCandidate) HasRequiredTradingFields() bool {
	return c.Symbol != "" &&
		ValidAssetType(string(c.AssetType)) &&
		ValidTransactionType(string(c.TransactionType)) &&
		c.Quantity.IsPositive() &&
		c.Price.IsPositive()
}
