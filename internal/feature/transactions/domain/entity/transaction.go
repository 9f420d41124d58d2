// Package entity はtransactionsフィーチャーのドメインモデルを定義します。
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction は確定済みの金融イベントです。PortfolioとAssetを紐付けます。
// SourceMessageIDの一意制約により、1通のメールから作成されるTransactionは
// 常に1件のみです（水平スケール時の唯一の排他機構でもあります）。
// 抽出パイプラインは作成後にこのレコードを変更しません。編集はUI側の責務です。
type Transaction struct {
	ID              uint            `gorm:"primaryKey"`
	PortfolioID     uint            `gorm:"not null;index"`
	AssetID         uint            `gorm:"not null;index"`
	SourceMessageID string          `gorm:"size:255;not null;uniqueIndex"`
	TransactionType string          `gorm:"size:8;not null"`
	Quantity        decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	Price           decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	Fees            decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0"`
	Currency        string          `gorm:"size:8;not null;default:USD"`
	// TransactionDate はYYYY-MM-DD形式のカレンダー日付です。
	TransactionDate string    `gorm:"size:10;not null"`
	Notes           string    `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}
