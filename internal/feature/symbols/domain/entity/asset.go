// Package entity はsymbolsフィーチャーのドメインモデルを定義します。
package entity

import "time"

// Asset は正規化されたティッカー・シンボルのエンティティです。
// シンボルは大文字・トリム済みで一意であり、初回遭遇時にget-or-createで作成されます。
type Asset struct {
	ID        uint      `gorm:"primaryKey"`
	Symbol    string    `gorm:"size:32;not null;uniqueIndex"`
	Name      string    `gorm:"size:255;not null"`
	AssetType string    `gorm:"size:16;not null;default:stock"`
	Currency  string    `gorm:"size:8;not null;default:USD"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
