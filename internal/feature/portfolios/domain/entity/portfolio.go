// Package entity はportfoliosフィーチャーのドメインモデルを定義します。
package entity

import "time"

// Portfolio はユーザーが所有する名前付きの口座・バケットです。
// 抽出パイプラインからは参照のみで、作成・編集はUI側の責務です。
type Portfolio struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;not null;uniqueIndex"`
	Currency  string    `gorm:"size:8;not null;default:USD"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
