// Package entity はreviewフィーチャーのドメインモデルを定義します。
package entity

import (
	"time"

	extentity "mailtrade_backend/internal/feature/extraction/domain/entity"
)

// ReviewStatus はレビューアイテムの状態です。
// 許可される遷移は pending→approved と pending→rejected のみで、
// 一度終端状態になったアイテムは不変です。
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// ReviewItem は信頼度不足または競合により自動確定できなかった抽出候補を、
// 人間の承認・却下判断のために保持します。
type ReviewItem struct {
	ID        string `gorm:"size:36;primaryKey"`
	MessageID string `gorm:"size:255;not null;index"`
	// Candidate は抽出されたままの候補です。JSONカラムとして保存されます。
	Candidate extentity.TransactionCandidate `gorm:"serializer:json"`
	// Reason はレビュー行きになった理由です（低信頼度・ポートフォリオ不明など）。
	Reason        string       `gorm:"type:text;not null"`
	Status        ReviewStatus `gorm:"size:16;not null;default:pending"`
	ReviewerNotes string       `gorm:"type:text"`
	DecidedAt     *time.Time
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

// IsTerminal は承認・却下済みかを返します。
func (i ReviewItem) IsTerminal() bool {
	return i.Status == ReviewStatusApproved || i.Status == ReviewStatusRejected
}
