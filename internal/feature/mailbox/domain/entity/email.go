// Package entity はmailboxフィーチャーのドメインモデルを定義します。
package entity

import "time"

// EmailStatus はメールの処理ステータスです。
type EmailStatus string

const (
	// EmailStatusPending は未処理のメールです。
	EmailStatusPending EmailStatus = "pending"
	// EmailStatusProcessed は取引として確定済みのメールです。
	EmailStatusProcessed EmailStatus = "processed"
	// EmailStatusReview は手動レビュー待ちのメールです。
	EmailStatusReview EmailStatus = "review"
	// EmailStatusError は処理エラーで終了したメールです。
	EmailStatusError EmailStatus = "error"
)

// IncomingEmail はメールボックスから取得した生のメッセージです。
// 取得時に作成された後、本文等の生データは不変です。ステータスのみが
// pending→processed/review/errorへ遷移します。
type IncomingEmail struct {
	ID          uint        `gorm:"primaryKey"`
	MessageID   string      `gorm:"size:255;not null;uniqueIndex"`
	UID         uint32      `gorm:"not null;default:0"`
	Subject     string      `gorm:"size:998"`
	FromAddress string      `gorm:"size:320"`
	ReceivedAt  time.Time   `gorm:"not null"`
	TextBody    string      `gorm:"type:text"`
	HTMLBody    string      `gorm:"type:text"`
	Status      EmailStatus `gorm:"size:16;not null;default:pending"`
	// StatusReason はレビュー行き・エラー時の理由で、Review UIに表示されます。
	StatusReason string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}
