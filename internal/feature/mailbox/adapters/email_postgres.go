// Package adapters はmailboxフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mailtrade_backend/internal/feature/mailbox/domain/entity"
)

// emailPostgres は生メールレコードのPostgres実装です。
type emailPostgres struct {
	db *gorm.DB
}

// NewEmailRepository は指定されたDB接続でリポジトリの新しいインスタンスを生成します。
func NewEmailRepository(db *gorm.DB) *emailPostgres {
	return &emailPostgres{db: db}
}

// GetOrCreate はmessage-idをキーにメールレコードをget-or-createします。
// 既存レコードがある場合、生データは不変のため上書きせずそのまま返します。
func (r *emailPostgres) GetOrCreate(ctx context.Context, email entity.IncomingEmail) (entity.IncomingEmail, error) {
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}},
		DoNothing: true,
	}).Create(&email).Error; err != nil {
		return entity.IncomingEmail{}, err
	}

	var existing entity.IncomingEmail
	if err := r.db.WithContext(ctx).Where("message_id = ?", email.MessageID).First(&existing).Error; err != nil {
		return entity.IncomingEmail{}, err
	}
	return existing, nil
}

// UpdateStatus はメールの処理ステータスと理由を更新します。
func (r *emailPostgres) UpdateStatus(ctx context.Context, messageID string, status entity.EmailStatus, reason string) error {
	return r.db.WithContext(ctx).
		Model(&entity.IncomingEmail{}).
		Where("message_id = ?", messageID).
		Updates(map[string]interface{}{"status": status, "status_reason": reason}).Error
}

// MaxUID は記録済みメールの最大IMAP UIDを返します（取得カーソル用）。
func (r *emailPostgres) MaxUID(ctx context.Context) (uint32, error) {
	var max *uint32
	if err := r.db.WithContext(ctx).
		Model(&entity.IncomingEmail{}).
		Select("MAX(uid)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// FindByMessageID はmessage-idでメールを1件取得します。
func (r *emailPostgres) FindByMessageID(ctx context.Context, messageID string) (*entity.IncomingEmail, error) {
	var email entity.IncomingEmail
	if err := r.db.WithContext(ctx).Where("message_id = ?", messageID).First(&email).Error; err != nil {
		return nil, err
	}
	return &email, nil
}
