// Package adapters はtransactionsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"

	"mailtrade_backend/internal/feature/transactions/domain/entity"
	"mailtrade_backend/internal/feature/transactions/usecase"
)

// transactionPostgres はTransactionRepositoryインターフェースのPostgres実装です。
type transactionPostgres struct {
	db *gorm.DB
}

var _ usecase.TransactionRepository = (*transactionPostgres)(nil)

// NewTransactionRepository は指定されたDB接続でリポジトリの新しいインスタンスを生成します。
func NewTransactionRepository(db *gorm.DB) *transactionPostgres {
	return &transactionPostgres{db: db}
}

// ExistsBySourceMessageID は指定のソースmessage-idを持つ取引の有無を返します。
func (r *transactionPostgres) ExistsBySourceMessageID(ctx context.Context, messageID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entity.Transaction{}).
		Where("source_message_id = ?", messageID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Insert は取引を1件挿入します。source_message_idの一意制約違反はそのまま
// エラーとして返します（水平スケール時の最終防衛線）。
func (r *transactionPostgres) Insert(ctx context.Context, tx *entity.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}
