// Package adapters はreviewフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mailtrade_backend/internal/feature/review/domain/entity"
	"mailtrade_backend/internal/feature/review/usecase"
)

// reviewPostgres はReviewRepositoryインターフェースのPostgres実装です。
type reviewPostgres struct {
	db *gorm.DB
}

var _ usecase.ReviewRepository = (*reviewPostgres)(nil)

// NewReviewRepository は指定されたDB接続でリポジトリの新しいインスタンスを生成します。
func NewReviewRepository(db *gorm.DB) *reviewPostgres {
	return &reviewPostgres{db: db}
}

// Insert はレビューアイテムを1件挿入します。
func (r *reviewPostgres) Insert(ctx context.Context, item *entity.ReviewItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// ListPending は判断待ちのアイテムを作成順に返します。
func (r *reviewPostgres) ListPending(ctx context.Context) ([]entity.ReviewItem, error) {
	var items []entity.ReviewItem
	if err := r.db.WithContext(ctx).
		Where("status = ?", entity.ReviewStatusPending).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID はIDでアイテムを1件取得します。
func (r *reviewPostgres) FindByID(ctx context.Context, id string) (*entity.ReviewItem, error) {
	var item entity.ReviewItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrReviewItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Update はアイテムを保存します。
func (r *reviewPostgres) Update(ctx context.Context, item *entity.ReviewItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}
