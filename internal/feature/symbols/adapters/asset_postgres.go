// Package adapters はsymbolsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mailtrade_backend/internal/feature/symbols/domain/entity"
	txusecase "mailtrade_backend/internal/feature/transactions/usecase"
)

// assetPostgres はAssetRepositoryインターフェースのPostgres実装です。
type assetPostgres struct {
	db *gorm.DB
}

var _ txusecase.AssetRepository = (*assetPostgres)(nil)

// NewAssetRepository は指定されたDB接続でリポジトリの新しいインスタンスを生成します。
func NewAssetRepository(db *gorm.DB) *assetPostgres {
	return &assetPostgres{db: db}
}

// GetOrCreate は正規化済みシンボルでAssetを検索し、存在しなければ作成します。
// 同時実行で同じシンボルが挿入された場合はON CONFLICT DO NOTHINGで衝突を無視し、
// 既存行を読み直します。シンボルの一意制約により同じシンボルで二度呼んでも
// 常に同じAssetが返ります（冪等）。
func (r *assetPostgres) GetOrCreate(ctx context.Context, asset entity.Asset) (entity.Asset, error) {
	symbol := strings.ToUpper(strings.TrimSpace(asset.Symbol))
	asset.Symbol = symbol

	var existing entity.Asset
	err := r.db.WithContext(ctx).Where("symbol = ?", symbol).First(&existing).Error
	if err == nil {
		return existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return entity.Asset{}, err
	}

	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoNothing: true,
	}).Create(&asset).Error; err != nil {
		return entity.Asset{}, err
	}

	// DO NOTHINGで弾かれた場合はIDが入らないため、常に読み直して返す
	if err := r.db.WithContext(ctx).Where("symbol = ?", symbol).First(&existing).Error; err != nil {
		return entity.Asset{}, err
	}
	return existing, nil
}
