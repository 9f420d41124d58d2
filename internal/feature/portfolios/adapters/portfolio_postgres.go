// Package adapters はportfoliosフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"

	"mailtrade_backend/internal/feature/portfolios/domain/entity"
	txusecase "mailtrade_backend/internal/feature/transactions/usecase"
)

// portfolioPostgres はPortfolioRepositoryインターフェースのPostgres実装です。
type portfolioPostgres struct {
	db *gorm.DB
}

var _ txusecase.PortfolioRepository = (*portfolioPostgres)(nil)

// NewPortfolioRepository は指定されたDB接続でリポジトリの新しいインスタンスを生成します。
func NewPortfolioRepository(db *gorm.DB) *portfolioPostgres {
	return &portfolioPostgres{db: db}
}

// ListActive は名前突き合わせの対象となるアクティブなポートフォリオをすべて返します。
func (r *portfolioPostgres) ListActive(ctx context.Context) ([]entity.Portfolio, error) {
	var portfolios []entity.Portfolio
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&portfolios).Error; err != nil {
		return nil, err
	}
	return portfolios, nil
}
