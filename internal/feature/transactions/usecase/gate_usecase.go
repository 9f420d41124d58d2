package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	extentity "mailtrade_backend/internal/feature/extraction/domain/entity"
	pfentity "mailtrade_backend/internal/feature/portfolios/domain/entity"
	pfusecase "mailtrade_backend/internal/feature/portfolios/usecase"
	symentity "mailtrade_backend/internal/feature/symbols/domain/entity"
	symusecase "mailtrade_backend/internal/feature/symbols/usecase"
	"mailtrade_backend/internal/feature/transactions/domain/entity"
)

// TransactionRepository は取引の永続化を抽象化するリポジトリインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type TransactionRepository interface {
	ExistsBySourceMessageID(ctx context.Context, messageID string) (bool, error)
	Insert(ctx context.Context, tx *entity.Transaction) error
}

// AssetRepository はシンボルをキーとしたAssetのget-or-createを抽象化します。
type AssetRepository interface {
	// GetOrCreate は正規化済みシンボルでAssetを検索し、無ければ作成します。
	// シンボルの一意制約により冪等です。
	GetOrCreate(ctx context.Context, asset symentity.Asset) (symentity.Asset, error)
}

// PortfolioRepository は既存ポートフォリオの参照を抽象化します。
type PortfolioRepository interface {
	ListActive(ctx context.Context) ([]pfentity.Portfolio, error)
}

// MailArchiver は処理し終えたメールをメールボックス上でアーカイブします。
type MailArchiver interface {
	Archive(ctx context.Context, messageID, outcome string) error
}

// GateUsecase はTransactionを作成できる唯一のコンポーネント
// （デデュープ＆永続化ゲート）です。
type GateUsecase struct {
	transactions TransactionRepository
	assets       AssetRepository
	portfolios   PortfolioRepository
	archiver     MailArchiver
}

// NewGateUsecase は新しい GateUsecase を作成します。
func NewGateUsecase(t TransactionRepository, a AssetRepository, p PortfolioRepository, ar MailArchiver) *GateUsecase {
	return &GateUsecase{transactions: t, assets: a, portfolios: p, archiver: ar}
}

// Commit は抽出候補を検証して取引として確定します。手順は以下の通りです:
//
//	(a) 同じソースmessage-idの取引が既に存在すればErrDuplicateMessageで拒否する
//	(b) シンボルをキーにAssetをget-or-createする（冪等）
//	(c) ポートフォリオ名をベストエフォートで突き合わせる。見つからなければ
//	    推測せずErrNoPortfolioMatchを返し、呼び出し元が手動レビューへ回す
//	(d) Transactionを挿入し、ソースメールをアーカイブする
//
// 挿入後のアーカイブ失敗はロールバックせず警告ログに留めます。挿入済みの取引は
// 有効であり、同じメールを再取得しても(a)のチェックで弾かれるためです。
// 挿入自体のDBエラーはハードエラーとして呼び出し元に返します。その場合メールは
// アーカイブされないまま残り、次回のポーリングで安全に再試行されます。
func (u *GateUsecase) Commit(ctx context.Context, c extentity.TransactionCandidate, messageID string) (*entity.Transaction, error) {
	if !c.HasRequiredTradingFields() {
		return nil, ErrInvalidCandidate
	}
	// オプションのシンボルは下流互換のため契約フォーマットのみ受け付ける
	if c.AssetType == extentity.AssetTypeOption && !symusecase.ValidOptionSymbol(c.Symbol) {
		return nil, fmt.Errorf("%w: malformed option symbol %q", ErrInvalidCandidate, c.Symbol)
	}

	exists, err := u.transactions.ExistsBySourceMessageID(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("dedup check for %q: %w", messageID, err)
	}
	if exists {
		return nil, ErrDuplicateMessage
	}

	currency := strings.ToUpper(strings.TrimSpace(c.Currency))
	if currency == "" {
		currency = "USD"
	}

	asset, err := u.assets.GetOrCreate(ctx, symentity.Asset{
		Symbol:    strings.ToUpper(strings.TrimSpace(c.Symbol)),
		Name:      strings.ToUpper(strings.TrimSpace(c.Symbol)),
		AssetType: string(c.AssetType),
		Currency:  currency,
	})
	if err != nil {
		return nil, fmt.Errorf("get or create asset %q: %w", c.Symbol, err)
	}

	portfolios, err := u.portfolios.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list portfolios: %w", err)
	}
	portfolio := pfusecase.MatchByName(portfolios, c.PortfolioName)
	if portfolio == nil {
		return nil, ErrNoPortfolioMatch
	}

	total := c.TotalAmount
	if total.IsZero() {
		total = c.Quantity.Mul(c.Price)
	}

	tx := &entity.Transaction{
		PortfolioID:     portfolio.ID,
		AssetID:         asset.ID,
		SourceMessageID: messageID,
		TransactionType: string(c.TransactionType),
		Quantity:        c.Quantity,
		Price:           c.Price,
		Fees:            c.Fees,
		TotalAmount:     total,
		Currency:        currency,
		TransactionDate: c.TransactionDate,
		Notes:           c.Notes,
	}
	if err := u.transactions.Insert(ctx, tx); err != nil {
		return nil, fmt.Errorf("insert transaction for %q: %w", messageID, err)
	}

	// アーカイブはベストエフォート。失敗しても挿入済みの取引はそのまま有効
	if err := u.archiver.Archive(ctx, messageID, "processed"); err != nil {
		slog.Warn("failed to archive source email after commit", "message_id", messageID, "error", err)
	}

	return tx, nil
}
