package usecase

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"mailtrade_backend/internal/feature/extraction/domain/entity"
	symusecase "mailtrade_backend/internal/feature/symbols/usecase"
)

// HeuristicExtractor は外部呼び出しなしでメール本文から取引フィールドを
// 抽出するルールベースの抽出器です。宣言的なルールリストを順に評価します。
type HeuristicExtractor struct {
	rules []fieldRule
}

// NewHeuristicExtractor は既定ルールでHeuristicExtractorの新しいインスタンスを生成します。
func NewHeuristicExtractor() *HeuristicExtractor {
	return &HeuristicExtractor{rules: defaultRules()}
}

// Extract は件名と本文からTransactionCandidateを組み立てます。
// 必須フィールド（symbol, assetType, transactionType, quantity>0, price>0）が
// すべて見つかった場合のみ信頼度1.0で sufficient=true を返します。
// 不足がある場合は推測せず、信頼度0で sufficient=false を返し、AIフォールバックに委ねます。
// 取引日が見つからない場合はメールの受信日を使用します。
func (h *HeuristicExtractor) Extract(subject, body string, receivedAt time.Time) (entity.TransactionCandidate, bool) {
	text := subject + "\n" + body
	fields := evalRules(h.rules, text)

	c := entity.TransactionCandidate{
		PortfolioName:   fields[fieldPortfolioName],
		Symbol:          fields[fieldSymbol],
		AssetType:       entity.AssetType(fields[fieldAssetType]),
		TransactionType: entity.TransactionType(fields[fieldTransactionType]),
		Currency:        fields[fieldCurrency],
		TransactionDate: fields[fieldDate],
	}

	c.Quantity = parseDecimal(fields[fieldQuantity])
	c.Price = parseDecimal(fields[fieldPrice])
	c.TotalAmount = parseDecimal(fields[fieldTotalAmount])
	c.Fees = parseDecimal(fields[fieldFees])

	// 明示的な取引日が無ければ受信日にフォールバック
	if c.TransactionDate == "" {
		c.TransactionDate = receivedAt.Format("2006-01-02")
	}

	// オプション候補のシンボルは契約フォーマットに従う必要があります。
	// 原資産ティッカーしか取れていない場合は満期・権利行使価格・種別から
	// 契約シンボルの構築を試み、構築できなければ不十分としてAIに委ねます。
	if c.AssetType == entity.AssetTypeOption && !symusecase.ValidOptionSymbol(c.Symbol) {
		built, err := symusecase.BuildOptionSymbol(
			c.Symbol,
			fields[fieldOptionExpiry],
			parseDecimal(fields[fieldOptionStrike]),
			fields[fieldOptionType],
		)
		if err != nil {
			c.Symbol = ""
			c.Confidence = 0
			c.ParsingType = entity.ParsingTypeUnknown
			return c, false
		}
		c.Symbol = built
	}

	if !c.HasRequiredTradingFields() {
		// 不十分：信頼度0のままAIフォールバックへ
		c.Confidence = 0
		c.ParsingType = entity.ParsingTypeUnknown
		return c, false
	}

	c.Confidence = 1.0
	c.ParsingType = entity.ParsingTypeTrading
	if c.Notes == "" {
		c.Notes = "extracted by heuristic rules from: " + strings.TrimSpace(subject)
	}
	return c, true
}

// parseDecimal は正規化済みの数値文字列をDecimalに変換します。空や不正な値はゼロ扱いです。
func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
