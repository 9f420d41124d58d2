// Package usecase はsymbolsフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"mailtrade_backend/internal/feature/symbols/domain/entity"
)

// Resolver はフリーテキストのクエリを正規のティッカー・シンボルに解決します。
// 設定によりLiveResolver（モデル問い合わせあり）とDeterministicFallbackResolver
// （決定的なルールのみ）のどちらかを選択します。
type Resolver interface {
	Resolve(ctx context.Context, query string) (entity.Resolution, error)
}

// SymbolLookupModel はシンボル解決用の生成モデル呼び出しのインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type SymbolLookupModel interface {
	LookupSymbol(ctx context.Context, query string) (entity.Resolution, error)
}

// tickerTokenRe はクエリ中の大文字1〜5文字のトークン（ティッカーらしき並び）です。
var tickerTokenRe = regexp.MustCompile(`\b[A-Z]{1,5}\b`)

// nonAlnumRe は英数字以外の文字です。
var nonAlnumRe = regexp.MustCompile(`[^A-Za-z0-9]`)

// exactMatchTable は既知の社名・通称→シンボルの完全一致テーブルです。
// キーは小文字・トリム済みで引きます。モデル問い合わせの前に必ず参照されます。
var exactMatchTable = map[string]entity.Resolution{
	"apple":      {Symbol: "AAPL", AssetType: "stock", Confidence: 1.0},
	"apple inc":  {Symbol: "AAPL", AssetType: "stock", Confidence: 1.0},
	"microsoft":  {Symbol: "MSFT", AssetType: "stock", Confidence: 1.0},
	"tesla":      {Symbol: "TSLA", AssetType: "stock", Confidence: 1.0},
	"amazon":     {Symbol: "AMZN", AssetType: "stock", Confidence: 1.0},
	"google":     {Symbol: "GOOGL", AssetType: "stock", Confidence: 1.0},
	"alphabet":   {Symbol: "GOOGL", AssetType: "stock", Confidence: 1.0},
	"nvidia":     {Symbol: "NVDA", AssetType: "stock", Confidence: 1.0},
	"meta":       {Symbol: "META", AssetType: "stock", Confidence: 1.0},
	"netflix":    {Symbol: "NFLX", AssetType: "stock", Confidence: 1.0},
	"shopify":    {Symbol: "SHOP", AssetType: "stock", Confidence: 1.0},
	"td bank":    {Symbol: "TD", AssetType: "stock", Confidence: 1.0},
	"royal bank": {Symbol: "RY", AssetType: "stock", Confidence: 1.0},
}

// lookupExact はテーブルを大文字小文字を無視して完全一致で引きます。
func lookupExact(query string) (entity.Resolution, bool) {
	r, ok := exactMatchTable[strings.ToLower(strings.TrimSpace(query))]
	return r, ok
}

// deterministicFallback はモデルなしで導出できる最善の解決結果を返します。
// 大文字1〜5文字のトークンが見つかればそれを信頼度0.7の株式シンボルとして採用し、
// 最後の手段として英数字以外を取り除いた文字列を信頼度0.3で返します。
func deterministicFallback(query string) entity.Resolution {
	if tok := tickerTokenRe.FindString(query); tok != "" {
		return entity.Resolution{Symbol: tok, AssetType: "stock", Confidence: 0.7}
	}
	stripped := strings.ToUpper(nonAlnumRe.ReplaceAllString(query, ""))
	return entity.Resolution{Symbol: stripped, AssetType: "stock", Confidence: 0.3}
}

// DeterministicFallbackResolver はモデル問い合わせを行わない決定的なResolverです。
// 完全一致テーブルとトークン抽出のみで解決します。モデルが利用できない環境や
// テストで使用します。
type DeterministicFallbackResolver struct{}

var _ Resolver = (*DeterministicFallbackResolver)(nil)

// NewDeterministicFallbackResolver は新しい DeterministicFallbackResolver を作成します。
func NewDeterministicFallbackResolver() *DeterministicFallbackResolver {
	return &DeterministicFallbackResolver{}
}

// Resolve はテーブル→トークン抽出の順でクエリを解決します。エラーは返しません。
func (r *DeterministicFallbackResolver) Resolve(_ context.Context, query string) (entity.Resolution, error) {
	if res, ok := lookupExact(query); ok {
		return res, nil
	}
	return deterministicFallback(query), nil
}

// LiveResolver はテーブルで解決できないクエリを生成モデルに問い合わせるResolverです。
// モデル呼び出しが失敗した場合、または空のシンボルが返った場合は
// 決定的フォールバックに切り替えます（解決自体は常に成功します）。
type LiveResolver struct {
	model SymbolLookupModel
}

var _ Resolver = (*LiveResolver)(nil)

// NewLiveResolver は新しい LiveResolver を作成します。
func NewLiveResolver(model SymbolLookupModel) *LiveResolver {
	return &LiveResolver{model: model}
}

// Resolve はテーブル→モデル→決定的フォールバックの順でクエリを解決します。
func (r *LiveResolver) Resolve(ctx context.Context, query string) (entity.Resolution, error) {
	if res, ok := lookupExact(query); ok {
		return res, nil
	}

	res, err := r.model.LookupSymbol(ctx, query)
	if err != nil {
		slog.Warn("symbol lookup model failed, using deterministic fallback", "query", query, "error", err)
		return deterministicFallback(query), nil
	}
	if strings.TrimSpace(res.Symbol) == "" {
		return deterministicFallback(query), nil
	}
	res.Symbol = strings.ToUpper(strings.TrimSpace(res.Symbol))
	return res, nil
}
