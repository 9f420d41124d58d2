package gemini

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"mailtrade_backend/internal/feature/extraction/domain/entity"
	symusecase "mailtrade_backend/internal/feature/symbols/usecase"
)

// dateRe は取引日の妥当性検証に使うYYYY-MM-DDパターンです。
var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// modelResponse はモデルが返すJSONのDTOです。数値フィールドはポインタにして
// 「欠落」と「0」を区別します。
type modelResponse struct {
	PortfolioName   string   `json:"portfolioName"`
	Symbol          string   `json:"symbol"`
	AssetType       string   `json:"assetType"`
	TransactionType string   `json:"transactionType"`
	Quantity        *float64 `json:"quantity"`
	Price           *float64 `json:"price"`
	TotalAmount     *float64 `json:"totalAmount"`
	Fees            *float64 `json:"fees"`
	Currency        string   `json:"currency"`
	TransactionDate string   `json:"transactionDate"`
	Notes           string   `json:"notes"`
	Confidence      *float64 `json:"confidence"`
	ParsingType     string   `json:"parsingType"`
}

// stripCodeFences はモデル出力からMarkdownのコードフェンスを除去し、
// 最初のJSONオブジェクトらしき範囲を切り出します。
// モデルが散文でJSONを包んで返すことは保証上防げないため、防御的に処理します。
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	// 前後に散文が付いている場合は最初の'{'から最後の'}'までを採用
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

// parseModelResponse はモデルの自由テキスト応答をTransactionCandidateに変換します。
// JSONとして読めない応答は信頼度0・ParsingTypeUnknownの候補として返します
// （ok=false）。フィールド単位の検証に失敗した値は例外にせず、単に捨てます。
func parseModelResponse(raw string) (entity.TransactionCandidate, bool) {
	var r modelResponse
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &r); err != nil {
		return entity.TransactionCandidate{
			Confidence:  0,
			ParsingType: entity.ParsingTypeUnknown,
			Notes:       "malformed model response",
		}, false
	}

	c := entity.TransactionCandidate{
		PortfolioName: strings.TrimSpace(r.PortfolioName),
		Symbol:        strings.ToUpper(strings.TrimSpace(r.Symbol)),
		Currency:      strings.ToUpper(strings.TrimSpace(r.Currency)),
		Notes:         strings.TrimSpace(r.Notes),
	}

	// 列挙値は固定の値集合に対して検証し、不正な値は捨てる
	if entity.ValidAssetType(r.AssetType) {
		c.AssetType = entity.AssetType(r.AssetType)
	}
	if entity.ValidTransactionType(r.TransactionType) {
		c.TransactionType = entity.TransactionType(r.TransactionType)
	}
	switch entity.ParsingType(r.ParsingType) {
	case entity.ParsingTypeTrading, entity.ParsingTypeBasic, entity.ParsingTypeUnknown:
		c.ParsingType = entity.ParsingType(r.ParsingType)
	default:
		c.ParsingType = entity.ParsingTypeUnknown
	}

	// 数量・価格は正の値のみ、金額は非負のみ採用
	c.Quantity = positiveDecimal(r.Quantity)
	c.Price = positiveDecimal(r.Price)
	c.TotalAmount = nonNegativeDecimal(r.TotalAmount)
	c.Fees = nonNegativeDecimal(r.Fees)

	// オプション候補のシンボルはモデルに契約フォーマットでの符号化を指示して
	// いるが、出力は保証されないため検証し、違反するシンボルは捨てる
	if c.AssetType == entity.AssetTypeOption && !symusecase.ValidOptionSymbol(c.Symbol) {
		c.Symbol = ""
	}

	// 日付はYYYY-MM-DD形式かつ実在する日付のみ採用
	if dateRe.MatchString(r.TransactionDate) {
		if _, err := time.Parse("2006-01-02", r.TransactionDate); err == nil {
			c.TransactionDate = r.TransactionDate
		}
	}

	// 信頼度は[0,1]にクランプ。欠落していればゼロ扱い
	c.Confidence = clampConfidence(r.Confidence)

	return c, true
}

func positiveDecimal(f *float64) decimal.Decimal {
	if f == nil || *f <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*f)
}

func nonNegativeDecimal(f *float64) decimal.Decimal {
	if f == nil || *f < 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*f)
}

func clampConfidence(f *float64) float64 {
	if f == nil {
		return 0
	}
	switch {
	case *f < 0:
		return 0
	case *f > 1:
		return 1
	}
	return *f
}
