package usecase

import (
	"regexp"
	"strings"
	"time"
)

// fieldRule は1フィールド分の抽出ルールです。patternsを順に試し、
// 最初にマッチしたものをnormalizeで正規化して採用します（first match wins）。
type fieldRule struct {
	field     string
	patterns  []*regexp.Regexp
	normalize func(match string) (string, bool)
}

// evalRules はルールリストを順に評価し、フィールド名→正規化済み値のマップを返します。
// フィールド間の整合性チェック（total = quantity×price 等）はここでは行いません。
func evalRules(rules []fieldRule, text string) map[string]string {
	out := make(map[string]string, len(rules))
	for _, r := range rules {
		for _, p := range r.patterns {
			m := p.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			raw := m[0]
			if len(m) > 1 {
				raw = m[1]
			}
			if v, ok := r.normalize(raw); ok {
				out[r.field] = v
				break
			}
		}
	}
	return out
}

// 抽出対象のフィールド名。
const (
	fieldPortfolioName   = "portfolioName"
	fieldSymbol          = "symbol"
	fieldAssetType       = "assetType"
	fieldTransactionType = "transactionType"
	fieldQuantity        = "quantity"
	fieldPrice           = "price"
	fieldTotalAmount     = "totalAmount"
	fieldFees            = "fees"
	fieldCurrency        = "currency"
	fieldDate            = "date"
	fieldOptionType      = "optionType"
	fieldOptionStrike    = "optionStrike"
	fieldOptionExpiry    = "optionExpiry"
)

// normalizeAmount は"$2,500.00"のような金額表記から数値文字列を取り出します。
func normalizeAmount(s string) (string, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return "", false
	}
	return s, true
}

// normalizeSymbol はティッカーを大文字・トリム済みに正規化します。
func normalizeSymbol(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	return s, true
}

func normalizeIdentity(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

// normalizeDate は複数の日付表記をYYYY-MM-DD形式に正規化します。
func normalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	layouts := []string{"2006-01-02", "January 2, 2006", "Jan 2, 2006", "01/02/2006", "2006/01/02"}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// defaultRules は既定の抽出ルール一覧です。上から順に評価されます。
// 証券会社の約定通知メールに現れる代表的な言い回しをカバーします。
func defaultRules() []fieldRule {
	return []fieldRule{
		{
			field: fieldTransactionType,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b(bought|buy|purchase[d]?)\b`),
				regexp.MustCompile(`(?i)\b(sold|sell)\b`),
			},
			normalize: func(s string) (string, bool) {
				switch strings.ToLower(s) {
				case "bought", "buy", "purchase", "purchased":
					return "buy", true
				case "sold", "sell":
					return "sell", true
				}
				return "", false
			},
		},
		{
			field: fieldQuantity,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b([\d,]+(?:\.\d+)?)\s*(?:shares?|units?|contracts?)\b`),
				regexp.MustCompile(`(?i)\bquantity[:\s]+([\d,]+(?:\.\d+)?)\b`),
			},
			normalize: normalizeAmount,
		},
		{
			field: fieldSymbol,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b(?:shares?|units?|contracts?)\s+of\s+([A-Za-z]{1,6})\b`),
				regexp.MustCompile(`(?i)\bsymbol[:\s]+([A-Za-z.\-]{1,8})\b`),
				regexp.MustCompile(`\(([A-Z]{1,6})\)`),
				regexp.MustCompile(`(?i)\b(?:bought|sold|buy|sell)\s+([A-Z]{1,6})\b`),
			},
			normalize: normalizeSymbol,
		},
		{
			field: fieldAssetType,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b(call|put|option)s?\b`),
				regexp.MustCompile(`(?i)\b(share|stock|unit)s?\b`),
			},
			normalize: func(s string) (string, bool) {
				switch strings.ToLower(s) {
				case "call", "put", "option":
					return "option", true
				case "share", "stock", "unit":
					return "stock", true
				}
				return "", false
			},
		},
		{
			field: fieldOptionType,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b(call|put)s?\b`),
			},
			normalize: func(s string) (string, bool) {
				return strings.ToLower(s), true
			},
		},
		{
			field: fieldOptionStrike,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\bstrike(?:\s+price)?[:\s]+\$?([\d,]+(?:\.\d+)?)\b`),
				regexp.MustCompile(`(?i)\$([\d,]+(?:\.\d+)?)\s+(?:call|put)s?\b`),
			},
			normalize: normalizeAmount,
		},
		{
			field: fieldOptionExpiry,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\bexpir(?:ing|es|y|ation)(?:\s+(?:on|date))?[:\s]+(\d{4}-\d{2}-\d{2})\b`),
				regexp.MustCompile(`(?i)\bexpir(?:ing|es|y|ation)(?:\s+(?:on|date))?[:\s]+([A-Z][a-z]+ \d{1,2}, \d{4})\b`),
				regexp.MustCompile(`(?i)\bexpir(?:ing|es|y|ation)(?:\s+(?:on|date))?[:\s]+(\d{2}/\d{2}/\d{4})\b`),
			},
			normalize: normalizeDate,
		},
		{
			field: fieldPrice,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\bat\s+(\$?[\d,]+(?:\.\d+)?)\b`),
				regexp.MustCompile(`(?i)\bprice[:\s]+(\$?[\d,]+(?:\.\d+)?)\b`),
				regexp.MustCompile(`(?i)\b(\$?[\d,]+(?:\.\d+)?)\s+per\s+(?:share|unit|contract)\b`),
			},
			normalize: normalizeAmount,
		},
		{
			field: fieldTotalAmount,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\btotal(?:\s+amount|\s+cost|\s+value)?[:\s]+(\$?[\d,]+(?:\.\d+)?)\b`),
				regexp.MustCompile(`(?i)\bamount[:\s]+(\$?[\d,]+(?:\.\d+)?)\b`),
			},
			normalize: normalizeAmount,
		},
		{
			field: fieldFees,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b(?:fees?|commissions?)[:\s]+(\$?[\d,]+(?:\.\d+)?)\b`),
			},
			normalize: normalizeAmount,
		},
		{
			field: fieldCurrency,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(USD|CAD|EUR|GBP|JPY|AUD)\b`),
			},
			normalize: func(s string) (string, bool) {
				return strings.ToUpper(s), true
			},
		},
		{
			field: fieldDate,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`),
				regexp.MustCompile(`\b([A-Z][a-z]+ \d{1,2}, \d{4})\b`),
				regexp.MustCompile(`\b(\d{2}/\d{2}/\d{4})\b`),
			},
			normalize: normalizeDate,
		},
		{
			field: fieldPortfolioName,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b(?:account|portfolio)[:\s]+"?([A-Za-z0-9][A-Za-z0-9 \-]{0,30}[A-Za-z0-9])"?`),
				regexp.MustCompile(`(?i)\bin\s+your\s+([A-Za-z0-9\-]{2,20})\s+account\b`),
				regexp.MustCompile(`\b(TFSA|RRSP|RESP|FHSA|LIRA)\b`),
			},
			normalize: normalizeIdentity,
		},
	}
}
