package usecase

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// underlyingRe はオプション原資産として許可されるティッカーパターンです。
var underlyingRe = regexp.MustCompile(`^[A-Z]{1,6}$`)

// optionSymbolRe はオプション契約シンボルの厳密フォーマットです。
var optionSymbolRe = regexp.MustCompile(`^[A-Z]{1,6}\d{6}[CP]\d{8}$`)

// ValidOptionSymbol はシンボルがオプション契約のフォーマット契約に
// 従っているかを返します。オプション種別の候補はこの形式のシンボルのみ
// 取引として確定できます。
func ValidOptionSymbol(symbol string) bool {
	return optionSymbolRe.MatchString(symbol)
}

// OptionTypeCall と OptionTypePut はオプション種別の許可値です。
const (
	OptionTypeCall = "call"
	OptionTypePut  = "put"
)

// BuildOptionSymbol はオプション契約のシンボル文字列を構築します。
// フォーマットは [TICKER][YYMMDD][C|P][strike*1000を8桁ゼロ埋め] の厳密な契約であり、
// 下流の消費者との互換性のため正確に再現する必要があります。
// 例: 原資産AAPL・満期2025-06-21・権利行使価格200・コール → AAPL250621C00200000
func BuildOptionSymbol(underlying, expiry string, strike decimal.Decimal, optionType string) (string, error) {
	u := strings.ToUpper(strings.TrimSpace(underlying))
	if !underlyingRe.MatchString(u) {
		return "", fmt.Errorf("invalid option underlying %q", underlying)
	}

	t, err := time.Parse("2006-01-02", expiry)
	if err != nil {
		return "", fmt.Errorf("invalid option expiry %q: %w", expiry, err)
	}

	var cp string
	switch strings.ToLower(strings.TrimSpace(optionType)) {
	case OptionTypeCall:
		cp = "C"
	case OptionTypePut:
		cp = "P"
	default:
		return "", fmt.Errorf("invalid option type %q", optionType)
	}

	// 権利行使価格×1000を8桁ゼロ埋め（下3桁が暗黙の小数部）
	milli := strike.Mul(decimal.NewFromInt(1000))
	if !milli.Equal(milli.Truncate(0)) {
		return "", fmt.Errorf("option strike %s has more than 3 decimal places", strike)
	}
	n := milli.IntPart()
	if n <= 0 || n > 99999999 {
		return "", fmt.Errorf("option strike %s out of range", strike)
	}

	return fmt.Sprintf("%s%s%s%08d", u, t.Format("060102"), cp, n), nil
}
