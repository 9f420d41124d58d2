// Package usecase はportfoliosフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"strings"

	"mailtrade_backend/internal/feature/portfolios/domain/entity"
)

// accountSuffixes はサフィックス除去マッチで取り除く一般的な語尾です。
var accountSuffixes = []string{" account", " portfolio", " acct"}

// MatchByName はフリーテキストの口座名を既存のPortfolioに突き合わせます。
// ヒューリスティックは厳格な順に評価され、各段階で最初にマッチしたものが勝ちます
// （スコアリングは行いません）:
//  1. 完全一致（大文字小文字無視）
//  2. 部分一致（どちらの方向でも）
//  3. サフィックス除去後の完全一致・部分一致（"TFSA Account" → "TFSA"）
//
// どの段階でもマッチしなければnilを返し、呼び出し元は推測せず手動レビューに回します。
// 名前が重複気味の場合（"TFSA"と"TFSA-2"等）の部分一致はリスト順で決まります。
// これは意図的に再現率を優先した製品仕様であり、スコアリング導入は製品判断待ちです。
func MatchByName(portfolios []entity.Portfolio, query string) *entity.Portfolio {
	q := fold(query)
	if q == "" {
		return nil
	}

	// 1. 完全一致
	for i := range portfolios {
		if fold(portfolios[i].Name) == q {
			return &portfolios[i]
		}
	}

	// 2. 部分一致（どちらの方向でも）
	for i := range portfolios {
		n := fold(portfolios[i].Name)
		if n == "" {
			continue
		}
		if strings.Contains(q, n) || strings.Contains(n, q) {
			return &portfolios[i]
		}
	}

	// 3. サフィックス除去後の一致
	qs := stripSuffixes(q)
	if qs == q {
		return nil
	}
	for i := range portfolios {
		n := stripSuffixes(fold(portfolios[i].Name))
		if n == "" {
			continue
		}
		if n == qs || strings.Contains(qs, n) || strings.Contains(n, qs) {
			return &portfolios[i]
		}
	}

	return nil
}

// fold は比較用にトリム・小文字化した文字列を返します。
func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// stripSuffixes は一般的な口座語尾を取り除きます。
func stripSuffixes(s string) string {
	for _, suf := range accountSuffixes {
		s = strings.TrimSuffix(s, suf)
	}
	return strings.TrimSpace(s)
}
