package gemini

import (
	"fmt"
	"strings"

	"mailtrade_backend/internal/feature/extraction/domain/entity"
)

// extractionPromptTemplate は取引メール抽出用のプロンプトテンプレートです。
// モデルには厳密なJSONのみを返すよう指示します。コードフェンスで囲まれて
// 返ってくる場合があるため、パース側で防御的に除去します。
const extractionPromptTemplate = `You are a financial email parser. Extract trading transaction data from the brokerage confirmation email below and return ONLY a single JSON object, no prose, matching exactly this schema:

{
  "portfolioName": string,          // free-text account name, e.g. "TFSA", or ""
  "symbol": string,                 // canonical ticker symbol
  "assetType": "stock" | "option",
  "transactionType": "buy" | "sell",
  "quantity": number,               // > 0
  "price": number,                  // per unit, > 0
  "totalAmount": number,            // or 0 if unknown
  "fees": number,                   // or 0 if unknown
  "currency": string,               // ISO 4217, e.g. "USD"
  "transactionDate": string,        // "YYYY-MM-DD" calendar date only
  "notes": string,                  // short provenance note
  "confidence": number,             // 0.0 - 1.0, your extraction confidence
  "parsingType": "trading" | "basic" | "unknown"
}

Option symbol encoding rule (must be followed exactly): the symbol for an
option contract is the underlying ticker, followed by the 6-digit expiry date
as YYMMDD, followed by "C" for call or "P" for put, followed by the strike
price multiplied by 1000 and zero-padded to 8 digits (the last 3 digits are
the implied decimals). Example: AAPL 2025-06-21 call at strike 200 encodes as
AAPL250621C00200000.

Use "parsingType": "trading" only when all required trading fields (symbol,
assetType, transactionType, quantity, price) were found. Use "basic" when only
some fields were found, and "unknown" when the email is not a trade
confirmation. Never invent values: leave unknown strings empty and unknown
numbers 0, and lower the confidence accordingly.

Email sender: %s
Email received: %s
Email subject: %s
%s
Email body:
---
%s
---`

// buildExtractionPrompt は1通分のメール情報から抽出プロンプトを組み立てます。
func buildExtractionPrompt(in entity.ExtractionInput) string {
	extra := ""
	if strings.TrimSpace(in.Context) != "" {
		extra = "Additional context from caller:\n" + in.Context + "\n"
	}
	return fmt.Sprintf(extractionPromptTemplate,
		in.From,
		in.ReceivedAt.Format("2006-01-02"),
		in.Subject,
		extra,
		in.Body,
	)
}
