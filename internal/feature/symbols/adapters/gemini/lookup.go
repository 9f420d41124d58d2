// Package gemini はシンボル解決用のGemini呼び出しアダプタを提供します。
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"mailtrade_backend/internal/feature/symbols/domain/entity"
	"mailtrade_backend/internal/feature/symbols/usecase"
)

const (
	// DefaultModel はシンボル解決に使うデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
	// DefaultTimeout はシンボル解決1回あたりのタイムアウトです。
	DefaultTimeout = 15 * time.Second
)

// lookupPrompt はシンボル解決専用のプロンプトテンプレートです。
const lookupPrompt = `You are a ticker symbol resolver. Given the free-text query below, return ONLY a single JSON object, no prose:

{"symbol": string, "assetType": "stock" | "option", "confidence": number}

The symbol must be the canonical uppercase ticker. For option contracts use
underlying + YYMMDD expiry + C/P + strike*1000 zero-padded to 8 digits
(e.g. AAPL250621C00200000). If the query cannot be resolved, return an empty
symbol with confidence 0.

Query: %s`

// LookupClient はGemini APIを使用するSymbolLookupModel実装です。
type LookupClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

var _ usecase.SymbolLookupModel = (*LookupClient)(nil)

// NewLookupClient はADCを使用してLookupClientの新しいインスタンスを生成します。
func NewLookupClient(ctx context.Context) (*LookupClient, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &LookupClient{client: client, model: DefaultModel, timeout: DefaultTimeout}, nil
}

// lookupResponse はモデル応答のDTOです。
type lookupResponse struct {
	Symbol     string  `json:"symbol"`
	AssetType  string  `json:"assetType"`
	Confidence float64 `json:"confidence"`
}

// LookupSymbol はクエリをモデルに渡し、解決結果を返します。
func (c *LookupClient) LookupSymbol(ctx context.Context, query string) (entity.Resolution, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(fmt.Sprintf(lookupPrompt, query)), nil)
	if err != nil {
		return entity.Resolution{}, fmt.Errorf("gemini API request failed: %w", err)
	}

	raw := strings.TrimSpace(resp.Text())
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var out lookupResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &out); err != nil {
		return entity.Resolution{}, fmt.Errorf("malformed lookup response: %w", err)
	}
	if out.Confidence < 0 {
		out.Confidence = 0
	}
	if out.Confidence > 1 {
		out.Confidence = 1
	}
	return entity.Resolution{
		Symbol:     strings.ToUpper(strings.TrimSpace(out.Symbol)),
		AssetType:  out.AssetType,
		Confidence: out.Confidence,
	}, nil
}
