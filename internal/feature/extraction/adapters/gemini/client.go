package gemini

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"mailtrade_backend/internal/feature/extraction/domain/entity"
	"mailtrade_backend/internal/feature/extraction/usecase"
)

// Extractor はGoogle Gemini APIを使用するAIExtractor実装です。
type Extractor struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// ExtractorがAIExtractorを実装していることをコンパイル時に検証します。
var _ usecase.AIExtractor = (*Extractor)(nil)

// NewExtractor はADCを使用してExtractorの新しいインスタンスを生成します。
// 環境変数 GOOGLE_GENAI_USE_VERTEXAI, GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_LOCATION が必要です。
func NewExtractor(ctx context.Context, cfg Config) (*Extractor, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Extractor{client: client, model: cfg.Model, timeout: cfg.Timeout}, nil
}

// Extract はメールをモデルに渡し、構造化された候補を返します。
// リクエストには明示的なタイムアウトを適用し、超過時はエラーを返します
// （呼び出し元がレビューキュー行きとして扱います）。
// モデル応答が不正なJSONの場合はエラーにせず、信頼度0の候補を返します。
func (g *Extractor) Extract(ctx context.Context, in entity.ExtractionInput) (entity.TransactionCandidate, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	prompt := buildExtractionPrompt(in)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return entity.TransactionCandidate{}, fmt.Errorf("gemini API request failed: %w", err)
	}

	c, _ := parseModelResponse(resp.Text())
	return c, nil
}
