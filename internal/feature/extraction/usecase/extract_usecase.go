// Package usecase はextractionフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"log/slog"

	"mailtrade_backend/internal/feature/extraction/domain/entity"
	"mailtrade_backend/internal/shared/ratelimiter"
)

// AIExtractor は生成モデルによる構造化抽出のインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type AIExtractor interface {
	// Extract はメール本文を生成モデルに渡し、候補と信頼度を返します。
	Extract(ctx context.Context, in entity.ExtractionInput) (entity.TransactionCandidate, error)
}

// ExtractUsecase はヒューリスティック抽出を優先し、不十分な場合のみ
// AIフォールバックへ委譲する抽出ユースケースです。
// モデルのレートリミットを考慮し、AI呼び出しの前に待機を挟みます。
type ExtractUsecase struct {
	heuristic *HeuristicExtractor
	ai        AIExtractor
	limiter   ratelimiter.RateLimiterInterface
}

// NewExtractUsecase は新しい ExtractUsecase を作成します。
func NewExtractUsecase(h *HeuristicExtractor, ai AIExtractor, limiter ratelimiter.RateLimiterInterface) *ExtractUsecase {
	return &ExtractUsecase{heuristic: h, ai: ai, limiter: limiter}
}

// Extract は1通のメールからTransactionCandidateを生成します。
// ヒューリスティックで必須フィールドがすべて揃えばそのまま返し、
// 揃わなければAIフォールバックを呼び出します。
// AI呼び出しの失敗（ネットワーク・タイムアウト・不正なJSON）はエラーとして
// 伝播させず、信頼度0・ParsingTypeUnknownの候補として返します。
// パイプラインがメールを黙って取りこぼすことは許されないためです。
func (u *ExtractUsecase) Extract(ctx context.Context, in entity.ExtractionInput) entity.TransactionCandidate {
	if c, sufficient := u.heuristic.Extract(in.Subject, in.Body, in.ReceivedAt); sufficient {
		return c
	}

	u.limiter.WaitIfNeeded(ctx)

	c, err := u.ai.Extract(ctx, in)
	if err != nil {
		slog.Error("ai extraction failed, routing to review", "from", in.From, "error", err)
		return entity.TransactionCandidate{
			TransactionDate: in.ReceivedAt.Format("2006-01-02"),
			Notes:           "ai extraction failed: " + err.Error(),
			Confidence:      0,
			ParsingType:     entity.ParsingTypeUnknown,
		}
	}
	return c
}
