// Package usecase はメール取り込みパイプライン全体のオーケストレーションを提供します。
// IMAPからの取得、抽出、シンボル解決、取引確定ゲート、レビューキューを直列に接続します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cenkalti/backoff/v4"

	extentity "mailtrade_backend/internal/feature/extraction/domain/entity"
	mailentity "mailtrade_backend/internal/feature/mailbox/domain/entity"
	reviewentity "mailtrade_backend/internal/feature/review/domain/entity"
	symentity "mailtrade_backend/internal/feature/symbols/domain/entity"
	txentity "mailtrade_backend/internal/feature/transactions/domain/entity"
	txusecase "mailtrade_backend/internal/feature/transactions/usecase"
)

// MailSource はメールボックスからの未処理メール取得とアーカイブを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type MailSource interface {
	// FetchPending はsinceUIDより後の未読メールを取得します。
	FetchPending(ctx context.Context, sinceUID uint32) ([]mailentity.IncomingEmail, error)
	Archive(ctx context.Context, messageID, outcome string) error
}

// EmailRepository は取り込んだメールのローカル記録を抽象化します。
type EmailRepository interface {
	// GetOrCreate はmessage-idの一意制約により冪等です。既存レコードがあれば
	// そのレコード（保存済みのステータスを含む）を返します。
	GetOrCreate(ctx context.Context, email mailentity.IncomingEmail) (mailentity.IncomingEmail, error)
	UpdateStatus(ctx context.Context, messageID string, status mailentity.EmailStatus, reason string) error
	// MaxUID は記録済みメールの最大IMAP UIDを返します。未取り込みなら0です。
	MaxUID(ctx context.Context) (uint32, error)
}

// Extractor はメール1通から取引候補を抽出します。抽出は失敗してもエラーを
// 返さず、信頼度0の候補を返します。
type Extractor interface {
	Extract(ctx context.Context, in extentity.ExtractionInput) extentity.TransactionCandidate
}

// SymbolResolver は自由記述の銘柄表記を正規ティッカーに解決します。
type SymbolResolver interface {
	Resolve(ctx context.Context, query string) (symentity.Resolution, error)
}

// TransactionGate は候補を取引として確定する唯一の入口です。
type TransactionGate interface {
	Commit(ctx context.Context, c extentity.TransactionCandidate, messageID string) (*txentity.Transaction, error)
}

// ReviewQueue は自動確定できなかった候補の退避先です。
type ReviewQueue interface {
	Enqueue(ctx context.Context, c extentity.TransactionCandidate, messageID, reason string) (*reviewentity.ReviewItem, error)
}

// PipelineUsecase はメール1バッチ分の取り込み処理を実行します。
type PipelineUsecase struct {
	source    MailSource
	emails    EmailRepository
	extractor Extractor
	resolver  SymbolResolver
	gate      TransactionGate
	review    ReviewQueue
	cfg       Config
}

// NewPipelineUsecase は新しい PipelineUsecase を作成します。
func NewPipelineUsecase(source MailSource, emails EmailRepository, extractor Extractor, resolver SymbolResolver, gate TransactionGate, review ReviewQueue, cfg Config) *PipelineUsecase {
	return &PipelineUsecase{
		source:    source,
		emails:    emails,
		extractor: extractor,
		resolver:  resolver,
		gate:      gate,
		review:    review,
		cfg:       cfg,
	}
}

// ProcessAll は前回取り込んだ最大UIDをカーソルとして新着メールを取得し、
// 1通ずつ直列に処理します。取得は指数バックオフでリトライし、リトライが
// 尽きた場合は部分的な処理を行わずエラーを返します（メールボックス不達は
// サービス全体の停止として扱います）。個々のメールの処理失敗はログに残して
// 次のメールへ進みます。
func (u *PipelineUsecase) ProcessAll(ctx context.Context) error {
	cursor, err := u.emails.MaxUID(ctx)
	if err != nil {
		return fmt.Errorf("load uid cursor: %w", err)
	}

	var emails []mailentity.IncomingEmail
	fetch := func() error {
		var ferr error
		emails, ferr = u.source.FetchPending(ctx, cursor)
		return ferr
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), u.cfg.FetchMaxRetries), ctx)
	if err := backoff.Retry(fetch, policy); err != nil {
		return fmt.Errorf("fetch pending emails (after retries): %w", err)
	}

	slog.Info("pipeline run started", "cursor", cursor, "fetched", len(emails))

	for _, email := range emails {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := u.ProcessOne(ctx, email); err != nil {
			slog.Error("email processing failed", "messageID", email.MessageID, "error", err)
			continue
		}
	}
	return nil
}

// ProcessOne はメール1通を処理します。既に処理済み（status != pending）の
// メールはスキップされるため、同じメールを何度取り込んでも結果は変わりません。
func (u *PipelineUsecase) ProcessOne(ctx context.Context, email mailentity.IncomingEmail) error {
	email.Status = mailentity.EmailStatusPending
	stored, err := u.emails.GetOrCreate(ctx, email)
	if err != nil {
		return fmt.Errorf("record email: %w", err)
	}
	if stored.Status != mailentity.EmailStatusPending {
		slog.Info("skipping already-processed email", "messageID", stored.MessageID, "status", stored.Status)
		return nil
	}

	body := stored.TextBody
	if body == "" {
		body = stored.HTMLBody
	}
	candidate := u.extractor.Extract(ctx, extentity.ExtractionInput{
		Subject:    stored.Subject,
		Body:       body,
		From:       stored.FromAddress,
		ReceivedAt: stored.ReceivedAt,
	})

	// シンボルが抽出できなかった場合のみ解決を試みます。解決の信頼度で
	// 候補全体の信頼度を下方修正します（確度の低い解決で自動確定させない）。
	if candidate.Symbol == "" {
		res, rerr := u.resolver.Resolve(ctx, stored.Subject)
		if rerr != nil {
			slog.Warn("symbol resolution failed", "messageID", stored.MessageID, "error", rerr)
		} else if res.Symbol != "" {
			candidate.Symbol = res.Symbol
			if candidate.AssetType == "" {
				candidate.AssetType = extentity.AssetType(res.AssetType)
			}
			if res.Confidence < candidate.Confidence {
				candidate.Confidence = res.Confidence
			}
		}
	}

	return u.route(ctx, candidate, stored)
}

// route は候補の信頼度と充足度に応じて、自動確定かレビューキューかを選びます。
func (u *PipelineUsecase) route(ctx context.Context, candidate extentity.TransactionCandidate, email mailentity.IncomingEmail) error {
	if candidate.Confidence >= u.cfg.ConfidenceThreshold && candidate.HasRequiredTradingFields() {
		_, err := u.gate.Commit(ctx, candidate, email.MessageID)
		switch {
		case err == nil:
			if uerr := u.emails.UpdateStatus(ctx, email.MessageID, mailentity.EmailStatusProcessed, ""); uerr != nil {
				return fmt.Errorf("mark email processed: %w", uerr)
			}
			slog.Info("transaction committed", "messageID", email.MessageID, "symbol", candidate.Symbol)
			return nil
		case errors.Is(err, txusecase.ErrDuplicateMessage) ||
			errors.Is(err, txusecase.ErrNoPortfolioMatch) ||
			errors.Is(err, txusecase.ErrInvalidCandidate):
			// ゲートのビジネス拒否は黙って解決しません。理由付きでレビューキューへ回します。
			return u.enqueue(ctx, candidate, email, err.Error())
		default:
			return fmt.Errorf("commit transaction: %w", err)
		}
	}

	reason := "low extraction confidence"
	if !candidate.HasRequiredTradingFields() {
		reason = "missing required trading fields"
	}
	return u.enqueue(ctx, candidate, email, reason)
}

func (u *PipelineUsecase) enqueue(ctx context.Context, candidate extentity.TransactionCandidate, email mailentity.IncomingEmail, reason string) error {
	if _, err := u.review.Enqueue(ctx, candidate, email.MessageID, reason); err != nil {
		return fmt.Errorf("enqueue review item: %w", err)
	}
	slog.Info("candidate routed to review queue", "messageID", email.MessageID, "reason", reason)
	return nil
}
