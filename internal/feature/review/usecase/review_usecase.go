package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	extentity "mailtrade_backend/internal/feature/extraction/domain/entity"
	mailentity "mailtrade_backend/internal/feature/mailbox/domain/entity"
	"mailtrade_backend/internal/feature/review/domain/entity"
	txentity "mailtrade_backend/internal/feature/transactions/domain/entity"
)

// ReviewRepository はレビューアイテムの永続化を抽象化するリポジトリインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type ReviewRepository interface {
	Insert(ctx context.Context, item *entity.ReviewItem) error
	ListPending(ctx context.Context) ([]entity.ReviewItem, error)
	FindByID(ctx context.Context, id string) (*entity.ReviewItem, error)
	Update(ctx context.Context, item *entity.ReviewItem) error
}

// TransactionGate は候補を取引として確定する唯一の入口
// （デデュープ＆永続化ゲート）のインターフェースです。
type TransactionGate interface {
	Commit(ctx context.Context, c extentity.TransactionCandidate, messageID string) (*txentity.Transaction, error)
}

// MailArchiver は却下されたメールのアーカイブに使用します。
type MailArchiver interface {
	Archive(ctx context.Context, messageID, outcome string) error
}

// EmailStatusStore はメールの処理ステータスの更新を抽象化します。
type EmailStatusStore interface {
	UpdateStatus(ctx context.Context, messageID string, status mailentity.EmailStatus, reason string) error
}

// ReviewUsecase はレビューキュー（手動フォールバック）のビジネスロジックを提供します。
type ReviewUsecase struct {
	repo     ReviewRepository
	gate     TransactionGate
	archiver MailArchiver
	emails   EmailStatusStore
}

// NewReviewUsecase は新しい ReviewUsecase を作成します。
func NewReviewUsecase(repo ReviewRepository, gate TransactionGate, archiver MailArchiver, emails EmailStatusStore) *ReviewUsecase {
	return &ReviewUsecase{repo: repo, gate: gate, archiver: archiver, emails: emails}
}

// Enqueue は候補をpending状態でレビューキューに積み、メールのステータスを
// review（理由付き）に更新します。信頼度不足や競合のあるメールは黙って
// 捨てられることなく、理由とともにキューへ蓄積されます。
func (u *ReviewUsecase) Enqueue(ctx context.Context, c extentity.TransactionCandidate, messageID, reason string) (*entity.ReviewItem, error) {
	item := &entity.ReviewItem{
		ID:        uuid.NewString(),
		MessageID: messageID,
		Candidate: c,
		Reason:    reason,
		Status:    entity.ReviewStatusPending,
	}
	if err := u.repo.Insert(ctx, item); err != nil {
		return nil, fmt.Errorf("enqueue review item for %q: %w", messageID, err)
	}
	if err := u.emails.UpdateStatus(ctx, messageID, mailentity.EmailStatusReview, reason); err != nil {
		slog.Warn("failed to mark email for review", "message_id", messageID, "error", err)
	}
	return item, nil
}

// ListPending は判断待ちのレビューアイテムを返します。
func (u *ReviewUsecase) ListPending(ctx context.Context) ([]entity.ReviewItem, error) {
	return u.repo.ListPending(ctx)
}

// Approve はpendingのアイテムを承認し、永続化ゲート経由でTransactionを
// ちょうど1件作成します。終端状態のアイテムにはErrReviewItemTerminalを返します。
// ゲートが拒否した場合（重複など）はエラーを返し、アイテムはpendingのまま残ります。
func (u *ReviewUsecase) Approve(ctx context.Context, id, notes string) (*txentity.Transaction, error) {
	item, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.IsTerminal() {
		return nil, ErrReviewItemTerminal
	}

	tx, err := u.gate.Commit(ctx, item.Candidate, item.MessageID)
	if err != nil {
		return nil, fmt.Errorf("commit approved candidate for %q: %w", item.MessageID, err)
	}

	now := time.Now()
	item.Status = entity.ReviewStatusApproved
	item.ReviewerNotes = notes
	item.DecidedAt = &now
	if err := u.repo.Update(ctx, item); err != nil {
		// 取引は確定済み。アイテム更新の失敗はログに留める（再承認は重複として弾かれる）
		slog.Warn("transaction committed but review item update failed", "id", id, "error", err)
	}
	if err := u.emails.UpdateStatus(ctx, item.MessageID, mailentity.EmailStatusProcessed, "approved by reviewer"); err != nil {
		slog.Warn("failed to mark email processed", "message_id", item.MessageID, "error", err)
	}
	return tx, nil
}

// Reject はpendingのアイテムを却下し、元のメールを却下理由とともに
// アーカイブします。候補は破棄され、Transactionは作成されません。
func (u *ReviewUsecase) Reject(ctx context.Context, id, notes string) error {
	item, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if item.IsTerminal() {
		return ErrReviewItemTerminal
	}

	now := time.Now()
	item.Status = entity.ReviewStatusRejected
	item.ReviewerNotes = notes
	item.DecidedAt = &now
	if err := u.repo.Update(ctx, item); err != nil {
		return fmt.Errorf("reject review item %q: %w", id, err)
	}

	reason := "rejected by reviewer"
	if notes != "" {
		reason += ": " + notes
	}
	if err := u.emails.UpdateStatus(ctx, item.MessageID, mailentity.EmailStatusError, reason); err != nil {
		slog.Warn("failed to record rejection on email", "message_id", item.MessageID, "error", err)
	}
	// アーカイブはベストエフォート。失敗しても却下は確定している
	if err := u.archiver.Archive(ctx, item.MessageID, "rejected"); err != nil {
		slog.Warn("failed to archive rejected email", "message_id", item.MessageID, "error", err)
	}
	return nil
}
