package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	extentity "mailtrade_backend/internal/feature/extraction/domain/entity"
	mailentity "mailtrade_backend/internal/feature/mailbox/domain/entity"
	"mailtrade_backend/internal/feature/review/domain/entity"
	txentity "mailtrade_backend/internal/feature/transactions/domain/entity"
)

// mockReviewRepository is a mock implementation of the ReviewRepository interface.
type mockReviewRepository struct {
	InsertFunc      func(ctx context.Context, item *entity.ReviewItem) error
	ListPendingFunc func(ctx context.Context) ([]entity.ReviewItem, error)
	FindByIDFunc    func(ctx context.Context, id string) (*entity.ReviewItem, error)
	UpdateFunc      func(ctx context.Context, item *entity.ReviewItem) error
	updated         []*entity.ReviewItem
}

func (m *mockReviewRepository) Insert(ctx context.Context, item *entity.ReviewItem) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, item)
	}
	return nil
}

func (m *mockReviewRepository) ListPending(ctx context.Context) ([]entity.ReviewItem, error) {
	if m.ListPendingFunc != nil {
		return m.ListPendingFunc(ctx)
	}
	return nil, nil
}

func (m *mockReviewRepository) FindByID(ctx context.Context, id string) (*entity.ReviewItem, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrReviewItemNotFound
}

func (m *mockReviewRepository) Update(ctx context.Context, item *entity.ReviewItem) error {
	m.updated = append(m.updated, item)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, item)
	}
	return nil
}

// mockGate is a mock implementation of the TransactionGate interface.
type mockGate struct {
	CommitFunc func(ctx context.Context, c extentity.TransactionCandidate, messageID string) (*txentity.Transaction, error)
	calls      int
}

func (m *mockGate) Commit(ctx context.Context, c extentity.TransactionCandidate, messageID string) (*txentity.Transaction, error) {
	m.calls++
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx, c, messageID)
	}
	return &txentity.Transaction{ID: 1, SourceMessageID: messageID}, nil
}

// mockArchiver is a mock implementation of the MailArchiver interface.
type mockArchiver struct {
	ArchiveFunc func(ctx context.Context, messageID, outcome string) error
	calls       int
	outcomes    []string
}

func (m *mockArchiver) Archive(ctx context.Context, messageID, outcome string) error {
	m.calls++
	m.outcomes = append(m.outcomes, outcome)
	if m.ArchiveFunc != nil {
		return m.ArchiveFunc(ctx, messageID, outcome)
	}
	return nil
}

// mockEmailStatusStore is a mock implementation of the EmailStatusStore interface.
type mockEmailStatusStore struct {
	UpdateStatusFunc func(ctx context.Context, messageID string, status mailentity.EmailStatus, reason string) error
	statuses         []mailentity.EmailStatus
}

func (m *mockEmailStatusStore) UpdateStatus(ctx context.Context, messageID string, status mailentity.EmailStatus, reason string) error {
	m.statuses = append(m.statuses, status)
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, messageID, status, reason)
	}
	return nil
}

func pendingItem(id string) *entity.ReviewItem {
	return &entity.ReviewItem{
		ID:        id,
		MessageID: "<msg-1@broker>",
		Candidate: extentity.TransactionCandidate{
			Symbol:          "AAPL",
			AssetType:       extentity.AssetTypeStock,
			TransactionType: extentity.TransactionTypeBuy,
			Quantity:        decimal.NewFromInt(15),
			Price:           decimal.RequireFromString("166.67"),
		},
		Reason: "low extraction confidence",
		Status: entity.ReviewStatusPending,
	}
}

func TestReviewUsecase_Enqueue(t *testing.T) {
	t.Parallel()

	t.Run("enqueues pending and marks the email", func(t *testing.T) {
		t.Parallel()

		repo := &mockReviewRepository{}
		emails := &mockEmailStatusStore{}
		uc := NewReviewUsecase(repo, &mockGate{}, &mockArchiver{}, emails)

		item, err := uc.Enqueue(context.Background(), extentity.TransactionCandidate{Symbol: "AAPL"}, "<msg-1@broker>", "low extraction confidence")
		require.NoError(t, err)

		assert.NotEmpty(t, item.ID, "a fresh UUID is assigned")
		assert.Equal(t, entity.ReviewStatusPending, item.Status)
		assert.Equal(t, "low extraction confidence", item.Reason)
		require.Len(t, emails.statuses, 1)
		assert.Equal(t, mailentity.EmailStatusReview, emails.statuses[0])
	})

	t.Run("insert failure propagates", func(t *testing.T) {
		t.Parallel()

		repo := &mockReviewRepository{
			InsertFunc: func(_ context.Context, _ *entity.ReviewItem) error {
				return errors.New("disk full")
			},
		}
		uc := NewReviewUsecase(repo, &mockGate{}, &mockArchiver{}, &mockEmailStatusStore{})

		_, err := uc.Enqueue(context.Background(), extentity.TransactionCandidate{}, "<msg-1@broker>", "x")
		assert.Error(t, err)
	})
}

func TestReviewUsecase_Approve(t *testing.T) {
	t.Parallel()

	t.Run("approval commits exactly one transaction", func(t *testing.T) {
		t.Parallel()

		repo := &mockReviewRepository{
			FindByIDFunc: func(_ context.Context, id string) (*entity.ReviewItem, error) {
				return pendingItem(id), nil
			},
		}
		gate := &mockGate{}
		emails := &mockEmailStatusStore{}
		uc := NewReviewUsecase(repo, gate, &mockArchiver{}, emails)

		tx, err := uc.Approve(context.Background(), "item-1", "verified against statement")
		require.NoError(t, err)
		require.NotNil(t, tx)

		assert.Equal(t, 1, gate.calls)
		require.Len(t, repo.updated, 1)
		assert.Equal(t, entity.ReviewStatusApproved, repo.updated[0].Status)
		assert.Equal(t, "verified against statement", repo.updated[0].ReviewerNotes)
		assert.NotNil(t, repo.updated[0].DecidedAt)
		require.Len(t, emails.statuses, 1)
		assert.Equal(t, mailentity.EmailStatusProcessed, emails.statuses[0])
	})

	t.Run("terminal item cannot be approved again", func(t *testing.T) {
		t.Parallel()

		repo := &mockReviewRepository{
			FindByIDFunc: func(_ context.Context, id string) (*entity.ReviewItem, error) {
				item := pendingItem(id)
				item.Status = entity.ReviewStatusApproved
				return item, nil
			},
		}
		gate := &mockGate{}
		uc := NewReviewUsecase(repo, gate, &mockArchiver{}, &mockEmailStatusStore{})

		_, err := uc.Approve(context.Background(), "item-1", "")
		assert.ErrorIs(t, err, ErrReviewItemTerminal)
		assert.Equal(t, 0, gate.calls)
	})

	t.Run("gate rejection keeps the item pending", func(t *testing.T) {
		t.Parallel()

		repo := &mockReviewRepository{
			FindByIDFunc: func(_ context.Context, id string) (*entity.ReviewItem, error) {
				return pendingItem(id), nil
			},
		}
		gateErr := errors.New("transaction already exists for message-id")
		gate := &mockGate{
			CommitFunc: func(_ context.Context, _ extentity.TransactionCandidate, _ string) (*txentity.Transaction, error) {
				return nil, gateErr
			},
		}
		uc := NewReviewUsecase(repo, gate, &mockArchiver{}, &mockEmailStatusStore{})

		_, err := uc.Approve(context.Background(), "item-1", "")
		assert.ErrorIs(t, err, gateErr)
		assert.Empty(t, repo.updated, "item stays pending when the gate refuses")
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()

		uc := NewReviewUsecase(&mockReviewRepository{}, &mockGate{}, &mockArchiver{}, &mockEmailStatusStore{})

		_, err := uc.Approve(context.Background(), "no-such-item", "")
		assert.ErrorIs(t, err, ErrReviewItemNotFound)
	})
}

func TestReviewUsecase_Reject(t *testing.T) {
	t.Parallel()

	t.Run("rejection archives the email and commits nothing", func(t *testing.T) {
		t.Parallel()

		repo := &mockReviewRepository{
			FindByIDFunc: func(_ context.Context, id string) (*entity.ReviewItem, error) {
				return pendingItem(id), nil
			},
		}
		gate := &mockGate{}
		archiver := &mockArchiver{}
		emails := &mockEmailStatusStore{}
		uc := NewReviewUsecase(repo, gate, archiver, emails)

		err := uc.Reject(context.Background(), "item-1", "not a trade")
		require.NoError(t, err)

		assert.Equal(t, 0, gate.calls, "rejection never creates a transaction")
		require.Len(t, repo.updated, 1)
		assert.Equal(t, entity.ReviewStatusRejected, repo.updated[0].Status)
		require.Len(t, emails.statuses, 1)
		assert.Equal(t, mailentity.EmailStatusError, emails.statuses[0])
		require.Equal(t, 1, archiver.calls)
		assert.Equal(t, []string{"rejected"}, archiver.outcomes)
	})

	t.Run("terminal item cannot be rejected again", func(t *testing.T) {
		t.Parallel()

		repo := &mockReviewRepository{
			FindByIDFunc: func(_ context.Context, id string) (*entity.ReviewItem, error) {
				item := pendingItem(id)
				item.Status = entity.ReviewStatusRejected
				now := time.Now()
				item.DecidedAt = &now
				return item, nil
			},
		}
		uc := NewReviewUsecase(repo, &mockGate{}, &mockArchiver{}, &mockEmailStatusStore{})

		err := uc.Reject(context.Background(), "item-1", "")
		assert.ErrorIs(t, err, ErrReviewItemTerminal)
	})

	t.Run("archive failure does not undo the rejection", func(t *testing.T) {
		t.Parallel()

		repo := &mockReviewRepository{
			FindByIDFunc: func(_ context.Context, id string) (*entity.ReviewItem, error) {
				return pendingItem(id), nil
			},
		}
		archiver := &mockArchiver{
			ArchiveFunc: func(_ context.Context, _, _ string) error {
				return errors.New("mailbox unreachable")
			},
		}
		uc := NewReviewUsecase(repo, &mockGate{}, archiver, &mockEmailStatusStore{})

		err := uc.Reject(context.Background(), "item-1", "")
		assert.NoError(t, err)
	})
}
