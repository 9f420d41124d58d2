package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"mailtrade_backend/internal/feature/extraction/domain/entity"
)

// mockAIExtractor is a mock implementation of the AIExtractor interface.
type mockAIExtractor struct {
	// ExtractFunc is called when the Extract method is invoked.
	ExtractFunc func(ctx context.Context, in entity.ExtractionInput) (entity.TransactionCandidate, error)
	calls       int
}

// Extract is the mock implementation of the Extract method.
func (m *mockAIExtractor) Extract(ctx context.Context, in entity.ExtractionInput) (entity.TransactionCandidate, error) {
	m.calls++
	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, in)
	}
	return entity.TransactionCandidate{}, errors.New("not configured")
}

// mockRateLimiter counts WaitIfNeeded calls without sleeping.
type mockRateLimiter struct {
	waits int
}

func (m *mockRateLimiter) WaitIfNeeded(_ context.Context) { m.waits++ }

func TestExtractUsecase_Extract(t *testing.T) {
	t.Parallel()

	received := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	t.Run("heuristic success skips the model", func(t *testing.T) {
		t.Parallel()

		ai := &mockAIExtractor{}
		limiter := &mockRateLimiter{}
		uc := NewExtractUsecase(NewHeuristicExtractor(), ai, limiter)

		c := uc.Extract(context.Background(), entity.ExtractionInput{
			Subject:    "Trade Confirmation",
			Body:       "Bought 15 shares of AAPL at $166.67 total $2500.00",
			ReceivedAt: received,
		})

		assert.Equal(t, 1.0, c.Confidence)
		assert.Equal(t, "AAPL", c.Symbol)
		assert.Equal(t, 0, ai.calls, "model must not be called when heuristics suffice")
		assert.Equal(t, 0, limiter.waits)
	})

	t.Run("insufficient heuristics fall back to the model", func(t *testing.T) {
		t.Parallel()

		want := entity.TransactionCandidate{
			Symbol:          "SHOP",
			AssetType:       entity.AssetTypeStock,
			TransactionType: entity.TransactionTypeBuy,
			Quantity:        decimal.NewFromInt(5),
			Price:           decimal.RequireFromString("98.20"),
			Confidence:      0.9,
			ParsingType:     entity.ParsingTypeTrading,
		}
		ai := &mockAIExtractor{
			ExtractFunc: func(_ context.Context, _ entity.ExtractionInput) (entity.TransactionCandidate, error) {
				return want, nil
			},
		}
		limiter := &mockRateLimiter{}
		uc := NewExtractUsecase(NewHeuristicExtractor(), ai, limiter)

		c := uc.Extract(context.Background(), entity.ExtractionInput{
			Subject:    "Your order",
			Body:       "Your purchase of five Shopify shares went through.",
			ReceivedAt: received,
		})

		assert.Equal(t, want, c)
		assert.Equal(t, 1, ai.calls)
		assert.Equal(t, 1, limiter.waits, "rate limiter must gate the model call")
	})

	t.Run("model failure yields a zero-confidence candidate", func(t *testing.T) {
		t.Parallel()

		ai := &mockAIExtractor{
			ExtractFunc: func(_ context.Context, _ entity.ExtractionInput) (entity.TransactionCandidate, error) {
				return entity.TransactionCandidate{}, errors.New("deadline exceeded")
			},
		}
		uc := NewExtractUsecase(NewHeuristicExtractor(), ai, &mockRateLimiter{})

		c := uc.Extract(context.Background(), entity.ExtractionInput{
			Subject:    "Unreadable notice",
			Body:       "img src only",
			ReceivedAt: received,
		})

		assert.Equal(t, 0.0, c.Confidence)
		assert.Equal(t, entity.ParsingTypeUnknown, c.ParsingType)
		assert.Contains(t, c.Notes, "ai extraction failed")
		assert.Equal(t, "2025-03-01", c.TransactionDate)
	})
}
