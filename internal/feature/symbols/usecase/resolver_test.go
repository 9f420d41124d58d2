package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailtrade_backend/internal/feature/symbols/domain/entity"
)

// mockLookupModel is a mock implementation of the SymbolLookupModel interface.
type mockLookupModel struct {
	// LookupSymbolFunc is called when the LookupSymbol method is invoked.
	LookupSymbolFunc func(ctx context.Context, query string) (entity.Resolution, error)
	calls            int
}

// LookupSymbol is the mock implementation of the LookupSymbol method.
func (m *mockLookupModel) LookupSymbol(ctx context.Context, query string) (entity.Resolution, error) {
	m.calls++
	if m.LookupSymbolFunc != nil {
		return m.LookupSymbolFunc(ctx, query)
	}
	return entity.Resolution{}, errors.New("not configured")
}

// TestDeterministicFallbackResolver_Resolve はモデルなし解決の挙動を検証します。
func TestDeterministicFallbackResolver_Resolve(t *testing.T) {
	t.Parallel()

	r := NewDeterministicFallbackResolver()

	tests := []struct {
		name           string
		query          string
		wantSymbol     string
		wantConfidence float64
	}{
		{
			name:           "known company name",
			query:          "Apple Inc",
			wantSymbol:     "AAPL",
			wantConfidence: 1.0,
		},
		{
			name:           "ticker-looking token",
			query:          "Your SHOP order was filled",
			wantSymbol:     "SHOP",
			wantConfidence: 0.7,
		},
		{
			name:           "no ticker token falls back to stripped query",
			query:          "some unknown fund",
			wantSymbol:     "SOMEUNKNOWNFUND",
			wantConfidence: 0.3,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := r.Resolve(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSymbol, res.Symbol)
			assert.Equal(t, tt.wantConfidence, res.Confidence)
		})
	}
}

// TestLiveResolver_Resolve はテーブル→モデル→フォールバックのカスケードを検証します。
func TestLiveResolver_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("exact table match skips the model", func(t *testing.T) {
		t.Parallel()

		model := &mockLookupModel{}
		r := NewLiveResolver(model)

		res, err := r.Resolve(context.Background(), "microsoft")
		require.NoError(t, err)
		assert.Equal(t, "MSFT", res.Symbol)
		assert.Equal(t, 1.0, res.Confidence)
		assert.Equal(t, 0, model.calls, "model must not be consulted for table hits")
	})

	t.Run("unknown name goes to the model", func(t *testing.T) {
		t.Parallel()

		model := &mockLookupModel{
			LookupSymbolFunc: func(_ context.Context, _ string) (entity.Resolution, error) {
				return entity.Resolution{Symbol: " brk.b ", AssetType: "stock", Confidence: 0.85}, nil
			},
		}
		r := NewLiveResolver(model)

		res, err := r.Resolve(context.Background(), "Berkshire Hathaway class B")
		require.NoError(t, err)
		assert.Equal(t, "BRK.B", res.Symbol, "model output is trimmed and upper-cased")
		assert.Equal(t, 0.85, res.Confidence)
		assert.Equal(t, 1, model.calls)
	})

	t.Run("model failure falls back deterministically", func(t *testing.T) {
		t.Parallel()

		model := &mockLookupModel{
			LookupSymbolFunc: func(_ context.Context, _ string) (entity.Resolution, error) {
				return entity.Resolution{}, errors.New("quota exceeded")
			},
		}
		r := NewLiveResolver(model)

		res, err := r.Resolve(context.Background(), "order for XYZ filled")
		require.NoError(t, err, "resolution never propagates model errors")
		assert.Equal(t, "XYZ", res.Symbol)
		assert.Equal(t, 0.7, res.Confidence)
	})

	t.Run("empty model answer falls back deterministically", func(t *testing.T) {
		t.Parallel()

		model := &mockLookupModel{
			LookupSymbolFunc: func(_ context.Context, _ string) (entity.Resolution, error) {
				return entity.Resolution{Symbol: "  "}, nil
			},
		}
		r := NewLiveResolver(model)

		res, err := r.Resolve(context.Background(), "order for XYZ filled")
		require.NoError(t, err)
		assert.Equal(t, "XYZ", res.Symbol)
	})
}
