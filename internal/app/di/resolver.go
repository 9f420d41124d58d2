package di

import (
	"context"
	"log"

	symgemini "mailtrade_backend/internal/feature/symbols/adapters/gemini"
	symusecase "mailtrade_backend/internal/feature/symbols/usecase"
)

// NewSymbolResolver creates a Resolver implementation.
// If the Gemini client is available, it returns the live resolver that can
// consult the model for unknown company names.
// Otherwise, it falls back to the deterministic table-and-token resolver.
func NewSymbolResolver(ctx context.Context) symusecase.Resolver {
	model, err := symgemini.NewLookupClient(ctx)
	if err != nil {
		log.Println("[WARN] Gemini unavailable for symbol lookup. Using deterministic resolver:", err)
		return symusecase.NewDeterministicFallbackResolver()
	}
	return symusecase.NewLiveResolver(model)
}
