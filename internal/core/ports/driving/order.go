package driving

import (
	"context"

	"github.com/clinsafe/guardian-cli/internal/core/domain"
)

// OrderService turns natural-language medical orders into structured data.
type OrderService interface {
	// ParseOrder extracts a fixed-schema order from free text, e.g.
	// "Start Robert on 81mg aspirin daily for cardiac protection".
	// When the model output cannot be decoded the returned error is a
	// *domain.ParseError carrying the raw text; callers must not crash on
	// malformed model output.
	ParseOrder(ctx context.Context, text string) (*domain.ParsedOrder, error)
}
