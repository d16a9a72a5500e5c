package domain

import (
	"context"

	"github.com/louisbranch/diceparser/internal/services/roller/api/grpc/roller"
)

// Evaluator evaluates and tokenizes dice expressions. *roller.Client
// evaluates remotely and *roller.Local in process.
type Evaluator interface {
	Evaluate(ctx context.Context, expr string, seed *int64, locale string) (roller.Evaluation, error)
	Tokenize(ctx context.Context, expr, locale string) ([]roller.TokenView, error)
}
