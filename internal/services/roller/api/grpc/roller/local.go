package roller

import (
	"context"

	"github.com/louisbranch/diceparser/internal/core/expression"
)

// Local runs the service in process and returns the same values a Client
// would. Errors are the engine's domain errors, not gRPC statuses, so
// callers localize them themselves.
type Local struct {
	svc *Service
}

// NewLocal returns an in-process evaluator configured like NewService.
func NewLocal(opts ...Option) *Local {
	return &Local{svc: NewService(opts...)}
}

// Evaluate rolls and computes expr. A nil seed draws a fresh one.
func (l *Local) Evaluate(ctx context.Context, expr string, seed *int64, _ string) (Evaluation, error) {
	return l.svc.evaluate(ctx, expr, seed)
}

// Tokenize returns the normalized tokens of expr.
func (l *Local) Tokenize(_ context.Context, expr, _ string) ([]TokenView, error) {
	tokens, err := expression.Tokenize(expr)
	if err != nil {
		return nil, err
	}
	return TokenViews(tokens), nil
}
