package roller

import (
	"context"
	"strconv"

	"github.com/louisbranch/diceparser/internal/core/expression"
	apperrors "github.com/louisbranch/diceparser/internal/platform/errors"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls a remote expression service.
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient wraps an established connection.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Evaluate sends one expression to the server. A nil seed lets the server
// pick one. Failures are returned as *apperrors.Error; the localized message
// is available through apperrors.LocalizedMessage.
func (c *Client) Evaluate(ctx context.Context, expr string, seed *int64, locale string) (Evaluation, error) {
	fields := map[string]any{"expression": expr}
	if seed != nil {
		fields["seed"] = strconv.FormatInt(*seed, 10)
	}
	if locale != "" {
		fields["locale"] = locale
	}
	out, err := c.invoke(ctx, evaluateMethod, fields)
	if err != nil {
		return Evaluation{}, err
	}
	var evaluation Evaluation
	if err := fromStruct(out, &evaluation); err != nil {
		return Evaluation{}, err
	}
	if evaluation.Rolls == nil {
		evaluation.Rolls = []expression.RollRecord{}
	}
	return evaluation, nil
}

// Tokenize asks the server for the normalized tokens of expr.
func (c *Client) Tokenize(ctx context.Context, expr, locale string) ([]TokenView, error) {
	fields := map[string]any{"expression": expr}
	if locale != "" {
		fields["locale"] = locale
	}
	out, err := c.invoke(ctx, tokenizeMethod, fields)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Tokens []TokenView `json:"tokens"`
	}
	if err := fromStruct(out, &payload); err != nil {
		return nil, err
	}
	return payload.Tokens, nil
}

func (c *Client) invoke(ctx context.Context, method string, fields map[string]any) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method, in, out); err != nil {
		return nil, apperrors.FromGRPCStatus(err)
	}
	return out, nil
}
