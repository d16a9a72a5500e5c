// Package roller exposes the expression engine as the
// roller.v1.ExpressionService gRPC API.
//
// Messages are google.protobuf.Struct values so the service needs no
// generated code. Requests carry "expression", an optional decimal "seed"
// string and an optional "locale"; Evaluate responds with "rolls", "steps",
// "final_result", "seed_used" and "seed_source".
package roller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/louisbranch/diceparser/internal/core/dice"
	"github.com/louisbranch/diceparser/internal/core/expression"
	apperrors "github.com/louisbranch/diceparser/internal/platform/errors"
	"github.com/louisbranch/diceparser/internal/platform/errors/i18n"
	"github.com/louisbranch/diceparser/internal/platform/otel"
	"github.com/louisbranch/diceparser/internal/random"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const tracerName = "github.com/louisbranch/diceparser/internal/services/roller"

// Evaluation is the Evaluate response decoded into Go types.
type Evaluation struct {
	expression.Result
	SeedUsed   string            `json:"seed_used"`
	SeedSource random.SeedSource `json:"seed_source"`
}

// TokenView is one token of a Tokenize response.
type TokenView struct {
	Kind  string `json:"kind"`
	Text  string `json:"text"`
	Count int    `json:"count,omitempty"`
	Faces int    `json:"faces,omitempty"`
	Mode  string `json:"mode,omitempty"`
}

type request struct {
	expression string
	seed       *int64
	locale     string
}

// Service implements ExpressionServer.
type Service struct {
	newRoller     func(seed int64) dice.Roller
	newSeed       func() (int64, error)
	defaultLocale string
}

// Option configures a Service.
type Option func(*Service)

// WithSeedGenerator replaces the server-side seed source.
func WithSeedGenerator(fn func() (int64, error)) Option {
	return func(s *Service) { s.newSeed = fn }
}

// WithRollerFactory replaces how a seeded roller is built for each call.
func WithRollerFactory(fn func(seed int64) dice.Roller) Option {
	return func(s *Service) { s.newRoller = fn }
}

// WithDefaultLocale sets the locale used when a request names none.
func WithDefaultLocale(locale string) Option {
	return func(s *Service) { s.defaultLocale = locale }
}

// NewService creates the expression service. Each call gets its own engine
// over a roller seeded for that call.
func NewService(opts ...Option) *Service {
	s := &Service{
		newRoller: func(seed int64) dice.Roller { return dice.NewSeeded(seed) },
		newSeed:   random.NewSeed,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Evaluate rolls and computes one expression.
func (s *Service) Evaluate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "evaluate request is required")
	}
	req, err := s.parseRequest(in)
	if err != nil {
		return nil, statusError(s.locale(""), err)
	}
	evaluation, err := s.evaluate(ctx, req.expression, req.seed)
	if err != nil {
		return nil, statusError(req.locale, err)
	}
	return toStruct(evaluation)
}

// evaluate resolves the seed, builds an engine for this call and runs it
// inside an expression.evaluate span.
func (s *Service) evaluate(ctx context.Context, expr string, requested *int64) (Evaluation, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "expression.evaluate",
		trace.WithAttributes(attribute.String("expression.text", expr)))
	defer span.End()

	seed, source, err := random.ResolveSeed(requested, s.newSeed)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "resolve seed")
		return Evaluation{}, fmt.Errorf("resolve seed: %w", err)
	}
	span.SetAttributes(
		attribute.Int64("rng.seed", seed),
		attribute.String("rng.seed_source", string(source)),
	)

	result, err := expression.NewEngine(s.newRoller(seed)).Evaluate(expr)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, string(apperrors.GetCode(err)))
		return Evaluation{}, err
	}
	span.SetAttributes(
		attribute.Int("dice.roll_count", len(result.Rolls)),
		attribute.Float64("expression.result", result.FinalResult),
	)
	return Evaluation{
		Result:     result,
		SeedUsed:   strconv.FormatInt(seed, 10),
		SeedSource: source,
	}, nil
}

// Tokenize returns the normalized token sequence of an expression without
// rolling anything.
func (s *Service) Tokenize(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "tokenize request is required")
	}
	req, err := s.parseRequest(in)
	if err != nil {
		return nil, statusError(s.locale(""), err)
	}
	tokens, err := expression.Tokenize(req.expression)
	if err != nil {
		return nil, statusError(req.locale, err)
	}
	return toStruct(struct {
		Tokens []TokenView `json:"tokens"`
	}{Tokens: TokenViews(tokens)})
}

// TokenViews converts tokens to their wire form.
func TokenViews(tokens []expression.Token) []TokenView {
	views := make([]TokenView, len(tokens))
	for i, token := range tokens {
		view := TokenView{Kind: token.Kind.String(), Text: token.Text}
		switch token.Kind {
		case expression.KindDice:
			view.Count, view.Faces = token.Count, token.Faces
		case expression.KindAdvDis:
			view.Faces, view.Mode = token.Faces, token.Mode.String()
		}
		views[i] = view
	}
	return views
}

func (s *Service) parseRequest(in *structpb.Struct) (request, error) {
	fields := in.GetFields()
	req := request{
		expression: fields["expression"].GetStringValue(),
		locale:     s.locale(fields["locale"].GetStringValue()),
	}
	seed, err := random.ParseSeed(fields["seed"].GetStringValue())
	if err != nil {
		return request{}, err
	}
	req.seed = seed
	return req, nil
}

func (s *Service) locale(requested string) string {
	if strings.TrimSpace(requested) != "" {
		return requested
	}
	return s.defaultLocale
}

// statusError converts a domain error into a status carrying a message
// localized for locale. Other errors become Internal.
func statusError(locale string, err error) error {
	var domainErr *apperrors.Error
	if !errors.As(err, &domainErr) {
		log.Printf("unexpected error: %v", err)
		return status.Error(codes.Internal, "internal error")
	}
	resolved, message := i18n.Localize(locale, domainErr)
	return domainErr.ToGRPCStatus(resolved, message)
}

func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out, err := structpb.NewStruct(payload)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func fromStruct(in *structpb.Struct, v any) error {
	data, err := json.Marshal(in.AsMap())
	if err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
