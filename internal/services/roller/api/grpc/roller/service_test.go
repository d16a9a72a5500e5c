package roller

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/louisbranch/diceparser/internal/core/dice"
	apperrors "github.com/louisbranch/diceparser/internal/platform/errors"
	"github.com/louisbranch/diceparser/internal/random"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func replayFactory(faces ...int) Option {
	return WithRollerFactory(func(int64) dice.Roller {
		return dice.New(dice.NewReplay(faces...))
	})
}

func fixedSeed(seed int64) Option {
	return WithSeedGenerator(func() (int64, error) { return seed, nil })
}

func startServer(t *testing.T, svc ExpressionServer) *Client {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	server := grpc.NewServer()
	RegisterExpressionServer(server, svc)
	go func() {
		_ = server.Serve(lis)
	}()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewClient(conn)
}

func mustStruct(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()
	in, err := structpb.NewStruct(fields)
	if err != nil {
		t.Fatalf("new struct: %v", err)
	}
	return in
}

func TestServiceEvaluate(t *testing.T) {
	svc := NewService(replayFactory(4, 3), fixedSeed(99))
	out, err := svc.Evaluate(context.Background(), mustStruct(t, map[string]any{"expression": "2d6+1"}))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	fields := out.GetFields()
	if got := fields["final_result"].GetNumberValue(); got != 8 {
		t.Fatalf("final_result = %v, want 8", got)
	}
	if got := fields["steps"].GetStringValue(); got != "[4+3] + 1" {
		t.Fatalf("steps = %q", got)
	}
	if got := fields["seed_used"].GetStringValue(); got != "99" {
		t.Fatalf("seed_used = %q, want 99", got)
	}
	if got := fields["seed_source"].GetStringValue(); got != string(random.SeedSourceServer) {
		t.Fatalf("seed_source = %q", got)
	}
	rolls := fields["rolls"].GetListValue().GetValues()
	if len(rolls) != 2 {
		t.Fatalf("rolls = %v, want 2 entries", rolls)
	}
	first := rolls[0].GetStructValue().GetFields()
	if first["kind"].GetStringValue() != "d6" || first["value"].GetNumberValue() != 4 {
		t.Fatalf("first roll = %v", first)
	}
}

func TestServiceEvaluateNoDiceHasEmptyRolls(t *testing.T) {
	svc := NewService(fixedSeed(1))
	out, err := svc.Evaluate(context.Background(), mustStruct(t, map[string]any{"expression": "1+2"}))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	rolls := out.GetFields()["rolls"]
	if rolls.GetListValue() == nil || len(rolls.GetListValue().GetValues()) != 0 {
		t.Fatalf("rolls = %v, want empty list", rolls)
	}
}

func TestServiceEvaluateUsesClientSeed(t *testing.T) {
	var seen int64
	svc := NewService(
		WithRollerFactory(func(seed int64) dice.Roller {
			seen = seed
			return dice.NewSeeded(seed)
		}),
		WithSeedGenerator(func() (int64, error) {
			t.Fatal("server seed generated for client seed")
			return 0, nil
		}),
	)
	out, err := svc.Evaluate(context.Background(), mustStruct(t, map[string]any{"expression": "d20", "seed": "42"}))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if seen != 42 {
		t.Fatalf("roller seed = %d, want 42", seen)
	}
	if got := out.GetFields()["seed_source"].GetStringValue(); got != string(random.SeedSourceClient) {
		t.Fatalf("seed_source = %q", got)
	}
}

func TestServiceEvaluateSameSeedSameResult(t *testing.T) {
	svc := NewService()
	in := mustStruct(t, map[string]any{"expression": "3d6 + Adv(d20) + d100", "seed": "7"})
	first, err := svc.Evaluate(context.Background(), in)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	second, err := svc.Evaluate(context.Background(), in)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if first.GetFields()["steps"].GetStringValue() != second.GetFields()["steps"].GetStringValue() {
		t.Fatalf("steps differ: %v vs %v", first.GetFields()["steps"], second.GetFields()["steps"])
	}
}

func TestServiceEvaluateErrors(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]any
		code    apperrors.Code
		locale  string
		message string
	}{
		{
			name:    "empty",
			fields:  map[string]any{"expression": "  "},
			code:    apperrors.CodeEmptyExpression,
			locale:  "en-US",
			message: "Please enter an expression",
		},
		{
			name:    "localized",
			fields:  map[string]any{"expression": "", "locale": "fr"},
			code:    apperrors.CodeEmptyExpression,
			locale:  "fr-FR",
			message: "Veuillez saisir une expression",
		},
		{
			name:    "metadata",
			fields:  map[string]any{"expression": "2x", "locale": "de-DE"},
			code:    apperrors.CodeInvalidCharacter,
			locale:  "de-DE",
			message: "Ungültiges Zeichen: x",
		},
		{
			name:    "bad seed",
			fields:  map[string]any{"expression": "d6", "seed": "abc"},
			code:    apperrors.CodeSeedInvalid,
			locale:  "en-US",
			message: "Seed must be a whole number: abc",
		},
	}
	svc := NewService(fixedSeed(1))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Evaluate(context.Background(), mustStruct(t, tt.fields))
			if status.Code(err) != codes.InvalidArgument {
				t.Fatalf("status code = %v, want InvalidArgument", status.Code(err))
			}
			if got := apperrors.FromGRPCStatus(err).Code; got != tt.code {
				t.Fatalf("code = %s, want %s", got, tt.code)
			}
			locale, message, ok := apperrors.LocalizedMessage(err)
			if !ok {
				t.Fatal("missing localized message")
			}
			if locale != tt.locale || message != tt.message {
				t.Fatalf("localized = %q %q, want %q %q", locale, message, tt.locale, tt.message)
			}
		})
	}
}

func TestServiceDefaultLocale(t *testing.T) {
	svc := NewService(WithDefaultLocale("ja-JP"))
	_, err := svc.Evaluate(context.Background(), mustStruct(t, map[string]any{"expression": "("}))
	locale, _, ok := apperrors.LocalizedMessage(err)
	if !ok || locale != "ja-JP" {
		t.Fatalf("locale = %q, %v", locale, ok)
	}
}

func TestServiceSeedFailure(t *testing.T) {
	svc := NewService(WithSeedGenerator(func() (int64, error) {
		return 0, errors.New("entropy unavailable")
	}))
	_, err := svc.Evaluate(context.Background(), mustStruct(t, map[string]any{"expression": "d6"}))
	if status.Code(err) != codes.Internal {
		t.Fatalf("status code = %v, want Internal", status.Code(err))
	}
}

func TestServiceNilRequest(t *testing.T) {
	svc := NewService()
	if _, err := svc.Evaluate(context.Background(), nil); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("Evaluate(nil) code = %v", status.Code(err))
	}
	if _, err := svc.Tokenize(context.Background(), nil); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("Tokenize(nil) code = %v", status.Code(err))
	}
}

func TestClientEvaluate(t *testing.T) {
	client := startServer(t, NewService(replayFactory(5, 3, 11, 17)))
	seed := int64(5)
	got, err := client.Evaluate(context.Background(), "d100 + Adv(d20)", &seed, "")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got.FinalResult != 59 {
		t.Fatalf("FinalResult = %v, want 59", got.FinalResult)
	}
	if got.SeedUsed != "5" || got.SeedSource != random.SeedSourceClient {
		t.Fatalf("seed = %q %q", got.SeedUsed, got.SeedSource)
	}
	if len(got.Rolls) != 2 {
		t.Fatalf("Rolls = %+v", got.Rolls)
	}
	percentile := got.Rolls[0]
	if percentile.Kind != "d100" || percentile.Value != 42 {
		t.Fatalf("percentile = %+v", percentile)
	}
	if percentile.Tens == nil || *percentile.Tens != 4 || percentile.Units == nil || *percentile.Units != 2 {
		t.Fatalf("percentile parts = %+v", percentile)
	}
	adv := got.Rolls[1]
	if adv.Kind != "Adv(d20)" || adv.Value != 17 || len(adv.Rolls) != 2 {
		t.Fatalf("advantage = %+v", adv)
	}
}

func TestClientEvaluateError(t *testing.T) {
	client := startServer(t, NewService())
	_, err := client.Evaluate(context.Background(), "101d6", nil, "fr-FR")
	if !errors.Is(err, apperrors.New(apperrors.CodeDiceCountExceeded, "")) {
		t.Fatalf("error = %v, want dice count exceeded", err)
	}
	_, message, ok := apperrors.LocalizedMessage(err)
	if !ok || message != "Le nombre de dés ne peut pas dépasser 100" {
		t.Fatalf("localized message = %q, %v", message, ok)
	}
}

func TestClientTokenize(t *testing.T) {
	client := startServer(t, NewService())
	tokens, err := client.Tokenize(context.Background(), "2d6(Dis(d8))", "")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	want := []TokenView{
		{Kind: "Dice", Text: "2d6", Count: 2, Faces: 6},
		{Kind: "Operator", Text: "*"},
		{Kind: "LeftParen", Text: "("},
		{Kind: "AdvDis", Text: "Dis(d8)", Faces: 8, Mode: "Dis"},
		{Kind: "RightParen", Text: ")"},
	}
	if len(tokens) != len(want) {
		t.Fatalf("tokens = %+v", tokens)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Fatalf("token %d = %+v, want %+v", i, tokens[i], want[i])
		}
	}
}

func TestLocalMatchesService(t *testing.T) {
	seed := int64(1234)
	local := NewLocal()
	got, err := local.Evaluate(context.Background(), "3d8 + Dis(d20) - d100", &seed, "")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	out, err := NewService().Evaluate(context.Background(), mustStruct(t, map[string]any{
		"expression": "3d8 + Dis(d20) - d100",
		"seed":       "1234",
	}))
	if err != nil {
		t.Fatalf("service Evaluate: %v", err)
	}
	fields := out.GetFields()
	if got.Steps != fields["steps"].GetStringValue() || got.FinalResult != fields["final_result"].GetNumberValue() {
		t.Fatalf("local = %q %v, service = %v %v", got.Steps, got.FinalResult, fields["steps"], fields["final_result"])
	}
	if got.SeedUsed != "1234" || got.SeedSource != random.SeedSourceClient {
		t.Fatalf("seed = %q %q", got.SeedUsed, got.SeedSource)
	}
}

func TestLocalReturnsDomainErrors(t *testing.T) {
	local := NewLocal(fixedSeed(1))
	_, err := local.Evaluate(context.Background(), "d6 ++ d10", nil, "")
	if apperrors.GetCode(err) != apperrors.CodeInvalidOperatorCombination {
		t.Fatalf("code = %s", apperrors.GetCode(err))
	}
	if _, ok := status.FromError(err); ok {
		t.Fatal("expected a domain error, not a status")
	}
	if _, err := local.Tokenize(context.Background(), "2d6 )", ""); apperrors.GetCode(err) != apperrors.CodeUnmatchedParentheses {
		t.Fatalf("tokenize code = %s", apperrors.GetCode(err))
	}
}
