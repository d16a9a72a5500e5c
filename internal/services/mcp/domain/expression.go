package domain

import (
	"context"
	"fmt"
	"strconv"

	"github.com/louisbranch/diceparser/internal/platform/timeouts"
	"github.com/louisbranch/diceparser/internal/random"
	"github.com/louisbranch/diceparser/internal/services/roller/api/grpc/roller"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RngRequest represents optional RNG configuration for a roll.
type RngRequest struct {
	Seed string `json:"seed,omitempty" jsonschema:"optional decimal seed for deterministic rolls, as returned in seed_used"`
}

// seed parses the requested seed. A nil request or an empty seed yields nil.
func (r *RngRequest) seed() (*int64, error) {
	if r == nil {
		return nil, nil
	}
	return random.ParseSeed(r.Seed)
}

// RngResult represents RNG details used for a roll.
type RngResult struct {
	SeedUsed   string `json:"seed_used" jsonschema:"decimal seed value used for the roll"`
	SeedSource string `json:"seed_source" jsonschema:"seed source (client or server)"`
}

// EvaluateInput represents the MCP tool input for evaluating an expression.
type EvaluateInput struct {
	Expression string      `json:"expression" jsonschema:"dice expression such as 2d6 + 3 or Adv(d20) + 5"`
	Locale     string      `json:"locale,omitempty" jsonschema:"optional locale for error messages (e.g. en-US or fr-FR)"`
	Rng        *RngRequest `json:"rng,omitempty" jsonschema:"optional rng configuration"`
}

// RollRecord represents one resolved die or advantage pair.
type RollRecord struct {
	Kind  string `json:"kind" jsonschema:"roll label such as d6, d100 or Adv(d20)"`
	Value int    `json:"value" jsonschema:"value contributed to the expression"`
	Tens  *int   `json:"tens,omitempty" jsonschema:"tens digit of a percentile roll"`
	Units *int   `json:"units,omitempty" jsonschema:"units digit of a percentile roll"`
	Rolls []int  `json:"rolls,omitempty" jsonschema:"both dice of an advantage or disadvantage roll"`
}

// EvaluateResult represents the MCP tool output for an evaluated expression.
type EvaluateResult struct {
	FinalResult float64      `json:"final_result" jsonschema:"computed value of the expression"`
	Steps       string       `json:"steps" jsonschema:"expression with every roll shown in place"`
	Rolls       []RollRecord `json:"rolls" jsonschema:"every die rolled, in expression order"`
	Rng         *RngResult   `json:"rng,omitempty" jsonschema:"rng details"`
}

// TokenizeInput represents the MCP tool input for tokenizing an expression.
type TokenizeInput struct {
	Expression string `json:"expression" jsonschema:"dice expression to tokenize"`
	Locale     string `json:"locale,omitempty" jsonschema:"optional locale for error messages"`
}

// Token represents one lexical unit of an expression.
type Token struct {
	Kind  string `json:"kind" jsonschema:"token kind (Number, Dice, AdvDis, Operator, LeftParen, RightParen)"`
	Text  string `json:"text" jsonschema:"source spelling of the token"`
	Count int    `json:"count,omitempty" jsonschema:"dice count for Dice tokens"`
	Faces int    `json:"faces,omitempty" jsonschema:"die faces for Dice and AdvDis tokens"`
	Mode  string `json:"mode,omitempty" jsonschema:"Adv or Dis for AdvDis tokens"`
}

// TokenizeResult represents the MCP tool output for a tokenized expression.
type TokenizeResult struct {
	Tokens []Token `json:"tokens" jsonschema:"normalized tokens with implicit multiplication inserted"`
}

// EvaluateTool defines the MCP tool schema for evaluating expressions.
func EvaluateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "evaluate_dice_expression",
		Description: "Rolls the dice in an expression and computes its value, e.g. 2d6 + 3, d100, Adv(d20) + 5 or 2(d6 + 1)",
	}
}

// TokenizeTool defines the MCP tool schema for tokenizing expressions.
func TokenizeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "tokenize_dice_expression",
		Description: "Splits a dice expression into tokens without rolling",
	}
}

// EvaluateHandler evaluates an expression through evaluator.
func EvaluateHandler(evaluator Evaluator) mcp.ToolHandlerFor[EvaluateInput, EvaluateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EvaluateInput) (*mcp.CallToolResult, EvaluateResult, error) {
		if evaluator == nil {
			return nil, EvaluateResult{}, fmt.Errorf("evaluator is not configured")
		}
		seed, err := input.Rng.seed()
		if err != nil {
			return nil, EvaluateResult{}, toolError(input.Locale, err)
		}

		runCtx, cancel := context.WithTimeout(ctx, timeouts.GRPCRequest)
		defer cancel()

		evaluation, err := evaluator.Evaluate(runCtx, input.Expression, seed, input.Locale)
		if err != nil {
			return nil, EvaluateResult{}, toolError(input.Locale, err)
		}
		return nil, evaluateResult(evaluation), nil
	}
}

// TokenizeHandler tokenizes an expression through evaluator.
func TokenizeHandler(evaluator Evaluator) mcp.ToolHandlerFor[TokenizeInput, TokenizeResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TokenizeInput) (*mcp.CallToolResult, TokenizeResult, error) {
		if evaluator == nil {
			return nil, TokenizeResult{}, fmt.Errorf("evaluator is not configured")
		}

		runCtx, cancel := context.WithTimeout(ctx, timeouts.GRPCRequest)
		defer cancel()

		views, err := evaluator.Tokenize(runCtx, input.Expression, input.Locale)
		if err != nil {
			return nil, TokenizeResult{}, toolError(input.Locale, err)
		}
		tokens := make([]Token, len(views))
		for i, view := range views {
			tokens[i] = Token(view)
		}
		return nil, TokenizeResult{Tokens: tokens}, nil
	}
}

func evaluateResult(evaluation roller.Evaluation) EvaluateResult {
	rolls := make([]RollRecord, len(evaluation.Rolls))
	for i, roll := range evaluation.Rolls {
		rolls[i] = RollRecord(roll)
	}
	result := EvaluateResult{
		FinalResult: evaluation.FinalResult,
		Steps:       evaluation.Steps,
		Rolls:       rolls,
	}
	if evaluation.SeedUsed != "" {
		result.Rng = &RngResult{
			SeedUsed:   evaluation.SeedUsed,
			SeedSource: string(evaluation.SeedSource),
		}
	}
	return result
}

// seedLabel renders a seed for log lines and result text.
func seedLabel(seed int64) string {
	return strconv.FormatInt(seed, 10)
}
