package domain

import (
	"context"

	"github.com/louisbranch/diceparser/internal/core/dice"
	"github.com/louisbranch/diceparser/internal/random"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RollDiceSpec represents an MCP die specification for a roll.
type RollDiceSpec struct {
	Sides int `json:"sides" jsonschema:"number of sides for the die"`
	Count int `json:"count" jsonschema:"number of dice to roll"`
}

// RollDiceInput represents the MCP tool input for rolling dice.
type RollDiceInput struct {
	Dice   []RollDiceSpec `json:"dice" jsonschema:"dice specifications to roll"`
	Locale string         `json:"locale,omitempty" jsonschema:"optional locale for error messages"`
	Rng    *RngRequest    `json:"rng,omitempty" jsonschema:"optional rng configuration"`
}

// RollDiceRoll represents the results for a single dice spec.
type RollDiceRoll struct {
	Sides   int   `json:"sides" jsonschema:"number of sides for the die"`
	Results []int `json:"results" jsonschema:"individual roll results"`
	Total   int   `json:"total" jsonschema:"sum of the roll results"`
}

// RollDiceResult represents the MCP tool output for rolling dice.
type RollDiceResult struct {
	Rolls []RollDiceRoll `json:"rolls" jsonschema:"results for each dice spec"`
	Total int            `json:"total" jsonschema:"sum of all roll totals"`
	Rng   *RngResult     `json:"rng,omitempty" jsonschema:"rng details"`
}

// RollDiceTool defines the MCP tool schema for rolling dice.
func RollDiceTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_dice",
		Description: "Rolls arbitrary dice pools",
	}
}

// RollDiceHandler rolls plain dice pools in process. newSeed supplies the
// seed when the input carries none; nil uses random.NewSeed.
func RollDiceHandler(newSeed func() (int64, error)) mcp.ToolHandlerFor[RollDiceInput, RollDiceResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input RollDiceInput) (*mcp.CallToolResult, RollDiceResult, error) {
		requested, err := input.Rng.seed()
		if err != nil {
			return nil, RollDiceResult{}, toolError(input.Locale, err)
		}
		seed, source, err := random.ResolveSeed(requested, newSeed)
		if err != nil {
			return nil, RollDiceResult{}, toolError(input.Locale, err)
		}

		specs := make([]dice.Spec, 0, len(input.Dice))
		for _, spec := range input.Dice {
			specs = append(specs, dice.Spec{Sides: spec.Sides, Count: spec.Count})
		}
		pool, err := dice.RollPool(dice.NewSeeded(seed), specs)
		if err != nil {
			return nil, RollDiceResult{}, toolError(input.Locale, err)
		}

		rolls := make([]RollDiceRoll, 0, len(pool.Rolls))
		for _, roll := range pool.Rolls {
			rolls = append(rolls, RollDiceRoll{
				Sides:   roll.Sides,
				Results: roll.Results,
				Total:   roll.Total,
			})
		}
		return nil, RollDiceResult{
			Rolls: rolls,
			Total: pool.Total,
			Rng: &RngResult{
				SeedUsed:   seedLabel(seed),
				SeedSource: string(source),
			},
		}, nil
	}
}
