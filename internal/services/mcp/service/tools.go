package service

import (
	"fmt"

	"github.com/louisbranch/diceparser/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type mcpRegistrationTarget interface {
	AddTool(*mcp.Tool, any) error
}

func registerExpressionTools(registrar mcpRegistrationTarget, evaluator domain.Evaluator) error {
	if err := registerTool(registrar, domain.EvaluateTool(), domain.EvaluateHandler(evaluator)); err != nil {
		return err
	}
	return registerTool(registrar, domain.TokenizeTool(), domain.TokenizeHandler(evaluator))
}

func registerDiceTools(registrar mcpRegistrationTarget, newSeed func() (int64, error)) error {
	return registerTool(registrar, domain.RollDiceTool(), domain.RollDiceHandler(newSeed))
}

func registerTool(registrar mcpRegistrationTarget, tool *mcp.Tool, handler any) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	return registrar.AddTool(tool, handler)
}
