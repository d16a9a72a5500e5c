package service

import (
	"fmt"

	"github.com/louisbranch/diceparser/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type mcpRegistrationModule struct {
	name     string
	register func(mcpRegistrationTarget) error
}

const (
	mcpExpressionToolsModuleName = "expression-tools"
	mcpDiceToolsModuleName       = "dice-tools"
)

type mcpServerRegistrationAdapter struct {
	server *mcp.Server
}

func (r mcpServerRegistrationAdapter) AddTool(tool *mcp.Tool, handler any) error {
	return addMCPTool(r.server, tool, handler)
}

type mcpToolRegistrar struct {
	matches func(any) bool
	add     func(*mcp.Server, *mcp.Tool, any)
}

func newMCPToolRegistrar[I any, O any]() mcpToolRegistrar {
	return mcpToolRegistrar{
		matches: func(handler any) bool {
			_, ok := handler.(mcp.ToolHandlerFor[I, O])
			return ok
		},
		add: func(server *mcp.Server, tool *mcp.Tool, handler any) {
			mcp.AddTool(server, tool, handler.(mcp.ToolHandlerFor[I, O]))
		},
	}
}

var mcpToolRegistrars = []mcpToolRegistrar{
	newMCPToolRegistrar[domain.EvaluateInput, domain.EvaluateResult](),
	newMCPToolRegistrar[domain.TokenizeInput, domain.TokenizeResult](),
	newMCPToolRegistrar[domain.RollDiceInput, domain.RollDiceResult](),
}

func addMCPTool(server *mcp.Server, tool *mcp.Tool, handler any) error {
	for _, registrar := range mcpToolRegistrars {
		if registrar.matches(handler) {
			registrar.add(server, tool, handler)
			return nil
		}
	}
	toolName := "<nil>"
	if tool != nil {
		toolName = tool.Name
	}
	return fmt.Errorf("mcp registration adapter does not support handler type %T for tool %q", handler, toolName)
}

func newMCPRegistrationModules(evaluator domain.Evaluator, newSeed func() (int64, error)) []mcpRegistrationModule {
	return []mcpRegistrationModule{
		{
			name: mcpExpressionToolsModuleName,
			register: func(registrar mcpRegistrationTarget) error {
				return registerExpressionTools(registrar, evaluator)
			},
		},
		{
			name: mcpDiceToolsModuleName,
			register: func(registrar mcpRegistrationTarget) error {
				return registerDiceTools(registrar, newSeed)
			},
		},
	}
}
