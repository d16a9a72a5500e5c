// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Expression errors
	CodeEmptyExpression            Code = "EXPRESSION_EMPTY"
	CodeInvalidOperatorCombination Code = "EXPRESSION_INVALID_OPERATOR_COMBINATION"
	CodeInvalidCharacter           Code = "EXPRESSION_INVALID_CHARACTER"
	CodeMissingOperator            Code = "EXPRESSION_MISSING_OPERATOR"
	CodeInvalidExpression          Code = "EXPRESSION_INVALID"
	CodeUnmatchedParentheses       Code = "EXPRESSION_UNMATCHED_PARENTHESES"
	CodeMathExpression             Code = "EXPRESSION_MATH_ERROR"

	// Dice/mechanics errors
	CodeInvalidDiceFaces  Code = "DICE_INVALID_FACES"
	CodeDiceCountExceeded Code = "DICE_COUNT_EXCEEDED"
	CodeDiceMissing       Code = "DICE_MISSING"
	CodeDiceInvalidSpec   Code = "DICE_INVALID_SPEC"

	// Random/seed errors
	CodeSeedInvalid Code = "SEED_INVALID"
)

// Codes lists every expression and dice code in display order.
var Codes = []Code{
	CodeEmptyExpression,
	CodeInvalidOperatorCombination,
	CodeInvalidDiceFaces,
	CodeInvalidCharacter,
	CodeMissingOperator,
	CodeDiceCountExceeded,
	CodeInvalidExpression,
	CodeUnmatchedParentheses,
	CodeMathExpression,
}

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - the caller sent an expression or spec that cannot be evaluated
	case CodeEmptyExpression,
		CodeInvalidOperatorCombination,
		CodeInvalidCharacter,
		CodeMissingOperator,
		CodeInvalidExpression,
		CodeUnmatchedParentheses,
		CodeMathExpression,
		CodeInvalidDiceFaces,
		CodeDiceCountExceeded,
		CodeDiceMissing,
		CodeDiceInvalidSpec,
		CodeSeedInvalid:
		return codes.InvalidArgument

	default:
		return codes.Internal
	}
}
