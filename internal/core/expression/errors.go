package expression

import (
	"fmt"
	"strconv"

	"github.com/louisbranch/diceparser/internal/core/dice"
	apperrors "github.com/louisbranch/diceparser/internal/platform/errors"
)

const (
	// MaxDiceCount is the largest count a single dice token may roll.
	MaxDiceCount = dice.MaxCount
	// MinFaces is the smallest die allowed.
	MinFaces = dice.MinFaces
	// MaxFaces is the largest die allowed.
	MaxFaces = dice.MaxFaces
	// PercentileFaces selects the tens-and-units d100 roll.
	PercentileFaces = 100
)

// Sentinels for errors.Is checks. Errors returned by the engine carry the
// same codes, often with extra metadata for message templates.
var (
	ErrEmptyExpression            = apperrors.New(apperrors.CodeEmptyExpression, "expression is empty")
	ErrInvalidOperatorCombination = apperrors.New(apperrors.CodeInvalidOperatorCombination, "invalid operator combination")
	ErrInvalidDiceFaces           = apperrors.New(apperrors.CodeInvalidDiceFaces, "dice faces must be between 1 and 1000")
	ErrInvalidCharacter           = apperrors.New(apperrors.CodeInvalidCharacter, "invalid character")
	ErrMissingOperator            = apperrors.New(apperrors.CodeMissingOperator, "missing operator between operands")
	ErrDiceCountExceeded          = apperrors.New(apperrors.CodeDiceCountExceeded, "dice count cannot exceed 100")
	ErrInvalidExpression          = apperrors.New(apperrors.CodeInvalidExpression, "invalid expression")
	ErrUnmatchedParentheses       = apperrors.New(apperrors.CodeUnmatchedParentheses, "unmatched parentheses")
	ErrMathExpression             = apperrors.New(apperrors.CodeMathExpression, "math expression error")
)

// Details reported by math expression errors.
const (
	DetailDivisionByZero = "division by zero"
	DetailNotFinite      = "result is not finite"
)

func errInvalidCharacter(text string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidCharacter,
		fmt.Sprintf("invalid character: %s", text),
		map[string]string{"Character": text})
}

func errInvalidExpression(reason string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidExpression,
		fmt.Sprintf("invalid expression: %s", reason),
		map[string]string{"Reason": reason})
}

func errMath(detail string) error {
	return apperrors.WithMetadata(apperrors.CodeMathExpression,
		fmt.Sprintf("math expression error: %s", detail),
		map[string]string{"Detail": detail})
}

func errDiceFaces(token string, faces int) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidDiceFaces,
		fmt.Sprintf("dice faces must be between %d and %d: %s", MinFaces, MaxFaces, token),
		map[string]string{
			"Token":    token,
			"Faces":    strconv.Itoa(faces),
			"MinFaces": strconv.Itoa(MinFaces),
			"MaxFaces": strconv.Itoa(MaxFaces),
		})
}

func errDiceCount(token string, count int) error {
	return apperrors.WithMetadata(apperrors.CodeDiceCountExceeded,
		fmt.Sprintf("dice count cannot exceed %d: %s", MaxDiceCount, token),
		map[string]string{
			"Token":    token,
			"Count":    strconv.Itoa(count),
			"MaxCount": strconv.Itoa(MaxDiceCount),
		})
}
