// Package expression evaluates tabletop dice expressions.
//
// An expression mixes dice notation (2d6, d100, Adv(d20), Dis(d6)), numbers,
// parentheses and the four arithmetic operators. Evaluation tokenizes and
// validates the input, inserts implicit multiplication, resolves every dice
// token exactly once through a dice.Roller, and computes the arithmetic with
// standard precedence and floating-point division.
package expression

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	// tokenPattern lists the lexical forms longest-first; Go's leftmost-first
	// alternation makes dice win over a bare number prefix.
	tokenPattern       = regexp.MustCompile(`\d*d\d+|Adv\(d\d+\)|Dis\(d\d+\)|[+\-*/()]|\d+(?:\.\d+)?`)
	operatorRunPattern = regexp.MustCompile(`[+\-*/]{2,}`)
	foreignCharPattern = regexp.MustCompile(`[^+\-*/()0-9A-Za-z.]`)
	letterRunPattern   = regexp.MustCompile(`[A-Za-z]+`)
)

// Tokenize splits expr into validated tokens with implicit multiplication
// already inserted.
//
// Whitespace is ignored. Failures, in the order they are checked:
//
//   - blank input: ErrEmptyExpression
//   - two or more operators in a row: ErrInvalidOperatorCombination
//   - text matching no lexical form: ErrInvalidCharacter (or
//     ErrInvalidExpression when only stray dots remain)
//   - two operands side by side: ErrMissingOperator
//   - unbalanced brackets: ErrUnmatchedParentheses
//
// Dice counts and faces are not range-checked here.
func Tokenize(expr string) ([]Token, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, ErrEmptyExpression
	}
	compact := stripSpace(expr)

	if operatorRunPattern.MatchString(compact) {
		return nil, ErrInvalidOperatorCombination
	}

	tokens, err := scan(compact)
	if err != nil {
		return nil, err
	}
	for i := 0; i+1 < len(tokens); i++ {
		if tokens[i].IsOperand() && tokens[i+1].IsOperand() {
			return nil, ErrMissingOperator
		}
	}
	if !balanced(tokens) {
		return nil, ErrUnmatchedParentheses
	}

	return Normalize(tokens), nil
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// scan classifies every lexical match and rejects the first stretch of input
// no match covers.
func scan(compact string) ([]Token, error) {
	matches := tokenPattern.FindAllStringIndex(compact, -1)
	tokens := make([]Token, 0, len(matches))
	covered := 0
	for _, loc := range matches {
		if loc[0] > covered {
			return nil, unrecognized(compact[covered:loc[0]])
		}
		tokens = append(tokens, classify(compact[loc[0]:loc[1]]))
		covered = loc[1]
	}
	if covered < len(compact) {
		return nil, unrecognized(compact[covered:])
	}
	return tokens, nil
}

func unrecognized(gap string) error {
	if ch := foreignCharPattern.FindString(gap); ch != "" {
		return errInvalidCharacter(ch)
	}
	if run := letterRunPattern.FindString(gap); run != "" {
		return errInvalidCharacter(run)
	}
	return errInvalidExpression("unrecognized input " + gap)
}

func classify(text string) Token {
	switch {
	case strings.HasPrefix(text, "Adv("):
		return Token{Kind: KindAdvDis, Text: text, Mode: ModeAdvantage, Faces: parseBound(text[len("Adv(d") : len(text)-1])}
	case strings.HasPrefix(text, "Dis("):
		return Token{Kind: KindAdvDis, Text: text, Mode: ModeDisadvantage, Faces: parseBound(text[len("Dis(d") : len(text)-1])}
	case strings.Contains(text, "d"):
		count, faces, _ := strings.Cut(text, "d")
		token := Token{Kind: KindDice, Text: text, Count: 1, Faces: parseBound(faces)}
		if count != "" {
			token.Count = parseBound(count)
		}
		return token
	case text == "(":
		return Token{Kind: KindLeftParen, Text: text}
	case text == ")":
		return Token{Kind: KindRightParen, Text: text}
	case len(text) == 1 && strings.ContainsAny(text, "+-*/"):
		return OperatorToken(text[0])
	default:
		return Token{Kind: KindNumber, Text: text, Number: decimal.RequireFromString(text)}
	}
}

// parseBound parses a run of digits, saturating at math.MaxInt so oversized
// counts and faces still fail the range checks at resolution time.
func parseBound(digits string) int {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return math.MaxInt
	}
	return n
}

func balanced(tokens []Token) bool {
	depth := 0
	for _, token := range tokens {
		switch token.Kind {
		case KindLeftParen:
			depth++
		case KindRightParen:
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
