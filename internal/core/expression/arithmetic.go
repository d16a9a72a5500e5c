package expression

import (
	"math"
	"regexp"
	"strings"
)

var (
	digitPattern      = regexp.MustCompile(`\d`)
	arithmeticPattern = regexp.MustCompile(`^[0-9+\-*/().\s]+$`)
)

// validateCanonical checks the pure-arithmetic form of an expression before
// it is computed. resolved is the token sequence the canonical string was
// written from.
func validateCanonical(canonical string, resolved []Token) error {
	if !digitPattern.MatchString(canonical) {
		return errInvalidExpression("no numbers")
	}
	if !arithmeticPattern.MatchString(canonical) {
		return errInvalidExpression("unexpected character")
	}
	if hasLiteralZeroDivisor(resolved) {
		return errMath(DetailDivisionByZero)
	}
	if strings.ContainsAny(canonical[:1], "+*/") {
		return errInvalidExpression("leading operator")
	}
	if strings.ContainsAny(canonical[len(canonical)-1:], "+-*/") {
		return errInvalidExpression("trailing operator")
	}

	depth := 0
	for _, ch := range canonical {
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return ErrUnmatchedParentheses
			}
		}
	}
	if depth != 0 {
		return ErrUnmatchedParentheses
	}
	if strings.Contains(canonical, "()") {
		return errInvalidExpression("empty parentheses")
	}
	return nil
}

// hasLiteralZeroDivisor reports whether a "/" is directly followed by a
// number equal to zero. Rolled values count as literals once resolved.
func hasLiteralZeroDivisor(resolved []Token) bool {
	for i := 0; i+1 < len(resolved); i++ {
		if resolved[i].Kind == KindOperator && resolved[i].Op == '/' &&
			resolved[i+1].Kind == KindNumber && resolved[i+1].Number.IsZero() {
			return true
		}
	}
	return false
}

// compute evaluates a sequence of numbers, operators and brackets.
//
//	expression = term { ("+" | "-") term }
//	term       = unary { ("*" | "/") unary }
//	unary      = "-" unary | primary
//	primary    = number | "(" expression ")"
func compute(tokens []Token) (float64, error) {
	p := &parser{tokens: tokens}
	value, err := p.expression()
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.tokens) {
		return 0, errInvalidExpression("unexpected " + p.tokens[p.pos].Text)
	}
	return value, nil
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) peek() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) peekOperator(ops string) (byte, bool) {
	token, ok := p.peek()
	if !ok || token.Kind != KindOperator || strings.IndexByte(ops, token.Op) < 0 {
		return 0, false
	}
	return token.Op, true
}

func (p *parser) expression() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peekOperator("+-")
		if !ok {
			return left, nil
		}
		p.pos++
		right, err := p.term()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
		if err := finite(left); err != nil {
			return 0, err
		}
	}
}

func (p *parser) term() (float64, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peekOperator("*/")
		if !ok {
			return left, nil
		}
		p.pos++
		right, err := p.unary()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			left *= right
		} else {
			if right == 0 {
				return 0, errMath(DetailDivisionByZero)
			}
			left /= right
		}
		if err := finite(left); err != nil {
			return 0, err
		}
	}
}

func (p *parser) unary() (float64, error) {
	if _, ok := p.peekOperator("-"); ok {
		p.pos++
		value, err := p.unary()
		if err != nil {
			return 0, err
		}
		return -value, nil
	}
	return p.primary()
}

func (p *parser) primary() (float64, error) {
	token, ok := p.peek()
	if !ok {
		return 0, errInvalidExpression("unexpected end of expression")
	}
	switch token.Kind {
	case KindNumber:
		p.pos++
		value := token.Number.InexactFloat64()
		if err := finite(value); err != nil {
			return 0, err
		}
		return value, nil
	case KindLeftParen:
		p.pos++
		value, err := p.expression()
		if err != nil {
			return 0, err
		}
		closing, ok := p.peek()
		if !ok || closing.Kind != KindRightParen {
			return 0, ErrUnmatchedParentheses
		}
		p.pos++
		return value, nil
	default:
		return 0, errInvalidExpression("unexpected " + token.Text)
	}
}

func finite(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return errMath(DetailNotFinite)
	}
	return nil
}
