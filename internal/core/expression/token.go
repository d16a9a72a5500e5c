package expression

import "github.com/shopspring/decimal"

// Kind classifies a token.
type Kind int

const (
	KindUnspecified Kind = iota
	KindNumber
	KindDice
	KindAdvDis
	KindOperator
	KindLeftParen
	KindRightParen
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindDice:
		return "Dice"
	case KindAdvDis:
		return "AdvDis"
	case KindOperator:
		return "Operator"
	case KindLeftParen:
		return "LeftParen"
	case KindRightParen:
		return "RightParen"
	default:
		return "Unspecified"
	}
}

// Mode selects which of two dice an AdvDis token keeps.
type Mode int

const (
	ModeAdvantage Mode = iota + 1
	ModeDisadvantage
)

func (m Mode) String() string {
	switch m {
	case ModeAdvantage:
		return "Adv"
	case ModeDisadvantage:
		return "Dis"
	default:
		return "Unknown"
	}
}

// Token is one lexical unit of a dice expression.
//
// Only the fields relevant to Kind are set: Number for numbers, Count and
// Faces for dice, Mode and Faces for advantage/disadvantage, Op for
// operators. Text always holds the source spelling.
type Token struct {
	Kind   Kind
	Text   string
	Number decimal.Decimal
	Count  int
	Faces  int
	Mode   Mode
	Op     byte
}

// String returns the token's source spelling.
func (t Token) String() string {
	return t.Text
}

// IsOperand reports whether the token stands for a value.
func (t Token) IsOperand() bool {
	return t.Kind == KindNumber || t.Kind == KindDice || t.Kind == KindAdvDis
}

// IsParen reports whether the token is a parenthesis.
func (t Token) IsParen() bool {
	return t.Kind == KindLeftParen || t.Kind == KindRightParen
}

// NumberToken builds a number token from a whole value.
func NumberToken(value int) Token {
	d := decimal.NewFromInt(int64(value))
	return Token{Kind: KindNumber, Text: d.String(), Number: d}
}

// OperatorToken builds an operator token for one of + - * /.
func OperatorToken(op byte) Token {
	return Token{Kind: KindOperator, Text: string(op), Op: op}
}

// Texts returns the source spelling of each token.
func Texts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, token := range tokens {
		out[i] = token.Text
	}
	return out
}
