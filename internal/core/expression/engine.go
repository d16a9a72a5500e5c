package expression

import (
	"strconv"
	"strings"

	"github.com/louisbranch/diceparser/internal/core/dice"
)

// RollRecord is the audit entry for one resolved die or advantage pair.
type RollRecord struct {
	// Kind labels the roll, e.g. "d6", "d100" or "Adv(d20)".
	Kind  string `json:"kind"`
	Value int    `json:"value"`
	// Tens and Units are set for percentile dice only.
	Tens  *int `json:"tens,omitempty"`
	Units *int `json:"units,omitempty"`
	// Rolls holds both dice of an advantage or disadvantage roll, in order.
	Rolls []int `json:"rolls,omitempty"`
}

// Result is the outcome of one evaluation.
type Result struct {
	Rolls       []RollRecord `json:"rolls"`
	Steps       string       `json:"steps"`
	FinalResult float64      `json:"final_result"`
}

// Engine evaluates dice expressions against a Roller.
//
// An Engine keeps no state between calls, but the Roller it wraps usually
// does; share an Engine across goroutines only if its Roller allows it.
type Engine struct {
	roller dice.Roller
}

// NewEngine returns an Engine that resolves dice with roller.
func NewEngine(roller dice.Roller) *Engine {
	return &Engine{roller: roller}
}

// Tokenize exposes the package tokenizer through the engine.
func (e *Engine) Tokenize(expr string) ([]Token, error) {
	return Tokenize(expr)
}

// Evaluate tokenizes expr, rolls every dice token once and computes the
// arithmetic. The returned steps show each roll where its token stood.
func (e *Engine) Evaluate(expr string) (Result, error) {
	tokens, err := Tokenize(expr)
	if err != nil {
		return Result{}, err
	}

	s := &session{roller: e.roller}
	if err := s.resolve(tokens); err != nil {
		return Result{}, err
	}

	canonical := strings.TrimSpace(s.canonical.String())
	if canonical == "" {
		return Result{}, ErrEmptyExpression
	}
	if err := validateCanonical(canonical, s.resolved); err != nil {
		return Result{}, err
	}
	value, err := compute(s.resolved)
	if err != nil {
		return Result{}, err
	}

	rolls := s.rolls
	if rolls == nil {
		rolls = []RollRecord{}
	}
	return Result{
		Rolls:       rolls,
		Steps:       strings.TrimSpace(s.steps.String()),
		FinalResult: value,
	}, nil
}

// session holds the state of a single evaluation. Both output strings and
// the resolved tokens are written from the same roll log.
type session struct {
	roller    dice.Roller
	rolls     []RollRecord
	canonical strings.Builder
	steps     strings.Builder
	// resolved is the token sequence with every roll replaced by its value.
	resolved []Token
}

func (s *session) resolve(tokens []Token) error {
	for i, token := range tokens {
		switch token.Kind {
		case KindDice:
			sum, shown, err := s.rollDice(token)
			if err != nil {
				return err
			}
			s.emit(NumberToken(sum), shown)
		case KindAdvDis:
			kept, shown, err := s.rollKeep(token)
			if err != nil {
				return err
			}
			s.emit(NumberToken(kept), shown)
		default:
			s.emit(token, token.Text)
		}

		if i+1 < len(tokens) && spaced(token, tokens[i+1]) {
			s.canonical.WriteByte(' ')
			s.steps.WriteByte(' ')
		}
	}
	return nil
}

func (s *session) emit(resolved Token, shown string) {
	s.resolved = append(s.resolved, resolved)
	s.canonical.WriteString(resolved.Text)
	s.steps.WriteString(shown)
}

func (s *session) rollDice(token Token) (int, string, error) {
	if token.Count > MaxDiceCount {
		return 0, "", errDiceCount(token.Text, token.Count)
	}
	if token.Count < 1 {
		return 0, "", errInvalidExpression("dice count must be at least 1")
	}
	if token.Faces < MinFaces || token.Faces > MaxFaces {
		return 0, "", errDiceFaces(token.Text, token.Faces)
	}

	kind := "d" + strconv.Itoa(token.Faces)
	values := make([]string, 0, token.Count)
	sum := 0
	for range token.Count {
		record := RollRecord{Kind: kind}
		if token.Faces == PercentileFaces {
			roll := s.roller.RollPercentile()
			record.Value = roll.Value
			record.Tens = &roll.Tens
			record.Units = &roll.Units
		} else {
			record.Value = s.roller.RollDie(token.Faces)
		}
		s.rolls = append(s.rolls, record)
		values = append(values, strconv.Itoa(record.Value))
		sum += record.Value
	}
	return sum, "[" + strings.Join(values, "+") + "]", nil
}

func (s *session) rollKeep(token Token) (int, string, error) {
	if token.Faces < MinFaces || token.Faces > MaxFaces {
		return 0, "", errDiceFaces(token.Text, token.Faces)
	}

	var keep dice.Keep
	if token.Mode == ModeAdvantage {
		keep = s.roller.RollAdvantage(token.Faces)
	} else {
		keep = s.roller.RollDisadvantage(token.Faces)
	}
	s.rolls = append(s.rolls, RollRecord{
		Kind:  token.Text,
		Value: keep.Value,
		Rolls: keep.Rolls,
	})

	shown := make([]string, len(keep.Rolls))
	for i, roll := range keep.Rolls {
		shown[i] = strconv.Itoa(roll)
	}
	return keep.Value, "[" + strings.Join(shown, ",") + "→" + strconv.Itoa(keep.Value) + "]", nil
}

// spaced reports whether a space separates two adjacent tokens in the
// output strings. Operators are always padded; an operand and a bracket are
// separated; two brackets stay tight.
func spaced(current, next Token) bool {
	if current.Kind == KindOperator || next.Kind == KindOperator {
		return true
	}
	return (current.IsOperand() && next.IsParen()) || (current.IsParen() && next.IsOperand())
}
