package dice

import (
	"fmt"
	"strconv"

	apperrors "github.com/louisbranch/diceparser/internal/platform/errors"
)

// Bounds shared by dice pools and dice notation.
const (
	// MaxCount is the most dice a single spec or token may roll.
	MaxCount = 100
	// MinFaces is the smallest die allowed.
	MinFaces = 1
	// MaxFaces is the largest die allowed.
	MaxFaces = 1000
)

// ErrMissingDice indicates a roll request had no dice specified.
var ErrMissingDice = apperrors.New(apperrors.CodeDiceMissing, "at least one die must be provided")

// ErrInvalidDiceSpec indicates a die specification has invalid fields.
var ErrInvalidDiceSpec = apperrors.New(apperrors.CodeDiceInvalidSpec, "dice must have positive sides and count")

// ErrCountExceeded matches pool specs rolling more than MaxCount dice.
var ErrCountExceeded = apperrors.New(apperrors.CodeDiceCountExceeded, "dice count exceeded")

// ErrFacesOutOfRange matches pool specs with more than MaxFaces sides.
var ErrFacesOutOfRange = apperrors.New(apperrors.CodeInvalidDiceFaces, "dice faces out of range")

// Spec describes a die to roll and how many times to roll it.
type Spec struct {
	Sides int
	Count int
}

// PoolRoll captures the results for a single dice spec.
type PoolRoll struct {
	Sides   int
	Results []int
	Total   int
}

// PoolResult captures the results from rolling multiple dice specs.
type PoolResult struct {
	Rolls []PoolRoll
	Total int
}

// RollPool rolls plain dice pools with roller.
//
// Specs are processed in slice order and the resulting PoolRoll entries keep
// that order. Each PoolRoll.Total is the sum of its Results; PoolResult.Total
// is the sum of every die rolled.
//
//   - At least one Spec must be provided, otherwise ErrMissingDice is returned.
//   - Each Spec must have Sides > 0 and Count > 0, otherwise
//     ErrInvalidDiceSpec is returned.
//   - Count above MaxCount fails with a DICE_COUNT_EXCEEDED error and Sides
//     above MaxFaces with a DICE_INVALID_FACES error.
//
// Every spec is validated before any die is rolled.
func RollPool(roller Roller, specs []Spec) (PoolResult, error) {
	if len(specs) == 0 {
		return PoolResult{}, ErrMissingDice
	}
	for _, spec := range specs {
		if spec.Sides <= 0 || spec.Count <= 0 {
			return PoolResult{}, ErrInvalidDiceSpec
		}
		if spec.Count > MaxCount {
			return PoolResult{}, apperrors.WithMetadata(apperrors.CodeDiceCountExceeded,
				fmt.Sprintf("dice count cannot exceed %d: %d", MaxCount, spec.Count),
				map[string]string{"Count": strconv.Itoa(spec.Count), "MaxCount": strconv.Itoa(MaxCount)})
		}
		if spec.Sides > MaxFaces {
			return PoolResult{}, apperrors.WithMetadata(apperrors.CodeInvalidDiceFaces,
				fmt.Sprintf("dice faces must be between %d and %d: %d", MinFaces, MaxFaces, spec.Sides),
				map[string]string{
					"Faces":    strconv.Itoa(spec.Sides),
					"MinFaces": strconv.Itoa(MinFaces),
					"MaxFaces": strconv.Itoa(MaxFaces),
				})
		}
	}

	rolls := make([]PoolRoll, 0, len(specs))
	total := 0
	for _, spec := range specs {
		results := make([]int, spec.Count)
		rollTotal := 0
		for i := range spec.Count {
			value := roller.RollDie(spec.Sides)
			results[i] = value
			rollTotal += value
		}

		rolls = append(rolls, PoolRoll{
			Sides:   spec.Sides,
			Results: results,
			Total:   rollTotal,
		})
		total += rollTotal
	}

	return PoolResult{
		Rolls: rolls,
		Total: total,
	}, nil
}
