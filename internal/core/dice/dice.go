// Package dice provides the random source used to resolve dice notation.
//
// # Primitives
//
// A Roller exposes the three primitives dice expressions need: a single die,
// a percentile die (d100 read as a tens d10 and a units d10), and a pair of
// dice keeping the higher (advantage) or lower (disadvantage) result.
//
// # Determinism
//
// Dice built with NewSeeded are deterministic with respect to the seed: the
// same seed and the same sequence of calls always produce the same faces.
// Dice built over a Replay source return a fixed, caller-provided sequence,
// which is how tests pin every roll.
//
// Dice are not safe for concurrent use; build one per evaluation.
package dice

import (
	"math/rand"

	"github.com/louisbranch/diceparser/internal/random"
)

// Source yields one die face in [1, faces].
type Source interface {
	Roll(faces int) int
}

// Percentile is a d100 result read from two d10s.
type Percentile struct {
	Value int
	Tens  int
	Units int
}

// Keep is an advantage or disadvantage result.
type Keep struct {
	// Rolls holds both dice in roll order.
	Rolls []int
	// Value is the kept die.
	Value int
}

// Roller is the randomness capability consumed by expression evaluation.
type Roller interface {
	RollDie(faces int) int
	RollPercentile() Percentile
	RollAdvantage(faces int) Keep
	RollDisadvantage(faces int) Keep
}

// Dice implements Roller on top of a single-die Source.
type Dice struct {
	source Source
}

// New returns Dice that draw every face from source.
func New(source Source) *Dice {
	return &Dice{source: source}
}

// NewSeeded returns Dice backed by math/rand seeded with seed.
func NewSeeded(seed int64) *Dice {
	return New(rngSource{rng: rand.New(rand.NewSource(seed))})
}

// NewRandom returns Dice seeded from crypto/rand along with the seed used.
func NewRandom() (*Dice, int64, error) {
	seed, err := random.NewSeed()
	if err != nil {
		return nil, 0, err
	}
	return NewSeeded(seed), seed, nil
}

// RollDie rolls a single die with the provided number of faces.
func (d *Dice) RollDie(faces int) int {
	return d.source.Roll(faces)
}

// RollPercentile rolls a d100 as two d10s, yielding a value in [0, 99].
func (d *Dice) RollPercentile() Percentile {
	tens := d.RollDie(10) - 1
	units := d.RollDie(10) - 1
	return Percentile{
		Value: tens*10 + units,
		Tens:  tens,
		Units: units,
	}
}

// RollAdvantage rolls two dice and keeps the higher.
func (d *Dice) RollAdvantage(faces int) Keep {
	first, second := d.RollDie(faces), d.RollDie(faces)
	return Keep{Rolls: []int{first, second}, Value: max(first, second)}
}

// RollDisadvantage rolls two dice and keeps the lower.
func (d *Dice) RollDisadvantage(faces int) Keep {
	first, second := d.RollDie(faces), d.RollDie(faces)
	return Keep{Rolls: []int{first, second}, Value: min(first, second)}
}

// rngSource rolls dice with a math/rand generator.
type rngSource struct {
	rng *rand.Rand
}

func (s rngSource) Roll(faces int) int {
	return s.rng.Intn(faces) + 1
}
