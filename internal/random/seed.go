// Package random provides cryptographic seed generation helpers.
//
// It uses crypto/rand to generate high-entropy seeds suitable for
// initializing pseudo-random number generators in deterministic systems.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/diceparser/internal/platform/errors"
)

// SeedSource describes where a seed came from.
type SeedSource string

const (
	// SeedSourceServer marks a seed generated by the process.
	SeedSourceServer SeedSource = "server"
	// SeedSourceClient marks a seed supplied by the caller.
	SeedSourceClient SeedSource = "client"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// ResolveSeed returns the caller's seed when present, otherwise a freshly
// generated one.
func ResolveSeed(requested *int64, generate func() (int64, error)) (int64, SeedSource, error) {
	if requested != nil {
		return *requested, SeedSourceClient, nil
	}
	if generate == nil {
		generate = NewSeed
	}
	seed, err := generate()
	if err != nil {
		return 0, "", err
	}
	return seed, SeedSourceServer, nil
}

// ParseSeed parses a decimal seed. An empty string yields nil.
func ParseSeed(value string) (*int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	seed, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return nil, apperrors.WrapWithMetadata(apperrors.CodeSeedInvalid, fmt.Sprintf("invalid seed %q", trimmed), map[string]string{"Seed": trimmed}, err)
	}
	return &seed, nil
}
