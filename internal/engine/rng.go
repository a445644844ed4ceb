package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// RNG is the randomness source injected into a battle.
// Range returns a uniform integer in [min, max]; Chance returns true with probability p.
type RNG interface {
	Range(min, max int) int
	Chance(p float64) bool
}

// SeededRNG is a reproducible RNG: the same seed replays the same battle.
type SeededRNG struct {
	seed int64
	rng  *rand.Rand
}

// NewSeededRNG creates an RNG from a fixed seed.
func NewSeededRNG(seed int64) *SeededRNG {
	return &SeededRNG{seed: seed, rng: rand.New(rand.NewSource(seed))}
}

// Seed returns the seed the generator was created with.
func (r *SeededRNG) Seed() int64 { return r.seed }

func (r *SeededRNG) Range(min, max int) int {
	if max <= min {
		return min
	}
	return min + r.rng.Intn(max-min+1)
}

func (r *SeededRNG) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.rng.Float64() < p
}

// NewSeed draws a high-entropy seed from crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// ScriptedRNG replays queued outcomes, for tests and scripted demos.
// Once a queue is drained Range returns max and Chance returns false.
type ScriptedRNG struct {
	ranges  []int
	chances []bool
}

// NewScriptedRNG creates an empty scripted RNG.
func NewScriptedRNG() *ScriptedRNG {
	return &ScriptedRNG{}
}

// QueueRange prepares the next Range results.
func (r *ScriptedRNG) QueueRange(values ...int) *ScriptedRNG {
	r.ranges = append(r.ranges, values...)
	return r
}

// QueueChance prepares the next Chance results.
func (r *ScriptedRNG) QueueChance(values ...bool) *ScriptedRNG {
	r.chances = append(r.chances, values...)
	return r
}

// Reset clears both queues.
func (r *ScriptedRNG) Reset() {
	r.ranges = nil
	r.chances = nil
}

func (r *ScriptedRNG) Range(min, max int) int {
	if len(r.ranges) == 0 {
		return max
	}
	v := r.ranges[0]
	r.ranges = r.ranges[1:]
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func (r *ScriptedRNG) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	if len(r.chances) == 0 {
		return false
	}
	v := r.chances[0]
	r.chances = r.chances[1:]
	return v
}
