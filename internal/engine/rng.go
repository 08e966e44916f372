// Package engine provides the seeded random stream used to make runs
// reproducible. A stream is fully determined by (seed, run) and yields
// floats in [0, 1) four bytes at a time.
package engine

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
)

// label is mixed into every HMAC message so runner streams never collide
// with other uses of the same seed.
const label = "runner"

// ByteGenerator generates bytes using HMAC-SHA256 keyed by the seed,
// one 32-byte round at a time.
type ByteGenerator struct {
	seed         string
	run          uint64
	currentRound uint64
	currentPos   int
	buffer       [32]byte
}

// NewByteGenerator creates a byte generator positioned at cursor.
func NewByteGenerator(seed string, run uint64, cursor uint64) *ByteGenerator {
	bg := &ByteGenerator{
		seed:         seed,
		run:          run,
		currentRound: cursor / 32,
		currentPos:   int(cursor % 32),
	}
	bg.generateRound()
	return bg
}

// Next returns the next byte from the generator
func (bg *ByteGenerator) Next() byte {
	if bg.currentPos >= 32 {
		bg.currentRound++
		bg.currentPos = 0
		bg.generateRound()
	}

	b := bg.buffer[bg.currentPos]
	bg.currentPos++
	return b
}

// NextFloat generates the next float using exactly 4 bytes
func (bg *ByteGenerator) NextFloat() float64 {
	return bytesToFloat([4]byte{bg.Next(), bg.Next(), bg.Next(), bg.Next()})
}

func (bg *ByteGenerator) generateRound() {
	h := hmac.New(sha256.New, []byte(bg.seed))
	fmt.Fprintf(h, "%s:%d:%d", label, bg.run, bg.currentRound)
	copy(bg.buffer[:], h.Sum(nil))
}

func bytesToFloat(bytes [4]byte) float64 {
	result := 0.0
	for i, b := range bytes {
		result += float64(b) / math.Pow(256, float64(i+1))
	}
	return result
}

// Floats generates count floats starting from the given cursor.
func Floats(seed string, run uint64, cursor uint64, count int) []float64 {
	bg := NewByteGenerator(seed, run, cursor)
	floats := make([]float64, count)
	for i := range floats {
		floats[i] = bg.NextFloat()
	}
	return floats
}

// Stream adapts a ByteGenerator to the Float64 source the game loop draws
// spawn randomness from.
type Stream struct {
	bg    *ByteGenerator
	drawn uint64
}

// NewStream returns a stream for the given seed and run number.
func NewStream(seed string, run uint64) *Stream {
	return &Stream{bg: NewByteGenerator(seed, run, 0)}
}

// Float64 returns the next value in [0, 1).
func (s *Stream) Float64() float64 {
	s.drawn++
	return s.bg.NextFloat()
}

// Drawn reports how many floats have been consumed.
func (s *Stream) Drawn() uint64 {
	return s.drawn
}

// HashSeed returns a short SHA-256 digest of seed for logging; raw seeds
// are never logged.
func HashSeed(seed string) string {
	if seed == "" {
		return "empty"
	}
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])[:16]
}
