package lottery

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync"
)

// Source yields uniform values in [0, 1).
type Source interface {
	Float64() float64
}

type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// NewSource returns a goroutine-safe PCG source seeded from crypto/rand.
func NewSource() (Source, error) {
	hi, err := newSeed()
	if err != nil {
		return nil, err
	}
	lo, err := newSeed()
	if err != nil {
		return nil, err
	}
	return NewSeededSource(hi, lo), nil
}

// NewSeededSource returns a deterministic goroutine-safe source.
func NewSeededSource(seed1, seed2 uint64) Source {
	return &lockedSource{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

func newSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}
