package game

import "math/rand"

// Roller is the randomness source for combat, loot and task assignment.
type Roller interface {
	Float64() float64
	Intn(n int) int
}

// RNG wraps math/rand.Rand with position tracking so a seeded stream can be
// reproduced in tests and replays.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

func NewRNG(seed int64) *RNG {
	return &RNG{seed: seed, src: rand.New(rand.NewSource(seed))}
}

func (r *RNG) Float64() float64 {
	r.pos++
	return r.src.Float64()
}

// Intn returns a value in [0, n). n <= 0 yields 0.
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	r.pos++
	return r.src.Intn(n)
}

func (r *RNG) Seed() int64 {
	return r.seed
}

func (r *RNG) Position() int64 {
	return r.pos
}

// FixedRoller replays a scripted sequence of draws, cycling when exhausted.
type FixedRoller struct {
	Values []float64
	next   int
}

func (f *FixedRoller) Float64() float64 {
	if len(f.Values) == 0 {
		return 0
	}
	v := f.Values[f.next%len(f.Values)]
	f.next++
	return v
}

func (f *FixedRoller) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v := int(f.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}
