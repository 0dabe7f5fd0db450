package mocks

// Random is a scripted implementation of ports.Random. Draws are served
// from Floats and Ints in order; once a queue is exhausted the matching
// default is returned.
type Random struct {
	Floats []float64
	Ints   []int

	DefaultFloat float64
	DefaultInt   int

	FloatCallCount int
	IntCallCount   int
}

// NewRandom creates a scripted source with the given float draws.
func NewRandom(floats ...float64) *Random {
	return &Random{Floats: floats, DefaultFloat: 0.99}
}

// Float64 returns the next scripted float.
func (m *Random) Float64() float64 {
	m.FloatCallCount++
	if len(m.Floats) == 0 {
		return m.DefaultFloat
	}
	v := m.Floats[0]
	m.Floats = m.Floats[1:]
	return v
}

// IntN returns the next scripted int, clamped to [0, n).
func (m *Random) IntN(n int) int {
	m.IntCallCount++
	v := m.DefaultInt
	if len(m.Ints) > 0 {
		v = m.Ints[0]
		m.Ints = m.Ints[1:]
	}
	if v >= n {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}
