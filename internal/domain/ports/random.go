package ports

// Random is the source of every chance draw made during a turn.
type Random interface {
	// Float64 returns a number in [0.0, 1.0).
	Float64() float64

	// IntN returns a number in [0, n). It panics if n <= 0.
	IntN(n int) int
}
