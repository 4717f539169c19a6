// Package indicators provides streaming technical indicators over daily
// closing prices.
package indicators

// Indicator computes a single streaming value from closes. It is
// deterministic and safe to reuse across backtest runs after Reset.
type Indicator interface {
	// Name returns a stable identifier like "MA(60)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next daily close.
	Update(close float64)

	// Ready reports whether Value() is meaningful (warmup completed).
	Ready() bool

	// Value returns the current indicator value. Callers should always
	// check Ready() first; before warmup it returns 0.
	Value() float64
}
