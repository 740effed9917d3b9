// Package tokenizer provides approximate token counting for the trimming
// policy. Exactness is not required — only monotonicity: more text must never
// produce a smaller estimate.
package tokenizer

// Estimator computes an approximate, non-negative token count for a piece of
// message text.
type Estimator interface {
	Estimate(text string) int
}

// Func adapts a plain function to the Estimator interface.
type Func func(text string) int

func (f Func) Estimate(text string) int {
	return f(text)
}

// Heuristic estimates tokens from byte length. The default divisor of 4
// bytes per token tracks the usual English-text average for BPE vocabularies
// closely enough for budget accounting.
type Heuristic struct {
	bytesPerToken int
}

// NewHeuristic creates a Heuristic estimator. A non-positive bytesPerToken
// falls back to the default of 4.
func NewHeuristic(bytesPerToken int) *Heuristic {
	if bytesPerToken <= 0 {
		bytesPerToken = defaultBytesPerToken
	}
	return &Heuristic{bytesPerToken: bytesPerToken}
}

// Estimate returns ceil(len(text) / bytesPerToken). Empty text estimates to
// zero; any non-empty text estimates to at least one.
func (h *Heuristic) Estimate(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + h.bytesPerToken - 1) / h.bytesPerToken
}
