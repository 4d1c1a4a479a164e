package llm

import "sync"

// Approximate Sonnet rates, USD per million tokens.
const (
	inputCostPerMTok  = 3.0
	outputCostPerMTok = 15.0
)

// Usage is a snapshot of accumulated token consumption.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
	Calls        int
}

// Cost estimates the accumulated spend in USD.
func (u Usage) Cost() float64 {
	return float64(u.InputTokens)/1_000_000*inputCostPerMTok +
		float64(u.OutputTokens)/1_000_000*outputCostPerMTok
}

// TokenTracker accumulates token usage across API calls. Safe for
// concurrent use.
type TokenTracker struct {
	mu    sync.Mutex
	usage Usage
}

// NewTokenTracker creates an empty tracker.
func NewTokenTracker() *TokenTracker {
	return &TokenTracker{}
}

// Record adds one call's token counts.
func (t *TokenTracker) Record(input, output int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.usage.InputTokens += input
	t.usage.OutputTokens += output
	t.usage.Calls++
}

// Snapshot returns the usage accumulated so far.
func (t *TokenTracker) Snapshot() Usage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.usage
}
