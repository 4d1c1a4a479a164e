package llm

import (
	"context"
	"log"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig contains settings for the circuit breaker around a Generator.
type BreakerConfig struct {
	// Name identifies the breaker in logs. Defaults to "llm".
	Name string
	// MaxFailures is the consecutive-failure count that opens the breaker.
	// Defaults to 5.
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	// Defaults to 30s.
	OpenTimeout time.Duration
}

// Breaker wraps a Generator with a circuit breaker so that a failing
// provider is not hammered with every incoming request.
type Breaker struct {
	inner Generator
	cb    *gobreaker.CircuitBreaker
}

// NewBreaker creates a circuit-breaker wrapper around gen.
func NewBreaker(gen Generator, cfg BreakerConfig) *Breaker {
	name := cfg.Name
	if name == "" {
		name = "llm"
	}
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	openTimeout := cfg.OpenTimeout
	if openTimeout == 0 {
		openTimeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:    name,
		Timeout: openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("[llm] breaker %s: %s -> %s", name, from, to)
		},
	}

	return &Breaker{
		inner: gen,
		cb:    gobreaker.NewCircuitBreaker(settings),
	}
}

// Generate implements Generator. When the breaker is open the call fails
// immediately with gobreaker.ErrOpenState without reaching the provider.
func (b *Breaker) Generate(ctx context.Context, system, user string) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Generate(ctx, system, user)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}
