package retry

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
)

// Config controls retry behavior with exponential backoff.
type Config struct {
	MaxRetries int           // Maximum number of retry attempts
	BaseDelay  time.Duration // Delay before the first retry
	MaxDelay   time.Duration // Upper bound for any single delay
	Multiplier float64       // Exponential backoff multiplier
	Jitter     bool          // Randomize delays to avoid thundering herd
}

// Result describes how a retried operation went.
type Result struct {
	Attempts      int
	TotalDuration time.Duration
	LastError     error
	Success       bool
}

// DefaultConfig returns sensible defaults for short network operations.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
		Multiplier: 2.0,
		Jitter:     true,
	}
}

// LLMConfig returns a configuration tuned for model calls, which are slow
// and rate limited upstream.
func LLMConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
		MaxDelay:   60 * time.Second,
		Multiplier: 2.5,
		Jitter:     true,
	}
}

// Do runs operation with exponential backoff until it succeeds, the retry
// budget is exhausted, or ctx is done.
func Do(ctx context.Context, config Config, operation func() error) Result {
	start := time.Now()
	result := Result{}

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		result.Attempts = attempt + 1

		err := operation()
		if err == nil {
			result.Success = true
			result.TotalDuration = time.Since(start)
			if attempt > 0 {
				log.Debug().
					Int("attempts", result.Attempts).
					Dur("total", result.TotalDuration).
					Msg("Operation succeeded after retry")
			}
			return result
		}
		result.LastError = err

		if attempt == config.MaxRetries {
			break
		}

		delay := backoffDelay(config, attempt)
		log.Debug().
			Err(err).
			Int("attempt", attempt+1).
			Int("max_attempts", config.MaxRetries+1).
			Dur("delay", delay).
			Msg("Operation failed, backing off")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			result.LastError = ctx.Err()
			result.TotalDuration = time.Since(start)
			return result
		}
	}

	result.TotalDuration = time.Since(start)
	log.Warn().
		Err(result.LastError).
		Int("attempts", result.Attempts).
		Msg("Operation failed after all retries")
	return result
}

// backoffDelay computes the delay before retry number attempt (0-based).
func backoffDelay(config Config, attempt int) time.Duration {
	delay := float64(config.BaseDelay) * math.Pow(config.Multiplier, float64(attempt))
	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	if config.Jitter {
		// Up to 25% random jitter on top of the computed delay.
		delay += delay * 0.25 * rand.Float64()
		if delay > float64(config.MaxDelay) {
			delay = float64(config.MaxDelay)
		}
	}
	return time.Duration(delay)
}
