package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig(maxRetries int) Config {
	return Config{
		MaxRetries: maxRetries,
		BaseDelay:  5 * time.Millisecond,
		MaxDelay:   50 * time.Millisecond,
		Multiplier: 2.0,
		Jitter:     false,
	}
}

func TestDo_SuccessFirstAttempt(t *testing.T) {
	result := Do(context.Background(), fastConfig(2), func() error {
		return nil
	})

	if !result.Success {
		t.Error("expected success")
	}
	if result.Attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", result.Attempts)
	}
	if result.LastError != nil {
		t.Errorf("expected no error, got %v", result.LastError)
	}
}

func TestDo_EventualSuccess(t *testing.T) {
	attempts := 0
	result := Do(context.Background(), fastConfig(3), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	if !result.Success {
		t.Error("expected success")
	}
	if result.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", result.Attempts)
	}
}

func TestDo_ExhaustsRetries(t *testing.T) {
	wantErr := errors.New("permanent")
	result := Do(context.Background(), fastConfig(2), func() error {
		return wantErr
	})

	if result.Success {
		t.Error("expected failure")
	}
	if result.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", result.Attempts)
	}
	if !errors.Is(result.LastError, wantErr) {
		t.Errorf("expected %v, got %v", wantErr, result.LastError)
	}
}

func TestDo_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	config := Config{
		MaxRetries: 5,
		BaseDelay:  time.Second,
		MaxDelay:   time.Second,
		Multiplier: 1.0,
		Jitter:     false,
	}

	attempts := 0
	result := Do(ctx, config, func() error {
		attempts++
		cancel()
		return errors.New("fail")
	})

	if result.Success {
		t.Error("expected failure")
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt before cancellation, got %d", attempts)
	}
	if !errors.Is(result.LastError, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", result.LastError)
	}
}

func TestBackoffDelay_Caps(t *testing.T) {
	config := Config{
		BaseDelay:  10 * time.Millisecond,
		MaxDelay:   40 * time.Millisecond,
		Multiplier: 2.0,
		Jitter:     false,
	}

	if got := backoffDelay(config, 0); got != 10*time.Millisecond {
		t.Errorf("attempt 0: expected 10ms, got %v", got)
	}
	if got := backoffDelay(config, 1); got != 20*time.Millisecond {
		t.Errorf("attempt 1: expected 20ms, got %v", got)
	}
	if got := backoffDelay(config, 5); got != 40*time.Millisecond {
		t.Errorf("attempt 5: expected cap at 40ms, got %v", got)
	}
}
