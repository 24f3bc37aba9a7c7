package ratelimit

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/time/rate"

	"github.com/fd1az/pool-arbitrage/internal/apperror"
)

func TestLimiter_Disabled(t *testing.T) {
	l := New(0, 0)
	if l.Limit() != rate.Inf {
		t.Fatalf("Limit() = %v, want Inf", l.Limit())
	}
	for i := 0; i < 100; i++ {
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}
}

func TestLimiter_BurstThenDeny(t *testing.T) {
	l := New(0.001, 2)

	if !l.Allow() || !l.Allow() {
		t.Fatal("expected burst of 2 to be allowed")
	}
	if l.Allow() {
		t.Fatal("third call should be throttled")
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	l := New(0.001, 1)
	l.Allow()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Wait(ctx)
	if !apperror.IsCode(err, apperror.CodeRateLimitExceeded) {
		t.Fatalf("Wait() error = %v, want %s", err, apperror.CodeRateLimitExceeded)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Wait() error should wrap context.Canceled, got %v", err)
	}
}
