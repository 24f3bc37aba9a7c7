package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/pool-arbitrage/internal/apperror"
)

func TestCircuitBreaker_TripsAfterThreshold(t *testing.T) {
	cfg := DefaultConfig("test-rpc")
	cfg.FailureThreshold = 3
	cfg.Timeout = time.Hour
	cb := New[int](cfg)

	boom := errors.New("rpc down")
	for i := 0; i < 3; i++ {
		_, err := cb.Execute(func() (int, error) { return 0, boom })
		require.ErrorIs(t, err, boom)
	}

	assert.Equal(t, gobreaker.StateOpen, cb.State())
	assert.False(t, cb.Healthy())

	called := false
	_, err := cb.Execute(func() (int, error) {
		called = true
		return 1, nil
	})
	assert.False(t, called)
	assert.True(t, apperror.IsCode(err, apperror.CodeCircuitOpen))
}

func TestCircuitBreaker_CancellationDoesNotTrip(t *testing.T) {
	cfg := DefaultConfig("test-cancel")
	cfg.FailureThreshold = 1
	cb := New[int](cfg)

	for i := 0; i < 5; i++ {
		_, err := cb.Execute(func() (int, error) { return 0, context.Canceled })
		require.ErrorIs(t, err, context.Canceled)
	}

	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_PassesValues(t *testing.T) {
	cb := New[string](DefaultConfig("test-values"))

	got, err := cb.Execute(func() (string, error) { return "0xpool", nil })
	require.NoError(t, err)
	assert.Equal(t, "0xpool", got)
	assert.Equal(t, "test-values", cb.Name())
}
