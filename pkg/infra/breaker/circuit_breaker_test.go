package breaker

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
)

func TestCircuitBreaker_Execute(t *testing.T) {
	cb := NewCircuitBreaker("kafka-exporter", 30*time.Second, 3)

	assert.NoError(t, cb.Execute(func() error { return nil }))

	err := cb.Execute(func() error { return errors.New("broker down") })
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "kafka-exporter")
	assert.Contains(t, err.Error(), "broker down")
}

func TestCircuitBreaker_PanicCountsAsFailure(t *testing.T) {
	cb := NewCircuitBreaker("panic-test", 30*time.Second, 1)

	err := cb.Execute(func() error { panic("boom") })
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "panic recovered: boom")
	assert.Equal(t, "open", cb.State())
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker("open-test", 30*time.Second, 3)

	for i := 0; i < 3; i++ {
		assert.Error(t, cb.Execute(func() error { return errors.New("failure") }))
	}

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.False(t, called)
}

func TestCircuitBreaker_Recovers(t *testing.T) {
	cb := NewCircuitBreaker("recovery-test", 50*time.Millisecond, 1)

	assert.Error(t, cb.Execute(func() error { return errors.New("trip") }))
	time.Sleep(100 * time.Millisecond)

	assert.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, "half-open", cb.State())
}

func TestCircuitBreaker_ConcurrentAccess(t *testing.T) {
	cb := NewCircuitBreaker("concurrent-test", 30*time.Second, 100)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_ = cb.Execute(func() error {
				if id%2 == 0 {
					return nil
				}
				return errors.New("failure")
			})
		}(i)
	}
	wg.Wait()
	assert.Equal(t, "closed", cb.State())
}
