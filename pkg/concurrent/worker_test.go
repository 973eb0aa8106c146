package concurrent

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPoolRunsEveryJob(t *testing.T) {
	pool := NewWorkerPool(4, 16)

	var counter int64
	for i := 0; i < 32; i++ {
		pool.Submit(func() {
			atomic.AddInt64(&counter, 1)
		})
	}
	pool.Stop()

	assert.Equal(t, int64(32), counter)
}

func TestWorkerPoolStopIsIdempotent(t *testing.T) {
	pool := NewWorkerPool(1, 1)
	pool.Submit(func() {})
	pool.Stop()
	assert.NotPanics(t, func() { pool.Stop() })
}
