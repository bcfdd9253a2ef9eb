package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor(t *testing.T) {
	for _, workers := range []int{1, 4, 8} {
		p := NewPool(Config{NumWorkers: workers, MinChunkSize: 8})
		var counter int64
		seen := make([]int32, 1000)
		err := p.For(len(seen), 0, func(start, end int) error {
			for i := start; i < end; i++ {
				atomic.AddInt64(&counter, 1)
				atomic.AddInt32(&seen[i], 1)
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1000), counter, "workers=%d", workers)
		for i, n := range seen {
			require.Equal(t, int32(1), n, "index %d visited %d times", i, n)
		}
		p.Close()
	}
}

func TestForSmallChunkRunsInline(t *testing.T) {
	p := NewPool(Config{NumWorkers: 4, MinChunkSize: 64})
	defer p.Close()

	calls := 0
	err := p.For(10, 0, func(start, end int) error {
		calls++
		assert.Equal(t, 0, start)
		assert.Equal(t, 10, end)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestForBatch(t *testing.T) {
	p := NewPool(DefaultConfig())
	defer p.Close()

	batch, channels := 4, 8
	results := make([][]bool, batch)
	for b := range results {
		results[b] = make([]bool, channels)
	}
	require.NoError(t, p.ForBatch(batch, channels, func(b, c int) error {
		results[b][c] = true
		return nil
	}))
	for b := range batch {
		for c := range channels {
			assert.True(t, results[b][c], "missing result at [%d][%d]", b, c)
		}
	}
}

func TestBatchFirstError(t *testing.T) {
	errBoom := errors.New("boom")
	p := NewPool(Config{NumWorkers: 4})
	defer p.Close()

	b := p.NewBatch()
	for i := range 32 {
		b.Go(func() error {
			if i == 5 {
				return errors.Wrap(errBoom, "task 5")
			}
			return nil
		})
	}
	err := b.Wait()
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
}

func TestBatchRecoversPanics(t *testing.T) {
	errBoom := errors.New("boom")
	p := NewPool(Config{NumWorkers: 2})
	defer p.Close()

	b := p.NewBatch()
	b.Go(func() error { panic(errors.Wrap(errBoom, "inside task")) })
	assert.ErrorIs(t, b.Wait(), errBoom)

	b = p.NewBatch()
	b.Go(func() error { panic("not an error") })
	err := b.Wait()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an error")
}

func TestNestedBatches(t *testing.T) {
	p := NewPool(Config{NumWorkers: 2})
	defer p.Close()

	var counter int64
	outer := p.NewBatch()
	for range 8 {
		outer.Go(func() error {
			inner := p.NewBatch()
			for range 8 {
				inner.Go(func() error {
					atomic.AddInt64(&counter, 1)
					return nil
				})
			}
			return inner.Wait()
		})
	}
	require.NoError(t, outer.Wait())
	assert.Equal(t, int64(64), counter)
}

func TestClosedPoolRunsInline(t *testing.T) {
	p := NewPool(Config{NumWorkers: 4})
	p.Close()
	p.Close()

	var counter int64
	require.NoError(t, p.For(1000, 10, func(start, end int) error {
		atomic.AddInt64(&counter, int64(end-start))
		return nil
	}))
	assert.Equal(t, int64(1000), counter)
	assert.Equal(t, 4, p.Workers())
}

func TestCloseDuringBatches(t *testing.T) {
	for range 20 {
		p := NewPool(Config{NumWorkers: 4})
		var counter int64
		done := make(chan error, 4)
		for range 4 {
			go func() {
				done <- p.For(4000, 1, func(start, end int) error {
					atomic.AddInt64(&counter, int64(end-start))
					return nil
				})
			}()
		}
		p.Close()
		for range 4 {
			require.NoError(t, <-done)
		}
		assert.Equal(t, int64(16000), counter)
	}
}
