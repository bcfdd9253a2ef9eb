// Package parallel provides the worker pool used by array kernels.
package parallel

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Config controls parallel execution behavior.
type Config struct {
	NumWorkers   int // Number of worker goroutines to use.
	MinChunkSize int // Minimum items per task to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	return Config{
		NumWorkers:   runtime.NumCPU(),
		MinChunkSize: 64, // Typical cache line aware chunk.
	}
}

// Pool is a fixed set of long-lived worker goroutines.
//
// Tasks are submitted through a Batch. A Batch waiting for its tasks runs the ones no
// worker has claimed yet, so batches can be nested inside pool tasks without deadlock.
type Pool struct {
	cfg   Config
	tasks chan *task
	wg    sync.WaitGroup

	mu     sync.RWMutex // guards closed and sends on tasks
	closed bool
}

type task struct {
	claimed atomic.Bool
	fn      func() error
	batch   *Batch
}

// NewPool starts a pool. A non-positive worker count is replaced by the CPU count.
func NewPool(cfg Config) *Pool {
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = runtime.NumCPU()
	}
	if cfg.MinChunkSize <= 0 {
		cfg.MinChunkSize = 1
	}
	p := &Pool{cfg: cfg}
	if cfg.NumWorkers > 1 {
		p.tasks = make(chan *task, cfg.NumWorkers*4)
		p.wg.Add(cfg.NumWorkers)
		for range cfg.NumWorkers {
			go p.worker()
		}
	}
	klog.V(1).Infof("parallel: pool started with %d workers", cfg.NumWorkers)
	return p
}

// Workers returns the number of workers.
func (p *Pool) Workers() int {
	return p.cfg.NumWorkers
}

// Close stops the workers. It may overlap running operations: tasks submitted after
// Close run inline, and tasks already queued are still executed.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed || p.tasks == nil {
		p.closed = true
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()
	p.wg.Wait()
	klog.V(1).Infof("parallel: pool with %d workers closed", p.cfg.NumWorkers)
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for t := range p.tasks {
		t.run()
	}
}

func (t *task) run() {
	if !t.claimed.CompareAndSwap(false, true) {
		return
	}
	defer t.batch.wg.Done()
	if t.batch.failed.Load() {
		return
	}
	if err := call(t.fn); err != nil {
		t.batch.fail(err)
	}
}

// call runs fn, converting a panic into an error.
func call(fn func() error) (err error) {
	exception := exceptions.Try(func() { err = fn() })
	if exception == nil {
		return err
	}
	if e, ok := exception.(error); ok {
		return e
	}
	return errors.New(fmt.Sprint(exception))
}

// Batch is a group of tasks joined by Wait.
type Batch struct {
	pool   *Pool
	tasks  []*task
	wg     sync.WaitGroup
	mu     sync.Mutex
	err    error
	failed atomic.Bool
}

// NewBatch creates an empty batch bound to the pool.
func (p *Pool) NewBatch() *Batch {
	return &Batch{pool: p}
}

// Go submits fn. With a single worker, a closed pool or a full queue it runs inline.
// Once a task of the batch has failed the remaining tasks are skipped.
func (b *Batch) Go(fn func() error) {
	t := &task{fn: fn, batch: b}
	b.wg.Add(1)
	b.tasks = append(b.tasks, t)
	if !b.pool.submit(t) {
		t.run()
	}
}

// submit queues t for a worker and reports whether it was accepted. The send never
// blocks, so holding the read lock cannot stall Close.
func (p *Pool) submit(t *task) bool {
	if p.tasks == nil {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	select {
	case p.tasks <- t:
		return true
	default:
		return false
	}
}

// Wait blocks until every task has completed and returns the first error raised.
// Go and Wait are called from the goroutine that owns the batch.
func (b *Batch) Wait() error {
	for _, t := range b.tasks {
		t.run()
	}
	b.wg.Wait()
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

func (b *Batch) fail(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err == nil {
		b.err = err
		b.failed.Store(true)
	}
}

// For executes fn over [0, n) split into contiguous chunks of at least minChunk items,
// one task per chunk. It falls back to a single inline call when n is too small.
func (p *Pool) For(n, minChunk int, fn func(start, end int) error) error {
	if n <= 0 {
		return nil
	}
	if minChunk <= 0 {
		minChunk = p.cfg.MinChunkSize
	}
	workers := p.cfg.NumWorkers
	if workers <= 1 || n < 2*minChunk {
		return call(func() error { return fn(0, n) })
	}
	chunk := max((n+workers-1)/workers, minChunk)
	b := p.NewBatch()
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		b.Go(func() error { return fn(start, end) })
	}
	return b.Wait()
}

// ForBatch runs fn for every (b, c) pair of a batch*channels grid.
func (p *Pool) ForBatch(batch, channels int, fn func(b, c int) error) error {
	return p.For(batch*channels, 1, func(start, end int) error {
		for k := start; k < end; k++ {
			if err := fn(k/channels, k%channels); err != nil {
				return err
			}
		}
		return nil
	})
}
