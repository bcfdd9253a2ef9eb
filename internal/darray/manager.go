package darray

import (
	"runtime"

	"github.com/born-ml/darray/internal/dtype"
	"github.com/born-ml/darray/internal/parallel"
	"k8s.io/klog/v2"
)

// DefaultL2CacheBytes is the L2 cache size assumed when none is configured.
const DefaultL2CacheBytes = 256 * 1024

// Config holds the engine parameters captured by a Manager.
type Config struct {
	Threads      int // Worker count used by the parallel matmul and copy paths.
	L2CacheBytes int // Cache size the tile sizes are derived from.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	return Config{
		Threads:      runtime.NumCPU(),
		L2CacheBytes: DefaultL2CacheBytes,
	}
}

// Manager owns the engine configuration and the worker pool, and hands out the typed
// array factories. The configuration is fixed at construction.
type Manager struct {
	cfg  Config
	pool *parallel.Pool

	bytes   *Factory[int8]
	ints    *Factory[int32]
	floats  *Factory[float32]
	doubles *Factory[float64]
}

// NewManager creates a manager and starts its worker pool.
// Out of range configuration values are replaced by defaults.
func NewManager(cfg Config) *Manager {
	def := DefaultConfig()
	if cfg.Threads <= 0 {
		klog.Warningf("darray: invalid thread count %d, using %d", cfg.Threads, def.Threads)
		cfg.Threads = def.Threads
	}
	if cfg.L2CacheBytes <= 0 {
		klog.Warningf("darray: invalid L2 cache size %d, using %d", cfg.L2CacheBytes, def.L2CacheBytes)
		cfg.L2CacheBytes = def.L2CacheBytes
	}
	m := &Manager{
		cfg:  cfg,
		pool: parallel.NewPool(parallel.Config{NumWorkers: cfg.Threads}),
	}
	m.bytes = &Factory[int8]{m: m, dt: dtype.Of[int8]()}
	m.ints = &Factory[int32]{m: m, dt: dtype.Of[int32]()}
	m.floats = &Factory[float32]{m: m, dt: dtype.Of[float32]()}
	m.doubles = &Factory[float64]{m: m, dt: dtype.Of[float64]()}
	klog.V(1).Infof("darray: manager created with %d threads, L2 cache %d bytes", cfg.Threads, cfg.L2CacheBytes)
	return m
}

// Close stops the worker pool. Parallel operations keep working, single threaded.
func (m *Manager) Close() {
	m.pool.Close()
}

// Config returns the configuration in use.
func (m *Manager) Config() Config { return m.cfg }

// Threads returns the configured worker count.
func (m *Manager) Threads() int { return m.cfg.Threads }

// L2CacheBytes returns the configured cache size.
func (m *Manager) L2CacheBytes() int { return m.cfg.L2CacheBytes }

// Byte returns the factory of int8 arrays.
func (m *Manager) Byte() *Factory[int8] { return m.bytes }

// Int returns the factory of int32 arrays.
func (m *Manager) Int() *Factory[int32] { return m.ints }

// Float returns the factory of float32 arrays.
func (m *Manager) Float() *Factory[float32] { return m.floats }

// Double returns the factory of float64 arrays.
func (m *Manager) Double() *Factory[float64] { return m.doubles }

// Of returns the factory of arrays with element type N.
func Of[N dtype.Num](m *Manager) *Factory[N] {
	var f any
	switch dtype.Of[N]().ID() {
	case dtype.Byte:
		f = m.bytes
	case dtype.Int:
		f = m.ints
	case dtype.Float:
		f = m.floats
	default:
		f = m.doubles
	}
	return f.(*Factory[N])
}
