// Package memo wires the imprint, tracer, matcher, and treemap packages
// into a single-argument memoizing call wrapper with a bounded validity
// window per cached result.
//
// Where the core packages have no notion of staleness (an ImprintTreeMap
// entry lives forever once inserted), a Memoizer additionally timestamps
// each entry with a rickb777/date/v2/timespan.TimeSpan and treats a lookup
// that falls outside it as a miss, recomputing and overwriting in place.
package memo

import (
	"fmt"
	"sync"
	"time"

	"github.com/on-the-ground/imprintcache/imprint"
	"github.com/on-the-ground/imprintcache/internal/typeutil"
	"github.com/on-the-ground/imprintcache/tracer"
	"github.com/on-the-ground/imprintcache/treemap"
	"github.com/rickb777/date/v2/timespan"
	"go.uber.org/zap"
)

// Config controls how a Memoizer builds and ages its entries. The zero
// Config is not meant to be used directly; build one with NewConfig so
// defaults are applied.
type Config struct {
	ttl      time.Duration
	logger   *zap.Logger
	registry *imprint.CtorRegistry
}

// Option configures a Config.
type Option func(*Config)

// WithTTL sets how long a cached entry stays valid after it is computed.
// A zero or negative TTL (the default) means entries never expire on their
// own; they still get invalidated if the underlying function's reads
// change, the usual way.
func WithTTL(d time.Duration) Option {
	return func(c *Config) { c.ttl = d }
}

// WithLogger attaches a structured logger; omitted, a Memoizer logs
// nothing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) { c.logger = l }
}

// WithCtorRegistry overrides the shared constructor-token registry used to
// trace inputs.
func WithCtorRegistry(r *imprint.CtorRegistry) Option {
	return func(c *Config) { c.registry = r }
}

// NewConfig builds a Config, applying opts over sane defaults: no
// expiry, no logging, and the package-wide default ctor registry.
func NewConfig(opts ...Option) Config {
	c := Config{
		ttl:      0,
		logger:   zap.NewNop(),
		registry: imprint.DefaultRegistry(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Func is a pure, single-argument computation suitable for memoizing. It
// must read input only through the tracer.View handed to it (or through
// any plain value read off one), never by retaining and re-reading the raw
// input outside the call.
type Func func(input *tracer.View) (any, error)

// Memoizer caches the result of calling Fn against one input, keyed not by
// the input's identity but by which parts of it the most recent trace
// showed the function actually used.
type Memoizer struct {
	fn     Func
	tree   *treemap.ImprintTreeMap
	tracer *tracer.Tracer
	cfg    Config
	mu     sync.Mutex
}

// New builds a Memoizer wrapping fn.
func New(fn Func, opts ...Option) *Memoizer {
	cfg := NewConfig(opts...)
	return &Memoizer{
		fn:     fn,
		tree:   treemap.New(treemap.WithLogger(cfg.logger)),
		tracer: tracer.New(tracer.WithLogger(cfg.logger), tracer.WithCtorRegistry(cfg.registry)),
		cfg:    cfg,
	}
}

type entry struct {
	value    any
	validity timespan.TimeSpan
}

// Call returns the memoized result for input, recomputing it if no stored
// entry's imprint is compatible with input, or if the compatible entry's
// validity window has elapsed.
func (m *Memoizer) Call(input any) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if raw, err := m.tree.Lookup(input); err == nil {
		// Only Call ever inserts into m.tree, always as an entry; a type
		// mismatch here would mean this package itself is broken.
		e := typeutil.MustGetTypedValue[entry](func() (any, error) { return raw, nil })
		if e.validity.Contains(now) {
			m.cfg.logger.Debug("memo hit")
			return e.value, nil
		}
		m.cfg.logger.Debug("memo stale, recomputing")
	} else {
		m.cfg.logger.Debug("memo miss")
	}

	view, finalize, err := m.tracer.Trace(input)
	if err != nil {
		return nil, fmt.Errorf("memo: %w", err)
	}
	result, callErr := m.fn(view)
	im, finErr := finalize()
	if finErr != nil {
		return nil, fmt.Errorf("memo: %w", finErr)
	}
	if callErr != nil {
		return nil, callErr
	}

	end := now.AddDate(100, 0, 0)
	if m.cfg.ttl > 0 {
		end = now.Add(m.cfg.ttl)
	}
	m.tree.Insert(im, entry{value: result, validity: timespan.BetweenTimes(now, end)})
	return result, nil
}
