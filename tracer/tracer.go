// Package tracer implements the access tracer: it wraps an arbitrary root
// object in a View that transparently forwards reads while recording every
// property read, existence probe, and key enumeration into an
// imprint.Imprint, then freezes that imprint on Finalize.
//
// Go has no object-proxy mechanism, so a View is an explicit wrapper type
// rather than a runtime trap; see internal/reflectkit for how it resolves
// reads against maps, structs, and the Gettable/Hasable/OrderedKeyer
// capability interfaces.
package tracer

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/on-the-ground/imprintcache/imprint"
	"github.com/on-the-ground/imprintcache/internal/reflectkit"
	"go.uber.org/zap"
)

// Tracer constructs traces. The zero value is not usable; build one with
// New.
type Tracer struct {
	registry *imprint.CtorRegistry
	logger   *zap.Logger
}

// Option configures a Tracer.
type Option func(*Tracer)

// WithLogger attaches a structured logger; omitted, a Tracer logs nothing.
func WithLogger(l *zap.Logger) Option {
	return func(t *Tracer) { t.logger = l }
}

// WithCtorRegistry overrides the default shared constructor-token registry.
func WithCtorRegistry(r *imprint.CtorRegistry) Option {
	return func(t *Tracer) { t.registry = r }
}

// New builds a Tracer.
func New(opts ...Option) *Tracer {
	t := &Tracer{
		registry: imprint.DefaultRegistry(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Finalize returns the frozen root imprint and disables every view created
// under the trace.
type Finalize func() (*imprint.Imprint, error)

// Trace wraps root for read-only, recorded access. It fails with
// imprint.ErrInvalidTarget if root is nil or not an object
// (reflectkit.IsObject).
func (t *Tracer) Trace(root any) (*View, Finalize, error) {
	if !reflectkit.IsObject(root) {
		return nil, nil, fmt.Errorf("%w: %T", imprint.ErrInvalidTarget, root)
	}
	node := &imprint.Imprint{}
	node.Ctor = t.registry.Intern(reflect.TypeOf(root))

	view := newView(t, node, root)
	t.logger.Debug("trace started", zap.String("ctor", fmt.Sprintf("%T", root)))

	finalize := func() (*imprint.Imprint, error) {
		view.disableTree()
		node.Sanitize()
		t.logger.Debug("trace finalized", zap.Int("reads", len(node.Read)), zap.Int("has", len(node.Has)))
		return node, nil
	}
	return view, finalize, nil
}

// View is a read-only, recording handle over one object reached by one
// access path. Repeated reads of the same key on the same View return the
// identical child View (view stability), and every View under a trace is
// disabled in lockstep by that trace's Finalize.
type View struct {
	tracer *Tracer
	node   *imprint.Imprint
	target any

	mu       sync.Mutex
	disabled bool
	children map[string]*View
}

func newView(t *Tracer, node *imprint.Imprint, target any) *View {
	return &View{
		tracer:   t,
		node:     node,
		target:   target,
		children: make(map[string]*View),
	}
}

// Unwrap returns the underlying value a View wraps, for callers that need
// to hand it to code outside the traced call (e.g. to store a reference).
// Reading through the returned value instead of the View records nothing.
func (v *View) Unwrap() any {
	return v.target
}

// Get reads key. If the underlying value is itself an object, Get returns a
// *View over it (allocating one on first read, reusing it thereafter);
// otherwise it returns the primitive value read.
func (v *View) Get(key string) (any, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.disabled {
		return nil, fmt.Errorf("%w: get(%q) after finalize", imprint.ErrTracerUnsupported, key)
	}
	if child, ok := v.children[key]; ok {
		return child, nil
	}

	raw, ok := reflectkit.Get(v.target, key)
	if !ok {
		v.node.SetRead(key, imprint.Absent)
		return nil, nil
	}
	if reflectkit.IsObject(raw) {
		childNode := v.node.ChildFor(key)
		childNode.Ctor = v.tracer.registry.Intern(reflect.TypeOf(raw))
		child := newView(v.tracer, childNode, raw)
		v.children[key] = child
		return child, nil
	}
	if !reflectkit.IsComparable(raw) {
		return nil, fmt.Errorf("%w: value at %q of type %T is not comparable", imprint.ErrTracerUnsupported, key, raw)
	}
	v.node.SetRead(key, raw)
	return raw, nil
}

// Has probes whether key exists on the wrapped object.
func (v *View) Has(key string) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.disabled {
		return false, fmt.Errorf("%w: has(%q) after finalize", imprint.ErrTracerUnsupported, key)
	}
	present := reflectkit.Has(v.target, key)
	v.node.SetHas(key, present)
	return present, nil
}

// OwnKeys enumerates the wrapped object's own keys, in the order described
// by internal/reflectkit.
func (v *View) OwnKeys() ([]string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.disabled {
		return nil, fmt.Errorf("%w: ownKeys() after finalize", imprint.ErrTracerUnsupported)
	}
	keys, ok := reflectkit.OwnKeys(v.target)
	if !ok {
		return nil, fmt.Errorf("%w: %T does not support key enumeration", imprint.ErrTracerUnsupported, v.target)
	}
	v.node.SetOwnKeys(keys)
	return keys, nil
}

// Set, Delete, Invoke, and Construct are write- or invocation-shaped
// operations. A View never supports them; they exist only so a caller
// reaching for a mutating method gets a clear, typed error instead of a
// missing-method compile failure hiding the real design constraint.

// Set always fails: writes to a traced input are a programming error.
func (v *View) Set(key string, _ any) error {
	return fmt.Errorf("%w: set(%q) on a traced view", imprint.ErrTracerUnsupported, key)
}

// Delete always fails, for the same reason as Set.
func (v *View) Delete(key string) error {
	return fmt.Errorf("%w: delete(%q) on a traced view", imprint.ErrTracerUnsupported, key)
}

// Invoke always fails: calling a traced value is not a modelled access.
func (v *View) Invoke(_ ...any) (any, error) {
	return nil, fmt.Errorf("%w: invoke on a traced view", imprint.ErrTracerUnsupported)
}

// Construct always fails: instantiating a traced value (e.g. `new`-ing it)
// is not a modelled access.
func (v *View) Construct(_ ...any) (any, error) {
	return nil, fmt.Errorf("%w: construct on a traced view", imprint.ErrTracerUnsupported)
}

func (v *View) disableTree() {
	v.mu.Lock()
	v.disabled = true
	children := make([]*View, 0, len(v.children))
	for _, c := range v.children {
		children = append(children, c)
	}
	v.mu.Unlock()

	for _, c := range children {
		c.disableTree()
	}
}
