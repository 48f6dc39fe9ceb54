// Package treemap implements the ImprintTreeMap: a forest of nodes, each
// carrying an imprint delta relative to its parent, that stores many
// (imprint -> value) associations by factoring their shared prefixes.
// Insert and lookup cost scales with the sum of imprint sizes along the
// walked path, not with the number of stored entries.
package treemap

import (
	"sync"

	"github.com/on-the-ground/imprintcache/imprint"
	"github.com/on-the-ground/imprintcache/matcher"
	"go.uber.org/zap"
)

// Node is one interior point of the forest: the imprint delta along the
// edge from its parent, an optional stored value, and further-specialized
// children.
type Node struct {
	imprint  *imprint.Imprint
	value    any
	hasValue bool
	children []*Node
}

// ImprintTreeMap stores (imprint, value) associations. The zero value is
// not usable; build one with New.
//
// The core algorithm itself has no suspension points and assumes no
// concurrent access (see the design's concurrency model); this type adds
// one mutex around Insert/Lookup so that, unlike the core in isolation, it
// is safe to share across goroutines the way an external caching layer
// generally needs to.
type ImprintTreeMap struct {
	mu     sync.Mutex
	roots  []*Node
	logger *zap.Logger
}

// Option configures an ImprintTreeMap.
type Option func(*ImprintTreeMap)

// WithLogger attaches a structured logger for split/insert/lookup
// diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(m *ImprintTreeMap) { m.logger = l }
}

// New builds an empty ImprintTreeMap.
func New(opts ...Option) *ImprintTreeMap {
	m := &ImprintTreeMap{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Insert records that an input matching im yields value. Re-inserting with
// an imprint identical to one already stored overwrites the stored value
// rather than shadowing it behind a duplicate node.
func (m *ImprintTreeMap) Insert(im *imprint.Imprint, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, root := range m.roots {
		intersection, aOnly, bOnly := split(root.imprint, im)
		if intersection == nil {
			continue
		}

		if aOnly == nil && bOnly == nil {
			// im is exactly root.imprint: overwrite in place.
			root.imprint = intersection
			root.value = value
			root.hasValue = true
			m.logger.Debug("treemap insert: exact overwrite", zap.Int("root", i))
			return
		}

		replacement := &Node{imprint: intersection}
		if bOnly != nil {
			replacement.children = append(replacement.children, &Node{
				imprint:  bOnly,
				value:    value,
				hasValue: true,
			})
		} else {
			replacement.value = value
			replacement.hasValue = true
		}

		if aOnly != nil {
			root.imprint = aOnly
		} else {
			root.imprint = &imprint.Imprint{}
		}
		replacement.children = append(replacement.children, root)

		m.roots[i] = replacement
		m.logger.Debug("treemap insert: split", zap.Int("root", i))
		return
	}

	m.roots = append(m.roots, &Node{imprint: im, value: value, hasValue: true})
	m.logger.Debug("treemap insert: new root", zap.Int("roots", len(m.roots)))
}

// Lookup returns the value whose imprint chain matches obj, or
// imprint.ErrNoMatch if no stored entry is compatible with it.
func (m *ImprintTreeMap) Lookup(obj any) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, root := range m.roots {
		if v, ok := lookupNode(root, obj); ok {
			return v, nil
		}
	}
	m.logger.Debug("treemap lookup: no match")
	return nil, imprint.ErrNoMatch
}

// lookupNode implements the preference rule: a matching child always wins
// over the current node's own value, which is only returned as the
// catch-all for inputs that share this node's prefix but specialize no
// further (or specialize in a way no child captures).
func lookupNode(n *Node, obj any) (any, bool) {
	if !matcher.Match(n.imprint, obj) {
		return nil, false
	}
	for _, child := range n.children {
		if v, ok := lookupNode(child, obj); ok {
			return v, true
		}
	}
	if n.hasValue {
		return n.value, true
	}
	return nil, false
}
