// Package matcher decides whether a fresh value is compatible with a
// previously recorded imprint: whether performing the same reads on it
// would reproduce the same primitives and the same shape.
package matcher

import (
	"reflect"

	"github.com/on-the-ground/imprintcache/imprint"
	"github.com/on-the-ground/imprintcache/internal/reflectkit"
)

// Match reports whether obj is compatible with im. A nil (or empty) im
// matches any object, since it asserts no constraint.
//
// Rules are evaluated in order and any failure short-circuits to false:
// obj must be a non-nil object; a live ctor token must name obj's exact
// type; every has probe must reproduce; a recorded ownKeys sequence must
// reproduce element-wise in order; every read must reproduce, recursing
// into Match for a nested imprint, requiring the key to still be absent
// for a recorded imprint.Absent, and using value equality otherwise.
func Match(im *imprint.Imprint, obj any) bool {
	if !reflectkit.IsObject(obj) {
		return false
	}
	if im.IsEmpty() {
		return true
	}

	if im.Ctor != nil {
		if liveType, ok := im.Ctor.Live(); ok {
			if reflect.TypeOf(obj) != liveType {
				return false
			}
		}
	}

	for key, want := range im.Has {
		if reflectkit.Has(obj, key) != want {
			return false
		}
	}

	if im.OwnKeys != nil {
		got, ok := reflectkit.OwnKeys(obj)
		if !ok || !sameSequence(got, *im.OwnKeys) {
			return false
		}
	}

	for key, want := range im.Read {
		got, ok := reflectkit.Get(obj, key)
		if want == imprint.Absent {
			if ok {
				return false
			}
			continue
		}
		if childImprint, isChild := want.(*imprint.Imprint); isChild {
			if !ok || !Match(childImprint, got) {
				return false
			}
			continue
		}
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}

	return true
}

func sameSequence(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
