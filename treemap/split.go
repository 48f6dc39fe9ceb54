package treemap

import (
	"reflect"

	"github.com/on-the-ground/imprintcache/imprint"
)

// split partitions a and b into their shared intersection I and the parts
// only one side asserts, A\I and B\I. Any of the three return values may be
// nil, meaning "no constraint" on that side.
func split(a, b *imprint.Imprint) (i, aOnly, bOnly *imprint.Imprint) {
	iAcc := &imprint.Imprint{}
	aAcc := &imprint.Imprint{}
	bAcc := &imprint.Imprint{}

	splitCtor(a, b, iAcc, aAcc, bAcc)
	splitOwnKeys(a, b, iAcc, aAcc, bAcc)
	splitHas(a, b, iAcc, aAcc, bAcc)
	splitRead(a, b, iAcc, aAcc, bAcc)

	return elide(iAcc), elide(aAcc), elide(bAcc)
}

func elide(im *imprint.Imprint) *imprint.Imprint {
	if im.IsEmpty() {
		return nil
	}
	return im
}

func splitCtor(a, b, i, aRem, bRem *imprint.Imprint) {
	var aCtor, bCtor *imprint.CtorToken
	if a != nil {
		aCtor = a.Ctor
	}
	if b != nil {
		bCtor = b.Ctor
	}

	if aCtor != nil && bCtor != nil {
		if same, bothLive := imprint.SameLiveConstructor(aCtor, bCtor); bothLive && same {
			i.Ctor = aCtor
			return
		}
	}
	// A dead token carries no constraint, so it is dropped rather than
	// kept in a remainder.
	if aCtor != nil {
		if _, live := aCtor.Live(); live {
			aRem.Ctor = aCtor
		}
	}
	if bCtor != nil {
		if _, live := bCtor.Live(); live {
			bRem.Ctor = bCtor
		}
	}
}

func splitOwnKeys(a, b, i, aRem, bRem *imprint.Imprint) {
	var aKeys, bKeys *[]string
	if a != nil {
		aKeys = a.OwnKeys
	}
	if b != nil {
		bKeys = b.OwnKeys
	}

	if aKeys != nil && bKeys != nil && sameSequence(*aKeys, *bKeys) {
		i.OwnKeys = aKeys
		return
	}
	if aKeys != nil {
		aRem.OwnKeys = aKeys
	}
	if bKeys != nil {
		bRem.OwnKeys = bKeys
	}
}

func splitHas(a, b, i, aRem, bRem *imprint.Imprint) {
	aHas := hasOf(a)
	bHas := hasOf(b)

	for k, av := range aHas {
		if bv, ok := bHas[k]; ok {
			if av == bv {
				i.SetHas(k, av)
			} else {
				aRem.SetHas(k, av)
				bRem.SetHas(k, bv)
			}
		} else {
			aRem.SetHas(k, av)
		}
	}
	for k, bv := range bHas {
		if _, ok := aHas[k]; !ok {
			bRem.SetHas(k, bv)
		}
	}
}

func splitRead(a, b, i, aRem, bRem *imprint.Imprint) {
	aRead := readOf(a)
	bRead := readOf(b)

	for k, av := range aRead {
		bv, ok := bRead[k]
		if !ok {
			aRem.SetRead(k, av)
			continue
		}
		aChild, aIsChild := av.(*imprint.Imprint)
		bChild, bIsChild := bv.(*imprint.Imprint)
		switch {
		case aIsChild && bIsChild:
			subI, subA, subB := split(aChild, bChild)
			if subI != nil {
				i.SetRead(k, subI)
			}
			if subA != nil {
				aRem.SetRead(k, subA)
			}
			if subB != nil {
				bRem.SetRead(k, subB)
			}
		case !aIsChild && !bIsChild:
			if reflect.DeepEqual(av, bv) {
				i.SetRead(k, av)
			} else {
				aRem.SetRead(k, av)
				bRem.SetRead(k, bv)
			}
		default:
			// one side read an object, the other a primitive through the
			// same key: the shapes diverge entirely, so nothing overlaps.
			aRem.SetRead(k, av)
			bRem.SetRead(k, bv)
		}
	}
	for k, bv := range bRead {
		if _, ok := aRead[k]; !ok {
			bRem.SetRead(k, bv)
		}
	}
}

func hasOf(im *imprint.Imprint) map[string]bool {
	if im == nil {
		return nil
	}
	return im.Has
}

func readOf(im *imprint.Imprint) map[string]any {
	if im == nil {
		return nil
	}
	return im.Read
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
