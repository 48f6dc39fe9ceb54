package treemap_test

import (
	"testing"

	"github.com/on-the-ground/imprintcache/imprint"
	"github.com/on-the-ground/imprintcache/treemap"
	"github.com/stretchr/testify/assert"
)

func readImprint(pairs ...any) *imprint.Imprint {
	im := &imprint.Imprint{}
	for i := 0; i < len(pairs); i += 2 {
		im.SetRead(pairs[i].(string), pairs[i+1])
	}
	return im
}

func TestImprintTreeMap_LookupOnEmptyMapMisses(t *testing.T) {
	m := treemap.New()
	_, err := m.Lookup(map[string]any{"x": 1})
	assert.ErrorIs(t, err, imprint.ErrNoMatch)
}

func TestImprintTreeMap_SingleEntryRoundTrips(t *testing.T) {
	m := treemap.New()
	m.Insert(readImprint("x", 1), "hit")

	v, err := m.Lookup(map[string]any{"x": 1})
	assert.NoError(t, err)
	assert.Equal(t, "hit", v)

	_, err = m.Lookup(map[string]any{"x": 2})
	assert.ErrorIs(t, err, imprint.ErrNoMatch)
}

func TestImprintTreeMap_ReinsertIdenticalImprintOverwrites(t *testing.T) {
	m := treemap.New()
	im := readImprint("x", 1)
	m.Insert(im, "first")
	m.Insert(readImprint("x", 1), "second")

	v, err := m.Lookup(map[string]any{"x": 1})
	assert.NoError(t, err)
	assert.Equal(t, "second", v)
}

// TestImprintTreeMap_ProgressiveSpecialization mirrors the design's
// canonical scenario: three imprints inserted in order of increasing
// specificity must each be recoverable by lookup, without any of them
// shadowing another.
func TestImprintTreeMap_ProgressiveSpecialization(t *testing.T) {
	m := treemap.New()

	imA := readImprint("x", 1)
	m.Insert(imA, 10)

	imB := readImprint("x", 1, "y", 2)
	m.Insert(imB, 20)

	imC := &imprint.Imprint{}
	imC.SetRead("x", 1)
	imC.SetRead("y", 3)
	imC.SetOwnKeys([]string{"x", "y"})
	m.Insert(imC, 30)

	v, err := m.Lookup(map[string]any{"x": 1})
	assert.NoError(t, err)
	assert.Equal(t, 10, v)

	v, err = m.Lookup(map[string]any{"x": 1, "y": 2})
	assert.NoError(t, err)
	assert.Equal(t, 20, v)

	v, err = m.Lookup(map[string]any{"x": 1, "y": 3})
	assert.NoError(t, err)
	assert.Equal(t, 30, v)

	_, err = m.Lookup(map[string]any{"x": 2})
	assert.ErrorIs(t, err, imprint.ErrNoMatch)
}

func TestImprintTreeMap_DivergentBranchesBothSurvive(t *testing.T) {
	m := treemap.New()
	m.Insert(readImprint("x", 1), "branchA")
	m.Insert(readImprint("x", 2), "branchB")

	v, err := m.Lookup(map[string]any{"x": 1})
	assert.NoError(t, err)
	assert.Equal(t, "branchA", v)

	v, err = m.Lookup(map[string]any{"x": 2})
	assert.NoError(t, err)
	assert.Equal(t, "branchB", v)
}

func TestImprintTreeMap_ChildPreferredOverParentValue(t *testing.T) {
	m := treemap.New()
	m.Insert(readImprint("x", 1), "parent")
	m.Insert(readImprint("x", 1, "y", 2), "child")

	v, err := m.Lookup(map[string]any{"x": 1, "y": 2})
	assert.NoError(t, err)
	assert.Equal(t, "child", v)

	v, err = m.Lookup(map[string]any{"x": 1})
	assert.NoError(t, err)
	assert.Equal(t, "parent", v)
}
