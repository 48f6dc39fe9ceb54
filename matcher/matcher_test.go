package matcher_test

import (
	"testing"

	"github.com/on-the-ground/imprintcache/imprint"
	"github.com/on-the-ground/imprintcache/matcher"
	"github.com/stretchr/testify/assert"
)

func TestMatch_EmptyImprintMatchesAnyObject(t *testing.T) {
	assert.True(t, matcher.Match(&imprint.Imprint{}, map[string]any{"x": 1}))
	assert.True(t, matcher.Match(nil, map[string]any{}))
}

func TestMatch_RejectsNonObject(t *testing.T) {
	im := &imprint.Imprint{}
	im.SetRead("x", 1)
	assert.False(t, matcher.Match(im, 42))
	assert.False(t, matcher.Match(im, nil))
}

func TestMatch_ReadMustReproduce(t *testing.T) {
	im := &imprint.Imprint{}
	im.SetRead("x", 1)

	assert.True(t, matcher.Match(im, map[string]any{"x": 1}))
	assert.False(t, matcher.Match(im, map[string]any{"x": 2}))
	assert.False(t, matcher.Match(im, map[string]any{}))
}

func TestMatch_HasMustReproduce(t *testing.T) {
	im := &imprint.Imprint{}
	im.SetHas("y", true)

	assert.True(t, matcher.Match(im, map[string]any{"y": 1}))
	assert.False(t, matcher.Match(im, map[string]any{}))
}

func TestMatch_HasFalseMatchesAbsence(t *testing.T) {
	im := &imprint.Imprint{}
	im.SetHas("y", false)

	assert.True(t, matcher.Match(im, map[string]any{}))
	assert.False(t, matcher.Match(im, map[string]any{"y": 1}))
}

func TestMatch_OwnKeysMustReproduceInOrder(t *testing.T) {
	im := &imprint.Imprint{}
	im.SetOwnKeys([]string{"A", "B"})

	assert.True(t, matcher.Match(im, struct{ A, B int }{}))
	assert.False(t, matcher.Match(im, struct{ B, A int }{}))
}

func TestMatch_AbsentReadMatchesOnlyContinuedAbsence(t *testing.T) {
	im := &imprint.Imprint{}
	im.SetRead("x", imprint.Absent)

	assert.True(t, matcher.Match(im, map[string]any{}))
	assert.False(t, matcher.Match(im, map[string]any{"x": nil}))
	assert.False(t, matcher.Match(im, map[string]any{"x": 1}))
}

func TestMatch_NestedReadRecurses(t *testing.T) {
	child := &imprint.Imprint{}
	child.SetRead("city", "busan")

	im := &imprint.Imprint{}
	im.SetRead("addr", child)

	assert.True(t, matcher.Match(im, map[string]any{
		"addr": map[string]any{"city": "busan"},
	}))
	assert.False(t, matcher.Match(im, map[string]any{
		"addr": map[string]any{"city": "seoul"},
	}))
}

func TestMatch_NaNPrimitivesCompareUnequal(t *testing.T) {
	im := &imprint.Imprint{}
	im.SetRead("x", nan())

	assert.False(t, matcher.Match(im, map[string]any{"x": nan()}))
}

func nan() float64 {
	var zero float64
	return zero / zero
}
