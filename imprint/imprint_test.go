package imprint_test

import (
	"testing"

	"github.com/on-the-ground/imprintcache/imprint"
	"github.com/stretchr/testify/assert"
)

func TestImprint_IsEmpty(t *testing.T) {
	var nilImprint *imprint.Imprint
	assert.True(t, nilImprint.IsEmpty())

	im := &imprint.Imprint{}
	assert.True(t, im.IsEmpty())

	im.SetRead("x", 1)
	assert.False(t, im.IsEmpty())
}

func TestImprint_ChildForIsStable(t *testing.T) {
	im := &imprint.Imprint{}
	first := im.ChildFor("addr")
	second := im.ChildFor("addr")
	assert.Same(t, first, second)

	first.SetRead("city", "busan")
	assert.Equal(t, "busan", second.Read["city"])
}

func TestImprint_SetOwnKeysCopiesSlice(t *testing.T) {
	im := &imprint.Imprint{}
	src := []string{"a", "b"}
	im.SetOwnKeys(src)
	src[0] = "z"
	assert.Equal(t, []string{"a", "b"}, *im.OwnKeys)
}

func TestImprint_SanitizeNilsEmptyMaps(t *testing.T) {
	im := &imprint.Imprint{
		Read: map[string]any{},
		Has:  map[string]bool{},
	}
	im.Sanitize()
	assert.Nil(t, im.Read)
	assert.Nil(t, im.Has)
}

func TestImprint_SanitizeRecursesIntoChildren(t *testing.T) {
	child := &imprint.Imprint{Read: map[string]any{}}
	im := &imprint.Imprint{Read: map[string]any{"addr": child}}
	im.Sanitize()
	assert.Nil(t, child.Read)
}
