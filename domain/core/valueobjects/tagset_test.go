package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTagSet_NormalizesInput(t *testing.T) {
	set := NewTagSet([]string{" go ", "go", "", "  ", "db", "go"})

	assert.Equal(t, []string{"go", "db"}, set.Tags())
	assert.Equal(t, 2, set.Len())
}

func TestNewTagSet_NilIsEmpty(t *testing.T) {
	set := NewTagSet(nil)

	assert.True(t, set.IsEmpty())
	assert.Nil(t, set.Tags())
}

func TestTagSet_CaseSensitive(t *testing.T) {
	set := NewTagSet([]string{"Go", "go"})

	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains("Go"))
	assert.False(t, set.Contains("GO"))
}

func TestTagSet_IntersectOrderedByReceiver(t *testing.T) {
	a := NewTagSet([]string{"music", "go", "db"})
	b := NewTagSet([]string{"db", "go", "food"})

	assert.Equal(t, []string{"go", "db"}, a.Intersect(b))
	assert.Equal(t, []string{"db", "go"}, b.Intersect(a))
}

func TestTagSet_IntersectEmpty(t *testing.T) {
	a := NewTagSet([]string{"go"})
	b := NewTagSet([]string{"rust"})

	assert.Nil(t, a.Intersect(b))
	assert.Nil(t, a.Intersect(NewTagSet(nil)))
	assert.Nil(t, NewTagSet(nil).Intersect(a))
}

func TestTagSet_Equals(t *testing.T) {
	assert.True(t, NewTagSet([]string{"a", "b"}).Equals(NewTagSet([]string{"a", "b"})))
	// Order matters: swapping changes the derived shared-tag order.
	assert.False(t, NewTagSet([]string{"a", "b"}).Equals(NewTagSet([]string{"b", "a"})))
	assert.False(t, NewTagSet([]string{"a"}).Equals(NewTagSet([]string{"a", "b"})))
}

func TestTagSet_TagsReturnsCopy(t *testing.T) {
	set := NewTagSet([]string{"a", "b"})
	tags := set.Tags()
	tags[0] = "mutated"

	assert.Equal(t, []string{"a", "b"}, set.Tags())
}
