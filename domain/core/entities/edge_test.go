package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"memoryweb/domain/core/valueobjects"
)

func TestPairKey_DirectionIndependent(t *testing.T) {
	a := valueobjects.NewMemoryID()
	b := valueobjects.NewMemoryID()

	assert.Equal(t, PairKey(a, b), PairKey(b, a))
	assert.NotEqual(t, PairKey(a, b), PairKey(a, a))
}

func TestEdge_StrengthAndEndpoints(t *testing.T) {
	a := valueobjects.NewMemoryID()
	b := valueobjects.NewMemoryID()
	c := valueobjects.NewMemoryID()
	edge := NewEdge(a, b, []string{"go", "db"})

	assert.Equal(t, 2, edge.Strength())
	assert.True(t, edge.Touches(a))
	assert.True(t, edge.Touches(b))
	assert.False(t, edge.Touches(c))

	other, ok := edge.OtherEnd(a)
	assert.True(t, ok)
	assert.True(t, other.Equals(b))

	_, ok = edge.OtherEnd(c)
	assert.False(t, ok)
}

func TestNewEdge_AnimationSeedRange(t *testing.T) {
	edge := NewEdge(valueobjects.NewMemoryID(), valueobjects.NewMemoryID(), []string{"go"})

	assert.GreaterOrEqual(t, edge.GlitchOffset, 0.0)
	assert.Less(t, edge.GlitchOffset, 10.0)
	assert.NotEmpty(t, edge.ID)
}
