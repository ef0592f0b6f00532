package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memoryweb/domain/config"
	"memoryweb/domain/core/entities"
	"memoryweb/visualization/geometry"
)

func TestTagHub_HubsOrderedByMemberCount(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	engine := NewTagHub(cfg)

	a := fixedMemory(t, "A", 0, 0, 0, "popular", "rare")
	b := fixedMemory(t, "B", 0, 0, 0, "popular")
	c := fixedMemory(t, "C", 0, 0, 0, "popular", "niche")

	result := engine.Compute(Snapshot{Memories: []*entities.Memory{a, b, c}}, neutralView(cfg))

	require.NotNil(t, result.TagHub)
	require.Len(t, result.TagHub.Hubs, 3)
	assert.Equal(t, "popular", result.TagHub.Hubs[0].Name)
	assert.Len(t, result.TagHub.Hubs[0].Members, 3)
	// Equal counts tie-break alphabetically.
	assert.Equal(t, "niche", result.TagHub.Hubs[1].Name)
	assert.Equal(t, "rare", result.TagHub.Hubs[2].Name)
}

func TestTagHub_GoldenAngleSpiral(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	engine := NewTagHub(cfg)
	view := neutralView(cfg)

	memories := []*entities.Memory{
		fixedMemory(t, "A", 0, 0, 0, "t0"),
		fixedMemory(t, "B", 0, 0, 0, "t0", "t1"),
	}

	result := engine.Compute(Snapshot{Memories: memories}, view)
	require.Len(t, result.TagHub.Hubs, 2)

	// Hub 0 sits at angle 0, distance HubBaseDistance from the viewport center.
	hub0 := result.TagHub.Hubs[0]
	assert.InDelta(t, view.OffsetX+cfg.HubBaseDistance, hub0.Screen.X, 1e-9)
	assert.InDelta(t, view.OffsetY, hub0.Screen.Y, 1e-9)

	// Hub 1 sits one golden-angle step out at HubBaseDistance + HubDistanceStep.
	hub1 := result.TagHub.Hubs[1]
	angle := cfg.HubGoldenAngle()
	distance := cfg.HubBaseDistance + cfg.HubDistanceStep
	assert.InDelta(t, view.OffsetX+math.Cos(angle)*distance, hub1.Screen.X, 1e-9)
	assert.InDelta(t, view.OffsetY+math.Sin(angle)*distance, hub1.Screen.Y, 1e-9)
}

func TestTagHub_MembersOrbitEvenly(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	engine := NewTagHub(cfg)

	memories := []*entities.Memory{
		fixedMemory(t, "A", 0, 0, 0, "t"),
		fixedMemory(t, "B", 0, 0, 0, "t"),
		fixedMemory(t, "C", 0, 0, 0, "t"),
		fixedMemory(t, "D", 0, 0, 0, "t"),
	}

	result := engine.Compute(Snapshot{Memories: memories}, neutralView(cfg))
	require.Len(t, result.TagHub.Hubs, 1)
	hub := result.TagHub.Hubs[0]
	require.Len(t, hub.Members, 4)

	// All members sit on the same orbit ring around the hub.
	orbit := hub.Radius + cfg.HubMemberOrbitPad
	for _, member := range hub.Members {
		dist := geometry.Distance2D(hub.Screen.X, hub.Screen.Y, member.Screen.X, member.Screen.Y)
		assert.InDelta(t, orbit, dist, 1e-9)
	}

	// Larger membership grows the hub radius.
	small := engine.hubRadius(1)
	large := engine.hubRadius(10)
	assert.Greater(t, large, small)
}

func TestTagHub_HitTestMemberBeforeHub(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	engine := NewTagHub(cfg)

	a := fixedMemory(t, "A", 0, 0, 0, "t")
	b := fixedMemory(t, "B", 0, 0, 0, "t")
	result := engine.Compute(Snapshot{Memories: []*entities.Memory{a, b}}, neutralView(cfg))
	require.Len(t, result.TagHub.Hubs, 1)
	hub := result.TagHub.Hubs[0]

	memberHit := engine.HitTest(result, hub.Members[0].Screen.X, hub.Members[0].Screen.Y)
	require.NotNil(t, memberHit)
	assert.Equal(t, HitMemory, memberHit.Kind)
	assert.True(t, memberHit.MemoryID.Equals(a.ID()))

	hubHit := engine.HitTest(result, hub.Screen.X, hub.Screen.Y)
	require.NotNil(t, hubHit)
	assert.Equal(t, HitHub, hubHit.Kind)
	assert.Equal(t, "t", hubHit.HubName)

	assert.Nil(t, engine.HitTest(result, -10000, -10000))
}
