package interaction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"memoryweb/domain/config"
	"memoryweb/domain/core/entities"
	"memoryweb/domain/core/valueobjects"
	"memoryweb/visualization/layout"
)

func fixedMemory(t *testing.T, title string, x, y, z float64, tags ...string) *entities.Memory {
	t.Helper()
	content, err := valueobjects.NewMemoryContent(title, "", valueobjects.FormatPlainText)
	require.NoError(t, err)
	pos, err := valueobjects.NewPosition3D(x, y, z)
	require.NoError(t, err)
	now := time.Now()
	memory, err := entities.ReconstructMemory(
		valueobjects.NewMemoryID(), "user-1", content, tags,
		nil, nil, "", pos, 0, 0, now, now,
	)
	require.NoError(t, err)
	return memory
}

func newTestController() *Controller {
	c := NewController(config.DefaultDomainConfig(), zap.NewNop())
	c.SetViewport(400, 300)
	return c
}

func TestController_DragRotatesInOriginal(t *testing.T) {
	c := newTestController()

	c.PointerDown(100, 100)
	c.PointerMove(130, 120)
	c.PointerUp(130, 120)

	view := c.View()
	assert.InDelta(t, 0.3, view.RotationY, 1e-9)
	assert.InDelta(t, 0.2, view.RotationX, 1e-9)
	assert.Zero(t, view.PanX)
	assert.Zero(t, view.PanY)
}

func TestController_DragPansInFlatLayouts(t *testing.T) {
	c := newTestController()
	c.SwitchLayout(layout.KindTimeline)

	c.PointerDown(100, 100)
	c.PointerMove(130, 120)
	c.PointerUp(130, 120)

	view := c.View()
	assert.Zero(t, view.RotationX)
	assert.Zero(t, view.RotationY)
	assert.InDelta(t, 30, view.PanX, 1e-9)
	assert.InDelta(t, 20, view.PanY, 1e-9)
}

func TestController_ClickVersusDrag(t *testing.T) {
	c := newTestController()
	memory := fixedMemory(t, "A", 0, 0, 0, "go")
	c.Compute(layout.Snapshot{Memories: []*entities.Memory{memory}})

	// Under the threshold the release still selects.
	c.PointerDown(400, 300)
	c.PointerMove(402, 301)
	hit := c.PointerUp(402, 301)
	require.NotNil(t, hit)
	assert.True(t, hit.MemoryID.Equals(memory.ID()))

	// Past the threshold the gesture is a drag and must not select,
	// even when the pointer ends over a node.
	c.PointerDown(350, 300)
	c.PointerMove(400, 300)
	hit = c.PointerUp(400, 300)
	assert.Nil(t, hit)
}

func TestController_WheelZoomClamped(t *testing.T) {
	c := newTestController()

	for i := 0; i < 10; i++ {
		c.Wheel(1000)
	}
	assert.InDelta(t, 3.0, c.View().Zoom, 1e-9)

	c.Wheel(-1000)
	assert.InDelta(t, 0.01, c.View().Zoom, 1e-9)
}

func TestController_SwitchLayoutReclampsZoom(t *testing.T) {
	c := newTestController()

	// Zoom far out in the free-3D layout, below the flat layouts' minimum.
	c.Wheel(-1000)
	require.InDelta(t, 0.01, c.View().Zoom, 1e-9)

	c.SwitchLayout(layout.KindTagHub)

	assert.Equal(t, layout.KindTagHub, c.ActiveKind())
	assert.InDelta(t, 0.5, c.View().Zoom, 1e-9)
	assert.Nil(t, c.Hovered())
}

func TestController_SwitchLayoutUnknownIsNoop(t *testing.T) {
	c := newTestController()

	c.SwitchLayout(layout.Kind("spiral"))

	assert.Equal(t, layout.KindOriginal, c.ActiveKind())
}

func TestController_HoverTracking(t *testing.T) {
	c := newTestController()
	memory := fixedMemory(t, "A", 0, 0, 0, "go")
	c.Compute(layout.Snapshot{Memories: []*entities.Memory{memory}})

	c.PointerMove(400, 300)
	require.NotNil(t, c.Hovered())
	assert.True(t, c.Hovered().MemoryID.Equals(memory.ID()))

	c.PointerMove(-5000, -5000)
	assert.Nil(t, c.Hovered())
}

func TestController_StepFocusWrapsHubMembers(t *testing.T) {
	c := newTestController()
	c.SwitchLayout(layout.KindTagHub)

	a := fixedMemory(t, "A", 0, 0, 0, "t")
	b := fixedMemory(t, "B", 0, 0, 0, "t")
	cm := fixedMemory(t, "C", 0, 0, 0, "t")
	result := c.Compute(layout.Snapshot{Memories: []*entities.Memory{a, b, cm}})
	require.Len(t, result.TagHub.Hubs, 1)
	hub := result.TagHub.Hubs[0]

	c.PointerMove(hub.Screen.X, hub.Screen.Y)
	require.NotNil(t, c.Hovered())
	require.Equal(t, layout.HitHub, c.Hovered().Kind)

	c.StepFocus(1)
	assert.Equal(t, 1, c.FocusedMember())
	c.StepFocus(1)
	c.StepFocus(1)
	assert.Equal(t, 0, c.FocusedMember())
	c.StepFocus(-1)
	assert.Equal(t, 2, c.FocusedMember())
}

func TestController_StepFocusIgnoredOutsideTagHub(t *testing.T) {
	c := newTestController()

	c.StepFocus(1)
	assert.Equal(t, 0, c.FocusedMember())
}

func TestController_ToggleCluster(t *testing.T) {
	c := newTestController()

	c.ToggleCluster(2)
	assert.True(t, c.View().Expanded[2])
	c.ToggleCluster(2)
	assert.False(t, c.View().Expanded[2])
}

func TestController_AdvanceTimeMonotonic(t *testing.T) {
	c := newTestController()

	c.AdvanceTime(0.5)
	c.AdvanceTime(-2)
	c.AdvanceTime(0.25)

	assert.InDelta(t, 0.75, c.View().Time, 1e-9)
}
