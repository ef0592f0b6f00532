// Package interaction owns the view-state machine that sits between pointer
// events and the layout engines: drag-to-rotate/pan, zoom clamping, hover
// resolution, and click-versus-drag discrimination. It never touches the
// graph; layouts communicate with it exclusively through computed results.
package interaction

import (
	"memoryweb/domain/config"
	"memoryweb/visualization/layout"

	"go.uber.org/zap"
)

// dragState is the pointer state machine: Idle <-> Dragging
type dragState int

const (
	stateIdle dragState = iota
	stateDragging
)

// rotationPerPixel converts pointer deltas to radians in the free-3D layout
const rotationPerPixel = 0.01

// Controller tracks per-layout interaction state for one client view
type Controller struct {
	cfg     *config.DomainConfig
	engines map[layout.Kind]layout.Engine
	logger  *zap.Logger

	active layout.Kind
	view   layout.ViewState

	state        dragState
	lastX, lastY float64
	dragDistance float64

	lastResult *layout.Result
	hovered    *layout.Hit

	// focusedMember steps through a hovered hub's members with the arrow
	// keys; a hover peek, independent of selection.
	focusedMember int
}

// NewController creates a controller starting on the free-3D layout
func NewController(cfg *config.DomainConfig, logger *zap.Logger) *Controller {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		cfg:     cfg,
		engines: layout.Engines(cfg),
		logger:  logger,
		active:  layout.KindOriginal,
		view:    layout.NewViewState(cfg),
	}
}

// ActiveKind returns the currently active layout
func (c *Controller) ActiveKind() layout.Kind {
	return c.active
}

// View returns the current view state
func (c *Controller) View() layout.ViewState {
	return c.view
}

// Hovered returns the current hover hit, nil when the pointer is over
// nothing
func (c *Controller) Hovered() *layout.Hit {
	return c.hovered
}

// FocusedMember returns the hub member peek index
func (c *Controller) FocusedMember() int {
	return c.focusedMember
}

// SwitchLayout activates a different layout. Switching resets transient
// interaction state and clamps zoom into the new layout's bounds; it never
// mutates the underlying graph.
func (c *Controller) SwitchLayout(kind layout.Kind) {
	if _, ok := c.engines[kind]; !ok || kind == c.active {
		return
	}
	c.active = kind
	c.state = stateIdle
	c.dragDistance = 0
	c.hovered = nil
	c.focusedMember = 0
	c.lastResult = nil
	c.view.Zoom = c.clampZoom(c.view.Zoom)
	c.logger.Debug("layout switched", zap.String("layout", string(kind)))
}

// Compute runs the active engine over a snapshot and retains the result for
// hit-testing until positions change again
func (c *Controller) Compute(snap layout.Snapshot) *layout.Result {
	result := c.engines[c.active].Compute(snap, c.view)
	c.lastResult = result
	return result
}

// AdvanceTime moves the animation clock forward. Time never decreases.
func (c *Controller) AdvanceTime(delta float64) {
	if delta > 0 {
		c.view.Time += delta
	}
}

// PointerDown transitions Idle -> Dragging
func (c *Controller) PointerDown(x, y float64) {
	c.state = stateDragging
	c.lastX, c.lastY = x, y
	c.dragDistance = 0
}

// PointerMove updates rotation (free-3D layout) or pan (all other layouts)
// while dragging - never both - and recomputes hover against the last
// computed positions otherwise.
func (c *Controller) PointerMove(x, y float64) {
	if c.state == stateDragging {
		dx := x - c.lastX
		dy := y - c.lastY
		c.dragDistance += abs(dx) + abs(dy)

		if c.active == layout.KindOriginal {
			c.view.RotationY += dx * rotationPerPixel
			c.view.RotationX += dy * rotationPerPixel
		} else {
			c.view.PanX += dx
			c.view.PanY += dy
		}
		c.lastX, c.lastY = x, y
		return
	}

	c.updateHover(x, y)
}

// PointerUp transitions back to Idle and reports a selection hit only when
// the gesture stayed under the drag threshold; a drag must not also select.
func (c *Controller) PointerUp(x, y float64) *layout.Hit {
	wasDrag := c.dragDistance > c.cfg.ClickDragThreshold
	c.state = stateIdle
	c.dragDistance = 0

	if wasDrag {
		return nil
	}
	return c.hitTest(x, y)
}

// Wheel adjusts zoom by the wheel/pinch delta, clamped to the active
// layout's bounds. Zoom is independent of drag state.
func (c *Controller) Wheel(delta float64) {
	c.view.Zoom = c.clampZoom(c.view.Zoom * (1 + delta*0.001))
}

// StepFocus moves the hovered hub's member peek index by dir (-1 or +1),
// wrapping around. A no-op unless a hub is hovered in the tag-hub layout.
func (c *Controller) StepFocus(dir int) {
	if c.active != layout.KindTagHub || c.hovered == nil || c.hovered.Kind != layout.HitHub {
		return
	}
	hub := c.findHub(c.hovered.HubName)
	if hub == nil || len(hub.Members) == 0 {
		return
	}
	n := len(hub.Members)
	c.focusedMember = ((c.focusedMember+dir)%n + n) % n
}

// ToggleCluster expands or collapses a bubble in the clustered layout
func (c *Controller) ToggleCluster(clusterID int) {
	if c.view.Expanded == nil {
		c.view.Expanded = map[int]bool{}
	}
	c.view.Expanded[clusterID] = !c.view.Expanded[clusterID]
}

// SetWindow selects the timeline history window
func (c *Controller) SetWindow(window layout.TimeWindow) {
	c.view.Window = window
}

// SetViewport centers the projection on the given screen coordinates
func (c *Controller) SetViewport(centerX, centerY float64) {
	c.view.OffsetX = centerX
	c.view.OffsetY = centerY
}

func (c *Controller) updateHover(x, y float64) {
	hit := c.hitTest(x, y)
	switch {
	case hit == nil && c.hovered == nil:
		return
	case hit == nil:
		c.hovered = nil
		c.focusedMember = 0
	default:
		if c.hovered == nil || *c.hovered != *hit {
			c.hovered = hit
			c.focusedMember = 0
		}
	}
}

func (c *Controller) hitTest(x, y float64) *layout.Hit {
	if c.lastResult == nil {
		return nil
	}
	return c.engines[c.active].HitTest(c.lastResult, x, y)
}

func (c *Controller) clampZoom(zoom float64) float64 {
	min, max := c.engines[c.active].ZoomBounds()
	if zoom < min {
		return min
	}
	if zoom > max {
		return max
	}
	return zoom
}

func (c *Controller) findHub(name string) *layout.HubPlacement {
	if c.lastResult == nil || c.lastResult.TagHub == nil {
		return nil
	}
	for i := range c.lastResult.TagHub.Hubs {
		if c.lastResult.TagHub.Hubs[i].Name == name {
			return &c.lastResult.TagHub.Hubs[i]
		}
	}
	return nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
