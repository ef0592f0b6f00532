package layout

import (
	"math"
	"sort"
	"time"

	"memoryweb/domain/config"
	"memoryweb/domain/core/entities"
	"memoryweb/visualization/geometry"
)

// Timeline places memories along a horizontal time axis, newest at the
// right edge of the window. Vertical stacking displaces a node to a higher
// row whenever its x lands too close to an already placed node; this is a
// collision-avoidance approximation, not a non-overlap guarantee.
type Timeline struct {
	cfg *config.DomainConfig
}

// NewTimeline creates the timeline layout engine
func NewTimeline(cfg *config.DomainConfig) *Timeline {
	return &Timeline{cfg: cfg}
}

// Kind identifies the engine
func (t *Timeline) Kind() Kind {
	return KindTimeline
}

// ZoomBounds returns the timeline zoom clamp range
func (t *Timeline) ZoomBounds() (float64, float64) {
	return t.cfg.MinZoomFlat, t.cfg.MaxZoomFlat
}

// Compute maps creation time linearly onto the horizontal span for the
// selected window. Memories older than the window start are excluded;
// with WindowAll the span stretches back to the oldest memory, so x order
// equals timestamp order.
func (t *Timeline) Compute(snap Snapshot, view ViewState) *Result {
	now := view.Now
	if now.IsZero() {
		now = time.Now()
	}

	ordered := make([]*entities.Memory, 0, len(snap.Memories))
	for _, memory := range snap.Memories {
		if memory != nil {
			ordered = append(ordered, memory)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		ti, tj := ordered[i].CreatedAt(), ordered[j].CreatedAt()
		if ti.Equal(tj) {
			return ordered[i].ID().String() < ordered[j].ID().String()
		}
		return ti.Before(tj)
	})

	start := t.windowStart(ordered, now, view.Window)
	span := now.Sub(start)
	if span <= 0 {
		span = time.Second
	}

	result := &TimelineResult{Start: start, End: now}
	spanWidth := t.cfg.TimelineSpanWidth * view.Zoom
	left := view.OffsetX + view.PanX - spanWidth/2

	type placednode struct {
		x   float64
		row int
	}
	var placed []placednode

	for _, memory := range ordered {
		created := memory.CreatedAt()
		if created.Before(start) {
			continue
		}
		elapsed := created.Sub(start)
		x := left + spanWidth*float64(elapsed)/float64(span)

		// Climb rows until no lower-row node sits within the collision
		// gap of this x.
		row := 0
		for {
			collided := false
			for _, prev := range placed {
				if prev.row == row && math.Abs(prev.x-x) < t.cfg.TimelineCollisionGap*view.Zoom {
					collided = true
					break
				}
			}
			if !collided {
				break
			}
			row++
		}
		placed = append(placed, placednode{x: x, row: row})
		if row+1 > result.RowCount {
			result.RowCount = row + 1
		}

		y := view.OffsetY + view.PanY + t.cfg.TimelineBaseRow - float64(row)*t.cfg.TimelineRowHeight*view.Zoom
		result.Nodes = append(result.Nodes, NodePlacement{
			ID:     memory.ID(),
			Screen: geometry.ScreenPoint{X: x, Y: y, Scale: 1},
			Radius: t.nodeRadius(memory, view),
			Title:  memory.Content().Title(),
		})
	}

	return &Result{Kind: KindTimeline, Timeline: result}
}

// HitTest resolves the nearest node within tolerance
func (t *Timeline) HitTest(result *Result, x, y float64) *Hit {
	if result == nil || result.Timeline == nil {
		return nil
	}

	var best *NodePlacement
	bestDist := math.Inf(1)
	for i := range result.Timeline.Nodes {
		node := &result.Timeline.Nodes[i]
		tolerance := node.Radius
		if tolerance < t.cfg.HoverTolerance {
			tolerance = t.cfg.HoverTolerance
		}
		dist := geometry.Distance2D(x, y, node.Screen.X, node.Screen.Y)
		if dist <= tolerance && dist < bestDist {
			best = node
			bestDist = dist
		}
	}
	if best == nil {
		return nil
	}
	return &Hit{Kind: HitMemory, MemoryID: best.ID}
}

func (t *Timeline) windowStart(ordered []*entities.Memory, now time.Time, window TimeWindow) time.Time {
	if d := window.Duration(); d > 0 {
		return now.Add(-d)
	}
	// WindowAll spans back to the oldest memory.
	if len(ordered) > 0 {
		return ordered[0].CreatedAt()
	}
	return now
}

func (t *Timeline) nodeRadius(memory *entities.Memory, view ViewState) float64 {
	pulse := 1 + 0.15*math.Sin(view.Time*2+memory.PulsePhase())
	return t.cfg.NodeRadius * view.Zoom * pulse
}
