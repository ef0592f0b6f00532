package layout

import (
	"math"
	"sort"

	"memoryweb/domain/config"
	"memoryweb/domain/core/entities"
	"memoryweb/visualization/geometry"
)

// Original is the free-3D layout: each memory keeps its stored position,
// rotated by the current view angles and projected with perspective.
type Original struct {
	cfg *config.DomainConfig
}

// NewOriginal creates the free-3D layout engine
func NewOriginal(cfg *config.DomainConfig) *Original {
	return &Original{cfg: cfg}
}

// Kind identifies the engine
func (o *Original) Kind() Kind {
	return KindOriginal
}

// ZoomBounds returns the free-3D zoom clamp range
func (o *Original) ZoomBounds() (float64, float64) {
	return o.cfg.MinZoomOriginal, o.cfg.MaxZoomOriginal
}

// Compute rotates and projects every memory, dropping points behind the
// camera, then orders nodes back-to-front so the renderer can paint with
// the painter's algorithm (larger depth first).
func (o *Original) Compute(snap Snapshot, view ViewState) *Result {
	result := &OriginalResult{
		Nodes: make([]NodePlacement, 0, len(snap.Memories)),
	}

	placed := make(map[string]geometry.ScreenPoint, len(snap.Memories))
	for _, memory := range snap.Memories {
		if memory == nil {
			continue
		}
		screen, depth, ok := o.place(memory, view)
		if !ok {
			continue
		}
		placed[memory.ID().String()] = screen
		result.Nodes = append(result.Nodes, NodePlacement{
			ID:     memory.ID(),
			Screen: screen,
			Depth:  depth,
			Radius: o.nodeRadius(memory, screen.Scale, view),
			Title:  memory.Content().Title(),
		})
	}

	sort.SliceStable(result.Nodes, func(i, j int) bool {
		return result.Nodes[i].Depth > result.Nodes[j].Depth
	})

	for _, edge := range snap.Edges {
		from, okFrom := placed[edge.SourceID.String()]
		to, okTo := placed[edge.TargetID.String()]
		if !okFrom || !okTo {
			continue
		}
		result.Edges = append(result.Edges, EdgeSegment{
			From:         from,
			To:           to,
			SharedCount:  edge.Strength(),
			GlitchOffset: edge.GlitchOffset,
		})
	}

	return &Result{Kind: KindOriginal, Original: result}
}

// HitTest resolves the frontmost node within tolerance. Nodes are stored
// back-to-front, so the scan runs in reverse paint order.
func (o *Original) HitTest(result *Result, x, y float64) *Hit {
	if result == nil || result.Original == nil {
		return nil
	}
	nodes := result.Original.Nodes
	for i := len(nodes) - 1; i >= 0; i-- {
		node := nodes[i]
		tolerance := node.Radius
		if tolerance < o.cfg.HoverTolerance {
			tolerance = o.cfg.HoverTolerance
		}
		if geometry.Distance2D(x, y, node.Screen.X, node.Screen.Y) <= tolerance {
			return &Hit{Kind: HitMemory, MemoryID: node.ID}
		}
	}
	return nil
}

func (o *Original) place(memory *entities.Memory, view ViewState) (geometry.ScreenPoint, float64, bool) {
	pos := memory.Position()
	p := geometry.Point{X: pos.X(), Y: pos.Y(), Z: pos.Z()}
	p = geometry.RotateAroundX(p, view.RotationX)
	p = geometry.RotateAroundY(p, view.RotationY)

	// Glitch jitter, a pure function of (memory, time).
	jitter := memory.GlitchIntensity() * 2 * math.Sin(view.Time*9+memory.PulsePhase())
	p.X += jitter

	screen, visible := geometry.ProjectPerspective(
		p,
		view.OffsetX+view.PanX,
		view.OffsetY+view.PanY,
		view.FocalDistance,
		view.Zoom,
	)
	return screen, p.Z, visible
}

func (o *Original) nodeRadius(memory *entities.Memory, scale float64, view ViewState) float64 {
	pulse := 1 + 0.15*math.Sin(view.Time*2+memory.PulsePhase())
	return o.cfg.NodeRadius * scale * view.Zoom * pulse
}
