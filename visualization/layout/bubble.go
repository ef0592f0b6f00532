package layout

import (
	"math"

	"memoryweb/domain/config"
	"memoryweb/domain/core/entities"
	"memoryweb/visualization/cluster"
	"memoryweb/visualization/geometry"
)

// Clustered renders the community clustering output as bubbles at cluster
// centroids. Bubbles expand on demand; clusters small enough auto-expand.
type Clustered struct {
	cfg *config.DomainConfig
}

// NewClustered creates the bubble layout engine
func NewClustered(cfg *config.DomainConfig) *Clustered {
	return &Clustered{cfg: cfg}
}

// Kind identifies the engine
func (c *Clustered) Kind() Kind {
	return KindClustered
}

// ZoomBounds returns the bubble layout zoom clamp range
func (c *Clustered) ZoomBounds() (float64, float64) {
	return c.cfg.MinZoomFlat, c.cfg.MaxZoomFlat
}

// Compute places one bubble per cluster at its rotated, projected centroid
// with radius growing by member count. Expanded bubbles (and clusters at or
// below the auto-expand size) also place each member at its own projected
// position.
func (c *Clustered) Compute(snap Snapshot, view ViewState) *Result {
	result := &ClusteredResult{
		Bubbles: make([]BubblePlacement, 0, len(snap.Clusters)),
	}

	for _, cl := range snap.Clusters {
		if cl == nil || cl.MemberCount() == 0 {
			continue
		}
		screen, ok := c.project(cl.Centroid, view)
		if !ok {
			continue
		}

		expanded := view.Expanded[cl.ID] || cl.MemberCount() <= c.cfg.ClusterAutoExpandSize
		bubble := BubblePlacement{
			Cluster:  cl,
			Screen:   screen,
			Radius:   c.bubbleRadius(cl, screen.Scale, view),
			Expanded: expanded,
		}

		if expanded {
			bubble.Members = c.placeMembers(cl, view)
		}

		result.Bubbles = append(result.Bubbles, bubble)
	}

	return &Result{Kind: KindClustered, Clustered: result}
}

// HitTest prefers member nodes of expanded bubbles over the bubbles
// themselves, then falls back to bubble circles.
func (c *Clustered) HitTest(result *Result, x, y float64) *Hit {
	if result == nil || result.Clustered == nil {
		return nil
	}

	for _, bubble := range result.Clustered.Bubbles {
		for _, member := range bubble.Members {
			tolerance := member.Radius
			if tolerance < c.cfg.HoverTolerance {
				tolerance = c.cfg.HoverTolerance
			}
			if geometry.Distance2D(x, y, member.Screen.X, member.Screen.Y) <= tolerance {
				return &Hit{Kind: HitMemory, MemoryID: member.ID}
			}
		}
	}

	for _, bubble := range result.Clustered.Bubbles {
		if geometry.Distance2D(x, y, bubble.Screen.X, bubble.Screen.Y) <= bubble.Radius {
			return &Hit{Kind: HitCluster, ClusterID: bubble.Cluster.ID}
		}
	}

	return nil
}

func (c *Clustered) project(p geometry.Point, view ViewState) (geometry.ScreenPoint, bool) {
	p = geometry.RotateAroundX(p, view.RotationX)
	p = geometry.RotateAroundY(p, view.RotationY)
	return geometry.ProjectPerspective(
		p,
		view.OffsetX+view.PanX,
		view.OffsetY+view.PanY,
		view.FocalDistance,
		view.Zoom,
	)
}

func (c *Clustered) bubbleRadius(cl *cluster.Cluster, scale float64, view ViewState) float64 {
	base := c.cfg.ClusterBaseRadius + 5*float64(cl.MemberCount())
	return base * scale * view.Zoom
}

func (c *Clustered) placeMembers(cl *cluster.Cluster, view ViewState) []NodePlacement {
	members := make([]NodePlacement, 0, cl.MemberCount())
	for _, memory := range cl.Members {
		screen, depth, ok := c.placeMember(memory, view)
		if !ok {
			continue
		}
		members = append(members, NodePlacement{
			ID:     memory.ID(),
			Screen: screen,
			Depth:  depth,
			Radius: c.memberRadius(memory, screen.Scale, view),
			Title:  memory.Content().Title(),
		})
	}
	return members
}

func (c *Clustered) placeMember(memory *entities.Memory, view ViewState) (geometry.ScreenPoint, float64, bool) {
	pos := memory.Position()
	p := geometry.Point{X: pos.X(), Y: pos.Y(), Z: pos.Z()}
	p = geometry.RotateAroundX(p, view.RotationX)
	p = geometry.RotateAroundY(p, view.RotationY)
	screen, visible := geometry.ProjectPerspective(
		p,
		view.OffsetX+view.PanX,
		view.OffsetY+view.PanY,
		view.FocalDistance,
		view.Zoom,
	)
	return screen, p.Z, visible
}

func (c *Clustered) memberRadius(memory *entities.Memory, scale float64, view ViewState) float64 {
	pulse := 1 + 0.15*math.Sin(view.Time*2+memory.PulsePhase())
	return c.cfg.NodeRadius * scale * view.Zoom * pulse
}
