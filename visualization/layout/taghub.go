package layout

import (
	"math"
	"sort"

	"memoryweb/domain/config"
	"memoryweb/domain/core/entities"
	"memoryweb/visualization/geometry"
)

// TagHub arranges one hub node per tag on a golden-angle spiral, with the
// tag's memories orbiting it. Tags with more members sit nearer the visual
// center; the spiral keeps hubs from overlapping at common scales.
type TagHub struct {
	cfg *config.DomainConfig
}

// NewTagHub creates the tag-hub layout engine
func NewTagHub(cfg *config.DomainConfig) *TagHub {
	return &TagHub{cfg: cfg}
}

// Kind identifies the engine
func (t *TagHub) Kind() Kind {
	return KindTagHub
}

// ZoomBounds returns the tag-hub zoom clamp range
func (t *TagHub) ZoomBounds() (float64, float64) {
	return t.cfg.MinZoomFlat, t.cfg.MaxZoomFlat
}

// Compute rebuilds the hubs from scratch: tags sorted by descending member
// count (name as tie-break for determinism), hub i placed at
// angle = i x 137.5 deg and distance = 100 + i x 20, members spaced at equal
// angles on a ring of hubRadius + orbit padding.
func (t *TagHub) Compute(snap Snapshot, view ViewState) *Result {
	type tagGroup struct {
		name    string
		members []*entities.Memory
	}

	byTag := make(map[string]*tagGroup)
	var order []*tagGroup
	for _, memory := range snap.Memories {
		if memory == nil {
			continue
		}
		for _, tag := range memory.Tags().Tags() {
			group, ok := byTag[tag]
			if !ok {
				group = &tagGroup{name: tag}
				byTag[tag] = group
				order = append(order, group)
			}
			group.members = append(group.members, memory)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		if len(order[i].members) != len(order[j].members) {
			return len(order[i].members) > len(order[j].members)
		}
		return order[i].name < order[j].name
	})

	goldenAngle := t.cfg.HubGoldenAngle()
	result := &TagHubResult{Hubs: make([]HubPlacement, 0, len(order))}

	for i, group := range order {
		angle := float64(i) * goldenAngle
		distance := t.cfg.HubBaseDistance + float64(i)*t.cfg.HubDistanceStep
		hubX := math.Cos(angle)*distance*view.Zoom + view.OffsetX + view.PanX
		hubY := math.Sin(angle)*distance*view.Zoom + view.OffsetY + view.PanY
		radius := t.hubRadius(len(group.members)) * view.Zoom

		hub := HubPlacement{
			Name:    group.name,
			Screen:  geometry.ScreenPoint{X: hubX, Y: hubY, Scale: 1},
			Radius:  radius,
			Members: make([]NodePlacement, 0, len(group.members)),
		}

		orbit := radius + t.cfg.HubMemberOrbitPad*view.Zoom
		step := 2 * math.Pi / float64(len(group.members))
		for j, memory := range group.members {
			memberAngle := float64(j) * step
			screen := geometry.ScreenPoint{
				X:     hubX + math.Cos(memberAngle)*orbit,
				Y:     hubY + math.Sin(memberAngle)*orbit,
				Scale: 1,
			}
			hub.Members = append(hub.Members, NodePlacement{
				ID:     memory.ID(),
				Screen: screen,
				Radius: t.memberRadius(memory, view),
				Title:  memory.Content().Title(),
			})
		}

		result.Hubs = append(result.Hubs, hub)
	}

	return &Result{Kind: KindTagHub, TagHub: result}
}

// HitTest resolves member nodes first, then hubs using their own radius as
// tolerance.
func (t *TagHub) HitTest(result *Result, x, y float64) *Hit {
	if result == nil || result.TagHub == nil {
		return nil
	}

	for _, hub := range result.TagHub.Hubs {
		for _, member := range hub.Members {
			tolerance := member.Radius
			if tolerance < t.cfg.HoverTolerance {
				tolerance = t.cfg.HoverTolerance
			}
			if geometry.Distance2D(x, y, member.Screen.X, member.Screen.Y) <= tolerance {
				return &Hit{Kind: HitMemory, MemoryID: member.ID}
			}
		}
	}

	for _, hub := range result.TagHub.Hubs {
		if geometry.Distance2D(x, y, hub.Screen.X, hub.Screen.Y) <= hub.Radius {
			return &Hit{Kind: HitHub, HubName: hub.Name}
		}
	}

	return nil
}

// hubRadius grows monotonically with member count
func (t *TagHub) hubRadius(memberCount int) float64 {
	return 18 + 4*float64(memberCount)
}

func (t *TagHub) memberRadius(memory *entities.Memory, view ViewState) float64 {
	pulse := 1 + 0.15*math.Sin(view.Time*2+memory.PulsePhase())
	return t.cfg.NodeRadius * view.Zoom * pulse
}
