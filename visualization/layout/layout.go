// Package layout projects the memory graph into the four alternative
// spatial arrangements the client can render. Engines are pure over a graph
// snapshot and a view state: computing a layout never mutates the graph, and
// recomputing at a fixed animation time reproduces the same positions.
package layout

import (
	"time"

	"memoryweb/domain/config"
	"memoryweb/domain/core/entities"
	"memoryweb/domain/core/valueobjects"
	"memoryweb/visualization/cluster"
	"memoryweb/visualization/geometry"
)

// Kind identifies one of the mutually exclusive layout engines
type Kind string

const (
	KindOriginal  Kind = "original"
	KindClustered Kind = "clustered"
	KindTagHub    Kind = "taghub"
	KindTimeline  Kind = "timeline"
)

// ParseKind validates a layout name, falling back to the original layout
func ParseKind(s string) Kind {
	switch Kind(s) {
	case KindOriginal, KindClustered, KindTagHub, KindTimeline:
		return Kind(s)
	default:
		return KindOriginal
	}
}

// TimeWindow selects how much history the timeline layout spans
type TimeWindow string

const (
	WindowWeek  TimeWindow = "week"
	WindowMonth TimeWindow = "month"
	WindowYear  TimeWindow = "year"
	WindowAll   TimeWindow = "all"
)

// ParseWindow validates a window name, falling back to all history
func ParseWindow(s string) TimeWindow {
	switch TimeWindow(s) {
	case WindowWeek, WindowMonth, WindowYear, WindowAll:
		return TimeWindow(s)
	default:
		return WindowAll
	}
}

// Duration returns the span the window covers, 0 meaning unbounded
func (w TimeWindow) Duration() time.Duration {
	switch w {
	case WindowWeek:
		return 7 * 24 * time.Hour
	case WindowMonth:
		return 30 * 24 * time.Hour
	case WindowYear:
		return 365 * 24 * time.Hour
	default:
		return 0
	}
}

// ViewState carries the interaction-owned parameters a layout computation
// depends on. It is a value: engines read it and never write it back.
type ViewState struct {
	RotationX float64
	RotationY float64
	Zoom      float64
	PanX      float64
	PanY      float64

	// OffsetX/OffsetY is the viewport center in screen coordinates.
	OffsetX float64
	OffsetY float64

	FocalDistance float64

	// Time is the monotonic animation clock; positions that pulse or
	// jitter are pure functions of (memory, Time).
	Time float64

	// Now anchors the timeline layout's elapsed-time mapping.
	Now    time.Time
	Window TimeWindow

	// Expanded tracks which cluster bubbles the user has opened,
	// keyed by cluster ID.
	Expanded map[int]bool
}

// NewViewState returns a view state with neutral defaults
func NewViewState(cfg *config.DomainConfig) ViewState {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return ViewState{
		Zoom:          1,
		FocalDistance: cfg.FocalDistance,
		Now:           time.Now(),
		Window:        WindowAll,
		Expanded:      map[int]bool{},
	}
}

// Snapshot is the read-only slice of graph state a layout consumes for one
// frame. Clusters are populated only for the clustered-bubble layout.
type Snapshot struct {
	Memories []*entities.Memory
	Edges    []*entities.Edge
	Clusters []*cluster.Cluster
}

// NodePlacement is one memory's screen-space position for the frame
type NodePlacement struct {
	ID     valueobjects.MemoryID `json:"id"`
	Screen geometry.ScreenPoint  `json:"screen"`
	Depth  float64               `json:"depth"`
	Radius float64               `json:"radius"`
	Title  string                `json:"title"`
}

// EdgeSegment is one edge's screen-space line for the frame. SharedCount
// drives the renderer's line weight; GlitchOffset is the edge's stable
// animation seed.
type EdgeSegment struct {
	From         geometry.ScreenPoint `json:"from"`
	To           geometry.ScreenPoint `json:"to"`
	SharedCount  int                  `json:"shared_count"`
	GlitchOffset float64              `json:"glitch_offset"`
}

// BubblePlacement is one community cluster's screen-space bubble
type BubblePlacement struct {
	Cluster  *cluster.Cluster `json:"cluster"`
	Screen   geometry.ScreenPoint
	Radius   float64
	Expanded bool
	// Members is populated when the bubble is expanded or small enough
	// to auto-expand.
	Members []NodePlacement
}

// HubPlacement is one tag hub with its orbiting members
type HubPlacement struct {
	Name    string
	Screen  geometry.ScreenPoint
	Radius  float64
	Members []NodePlacement
}

// OriginalResult is the free-3D layout output: nodes ordered back-to-front
// for painter's-algorithm rendering
type OriginalResult struct {
	Nodes []NodePlacement
	Edges []EdgeSegment
}

// ClusteredResult is the bubble layout output
type ClusteredResult struct {
	Bubbles []BubblePlacement
}

// TagHubResult is the tag-hub layout output, hubs ordered by descending
// member count (spiral index order)
type TagHubResult struct {
	Hubs []HubPlacement
}

// TimelineResult is the timeline layout output, nodes ordered by ascending
// timestamp
type TimelineResult struct {
	Nodes    []NodePlacement
	RowCount int
	Start    time.Time
	End      time.Time
}

// Result is the tagged-variant output of one layout computation. Exactly
// one payload is non-nil, selected by Kind, so consumers dispatch
// exhaustively instead of probing for fields.
type Result struct {
	Kind      Kind
	Original  *OriginalResult
	Clustered *ClusteredResult
	TagHub    *TagHubResult
	Timeline  *TimelineResult
}

// HitKind discriminates what a hit-test resolved to
type HitKind string

const (
	HitMemory  HitKind = "memory"
	HitHub     HitKind = "hub"
	HitCluster HitKind = "cluster"
)

// Hit is a resolved screen-space hit
type Hit struct {
	Kind      HitKind
	MemoryID  valueobjects.MemoryID
	HubName   string
	ClusterID int
}

// Engine is the contract all four layouts implement
type Engine interface {
	Kind() Kind

	// Compute produces screen positions for the snapshot under the view
	// state. It must not mutate the snapshot.
	Compute(snap Snapshot, view ViewState) *Result

	// HitTest resolves a screen point against a previously computed
	// result, or nil when nothing is within tolerance.
	HitTest(result *Result, x, y float64) *Hit

	// ZoomBounds returns the zoom clamp range for this layout.
	ZoomBounds() (min, max float64)
}

// Engines builds the full engine registry
func Engines(cfg *config.DomainConfig) map[Kind]Engine {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return map[Kind]Engine{
		KindOriginal:  NewOriginal(cfg),
		KindClustered: NewClustered(cfg),
		KindTagHub:    NewTagHub(cfg),
		KindTimeline:  NewTimeline(cfg),
	}
}
