package queries

import "memoryweb/pkg/utils"

// ComputeLayoutQuery projects a user's graph through one of the layout
// engines and returns drawable placements. The view parameters echo the
// caller's interaction state; Threshold only applies to the clustered layout
// and is clamped server-side rather than rejected.
type ComputeLayoutQuery struct {
	UserID    string  `validate:"required"`
	Layout    string  `validate:"required,oneof=original clustered taghub timeline"`
	Threshold int     `validate:"omitempty,min=0,max=100"`
	Window    string  `validate:"omitempty,oneof=week month year all"`
	RotationX float64 `validate:"-"`
	RotationY float64 `validate:"-"`
	Zoom      float64 `validate:"omitempty,gt=0"`
	PanX      float64 `validate:"-"`
	PanY      float64 `validate:"-"`
	OffsetX   float64 `validate:"-"`
	OffsetY   float64 `validate:"-"`
	Time      float64 `validate:"omitempty,gte=0"`
	Expanded  []int   `validate:"-"`
}

// Validate checks the query's invariants
func (q ComputeLayoutQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// ClusterView is the wire shape of a derived community cluster
type ClusterView struct {
	ID          int      `json:"id"`
	MemberIDs   []string `json:"memberIds"`
	MergedTags  []string `json:"mergedTags"`
	Color       string   `json:"color"`
	Strength    int      `json:"strength"`
	MemberCount int      `json:"memberCount"`
}
