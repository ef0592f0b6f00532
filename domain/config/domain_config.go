package config

import "math"

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Memory constraints
	MaxTagsPerMemory   int
	MaxImagesPerMemory int
	MaxLinksPerMemory  int
	MaxTitleLength     int
	MaxContentLength   int
	MinTitleLength     int
	AllowEmptyContent  bool

	// Spatial state
	PositionSpread float64 // half-width of the random placement cube for new memories
	FocalDistance  float64
	NodeRadius     float64

	// Connection derivation
	MaxMemoriesForDerivation int // guard against accidental unbounded working sets

	// Community clustering
	DefaultClusterThreshold int
	MinClusterThreshold     int
	MaxClusterThreshold     int
	ClusterBaseRadius       float64
	ClusterAutoExpandSize   int // clusters at or below this member count always draw members

	// Tag-hub layout
	HubGoldenAngleDegrees float64
	HubBaseDistance       float64
	HubDistanceStep       float64
	HubMemberOrbitPad     float64

	// Timeline layout
	TimelineCollisionGap float64
	TimelineRowHeight    float64
	TimelineBaseRow      float64
	TimelineSpanWidth    float64

	// Interaction
	ClickDragThreshold float64
	HoverTolerance     float64
	MinZoomOriginal    float64
	MaxZoomOriginal    float64
	MinZoomFlat        float64
	MaxZoomFlat        float64
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxTagsPerMemory:   10,
		MaxImagesPerMemory: 12,
		MaxLinksPerMemory:  20,
		MaxTitleLength:     200,
		MaxContentLength:   50000,
		MinTitleLength:     1,
		AllowEmptyContent:  false,

		PositionSpread: 300,
		FocalDistance:  600,
		NodeRadius:     10,

		MaxMemoriesForDerivation: 5000,

		DefaultClusterThreshold: 3,
		MinClusterThreshold:     1,
		MaxClusterThreshold:     5,
		ClusterBaseRadius:       25,
		ClusterAutoExpandSize:   3,

		HubGoldenAngleDegrees: 137.5,
		HubBaseDistance:       100,
		HubDistanceStep:       20,
		HubMemberOrbitPad:     30,

		TimelineCollisionGap: 100,
		TimelineRowHeight:    60,
		TimelineBaseRow:      0,
		TimelineSpanWidth:    1200,

		ClickDragThreshold: 5,
		HoverTolerance:     10,
		MinZoomOriginal:    0.01,
		MaxZoomOriginal:    3,
		MinZoomFlat:        0.5,
		MaxZoomFlat:        3,
	}
}

// ClampClusterThreshold restricts a render-time threshold to the allowed range
func (c *DomainConfig) ClampClusterThreshold(threshold int) int {
	if threshold < c.MinClusterThreshold {
		return c.MinClusterThreshold
	}
	if threshold > c.MaxClusterThreshold {
		return c.MaxClusterThreshold
	}
	return threshold
}

// HubGoldenAngle returns the spiral step angle in radians
func (c *DomainConfig) HubGoldenAngle() float64 {
	return c.HubGoldenAngleDegrees * math.Pi / 180
}
