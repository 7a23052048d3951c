package types

// =============================================================================
// 📐 提取候选与描述符
// =============================================================================

// Provenance records where a descriptor field value came from.
type Provenance string

const (
	ProvenanceExtracted  Provenance = "extracted"
	ProvenanceOverridden Provenance = "overridden"
	ProvenanceDefaulted  Provenance = "defaulted"
)

// DimensionCandidate is a single numeric extraction result emitted by one
// pattern recognizer. Several candidates may target the same field; the
// resolver picks exactly one winner per field.
type DimensionCandidate struct {
	// Field 目标字段
	Field Dimension `json:"field"`
	// Value 数值（非负）
	Value float64 `json:"value"`
	// Pattern identifies the recognizer that produced the candidate.
	Pattern string `json:"pattern"`
	// Rank is the recognizer family precedence. Lower wins.
	Rank int `json:"rank"`
	// Pos is the byte offset of the match in the normalized text.
	// Ties between same-rank candidates resolve to the last occurrence.
	Pos int `json:"pos"`
}

// Overrides carries caller-supplied explicit values: CLI flags, web form
// fields, or the structured output of an LLM augmentation provider. All
// fields are optional; nil means "not supplied". Overrides always beat
// extracted candidates and defaults.
type Overrides struct {
	Shape         ShapeKind `json:"shape,omitempty" yaml:"shape,omitempty"`
	Hollow        *bool     `json:"hollow,omitempty" yaml:"hollow,omitempty"`
	Width         *float64  `json:"width,omitempty" yaml:"width,omitempty"`
	Height        *float64  `json:"height,omitempty" yaml:"height,omitempty"`
	Depth         *float64  `json:"depth,omitempty" yaml:"depth,omitempty"`
	Diameter      *float64  `json:"diameter,omitempty" yaml:"diameter,omitempty"`
	WallThickness *float64  `json:"wall_thickness,omitempty" yaml:"wall_thickness,omitempty"`
	MinorDiameter *float64  `json:"minor_diameter,omitempty" yaml:"minor_diameter,omitempty"`
}

// Dimension returns the override value for a field, or nil.
func (o *Overrides) Dimension(d Dimension) *float64 {
	switch d {
	case DimWidth:
		return o.Width
	case DimHeight:
		return o.Height
	case DimDepth:
		return o.Depth
	case DimDiameter:
		return o.Diameter
	case DimWallThickness:
		return o.WallThickness
	case DimMinorDiameter:
		return o.MinorDiameter
	}
	return nil
}

// Empty reports whether no override field is set.
func (o *Overrides) Empty() bool {
	return o.Shape == "" && o.Hollow == nil && o.Width == nil && o.Height == nil &&
		o.Depth == nil && o.Diameter == nil && o.WallThickness == nil && o.MinorDiameter == nil
}

// ShapeDescriptor is the pipeline's output: the finalized, fully-defaulted
// structured representation of a requested shape. It is created once per
// extraction call and must be treated as immutable afterwards.
//
// Invariants:
//   - every field required by Shape is non-nil,
//   - WallThickness is non-nil only when Hollow is true,
//   - Provenance has an entry for every non-nil field plus "shape".
type ShapeDescriptor struct {
	Shape  ShapeKind `json:"shape"`
	Hollow bool      `json:"hollow"`

	Width         *float64 `json:"width,omitempty"`
	Height        *float64 `json:"height,omitempty"`
	Depth         *float64 `json:"depth,omitempty"`
	Diameter      *float64 `json:"diameter,omitempty"`
	WallThickness *float64 `json:"wall_thickness,omitempty"`
	MinorDiameter *float64 `json:"minor_diameter,omitempty"`

	// Provenance maps "shape", "hollow" and each populated dimension
	// to where its value came from.
	Provenance map[string]Provenance `json:"provenance"`
}

// Dimension returns the value for a field, or nil if unset.
func (d *ShapeDescriptor) Dimension(dim Dimension) *float64 {
	switch dim {
	case DimWidth:
		return d.Width
	case DimHeight:
		return d.Height
	case DimDepth:
		return d.Depth
	case DimDiameter:
		return d.Diameter
	case DimWallThickness:
		return d.WallThickness
	case DimMinorDiameter:
		return d.MinorDiameter
	}
	return nil
}

// SetDimension assigns a field value with its provenance. Used by the
// resolver while the descriptor is still being assembled.
func (d *ShapeDescriptor) SetDimension(dim Dimension, v float64, p Provenance) {
	if d.Provenance == nil {
		d.Provenance = make(map[string]Provenance)
	}
	val := v
	switch dim {
	case DimWidth:
		d.Width = &val
	case DimHeight:
		d.Height = &val
	case DimDepth:
		d.Depth = &val
	case DimDiameter:
		d.Diameter = &val
	case DimWallThickness:
		d.WallThickness = &val
	case DimMinorDiameter:
		d.MinorDiameter = &val
	default:
		return
	}
	d.Provenance[string(dim)] = p
}
