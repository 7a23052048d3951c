package types

// ShapeKind 基础形状类型
type ShapeKind string

const (
	ShapeBox      ShapeKind = "box"
	ShapeCylinder ShapeKind = "cylinder"
	ShapeSphere   ShapeKind = "sphere"
	ShapeCone     ShapeKind = "cone"
	ShapeTorus    ShapeKind = "torus"
)

// AllShapes lists every supported shape kind. A hollow cylinder is
// rendered as a tube but is not a distinct kind.
func AllShapes() []ShapeKind {
	return []ShapeKind{ShapeBox, ShapeCylinder, ShapeSphere, ShapeCone, ShapeTorus}
}

// Valid reports whether k is a known shape kind.
func (k ShapeKind) Valid() bool {
	switch k {
	case ShapeBox, ShapeCylinder, ShapeSphere, ShapeCone, ShapeTorus:
		return true
	}
	return false
}

// Radial reports whether the shape is radially symmetric, i.e. described
// by a diameter rather than a width/depth pair.
func (k ShapeKind) Radial() bool {
	switch k {
	case ShapeCylinder, ShapeSphere, ShapeCone, ShapeTorus:
		return true
	}
	return false
}

// Dimension 尺寸字段名
type Dimension string

const (
	DimWidth         Dimension = "width"
	DimHeight        Dimension = "height"
	DimDepth         Dimension = "depth"
	DimDiameter      Dimension = "diameter"
	DimWallThickness Dimension = "wall_thickness"

	// DimMinorDiameter is the torus ring thickness. Optional: it never
	// participates in required-field validation.
	DimMinorDiameter Dimension = "minor_diameter"
)

// RequiredDimensions returns the fields that must be present in a final
// descriptor of this kind. Wall thickness is required separately, only
// when the descriptor is hollow.
func (k ShapeKind) RequiredDimensions() []Dimension {
	switch k {
	case ShapeBox:
		return []Dimension{DimWidth, DimHeight, DimDepth}
	case ShapeCylinder, ShapeCone:
		return []Dimension{DimDiameter, DimHeight}
	case ShapeSphere, ShapeTorus:
		return []Dimension{DimDiameter}
	}
	return nil
}
