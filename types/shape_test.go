package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeKind_Valid(t *testing.T) {
	for _, k := range AllShapes() {
		assert.True(t, k.Valid(), "shape %s", k)
	}
	assert.False(t, ShapeKind("tube").Valid(), "tube is cylinder+hollow, not a kind")
	assert.False(t, ShapeKind("").Valid())
}

func TestShapeKind_Radial(t *testing.T) {
	assert.False(t, ShapeBox.Radial())
	for _, k := range []ShapeKind{ShapeCylinder, ShapeSphere, ShapeCone, ShapeTorus} {
		assert.True(t, k.Radial(), "shape %s", k)
	}
}

func TestShapeKind_RequiredDimensions(t *testing.T) {
	tests := []struct {
		shape ShapeKind
		want  []Dimension
	}{
		{ShapeBox, []Dimension{DimWidth, DimHeight, DimDepth}},
		{ShapeCylinder, []Dimension{DimDiameter, DimHeight}},
		{ShapeCone, []Dimension{DimDiameter, DimHeight}},
		{ShapeSphere, []Dimension{DimDiameter}},
		{ShapeTorus, []Dimension{DimDiameter}},
	}
	for _, tt := range tests {
		t.Run(string(tt.shape), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.shape.RequiredDimensions())
		})
	}
}

func TestShapeDescriptor_SetDimension(t *testing.T) {
	var d ShapeDescriptor
	d.Shape = ShapeBox

	d.SetDimension(DimWidth, 50, ProvenanceExtracted)
	d.SetDimension(DimHeight, 30, ProvenanceDefaulted)

	require.NotNil(t, d.Width)
	assert.Equal(t, 50.0, *d.Width)
	assert.Equal(t, ProvenanceExtracted, d.Provenance["width"])
	assert.Equal(t, ProvenanceDefaulted, d.Provenance["height"])
	assert.Nil(t, d.Depth)
	assert.Nil(t, d.Dimension(DimDepth))
	require.NotNil(t, d.Dimension(DimWidth))
	assert.Equal(t, 50.0, *d.Dimension(DimWidth))
}

func TestOverrides_Empty(t *testing.T) {
	var o Overrides
	assert.True(t, o.Empty())

	w := 10.0
	o.Width = &w
	assert.False(t, o.Empty())
	require.NotNil(t, o.Dimension(DimWidth))
	assert.Equal(t, 10.0, *o.Dimension(DimWidth))
}
