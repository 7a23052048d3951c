package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/soypat/sdf"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/clawd/cad3d/types"
)

// testSphere returns a solid sphere of radius 12.5 centered at the origin.
func testSphere(t *testing.T) sdf.SDF3 {
	t.Helper()
	s, err := Solid(desc(types.ShapeSphere, false, map[types.Dimension]float64{
		types.DimDiameter: 25,
	}))
	require.NoError(t, err)
	return s
}

func TestTransform_IsIdentity(t *testing.T) {
	assert.True(t, Transform{}.IsIdentity())
	assert.True(t, Transform{Scale: 1}.IsIdentity())
	assert.False(t, Transform{Scale: 2}.IsIdentity())
	assert.False(t, Transform{RotateZDeg: 90}.IsIdentity())
	assert.False(t, Transform{Translate: [3]float64{1, 0, 0}}.IsIdentity())
}

func TestTransform_Validate(t *testing.T) {
	assert.NoError(t, Transform{Scale: 2}.Validate())

	err := Transform{Scale: -1}.Validate()
	require.Error(t, err)
	assert.Equal(t, types.ErrInvalidParameter, types.GetErrorCode(err))
}

func TestTransform_ApplyIdentityReturnsSame(t *testing.T) {
	s := testSphere(t)
	assert.Equal(t, s, Transform{}.Apply(s))
}

func TestTransform_Translate(t *testing.T) {
	s := testSphere(t)
	moved := Transform{Translate: [3]float64{100, 0, 0}}.Apply(s)

	// the surface follows the center: inside at the new center,
	// well outside at the old one
	assert.Negative(t, moved.Evaluate(r3.Vec{X: 100}))
	assert.Positive(t, moved.Evaluate(r3.Vec{}))
	assert.InDelta(t, -12.5, moved.Evaluate(r3.Vec{X: 100}), 1e-9)
}

func TestTransform_Scale(t *testing.T) {
	s := testSphere(t)
	grown := Transform{Scale: 2}.Apply(s)

	// radius 12.5 scaled to 25: a point at 20mm is now inside
	assert.Positive(t, s.Evaluate(r3.Vec{X: 20}))
	assert.Negative(t, grown.Evaluate(r3.Vec{X: 20}))
	assert.Positive(t, grown.Evaluate(r3.Vec{X: 26}))
}

func TestTransform_RotateZ(t *testing.T) {
	box, err := Solid(desc(types.ShapeBox, false, map[types.Dimension]float64{
		types.DimWidth:  50,
		types.DimDepth:  30,
		types.DimHeight: 20,
	}))
	require.NoError(t, err)

	rotated := Transform{RotateZDeg: 90}.Apply(box)

	// the 50mm width swings onto the Y axis: a point at Y=22 was
	// outside the 30mm depth but is inside after the quarter turn
	assert.Positive(t, box.Evaluate(r3.Vec{Y: 22}))
	assert.Negative(t, rotated.Evaluate(r3.Vec{Y: 22}))
}

func TestTransform_Composed(t *testing.T) {
	s := testSphere(t)
	tr := Transform{Scale: 2, RotateZDeg: 45, Translate: [3]float64{0, 0, 50}}
	out := tr.Apply(s)

	// scaled to radius 25 and lifted 50mm up
	assert.Negative(t, out.Evaluate(r3.Vec{Z: 50}))
	assert.Negative(t, out.Evaluate(r3.Vec{Z: 70}))
	assert.Positive(t, out.Evaluate(r3.Vec{Z: 80}))
	assert.Positive(t, out.Evaluate(r3.Vec{}))
}
