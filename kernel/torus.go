package kernel

import (
	"math"

	"github.com/soypat/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// torus is a signed distance field for a torus lying in the XY plane,
// centered on the origin. major is the radius from the origin to the
// center of the tube, minor the radius of the tube itself.
type torus struct {
	major float64
	minor float64
	bb    r3.Box
}

func newTorus(major, minor float64) sdf.SDF3 {
	if minor <= 0 || major <= minor {
		panic("torus requires 0 < minor < major")
	}
	outer := major + minor
	return &torus{
		major: major,
		minor: minor,
		bb: r3.Box{
			Min: r3.Vec{X: -outer, Y: -outer, Z: -minor},
			Max: r3.Vec{X: outer, Y: outer, Z: minor},
		},
	}
}

// Evaluate returns the minimum distance to the torus surface.
func (t *torus) Evaluate(p r3.Vec) float64 {
	q := math.Hypot(p.X, p.Y) - t.major
	return math.Hypot(q, p.Z) - t.minor
}

// Bounds returns the bounding box of the torus.
func (t *torus) Bounds() r3.Box {
	return t.bb
}
