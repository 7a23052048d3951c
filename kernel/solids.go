// =============================================================================
// 🧊 实体构建：描述符 → 有符号距离场
// =============================================================================
package kernel

import (
	"fmt"
	"runtime/debug"

	"github.com/soypat/sdf"
	"github.com/soypat/sdf/form3/must3"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/clawd/cad3d/types"
)

// cutterOverrun stretches boolean cutters past the outer surface so the
// subtraction never leaves a zero-thickness membrane at the ends.
const cutterOverrun = 1.001

// Solid builds the signed distance field for a finalized descriptor.
// The descriptor must be complete: every field required by its shape
// populated, wall thickness present iff hollow. Incomplete or degenerate
// descriptors yield an INVALID_PARAMETER error; panics out of the
// geometry constructors surface as KERNEL_FAILURE.
func Solid(desc *types.ShapeDescriptor) (sdf.SDF3, error) {
	if err := checkDescriptor(desc); err != nil {
		return nil, err
	}
	return safeSolid(func() sdf.SDF3 {
		switch desc.Shape {
		case types.ShapeBox:
			return boxSolid(desc)
		case types.ShapeCylinder:
			return cylinderSolid(desc)
		case types.ShapeSphere:
			return sphereSolid(desc)
		case types.ShapeCone:
			return coneSolid(desc)
		case types.ShapeTorus:
			return torusSolid(desc)
		default:
			panic(fmt.Sprintf("unhandled shape %q", desc.Shape))
		}
	})
}

// safeSolid converts constructor panics into errors. The must3
// primitives panic on degenerate arguments instead of returning errors.
func safeSolid(build func() sdf.SDF3) (s sdf.SDF3, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = types.NewError(types.ErrKernelFailure,
				fmt.Sprintf("solid construction panicked: %v", a)).
				WithCause(fmt.Errorf("%v\n%s", a, debug.Stack()))
		}
	}()
	return build(), nil
}

func boxSolid(desc *types.ShapeDescriptor) sdf.SDF3 {
	size := r3.Vec{X: *desc.Width, Y: *desc.Depth, Z: *desc.Height}
	outer := must3.Box(size, 0)
	if !desc.Hollow {
		return outer
	}
	// closed shell: the cavity keeps the wall on all six faces
	wall := *desc.WallThickness
	inner := must3.Box(r3.Vec{
		X: size.X - 2*wall,
		Y: size.Y - 2*wall,
		Z: size.Z - 2*wall,
	}, 0)
	return sdf.Difference3D(outer, inner)
}

func cylinderSolid(desc *types.ShapeDescriptor) sdf.SDF3 {
	h := *desc.Height
	r := *desc.Diameter / 2
	outer := must3.Cylinder(h, r, 0)
	if !desc.Hollow {
		return outer
	}
	// open tube: the cutter overruns both ends
	inner := must3.Cylinder(h*cutterOverrun, r-*desc.WallThickness, 0)
	return sdf.Difference3D(outer, inner)
}

func sphereSolid(desc *types.ShapeDescriptor) sdf.SDF3 {
	r := *desc.Diameter / 2
	outer := must3.Sphere(r)
	if !desc.Hollow {
		return outer
	}
	inner := must3.Sphere(r - *desc.WallThickness)
	return sdf.Difference3D(outer, inner)
}

func coneSolid(desc *types.ShapeDescriptor) sdf.SDF3 {
	h := *desc.Height
	base := *desc.Diameter / 2
	// truncated at a quarter of the base diameter
	top := *desc.Diameter / 4
	outer := must3.Cone(h, base, top, 0)
	if !desc.Hollow {
		return outer
	}
	wall := *desc.WallThickness
	inner := must3.Cone(h*cutterOverrun, base-wall, maxf(top-wall, 0.01), 0)
	return sdf.Difference3D(outer, inner)
}

func torusSolid(desc *types.ShapeDescriptor) sdf.SDF3 {
	major := *desc.Diameter / 2
	var minor float64
	if desc.MinorDiameter != nil {
		minor = *desc.MinorDiameter / 2
	} else {
		// ring proportion when the text never gave a tube size
		minor = major / 3
	}
	outer := newTorus(major, minor)
	if !desc.Hollow {
		return outer
	}
	return sdf.Difference3D(outer, newTorus(major, minor-*desc.WallThickness))
}

// checkDescriptor rejects descriptors the constructors would choke on.
func checkDescriptor(desc *types.ShapeDescriptor) error {
	if desc == nil {
		return types.NewError(types.ErrInvalidParameter, "nil shape descriptor")
	}
	if !desc.Shape.Valid() {
		return types.NewError(types.ErrInvalidParameter,
			fmt.Sprintf("unknown shape %q", desc.Shape))
	}
	for _, dim := range desc.Shape.RequiredDimensions() {
		v := desc.Dimension(dim)
		if v == nil {
			return types.NewError(types.ErrInvalidParameter,
				fmt.Sprintf("missing required dimension %s for %s", dim, desc.Shape))
		}
		if *v <= 0 {
			return types.NewError(types.ErrInvalidParameter,
				fmt.Sprintf("dimension %s must be positive, got %v", dim, *v))
		}
	}
	if desc.Hollow {
		if desc.WallThickness == nil {
			return types.NewError(types.ErrInvalidParameter,
				"hollow descriptor without wall thickness")
		}
		if err := checkWall(desc); err != nil {
			return err
		}
	}
	if desc.MinorDiameter != nil && desc.Shape == types.ShapeTorus {
		if *desc.MinorDiameter >= *desc.Diameter {
			return types.NewError(types.ErrInvalidParameter,
				"torus minor diameter must be smaller than the major diameter")
		}
	}
	return nil
}

// checkWall verifies the cavity cut leaves actual material behind.
func checkWall(desc *types.ShapeDescriptor) error {
	wall := *desc.WallThickness
	if wall <= 0 {
		return types.NewError(types.ErrInvalidParameter,
			fmt.Sprintf("wall thickness must be positive, got %v", wall))
	}

	var limit float64
	switch desc.Shape {
	case types.ShapeBox:
		limit = minf(minf(*desc.Width, *desc.Depth), *desc.Height) / 2
	case types.ShapeCylinder, types.ShapeCone, types.ShapeSphere:
		limit = *desc.Diameter / 2
	case types.ShapeTorus:
		minor := *desc.Diameter / 6
		if desc.MinorDiameter != nil {
			minor = *desc.MinorDiameter / 2
		}
		limit = minor
	}
	if wall >= limit {
		return types.NewError(types.ErrInvalidParameter,
			fmt.Sprintf("wall thickness %v leaves no material on a %s of this size", wall, desc.Shape))
	}
	return nil
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
