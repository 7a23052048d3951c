// =============================================================================
// 🔄 实体变换：缩放 / 旋转 / 平移
// =============================================================================
package kernel

import (
	"fmt"
	"math"

	"github.com/soypat/sdf"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/clawd/cad3d/types"
)

// Transform 描述网格化前施加在实体上的一次调整。
// 零值为恒等变换。
type Transform struct {
	// Scale 均匀缩放系数；0 表示不缩放
	Scale float64 `json:"scale,omitempty"`
	// RotateZDeg 绕 Z 轴的旋转角度（度）
	RotateZDeg float64 `json:"rotate_z_deg,omitempty"`
	// Translate 平移量（毫米，X/Y/Z）
	Translate [3]float64 `json:"translate,omitempty"`
}

// IsIdentity reports whether the transform leaves solids unchanged.
func (t Transform) IsIdentity() bool {
	return (t.Scale == 0 || t.Scale == 1) &&
		t.RotateZDeg == 0 &&
		t.Translate == [3]float64{}
}

// Validate rejects degenerate transforms before they reach the kernel.
func (t Transform) Validate() error {
	if t.Scale < 0 {
		return types.NewError(types.ErrInvalidParameter,
			fmt.Sprintf("scale must be positive, got %g", t.Scale))
	}
	return nil
}

// Apply returns the solid with scale, then rotation, then translation
// applied. The three steps compose into a single matrix so the distance
// field is only wrapped once.
func (t Transform) Apply(s sdf.SDF3) sdf.SDF3 {
	if t.IsIdentity() {
		return s
	}
	m := sdf.Translate3D(r3.Vec{X: t.Translate[0], Y: t.Translate[1], Z: t.Translate[2]})
	if t.RotateZDeg != 0 {
		m = m.Mul(sdf.RotateZ(t.RotateZDeg * math.Pi / 180))
	}
	if t.Scale != 0 && t.Scale != 1 {
		m = m.Mul(sdf.Scale3D(r3.Vec{X: t.Scale, Y: t.Scale, Z: t.Scale}))
	}
	return sdf.Transform3D(s, m)
}
