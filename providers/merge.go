package providers

import "github.com/clawd/cad3d/types"

// MergeOverrides 合并显式覆盖值与增强结果。
//
// explicit 来自调用方（CLI 标志、表单字段），augmented 来自 LLM 增强。
// 逐字段合并，显式值优先；增强结果只填补未设置的字段。
func MergeOverrides(explicit, augmented types.Overrides) types.Overrides {
	merged := explicit

	if merged.Shape == "" {
		merged.Shape = augmented.Shape
	}
	if merged.Hollow == nil {
		merged.Hollow = augmented.Hollow
	}
	if merged.Width == nil {
		merged.Width = augmented.Width
	}
	if merged.Height == nil {
		merged.Height = augmented.Height
	}
	if merged.Depth == nil {
		merged.Depth = augmented.Depth
	}
	if merged.Diameter == nil {
		merged.Diameter = augmented.Diameter
	}
	if merged.WallThickness == nil {
		merged.WallThickness = augmented.WallThickness
	}
	if merged.MinorDiameter == nil {
		merged.MinorDiameter = augmented.MinorDiameter
	}

	return merged
}
