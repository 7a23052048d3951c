package prompt

import (
	"fmt"
	"math"

	"github.com/clawd/cad3d/types"
)

// =============================================================================
// ⚖️ 消解器：候选值 + 显式覆盖 + 默认值 → 完整描述符
// =============================================================================
// 每个字段的优先级: 显式覆盖 > 最高优先级候选（同级取文本中最后出现）> 默认值。
// =============================================================================

// shapeDefaults is the static per-shape defaults table. It is read-only
// process-wide state; concurrent callers share it without locking.
var shapeDefaults = map[types.ShapeKind]map[types.Dimension]float64{
	types.ShapeBox: {
		types.DimWidth:  50,
		types.DimHeight: 30,
		types.DimDepth:  20,
	},
	types.ShapeCylinder: {
		types.DimDiameter: 25,
		types.DimHeight:   30,
	},
	types.ShapeCone: {
		types.DimDiameter: 25,
		types.DimHeight:   30,
	},
	types.ShapeSphere: {
		types.DimDiameter: 25,
	},
	types.ShapeTorus: {
		types.DimDiameter: 25,
	},
}

// defaultWallThickness applies to hollow shapes with no explicit wall.
const defaultWallThickness = 3.0

// Resolve merges the extracted candidates, the caller's explicit
// overrides and the defaults table into one complete ShapeDescriptor.
//
// The only failure path is an invalid override: a negative or non-finite
// override value, or an unknown shape override, yields an
// INVALID_PARAMETER error. Extracted candidates were already validated
// by the recognizers and cannot fail here.
func Resolve(match ShapeMatch, cands []types.DimensionCandidate, ov types.Overrides) (*types.ShapeDescriptor, error) {
	if err := validateOverrides(ov); err != nil {
		return nil, err
	}

	desc := &types.ShapeDescriptor{
		Shape:      match.Shape,
		Hollow:     match.Hollow,
		Provenance: make(map[string]types.Provenance),
	}

	desc.Provenance["shape"] = provenanceOf(match.ShapeMatched)
	if ov.Shape != "" {
		desc.Shape = ov.Shape
		desc.Provenance["shape"] = types.ProvenanceOverridden
	}

	desc.Provenance["hollow"] = provenanceOf(match.HollowMatched)
	if ov.Hollow != nil {
		desc.Hollow = *ov.Hollow
		desc.Provenance["hollow"] = types.ProvenanceOverridden
	}

	winners := pickWinners(cands)

	// required fields first, then any optional field the text or the
	// caller supplied (e.g. torus minor diameter, cylinder pair height
	// on a sphere prompt)
	fields := desc.Shape.RequiredDimensions()
	if desc.Hollow {
		fields = append(fields, types.DimWallThickness)
	}
	for _, f := range optionalFields(fields, winners, ov) {
		fields = append(fields, f)
	}

	defaults := shapeDefaults[desc.Shape]
	for _, field := range fields {
		// wall thickness is present only on hollow descriptors
		if field == types.DimWallThickness && !desc.Hollow {
			continue
		}
		switch {
		case ov.Dimension(field) != nil:
			desc.SetDimension(field, *ov.Dimension(field), types.ProvenanceOverridden)
		case winners[field] != nil:
			desc.SetDimension(field, winners[field].Value, types.ProvenanceExtracted)
		case field == types.DimWallThickness:
			desc.SetDimension(field, defaultWallThickness, types.ProvenanceDefaulted)
		default:
			if dv, ok := defaults[field]; ok {
				desc.SetDimension(field, dv, types.ProvenanceDefaulted)
			}
			// optional fields without a default stay unset only if they
			// had neither candidate nor override; unreachable here
		}
	}

	return desc, nil
}

// pickWinners selects the surviving candidate per field: lowest rank
// wins; same-rank conflicts resolve to the last occurrence in the text.
func pickWinners(cands []types.DimensionCandidate) map[types.Dimension]*types.DimensionCandidate {
	winners := make(map[types.Dimension]*types.DimensionCandidate)
	for i := range cands {
		c := &cands[i]
		cur := winners[c.Field]
		if cur == nil || c.Rank < cur.Rank || (c.Rank == cur.Rank && c.Pos >= cur.Pos) {
			winners[c.Field] = c
		}
	}
	return winners
}

// optionalFields returns non-required fields that still deserve a slot
// because the text or the caller supplied a value for them.
func optionalFields(required []types.Dimension, winners map[types.Dimension]*types.DimensionCandidate, ov types.Overrides) []types.Dimension {
	isRequired := func(f types.Dimension) bool {
		for _, r := range required {
			if r == f {
				return true
			}
		}
		return false
	}

	all := []types.Dimension{
		types.DimWidth, types.DimHeight, types.DimDepth,
		types.DimDiameter, types.DimMinorDiameter,
	}
	var extra []types.Dimension
	for _, f := range all {
		if isRequired(f) {
			continue
		}
		if winners[f] != nil || ov.Dimension(f) != nil {
			extra = append(extra, f)
		}
	}
	return extra
}

// validateOverrides rejects override values the resolver must not merge.
// Callers (CLI, API handlers, LLM augmentation) are expected to pass
// pre-validated values; this is the contract's backstop.
func validateOverrides(ov types.Overrides) error {
	if ov.Shape != "" && !ov.Shape.Valid() {
		return types.NewError(types.ErrInvalidParameter,
			fmt.Sprintf("unknown shape override %q", ov.Shape))
	}
	check := func(name types.Dimension, v *float64) error {
		if v == nil {
			return nil
		}
		if math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
			return types.NewError(types.ErrInvalidParameter,
				fmt.Sprintf("override %s must be a non-negative finite number, got %v", name, *v))
		}
		return nil
	}
	for _, f := range []types.Dimension{
		types.DimWidth, types.DimHeight, types.DimDepth,
		types.DimDiameter, types.DimWallThickness, types.DimMinorDiameter,
	} {
		if err := check(f, ov.Dimension(f)); err != nil {
			return err
		}
	}
	return nil
}

func provenanceOf(matched bool) types.Provenance {
	if matched {
		return types.ProvenanceExtracted
	}
	return types.ProvenanceDefaulted
}
