package prompt

import (
	"math"
	"strconv"

	"regexp"

	"github.com/clawd/cad3d/types"
)

// =============================================================================
// 🔢 尺寸提取器：有序模式识别链
// =============================================================================
// 所有识别器都会运行（不短路），冲突在 Resolve 阶段按优先级消解。
// =============================================================================

// Recognizer family precedence ranks. Lower beats higher when candidates
// collide on the same field.
const (
	rankLabeled = iota // width 50 / 直径80 / 100mm wide
	rankPair           // 80x100 on radial shapes
	rankTriple         // 50x30x20 on box-likes
	rankBare           // a lone number on a box
)

const numPat = `(-?\d+(?:\.\d+)?)`

var (
	// explicit field name followed by a number, optional connector and unit
	reLabeledEN = regexp.MustCompile(`\b(wall thickness|side length|minor radius|minor diameter|width|height|depth|diameter|radius|side)\b\s*(?:of|is)?\s*` + numPat + `\s*(?:mm)?`)
	// connector chars may stack: 宽度为50, 高度是30
	reLabeledCN = regexp.MustCompile(`(壁厚|直径|半径|边长|宽|高|深|长)\s*[度为是的]*\s*` + numPat + `\s*(?:mm|毫米)?`)

	// number followed by an adjective label ("100mm wide, 60mm high")
	reSuffixEN = regexp.MustCompile(numPat + `\s*(?:mm\s*)?(wide|high|tall|deep|thick)\b`)

	// diameter × height for radially symmetric shapes
	rePair = regexp.MustCompile(numPat + `\s*(?:mm)?\s*(?:[x×*]|by|乘以|乘)\s*` + numPat + `\s*(?:mm)?`)

	// width × depth × height for box-likes
	reTriple = regexp.MustCompile(numPat + `\s*(?:mm)?\s*[x×*,]\s*` + numPat + `\s*(?:mm)?\s*[x×*,]\s*` + numPat + `\s*(?:mm)?`)

	// a single unlabeled number
	reBare = regexp.MustCompile(`(?:^|\s)` + numPat + `(?:\s*mm)?(?:\s|$)`)
)

// labeled keyword → target field. Radius-like labels double into a
// diameter; side length fans out to all three box dimensions; 长 maps to
// width, matching the documented width×depth×height convention.
var labelFields = map[string]struct {
	field  types.Dimension
	double bool
	fanout bool
}{
	"width":          {field: types.DimWidth},
	"height":         {field: types.DimHeight},
	"depth":          {field: types.DimDepth},
	"diameter":       {field: types.DimDiameter},
	"radius":         {field: types.DimDiameter, double: true},
	"wall thickness": {field: types.DimWallThickness},
	"side":           {fanout: true},
	"side length":    {fanout: true},
	"minor diameter": {field: types.DimMinorDiameter},
	"minor radius":   {field: types.DimMinorDiameter, double: true},
	"宽":              {field: types.DimWidth},
	"高":              {field: types.DimHeight},
	"深":              {field: types.DimDepth},
	"长":              {field: types.DimWidth},
	"直径":             {field: types.DimDiameter},
	"半径":             {field: types.DimDiameter, double: true},
	"壁厚":             {field: types.DimWallThickness},
	"边长":             {fanout: true},
}

var suffixFields = map[string]types.Dimension{
	"wide":  types.DimWidth,
	"high":  types.DimHeight,
	"tall":  types.DimHeight,
	"deep":  types.DimDepth,
	"thick": types.DimWallThickness,
}

// span marks a text range already claimed by a higher-precedence match,
// so the bare-number fallback does not re-read its digits.
type span struct{ start, end int }

func overlaps(spans []span, start, end int) bool {
	for _, s := range spans {
		if start < s.end && end > s.start {
			return true
		}
	}
	return false
}

// parseValue validates one numeric token. Negative or non-finite tokens
// yield ok=false: the candidate is dropped, the pipeline never aborts.
func parseValue(tok string) (float64, bool) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) || v < 0 {
		return 0, false
	}
	return v, true
}

// Extract runs the ordered recognizer chain over normalized text and
// returns every surviving dimension candidate. shape gates the
// family-specific recognizers: pairs apply to radial shapes, triples and
// the bare-number fallback to boxes.
func Extract(text string, shape types.ShapeKind) []types.DimensionCandidate {
	var (
		cands []types.DimensionCandidate
		used  []span
	)

	emit := func(field types.Dimension, v float64, pattern string, rank, pos int) {
		cands = append(cands, types.DimensionCandidate{
			Field: field, Value: v, Pattern: pattern, Rank: rank, Pos: pos,
		})
	}

	labeled := func(re *regexp.Regexp, pattern string) {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			label := text[m[2]:m[3]]
			v, ok := parseValue(text[m[4]:m[5]])
			if !ok {
				continue
			}
			spec := labelFields[label]
			used = append(used, span{m[0], m[1]})
			switch {
			case spec.fanout:
				emit(types.DimWidth, v, pattern, rankLabeled, m[4])
				emit(types.DimDepth, v, pattern, rankLabeled, m[4])
				emit(types.DimHeight, v, pattern, rankLabeled, m[4])
			case spec.double:
				emit(spec.field, v*2, pattern, rankLabeled, m[4])
			default:
				emit(spec.field, v, pattern, rankLabeled, m[4])
			}
		}
	}

	labeled(reLabeledEN, "labeled-en")
	labeled(reLabeledCN, "labeled-cn")

	for _, m := range reSuffixEN.FindAllStringSubmatchIndex(text, -1) {
		v, ok := parseValue(text[m[2]:m[3]])
		if !ok {
			continue
		}
		used = append(used, span{m[0], m[1]})
		emit(suffixFields[text[m[4]:m[5]]], v, "labeled-suffix", rankLabeled, m[2])
	}

	if shape.Radial() {
		for _, m := range rePair.FindAllStringSubmatchIndex(text, -1) {
			used = append(used, span{m[0], m[1]})
			if v, ok := parseValue(text[m[2]:m[3]]); ok {
				emit(types.DimDiameter, v, "pair", rankPair, m[2])
			}
			if v, ok := parseValue(text[m[4]:m[5]]); ok {
				emit(types.DimHeight, v, "pair", rankPair, m[4])
			}
		}
	} else {
		for _, m := range reTriple.FindAllStringSubmatchIndex(text, -1) {
			used = append(used, span{m[0], m[1]})
			fields := []types.Dimension{types.DimWidth, types.DimDepth, types.DimHeight}
			for i, f := range fields {
				if v, ok := parseValue(text[m[2+2*i] : m[3+2*i]]); ok {
					emit(f, v, "triple", rankTriple, m[2+2*i])
				}
			}
		}
	}

	// bare-number fallback: box only, and only when nothing else supplied
	// a width
	if shape == types.ShapeBox && !hasField(cands, types.DimWidth) {
		for _, m := range reBare.FindAllStringSubmatchIndex(text, -1) {
			if overlaps(used, m[2], m[3]) {
				continue
			}
			if v, ok := parseValue(text[m[2]:m[3]]); ok {
				emit(types.DimWidth, v, "bare", rankBare, m[2])
				break
			}
		}
	}

	return cands
}

func hasField(cands []types.DimensionCandidate, field types.Dimension) bool {
	for _, c := range cands {
		if c.Field == field {
			return true
		}
	}
	return false
}
