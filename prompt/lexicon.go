package prompt

import (
	"regexp"

	"github.com/clawd/cad3d/types"
)

// =============================================================================
// 📖 双语形状词典
// =============================================================================
// 数据表驱动：新增语言或同义词只需扩表，不需要新的控制流。
// =============================================================================

type lexiconEntry struct {
	keyword string
	shape   types.ShapeKind
	re      *regexp.Regexp
}

// shapeLexicon maps shape keywords to kinds. Entry order is irrelevant:
// when several keywords occur, the one appearing earliest in the text
// wins (first-mention precedence), with the longer keyword breaking a
// same-position tie (立方体 before 方体).
var shapeLexicon = buildLexicon(map[string]types.ShapeKind{
	"box": types.ShapeBox, "cube": types.ShapeBox,
	"rectangular": types.ShapeBox, "rectangle": types.ShapeBox,
	"盒子": types.ShapeBox, "立方体": types.ShapeBox, "长方体": types.ShapeBox, "方块": types.ShapeBox,

	"cylinder": types.ShapeCylinder, "cylindrical": types.ShapeCylinder,
	"圆柱": types.ShapeCylinder, "圆柱体": types.ShapeCylinder, "圆筒": types.ShapeCylinder,

	"sphere": types.ShapeSphere, "ball": types.ShapeSphere, "spherical": types.ShapeSphere,
	"球": types.ShapeSphere, "球体": types.ShapeSphere, "圆球": types.ShapeSphere,

	"cone": types.ShapeCone, "conical": types.ShapeCone,
	"圆锥": types.ShapeCone, "圆锥体": types.ShapeCone, "锥体": types.ShapeCone,

	"torus": types.ShapeTorus, "donut": types.ShapeTorus, "ring": types.ShapeTorus,
	"圆环": types.ShapeTorus, "圆环体": types.ShapeTorus, "甜甜圈": types.ShapeTorus,
})

// hollowLexicon: any of these set hollow=true, independent of the shape
// keyword that won. 壁厚 (wall thickness) mentions imply a hollow shape.
var hollowLexicon = buildKeywords("hollow", "tube", "pipe", "wall thickness", "空心", "管", "壁厚")

// tubeLexicon: hollow keywords that additionally force shape=cylinder
// when no shape keyword matched at all.
var tubeLexicon = buildKeywords("tube", "pipe", "管")

func buildLexicon(table map[string]types.ShapeKind) []lexiconEntry {
	entries := make([]lexiconEntry, 0, len(table))
	for kw, shape := range table {
		entries = append(entries, lexiconEntry{keyword: kw, shape: shape, re: compileKeyword(kw)})
	}
	return entries
}

func buildKeywords(keywords ...string) []lexiconEntry {
	entries := make([]lexiconEntry, 0, len(keywords))
	for _, kw := range keywords {
		entries = append(entries, lexiconEntry{keyword: kw, re: compileKeyword(kw)})
	}
	return entries
}

// compileKeyword builds the matcher for one keyword. ASCII keywords match
// on word boundaries so that "ring" does not fire inside "string"; CJK
// keywords match as plain substrings since CJK text has no word breaks.
func compileKeyword(kw string) *regexp.Regexp {
	if kw[0] < 0x80 {
		return regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
	}
	return regexp.MustCompile(regexp.QuoteMeta(kw))
}

// ShapeMatch is the shape matcher's verdict on a normalized text.
type ShapeMatch struct {
	Shape  types.ShapeKind
	Hollow bool

	// ShapeMatched is false when no shape keyword was found and Shape is
	// the documented box fallback.
	ShapeMatched bool
	// HollowMatched is true when a hollow keyword appeared in the text.
	HollowMatched bool
}

// MatchShape scans the normalized text against the bilingual lexicon and
// selects exactly one shape kind plus the hollow flag. It never fails:
// text without any shape keyword yields the box fallback.
func MatchShape(text string) ShapeMatch {
	m := ShapeMatch{Shape: types.ShapeBox}

	first := -1
	firstLen := 0
	for _, entry := range shapeLexicon {
		loc := entry.re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		if first == -1 || loc[0] < first || (loc[0] == first && loc[1]-loc[0] > firstLen) {
			first = loc[0]
			firstLen = loc[1] - loc[0]
			m.Shape = entry.shape
			m.ShapeMatched = true
		}
	}

	for _, entry := range hollowLexicon {
		if entry.re.MatchString(text) {
			m.Hollow = true
			m.HollowMatched = true
			break
		}
	}

	// tube/pipe imply a cylinder when nothing else named a shape
	if !m.ShapeMatched && m.Hollow {
		for _, entry := range tubeLexicon {
			if entry.re.MatchString(text) {
				m.Shape = types.ShapeCylinder
				m.ShapeMatched = true
				break
			}
		}
	}

	return m
}
