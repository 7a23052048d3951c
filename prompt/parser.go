package prompt

import "github.com/clawd/cad3d/types"

// Parse runs the full pipeline over a free-form description and returns
// the finalized descriptor. The empty string yields an all-defaults box.
func Parse(text string) (*types.ShapeDescriptor, error) {
	return ParseWithOverrides(text, types.Overrides{})
}

// ParseWithOverrides runs the pipeline and merges caller-supplied
// explicit values on top of the extraction result. Overrides come from
// CLI flags, web form fields or an LLM augmentation provider; they take
// precedence over anything found in the text and are validated here
// (negative or non-finite values are rejected with INVALID_PARAMETER).
//
// The call is a pure function of its inputs plus the package's read-only
// lexicon and pattern tables; it is safe for concurrent use.
func ParseWithOverrides(text string, ov types.Overrides) (*types.ShapeDescriptor, error) {
	normalized := Normalize(text)
	match := MatchShape(normalized)

	// family-gated recognizers follow the shape the caller forced, if any
	effective := match.Shape
	if ov.Shape.Valid() {
		effective = ov.Shape
	}

	cands := Extract(normalized, effective)
	return Resolve(match, cands, ov)
}
