package prompt

import (
	"testing"

	"github.com/clawd/cad3d/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func f(v float64) *float64 { return &v }

func TestResolve_DefaultingCompleteness(t *testing.T) {
	// an empty prompt yields a fully-defaulted descriptor for every kind
	for _, shape := range types.AllShapes() {
		t.Run(string(shape), func(t *testing.T) {
			match := ShapeMatch{Shape: shape, ShapeMatched: true}
			desc, err := Resolve(match, nil, types.Overrides{})
			require.NoError(t, err)

			for _, dim := range shape.RequiredDimensions() {
				require.NotNil(t, desc.Dimension(dim), "required field %s", dim)
				assert.Equal(t, shapeDefaults[shape][dim], *desc.Dimension(dim))
				assert.Equal(t, types.ProvenanceDefaulted, desc.Provenance[string(dim)])
			}
			assert.Nil(t, desc.WallThickness, "wall thickness absent on solid shapes")
		})
	}
}

func TestResolve_BoxDefaults(t *testing.T) {
	desc, err := Resolve(ShapeMatch{Shape: types.ShapeBox}, nil, types.Overrides{})
	require.NoError(t, err)

	assert.Equal(t, 50.0, *desc.Width)
	assert.Equal(t, 30.0, *desc.Height)
	assert.Equal(t, 20.0, *desc.Depth)
	assert.Equal(t, types.ProvenanceDefaulted, desc.Provenance["shape"])
}

func TestResolve_HollowWallDefault(t *testing.T) {
	match := ShapeMatch{Shape: types.ShapeCylinder, ShapeMatched: true, Hollow: true, HollowMatched: true}
	desc, err := Resolve(match, nil, types.Overrides{})
	require.NoError(t, err)

	require.NotNil(t, desc.WallThickness)
	assert.Equal(t, defaultWallThickness, *desc.WallThickness)
	assert.Equal(t, types.ProvenanceDefaulted, desc.Provenance["wall_thickness"])
}

func TestResolve_CandidateBeatsDefault(t *testing.T) {
	cands := []types.DimensionCandidate{
		{Field: types.DimWidth, Value: 77, Pattern: "labeled-en", Rank: rankLabeled, Pos: 0},
	}
	desc, err := Resolve(ShapeMatch{Shape: types.ShapeBox}, cands, types.Overrides{})
	require.NoError(t, err)

	assert.Equal(t, 77.0, *desc.Width)
	assert.Equal(t, types.ProvenanceExtracted, desc.Provenance["width"])
	assert.Equal(t, 30.0, *desc.Height, "untouched fields stay defaulted")
}

func TestResolve_OverrideBeatsCandidate(t *testing.T) {
	cands := []types.DimensionCandidate{
		{Field: types.DimWidth, Value: 77, Rank: rankLabeled, Pos: 0},
	}
	desc, err := Resolve(ShapeMatch{Shape: types.ShapeBox}, cands, types.Overrides{Width: f(99)})
	require.NoError(t, err)

	assert.Equal(t, 99.0, *desc.Width)
	assert.Equal(t, types.ProvenanceOverridden, desc.Provenance["width"])
}

func TestResolve_RankPrecedence(t *testing.T) {
	// a labeled candidate beats a triple candidate for the same field
	cands := []types.DimensionCandidate{
		{Field: types.DimWidth, Value: 10, Rank: rankTriple, Pos: 0},
		{Field: types.DimWidth, Value: 20, Rank: rankLabeled, Pos: 30},
	}
	desc, err := Resolve(ShapeMatch{Shape: types.ShapeBox}, cands, types.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, 20.0, *desc.Width)
}

func TestResolve_SameRankLastOccurrenceWins(t *testing.T) {
	// "height 30 ... height 50" in one prompt: the later mention wins
	cands := []types.DimensionCandidate{
		{Field: types.DimHeight, Value: 30, Rank: rankLabeled, Pos: 7},
		{Field: types.DimHeight, Value: 50, Rank: rankLabeled, Pos: 21},
	}
	desc, err := Resolve(ShapeMatch{Shape: types.ShapeBox}, cands, types.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, 50.0, *desc.Height)
}

func TestResolve_ShapeAndHollowOverrides(t *testing.T) {
	hollow := true
	desc, err := Resolve(
		ShapeMatch{Shape: types.ShapeBox},
		nil,
		types.Overrides{Shape: types.ShapeCylinder, Hollow: &hollow},
	)
	require.NoError(t, err)

	assert.Equal(t, types.ShapeCylinder, desc.Shape)
	assert.True(t, desc.Hollow)
	assert.Equal(t, types.ProvenanceOverridden, desc.Provenance["shape"])
	assert.Equal(t, types.ProvenanceOverridden, desc.Provenance["hollow"])
	require.NotNil(t, desc.WallThickness)
}

func TestResolve_WallThicknessOnlyWhenHollow(t *testing.T) {
	// a wall candidate on a solid shape stays absent
	cands := []types.DimensionCandidate{
		{Field: types.DimWallThickness, Value: 5, Rank: rankLabeled, Pos: 0},
	}
	desc, err := Resolve(ShapeMatch{Shape: types.ShapeBox}, cands, types.Overrides{})
	require.NoError(t, err)
	assert.Nil(t, desc.WallThickness)
	_, present := desc.Provenance["wall_thickness"]
	assert.False(t, present)
}

func TestResolve_InvalidOverrides(t *testing.T) {
	tests := []struct {
		name string
		ov   types.Overrides
	}{
		{"negative width", types.Overrides{Width: f(-1)}},
		{"negative wall", types.Overrides{WallThickness: f(-0.5)}},
		{"unknown shape", types.Overrides{Shape: types.ShapeKind("pyramid")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(ShapeMatch{Shape: types.ShapeBox}, nil, tt.ov)
			require.Error(t, err)
			assert.Equal(t, types.ErrInvalidParameter, types.GetErrorCode(err))
		})
	}
}

func TestResolve_TorusMinorOptional(t *testing.T) {
	// minor diameter is carried when extracted, never defaulted
	match := ShapeMatch{Shape: types.ShapeTorus, ShapeMatched: true}

	desc, err := Resolve(match, nil, types.Overrides{})
	require.NoError(t, err)
	assert.Nil(t, desc.MinorDiameter)

	cands := []types.DimensionCandidate{
		{Field: types.DimMinorDiameter, Value: 10, Rank: rankLabeled, Pos: 0},
	}
	desc, err = Resolve(match, cands, types.Overrides{})
	require.NoError(t, err)
	require.NotNil(t, desc.MinorDiameter)
	assert.Equal(t, 10.0, *desc.MinorDiameter)
}

// Override precedence holds for any field and any pair of values.
func TestResolve_OverridePrecedenceProperty(t *testing.T) {
	fields := []types.Dimension{types.DimWidth, types.DimHeight, types.DimDepth, types.DimDiameter}
	rapid.Check(t, func(t *rapid.T) {
		field := rapid.SampledFrom(fields).Draw(t, "field")
		extracted := rapid.Float64Range(0, 1e6).Draw(t, "extracted")
		override := rapid.Float64Range(0, 1e6).Draw(t, "override")

		cands := []types.DimensionCandidate{
			{Field: field, Value: extracted, Rank: rankLabeled, Pos: 0},
		}
		ov := types.Overrides{}
		switch field {
		case types.DimWidth:
			ov.Width = &override
		case types.DimHeight:
			ov.Height = &override
		case types.DimDepth:
			ov.Depth = &override
		case types.DimDiameter:
			ov.Diameter = &override
		}

		desc, err := Resolve(ShapeMatch{Shape: types.ShapeBox}, cands, ov)
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		got := desc.Dimension(field)
		if got == nil || *got != override {
			t.Fatalf("override lost for %s: got %v want %v", field, got, override)
		}
	})
}
