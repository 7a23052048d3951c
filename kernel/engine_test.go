package kernel

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/clawd/cad3d/config"
	"github.com/clawd/cad3d/types"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(config.KernelConfig{
		MeshCells: 32, // coarse mesh keeps tests fast
		OutputDir: t.TempDir(),
	}, zaptest.NewLogger(t))
}

func TestEngine_Generate(t *testing.T) {
	e := testEngine(t)

	res, err := e.Generate(context.Background(), desc(types.ShapeBox, false, map[types.Dimension]float64{
		types.DimWidth:  50,
		types.DimDepth:  30,
		types.DimHeight: 20,
	}), "box.stl")
	require.NoError(t, err)

	assert.Equal(t, "box.stl", res.Filename)
	assert.Equal(t, filepath.Join(e.OutputDir(), "box.stl"), res.Path)
	assert.Positive(t, res.Elapsed)

	info, err := os.Stat(res.Path)
	require.NoError(t, err)
	// binary STL: 80-byte header + 4-byte count + triangles
	assert.Greater(t, info.Size(), int64(84))
}

func TestEngine_GenerateDefaultFilename(t *testing.T) {
	e := testEngine(t)

	res, err := e.Generate(context.Background(), desc(types.ShapeSphere, false, map[types.Dimension]float64{
		types.DimDiameter: 25,
	}), "")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.Filename, "model_"))
	assert.True(t, strings.HasSuffix(res.Filename, ".stl"))
	assert.FileExists(t, res.Path)
}

func TestEngine_GenerateAppendsExtension(t *testing.T) {
	e := testEngine(t)

	res, err := e.Generate(context.Background(), desc(types.ShapeSphere, false, map[types.Dimension]float64{
		types.DimDiameter: 25,
	}), "ball")
	require.NoError(t, err)
	assert.Equal(t, "ball.stl", res.Filename)
}

func TestEngine_GenerateRejectsUnsupportedFormat(t *testing.T) {
	e := testEngine(t)

	for _, name := range []string{"model.step", "model.dxf", "model.obj"} {
		_, err := e.Generate(context.Background(), desc(types.ShapeSphere, false, map[types.Dimension]float64{
			types.DimDiameter: 25,
		}), name)
		require.Error(t, err, name)
		assert.Equal(t, types.ErrExportFailure, types.GetErrorCode(err), name)
	}
}

func TestEngine_GenerateTransformed(t *testing.T) {
	e := testEngine(t)

	res, err := e.GenerateTransformed(context.Background(),
		desc(types.ShapeCylinder, false, map[types.Dimension]float64{
			types.DimDiameter: 25,
			types.DimHeight:   30,
		}),
		&Transform{Scale: 0.5, RotateZDeg: 30}, "small.stl")
	require.NoError(t, err)
	assert.FileExists(t, res.Path)
}

func TestEngine_GenerateTransformedInvalidScale(t *testing.T) {
	e := testEngine(t)

	_, err := e.GenerateTransformed(context.Background(),
		desc(types.ShapeSphere, false, map[types.Dimension]float64{
			types.DimDiameter: 25,
		}),
		&Transform{Scale: -2}, "")
	require.Error(t, err)
	assert.Equal(t, types.ErrInvalidParameter, types.GetErrorCode(err))
}

func TestEngine_GenerateCanceledContext(t *testing.T) {
	e := testEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Generate(ctx, desc(types.ShapeSphere, false, map[types.Dimension]float64{
		types.DimDiameter: 25,
	}), "")
	require.Error(t, err)
	assert.Equal(t, types.ErrExportFailure, types.GetErrorCode(err))
}

func TestEngine_GenerateInvalidDescriptor(t *testing.T) {
	e := testEngine(t)

	_, err := e.Generate(context.Background(), nil, "")
	require.Error(t, err)
	assert.Equal(t, types.ErrInvalidParameter, types.GetErrorCode(err))
}
