// =============================================================================
// ⚙️ 几何引擎：实体构建 + STL 导出
// =============================================================================
package kernel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/soypat/sdf"
	"github.com/soypat/sdf/render"
	"go.uber.org/zap"

	"github.com/clawd/cad3d/config"
	"github.com/clawd/cad3d/types"
)

// Engine turns finalized shape descriptors into STL files. It is
// stateless apart from its configuration and safe for concurrent use.
type Engine struct {
	meshCells int
	outputDir string
	logger    *zap.Logger
}

// NewEngine creates a geometry engine from kernel configuration.
func NewEngine(cfg config.KernelConfig, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		meshCells: cfg.MeshCells,
		outputDir: cfg.OutputDir,
		logger:    logger,
	}
}

// OutputDir returns the directory the engine writes STL files into.
func (e *Engine) OutputDir() string { return e.outputDir }

// Result describes one completed model generation.
type Result struct {
	// Descriptor 生成所用的最终描述符
	Descriptor *types.ShapeDescriptor `json:"descriptor"`
	// Filename STL 文件名（相对输出目录）
	Filename string `json:"filename"`
	// Path STL 文件的完整路径
	Path string `json:"path"`
	// Elapsed 构建加导出耗时
	Elapsed time.Duration `json:"elapsed"`
}

// Generate builds the solid for a descriptor and writes it to an STL
// file under the engine's output directory. An empty filename gets a
// generated "model_<uuid>.stl" name; a filename carrying a non-STL
// extension is rejected with EXPORT_FAILURE. The context is checked
// before the expensive meshing step; cancellation after meshing has
// begun is not observed.
func (e *Engine) Generate(ctx context.Context, desc *types.ShapeDescriptor, filename string) (*Result, error) {
	return e.GenerateTransformed(ctx, desc, nil, filename)
}

// GenerateTransformed is Generate with an optional transform applied to
// the solid before meshing. A nil transform means identity.
func (e *Engine) GenerateTransformed(ctx context.Context, desc *types.ShapeDescriptor, tr *Transform, filename string) (*Result, error) {
	start := time.Now()

	solid, err := Solid(desc)
	if err != nil {
		return nil, err
	}
	if tr != nil {
		if err := tr.Validate(); err != nil {
			return nil, err
		}
		solid = tr.Apply(solid)
	}

	if err := ctx.Err(); err != nil {
		return nil, types.NewError(types.ErrExportFailure, "generation canceled").WithCause(err)
	}

	if filename == "" {
		filename = fmt.Sprintf("model_%s.stl", uuid.NewString())
	}
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case "":
		filename += ".stl"
	case ".stl":
	default:
		// STEP/DXF 等格式需要外部 CAD 内核，这里只支持 STL
		return nil, types.NewError(types.ErrExportFailure,
			fmt.Sprintf("unsupported export format %q: only STL output is supported", ext))
	}

	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return nil, types.NewError(types.ErrExportFailure,
			"failed to create output directory").WithCause(err)
	}

	path := filepath.Join(e.outputDir, filename)
	if err := e.ExportSTL(solid, path); err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	e.logger.Info("model generated",
		zap.String("shape", string(desc.Shape)),
		zap.Bool("hollow", desc.Hollow),
		zap.String("path", path),
		zap.Duration("elapsed", elapsed),
	)

	return &Result{
		Descriptor: desc,
		Filename:   filename,
		Path:       path,
		Elapsed:    elapsed,
	}, nil
}

// ExportSTL meshes a solid with the octree renderer and writes a binary
// STL file. Renderer failures surface as EXPORT_FAILURE.
func (e *Engine) ExportSTL(solid sdf.SDF3, path string) error {
	renderer := render.NewOctreeRenderer(solid, e.meshCells)
	if err := render.CreateSTL(path, renderer); err != nil {
		return types.NewError(types.ErrExportFailure,
			fmt.Sprintf("failed to write %s", path)).WithCause(err)
	}
	return nil
}
