package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/clawd/cad3d/config"
	"github.com/clawd/cad3d/internal/history"
	"github.com/clawd/cad3d/kernel"
	"github.com/clawd/cad3d/prompt"
	"github.com/clawd/cad3d/providers"
	"github.com/clawd/cad3d/providers/claude"
	"github.com/clawd/cad3d/types"
)

// =============================================================================
// 📐 parse / generate 命令
// =============================================================================

// modelFlags 收集 parse 与 generate 共享的命令行标志
type modelFlags struct {
	fs *flag.FlagSet

	prompt     *string
	shape      *string
	hollow     *bool
	width      *float64
	height     *float64
	depth      *float64
	diameter   *float64
	wall       *float64
	minor      *float64
	llm        *bool
	configPath *string
}

func newModelFlags(fs *flag.FlagSet) *modelFlags {
	return &modelFlags{
		fs:         fs,
		prompt:     fs.String("prompt", "", "Shape description (English or Chinese)"),
		shape:      fs.String("shape", "", "Force shape: box, cylinder, sphere, cone, torus"),
		hollow:     fs.Bool("hollow", false, "Force a hollow shape"),
		width:      fs.Float64("width", 0, "Override width (mm)"),
		height:     fs.Float64("height", 0, "Override height (mm)"),
		depth:      fs.Float64("depth", 0, "Override depth (mm)"),
		diameter:   fs.Float64("diameter", 0, "Override diameter (mm)"),
		wall:       fs.Float64("wall-thickness", 0, "Override wall thickness (mm)"),
		minor:      fs.Float64("minor-diameter", 0, "Override torus minor diameter (mm)"),
		llm:        fs.Bool("llm", false, "Augment parsing with the configured LLM provider"),
		configPath: fs.String("config", "", "Path to config file"),
	}
}

// overrides 只把显式给出的标志转成覆盖值，flag 默认值不算
func (m *modelFlags) overrides() types.Overrides {
	ov := types.Overrides{}
	m.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "shape":
			ov.Shape = types.ShapeKind(strings.ToLower(*m.shape))
		case "hollow":
			ov.Hollow = m.hollow
		case "width":
			ov.Width = m.width
		case "height":
			ov.Height = m.height
		case "depth":
			ov.Depth = m.depth
		case "diameter":
			ov.Diameter = m.diameter
		case "wall-thickness":
			ov.WallThickness = m.wall
		case "minor-diameter":
			ov.MinorDiameter = m.minor
		}
	})
	return ov
}

// text 返回提示文本：--prompt 优先，否则拼接剩余参数
func (m *modelFlags) text() string {
	if *m.prompt != "" {
		return *m.prompt
	}
	return strings.Join(m.fs.Args(), " ")
}

func (m *modelFlags) loadConfig() *config.Config {
	loader := config.NewLoader()
	if *m.configPath != "" {
		loader = loader.WithConfigPath(*m.configPath)
	}
	cfg, err := loader.Load()
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func runParse(args []string) {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	flags := newModelFlags(fs)
	fs.Parse(args)

	desc := parseDescriptor(flags)
	printJSON(desc)
}

func runGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	flags := newModelFlags(fs)
	output := fs.String("output", "", "Output filename (default model_<uuid>.stl)")
	meshCells := fs.Int("mesh-cells", 0, "Mesh resolution along the longest axis")
	scale := fs.Float64("scale", 0, "Uniform scale factor applied before meshing")
	rotateZ := fs.Float64("rotate-z", 0, "Rotation about the Z axis (degrees)")
	translate := fs.String("translate", "", "Translation in mm, as x,y,z")
	fs.Parse(args)

	cfg := flags.loadConfig()
	if *meshCells > 0 {
		cfg.Kernel.MeshCells = *meshCells
	}

	tr := &kernel.Transform{Scale: *scale, RotateZDeg: *rotateZ}
	if *translate != "" {
		v, err := parseTranslate(*translate)
		if err != nil {
			fatalf("Invalid --translate: %v", err)
		}
		tr.Translate = v
	}

	desc := parseDescriptor(flags)

	// 先展示文本被如何理解，再开始建模
	printJSON(desc)

	logger := cliLogger()
	defer logger.Sync()

	engine := kernel.NewEngine(cfg.Kernel, logger)

	result, err := engine.GenerateTransformed(context.Background(), desc, tr, *output)
	if err != nil {
		fatalf("Generation failed: %v", err)
	}

	if cfg.History.Enabled {
		recordHistory(cfg.History, flags.text(), desc, result.Filename, logger)
	}

	fmt.Printf("STL written to %s (%.0f ms)\n", result.Path, float64(result.Elapsed.Milliseconds()))
}

// parseDescriptor 执行共享的 解析 + 可选增强 流程
func parseDescriptor(flags *modelFlags) *types.ShapeDescriptor {
	text := flags.text()
	ov := flags.overrides()
	cfg := flags.loadConfig()

	if *flags.llm {
		if cfg.LLM.APIKey == "" {
			fatalf("--llm requires llm.api_key in config or CAD3D_LLM_API_KEY")
		}
		augmenter := claude.NewClaudeProvider(providers.ClaudeConfig{
			APIKey:     cfg.LLM.APIKey,
			BaseURL:    cfg.LLM.BaseURL,
			Model:      cfg.LLM.Model,
			Timeout:    cfg.LLM.Timeout,
			MaxRetries: cfg.LLM.MaxRetries,
		}, cliLogger())

		augmented, err := augmenter.Augment(context.Background(), text)
		if err != nil {
			fatalf("LLM augmentation failed: %v", err)
		}
		ov = providers.MergeOverrides(ov, *augmented)
	}

	// 部署基线覆盖优先级最低
	ov = providers.MergeOverrides(ov, cfg.Parser.Defaults)

	desc, err := prompt.ParseWithOverrides(text, ov)
	if err != nil {
		fatalf("Parse failed: %v", err)
	}
	return desc
}

// parseTranslate 解析 "x,y,z" 形式的平移量
func parseTranslate(s string) ([3]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return [3]float64{}, fmt.Errorf("expected three comma-separated values, got %d", len(parts))
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return [3]float64{}, fmt.Errorf("component %d: %w", i+1, err)
		}
		v[i] = f
	}
	return v, nil
}

func recordHistory(cfg config.HistoryConfig, text string, desc *types.ShapeDescriptor, filename string, logger *zap.Logger) {
	store, err := history.Open(cfg, logger)
	if err != nil {
		logger.Warn("history store unavailable", zap.Error(err))
		return
	}
	defer store.Close()

	if _, err := store.Add(context.Background(), text, desc, filename); err != nil {
		logger.Warn("failed to record generation history", zap.Error(err))
	}
}

func printJSON(v interface{}) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatalf("Failed to encode JSON: %v", err)
	}
	fmt.Println(string(out))
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// cliLogger 输出到 stderr，保持 stdout 只有命令结果
func cliLogger() *zap.Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapcore.WarnLevel),
		Development:      true,
		Encoding:         "console",
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	logger, err := zapConfig.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
