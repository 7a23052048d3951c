// =============================================================================
// cad3d 主入口
// =============================================================================
// 文本描述 → 形状描述符 → STL 模型，附带 HTTP 服务、健康检查、Prometheus 指标
//
// 使用方法:
//
//	cad3d parse --prompt "a box 50x30x20mm"    # 只解析，打印描述符 JSON
//	cad3d generate --prompt "直径80高100的圆柱"  # 解析并导出 STL
//	cad3d serve                                 # 启动服务
//	cad3d serve --config cad3d.yaml             # 指定配置文件
//	cad3d version                               # 显示版本信息
//	cad3d health                                # 健康检查
// =============================================================================

package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/clawd/cad3d/config"
)

// =============================================================================
// 📦 版本信息（构建时注入）
// =============================================================================

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// =============================================================================
// 🎯 主函数
// =============================================================================

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "parse":
		runParse(os.Args[2:])
	case "generate":
		runGenerate(os.Args[2:])
	case "serve":
		runServe(os.Args[2:])
	case "version":
		printVersion()
	case "health":
		runHealthCheck(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// =============================================================================
// 🖥️ serve 命令
// =============================================================================

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	fs.Parse(args)

	// 加载配置
	loader := config.NewLoader()
	if *configPath != "" {
		loader = loader.WithConfigPath(*configPath)
	}

	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger := initLogger(cfg.Log)
	defer logger.Sync()

	logger.Info("Starting cad3d",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	server := NewServer(cfg, logger)

	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}

	server.WaitForShutdown()

	logger.Info("cad3d stopped")
}

// =============================================================================
// 🏥 健康检查命令
// =============================================================================

func runHealthCheck(args []string) {
	fs := flag.NewFlagSet("health", flag.ExitOnError)
	addr := fs.String("addr", "http://localhost:8080", "Server address")
	fs.Parse(args)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(*addr + "/health")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Health check failed: status %d\n", resp.StatusCode)
		os.Exit(1)
	}

	fmt.Println("OK")
}

// =============================================================================
// 📋 版本和帮助
// =============================================================================

func printVersion() {
	fmt.Printf("cad3d %s\n", Version)
	fmt.Printf("  Build Time: %s\n", BuildTime)
	fmt.Printf("  Git Commit: %s\n", GitCommit)
}

func printUsage() {
	fmt.Println(`cad3d - text to 3D model generator

Usage:
  cad3d <command> [options]

Commands:
  parse     Parse a shape description and print the descriptor JSON
  generate  Parse a shape description and generate an STL model
  serve     Start the cad3d server
  version   Show version information
  health    Check server health
  help      Show this help message

Options for 'parse' and 'generate':
  --prompt <text>        Shape description (English or Chinese)
  --shape <kind>         Force shape: box, cylinder, sphere, cone, torus
  --hollow               Force a hollow shape
  --width <mm>           Override width
  --height <mm>          Override height
  --depth <mm>           Override depth
  --diameter <mm>        Override diameter
  --wall-thickness <mm>  Override wall thickness (implies hollow)
  --minor-diameter <mm>  Override torus minor diameter
  --llm                  Augment parsing with the configured LLM provider
  --config <path>        Path to configuration file (YAML)

Options for 'generate' only:
  --output <name>        Output filename (default model_<uuid>.stl)
  --mesh-cells <n>       Mesh resolution along the longest axis
  --scale <k>            Uniform scale factor applied before meshing
  --rotate-z <deg>       Rotation about the Z axis (degrees)
  --translate <x,y,z>    Translation in mm

Options for 'serve':
  --config <path>        Path to configuration file (YAML)

Examples:
  cad3d parse --prompt "a hollow tube with outer diameter 60mm and height 80mm"
  cad3d generate --prompt "直径80高100的圆柱" --output cylinder.stl
  cad3d generate --prompt "a box" --width 50 --depth 30 --height 20
  cad3d serve --config /etc/cad3d/config.yaml
  cad3d health --addr http://localhost:8080
  cad3d version`)
}

// =============================================================================
// 🔧 日志初始化
// =============================================================================

func initLogger(cfg config.LogConfig) *zap.Logger {
	// 解析日志级别
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	// 配置编码器
	var encoderConfig zapcore.EncoderConfig
	if cfg.Format == "console" {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      cfg.Format == "console",
		Encoding:         "json",
		EncoderConfig:    encoderConfig,
		OutputPaths:      cfg.OutputPaths,
		ErrorOutputPaths: []string{"stderr"},
	}
	if cfg.Format == "console" {
		zapConfig.Encoding = "console"
	}

	var opts []zap.Option
	if cfg.EnableCaller {
		opts = append(opts, zap.AddCaller())
	}
	if cfg.EnableStacktrace {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	logger, err := zapConfig.Build(opts...)
	if err != nil {
		// 回退到基本 logger
		logger, _ = zap.NewProduction()
	}

	return logger
}
