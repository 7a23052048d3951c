package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/clawd/cad3d/api/handlers"
	"github.com/clawd/cad3d/config"
	"github.com/clawd/cad3d/internal/history"
	"github.com/clawd/cad3d/internal/metrics"
	"github.com/clawd/cad3d/internal/server"
	"github.com/clawd/cad3d/kernel"
	"github.com/clawd/cad3d/providers"
	"github.com/clawd/cad3d/providers/claude"
	"github.com/clawd/cad3d/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// =============================================================================
// 🖥️ Server 结构
// =============================================================================

// Server 是 cad3d 的主服务器
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	// 服务器管理器
	httpManager    *server.Manager
	metricsManager *server.Manager

	// 核心组件
	engine    *kernel.Engine
	store     *history.Store
	augmenter providers.Augmenter

	// Handlers
	healthHandler   *handlers.HealthHandler
	modelHandler    *handlers.ModelHandler
	historyHandler  *handlers.HistoryHandler
	examplesHandler *handlers.ExamplesHandler

	// 指标收集器
	metricsCollector *metrics.Collector

	// Rate limiter 生命周期管理
	rateLimiterCancel context.CancelFunc
}

// NewServer 创建新的服务器实例
func NewServer(cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
	}
}

// =============================================================================
// 🚀 启动流程
// =============================================================================

// Start 启动所有服务
func (s *Server) Start() error {
	// 1. 初始化指标收集器
	s.metricsCollector = metrics.NewCollector("cad3d", s.logger)

	// 2. 初始化核心组件与 Handlers
	if err := s.initComponents(); err != nil {
		return fmt.Errorf("failed to init components: %w", err)
	}
	s.initHandlers()

	// 3. 并发启动 HTTP 与 Metrics 服务器
	var g errgroup.Group
	g.Go(s.startHTTPServer)
	g.Go(s.startMetricsServer)
	if err := g.Wait(); err != nil {
		return err
	}

	s.logger.Info("All servers started",
		zap.Int("http_port", s.cfg.Server.HTTPPort),
		zap.Int("metrics_port", s.cfg.Server.MetricsPort),
		zap.Bool("history_enabled", s.store != nil),
		zap.Bool("llm_enabled", s.augmenter != nil),
	)

	return nil
}

// =============================================================================
// 🔧 初始化方法
// =============================================================================

// initComponents 初始化内核引擎、历史存储与 LLM 提供者
func (s *Server) initComponents() error {
	s.engine = kernel.NewEngine(s.cfg.Kernel, s.logger)

	if s.cfg.History.Enabled {
		store, err := history.Open(s.cfg.History, s.logger)
		if err != nil {
			return fmt.Errorf("failed to open history store: %w", err)
		}
		s.store = store
	} else {
		s.logger.Info("History store disabled")
	}

	if s.cfg.LLM.Enabled {
		s.augmenter = claude.NewClaudeProvider(providers.ClaudeConfig{
			APIKey:     s.cfg.LLM.APIKey,
			BaseURL:    s.cfg.LLM.BaseURL,
			Model:      s.cfg.LLM.Model,
			Timeout:    s.cfg.LLM.Timeout,
			MaxRetries: s.cfg.LLM.MaxRetries,
		}, s.logger)
		s.logger.Info("LLM augmentation enabled", zap.String("model", s.cfg.LLM.Model))
	} else {
		s.logger.Info("LLM augmentation disabled")
	}

	return nil
}

// initHandlers 初始化所有 handlers
func (s *Server) initHandlers() {
	s.healthHandler = handlers.NewHealthHandler(s.logger)
	s.healthHandler.RegisterCheck(handlers.NewOutputDirHealthCheck("output_dir", s.engine.OutputDir()))
	if s.store != nil {
		store := s.store
		s.healthHandler.RegisterCheck(handlers.NewDatabaseHealthCheck("history", func(ctx context.Context) error {
			_, err := store.Count(ctx)
			return err
		}))
	}

	var recorder handlers.HistoryRecorder
	var reader handlers.HistoryReader
	if s.store != nil {
		recorder = historyRecorder{store: s.store}
		reader = s.store
	}

	s.modelHandler = handlers.NewModelHandler(s.engine, recorder, s.augmenter, s.metricsCollector, s.logger).
		WithDefaults(s.cfg.Parser.Defaults)
	s.historyHandler = handlers.NewHistoryHandler(reader, s.logger)
	s.examplesHandler = handlers.NewExamplesHandler(s.logger)

	s.logger.Info("Handlers initialized")
}

// =============================================================================
// 🌐 HTTP 服务器
// =============================================================================

// startHTTPServer 启动 HTTP 服务器
func (s *Server) startHTTPServer() error {
	mux := http.NewServeMux()

	// ========================================
	// 健康检查端点
	// ========================================
	mux.HandleFunc("/health", s.healthHandler.HandleHealth)
	mux.HandleFunc("/healthz", s.healthHandler.HandleHealthz)
	mux.HandleFunc("/ready", s.healthHandler.HandleReady)
	mux.HandleFunc("/readyz", s.healthHandler.HandleReady)

	// 版本信息端点
	mux.HandleFunc("/version", s.healthHandler.HandleVersion(Version, BuildTime, GitCommit))

	// ========================================
	// API 路由
	// ========================================
	mux.HandleFunc("/api/v1/parse", s.modelHandler.HandleParse)
	mux.HandleFunc("/api/v1/generate", s.modelHandler.HandleGenerate)
	mux.HandleFunc("/api/v1/recent", s.historyHandler.HandleRecent)
	mux.HandleFunc("/api/v1/examples", s.examplesHandler.HandleExamples)
	mux.HandleFunc("/download/", s.modelHandler.HandleDownload)

	// ========================================
	// 构建中间件链
	// ========================================
	skipAuthPaths := []string{"/health", "/healthz", "/ready", "/readyz", "/version"}
	rateLimiterCtx, rateLimiterCancel := context.WithCancel(context.Background())
	s.rateLimiterCancel = rateLimiterCancel
	handler := Chain(mux,
		Recovery(s.logger),
		RequestID(),
		SecurityHeaders(),
		RequestLogger(s.logger),
		MetricsMiddleware(s.metricsCollector),
		CORS(s.cfg.Server.CORSAllowedOrigins),
		RateLimiter(rateLimiterCtx, s.cfg.Server.RateLimitRPS, s.cfg.Server.RateLimitBurst, s.logger),
		APIKeyAuth(s.cfg.Server.APIKey, skipAuthPaths, s.logger),
	)

	// ========================================
	// 使用 internal/server.Manager
	// ========================================
	s.httpManager = server.NewManager(handler, server.FromServerConfig(s.cfg.Server), s.logger)

	if err := s.httpManager.Start(); err != nil {
		return err
	}

	s.logger.Info("HTTP server started", zap.Int("port", s.cfg.Server.HTTPPort))
	return nil
}

// =============================================================================
// 📊 Metrics 服务器
// =============================================================================

// startMetricsServer 启动 Metrics 服务器
func (s *Server) startMetricsServer() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	serverConfig := server.FromServerConfig(s.cfg.Server)
	serverConfig.Addr = fmt.Sprintf(":%d", s.cfg.Server.MetricsPort)

	s.metricsManager = server.NewManager(mux, serverConfig, s.logger)

	if err := s.metricsManager.Start(); err != nil {
		return err
	}

	s.logger.Info("Metrics server started", zap.Int("port", s.cfg.Server.MetricsPort))
	return nil
}

// =============================================================================
// 🛑 关闭流程
// =============================================================================

// WaitForShutdown 等待关闭信号并优雅关闭
func (s *Server) WaitForShutdown() {
	// httpManager 的 WaitForShutdown 监听信号
	if s.httpManager != nil {
		s.httpManager.WaitForShutdown()
	}

	s.Shutdown()
}

// Shutdown 优雅关闭所有服务
func (s *Server) Shutdown() {
	s.logger.Info("Starting graceful shutdown...")

	ctx := context.Background()

	// 0. 停止 rate limiter 清理 goroutine
	if s.rateLimiterCancel != nil {
		s.rateLimiterCancel()
	}

	// 1. 关闭 HTTP 服务器
	if s.httpManager != nil {
		if err := s.httpManager.Shutdown(ctx); err != nil {
			s.logger.Error("HTTP server shutdown error", zap.Error(err))
		}
	}

	// 2. 关闭 Metrics 服务器
	if s.metricsManager != nil {
		if err := s.metricsManager.Shutdown(ctx); err != nil {
			s.logger.Error("Metrics server shutdown error", zap.Error(err))
		}
	}

	// 3. 关闭历史存储
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error("History store close error", zap.Error(err))
		}
	}

	s.logger.Info("Graceful shutdown completed")
}

// historyRecorder 把 history.Store 适配成 handlers.HistoryRecorder
type historyRecorder struct {
	store *history.Store
}

func (h historyRecorder) Add(ctx context.Context, prompt string, desc *types.ShapeDescriptor, filename string) error {
	_, err := h.store.Add(ctx, prompt, desc, filename)
	return err
}
