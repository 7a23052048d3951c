package handlers

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/clawd/cad3d/api"
	"github.com/clawd/cad3d/internal/metrics"
	"github.com/clawd/cad3d/kernel"
	"github.com/clawd/cad3d/prompt"
	"github.com/clawd/cad3d/providers"
	"github.com/clawd/cad3d/types"
	"go.uber.org/zap"
)

// =============================================================================
// 📐 解析与生成 Handler
// =============================================================================

// Generator 抽象 STL 生成引擎，便于测试替身
type Generator interface {
	Generate(ctx context.Context, desc *types.ShapeDescriptor, filename string) (*kernel.Result, error)
	OutputDir() string
}

// HistoryRecorder 抽象历史记录写入
type HistoryRecorder interface {
	Add(ctx context.Context, prompt string, desc *types.ShapeDescriptor, filename string) error
}

// ModelHandler 处理解析与生成请求
type ModelHandler struct {
	engine    Generator
	recorder  HistoryRecorder     // nil 表示历史记录关闭
	augmenter providers.Augmenter // nil 表示 LLM 增强关闭
	metrics   *metrics.Collector  // nil 表示不采集
	defaults  types.Overrides     // 部署级基线覆盖
	logger    *zap.Logger
}

// NewModelHandler 创建解析与生成处理器
func NewModelHandler(engine Generator, recorder HistoryRecorder, augmenter providers.Augmenter, collector *metrics.Collector, logger *zap.Logger) *ModelHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModelHandler{
		engine:    engine,
		recorder:  recorder,
		augmenter: augmenter,
		metrics:   collector,
		logger:    logger,
	}
}

// WithDefaults 设置部署级基线覆盖（配置文件 parser.defaults）。
// 基线排在最后：显式值与 LLM 增强结果都不会被它改写。
func (h *ModelHandler) WithDefaults(defaults types.Overrides) *ModelHandler {
	h.defaults = defaults
	return h
}

// HandleParse 处理 POST /api/v1/parse 请求（只解析，不生成）
func (h *ModelHandler) HandleParse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteErrorMessage(w, http.StatusMethodNotAllowed, types.ErrInvalidRequest, "method not allowed", h.logger)
		return
	}
	if !ValidateContentType(w, r, h.logger) {
		return
	}

	var req api.ParseRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}

	ov, augmented, err := h.effectiveOverrides(r.Context(), req.Prompt, req.Overrides, req.Augment)
	if err != nil {
		WriteError(w, AsAPIError(err), h.logger)
		return
	}

	desc, err := prompt.ParseWithOverrides(req.Prompt, ov)
	if h.metrics != nil {
		h.metrics.RecordParse(desc, err)
	}
	if err != nil {
		WriteError(w, AsAPIError(err), h.logger)
		return
	}

	WriteSuccess(w, api.ParseResponse{
		Descriptor: desc,
		Augmented:  augmented,
	})
}

// HandleGenerate 处理 POST /api/v1/generate 请求（解析 + 建模 + STL 导出）
func (h *ModelHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteErrorMessage(w, http.StatusMethodNotAllowed, types.ErrInvalidRequest, "method not allowed", h.logger)
		return
	}
	if !ValidateContentType(w, r, h.logger) {
		return
	}

	var req api.GenerateRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}
	if req.Filename != "" && !safeFilename(req.Filename) {
		WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidParameter, "filename must not contain path separators", h.logger)
		return
	}

	ov, augmented, err := h.effectiveOverrides(r.Context(), req.Prompt, req.Overrides, req.Augment)
	if err != nil {
		WriteError(w, AsAPIError(err), h.logger)
		return
	}

	desc, err := prompt.ParseWithOverrides(req.Prompt, ov)
	if h.metrics != nil {
		h.metrics.RecordParse(desc, err)
	}
	if err != nil {
		WriteError(w, AsAPIError(err), h.logger)
		return
	}

	result, err := h.engine.Generate(r.Context(), desc, req.Filename)
	if h.metrics != nil {
		var shape types.ShapeKind
		var elapsed time.Duration
		if desc != nil {
			shape = desc.Shape
		}
		if result != nil {
			elapsed = result.Elapsed
		}
		h.metrics.RecordGeneration(shape, elapsed, stlSize(result), err)
	}
	if err != nil {
		WriteError(w, AsAPIError(err), h.logger)
		return
	}

	if h.recorder != nil {
		if err := h.recorder.Add(r.Context(), req.Prompt, desc, result.Filename); err != nil {
			// 历史记录失败不阻塞响应
			h.logger.Warn("failed to record generation history", zap.Error(err))
		}
	}

	WriteSuccess(w, api.GenerateResponse{
		Descriptor:  desc,
		Filename:    result.Filename,
		DownloadURL: "/download/" + result.Filename,
		ElapsedMS:   result.Elapsed.Milliseconds(),
		Augmented:   augmented,
	})
}

// HandleDownload 处理 GET /download/{filename} 请求
func (h *ModelHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteErrorMessage(w, http.StatusMethodNotAllowed, types.ErrInvalidRequest, "method not allowed", h.logger)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/download/")
	if name == "" || !safeFilename(name) {
		WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidParameter, "invalid filename", h.logger)
		return
	}

	path := filepath.Join(h.engine.OutputDir(), name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		WriteErrorMessage(w, http.StatusNotFound, types.ErrNotFound, "artifact not found", h.logger)
		return
	}

	w.Header().Set("Content-Type", "model/stl")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
	http.ServeFile(w, r, path)
}

// effectiveOverrides 计算请求的最终覆盖值。
// 优先级从高到低：显式值 → LLM 增强结果 → 部署基线覆盖。
func (h *ModelHandler) effectiveOverrides(ctx context.Context, text string, explicit *types.Overrides, augment bool) (types.Overrides, bool, error) {
	ov := types.Overrides{}
	if explicit != nil {
		ov = *explicit
	}

	if !augment {
		return providers.MergeOverrides(ov, h.defaults), false, nil
	}
	if h.augmenter == nil {
		return ov, false, types.NewError(types.ErrProviderUnavailable, "llm augmentation is not enabled").
			WithHTTPStatus(http.StatusServiceUnavailable)
	}

	start := time.Now()
	augmented, err := h.augmenter.Augment(ctx, text)
	if h.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		h.metrics.RecordLLMRequest(h.augmenter.Name(), h.augmenter.Model(), status, time.Since(start))
	}
	if err != nil {
		return ov, false, err
	}

	merged := providers.MergeOverrides(ov, *augmented)
	return providers.MergeOverrides(merged, h.defaults), true, nil
}

// safeFilename 拒绝路径穿越
func safeFilename(name string) bool {
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return false
	}
	return filepath.Base(name) == name
}

// stlSize 读取生成产物大小，失败时记 0
func stlSize(result *kernel.Result) int64 {
	if result == nil {
		return 0
	}
	info, err := os.Stat(result.Path)
	if err != nil {
		return 0
	}
	return info.Size()
}
