package handlers

import (
	"net/http"

	"github.com/clawd/cad3d/api"
	"github.com/clawd/cad3d/types"
	"go.uber.org/zap"
)

// =============================================================================
// 💡 示例提示词 Handler
// =============================================================================

// promptExamples 内置双语示例，覆盖全部五种形状
var promptExamples = []api.PromptExample{
	{Prompt: "a box 50x30x20mm", Language: "en", Shape: "box"},
	{Prompt: "a cube with side length 40", Language: "en", Shape: "box"},
	{Prompt: "a hollow tube with outer diameter 60mm and height 80mm", Language: "en", Shape: "cylinder"},
	{Prompt: "sphere with radius 25mm", Language: "en", Shape: "sphere"},
	{Prompt: "a cone with diameter 40 and height 60", Language: "en", Shape: "cone"},
	{Prompt: "a torus with diameter 60", Language: "en", Shape: "torus"},
	{Prompt: "一个50×30×20的长方体", Language: "zh", Shape: "box"},
	{Prompt: "直径80高100的圆柱", Language: "zh", Shape: "cylinder"},
	{Prompt: "圆柱 直径60 高80 壁厚5", Language: "zh", Shape: "cylinder"},
	{Prompt: "半径25的球体", Language: "zh", Shape: "sphere"},
	{Prompt: "直径40高60的圆锥", Language: "zh", Shape: "cone"},
	{Prompt: "直径60的圆环", Language: "zh", Shape: "torus"},
}

// ExamplesHandler 返回内置示例提示词
type ExamplesHandler struct {
	logger *zap.Logger
}

// NewExamplesHandler 创建示例处理器
func NewExamplesHandler(logger *zap.Logger) *ExamplesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamplesHandler{logger: logger}
}

// HandleExamples 处理 GET /api/v1/examples 请求
func (h *ExamplesHandler) HandleExamples(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteErrorMessage(w, http.StatusMethodNotAllowed, types.ErrInvalidRequest, "method not allowed", h.logger)
		return
	}

	WriteSuccess(w, api.ExampleListResponse{Examples: promptExamples})
}
