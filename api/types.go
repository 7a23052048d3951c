package api

import (
	"time"

	"github.com/clawd/cad3d/types"
)

// =============================================================================
// 解析与生成类型
// =============================================================================

// ParseRequest 表示解析请求。
// @Description 提示词解析请求结构
type ParseRequest struct {
	// 自由文本形状描述（英文或中文）
	Prompt string `json:"prompt" example:"a hollow tube with outer diameter 60mm and height 80mm"`
	// 显式覆盖值（表单字段优先于文本提取）
	Overrides *types.Overrides `json:"overrides,omitempty"`
	// 是否请求 LLM 增强（需要服务端启用）
	Augment bool `json:"augment,omitempty" example:"false"`
}

// ParseResponse 表示解析结果。
// @Description 提示词解析响应结构
type ParseResponse struct {
	// 完整形状描述符
	Descriptor *types.ShapeDescriptor `json:"descriptor"`
	// 本次解析是否应用了 LLM 增强
	Augmented bool `json:"augmented"`
}

// GenerateRequest 表示模型生成请求。
// @Description STL 生成请求结构
type GenerateRequest struct {
	// 自由文本形状描述（英文或中文）
	Prompt string `json:"prompt" example:"直径80高100的圆柱"`
	// 输出文件名（可选，默认自动生成）
	Filename string `json:"filename,omitempty" example:"cylinder.stl"`
	// 显式覆盖值
	Overrides *types.Overrides `json:"overrides,omitempty"`
	// 是否请求 LLM 增强
	Augment bool `json:"augment,omitempty" example:"false"`
}

// GenerateResponse 表示模型生成结果。
// @Description STL 生成响应结构
type GenerateResponse struct {
	// 完整形状描述符
	Descriptor *types.ShapeDescriptor `json:"descriptor"`
	// 生成的文件名
	Filename string `json:"filename" example:"cylinder.stl"`
	// 下载路径
	DownloadURL string `json:"download_url" example:"/download/cylinder.stl"`
	// 生成耗时（毫秒）
	ElapsedMS int64 `json:"elapsed_ms" example:"120"`
	// 本次生成是否应用了 LLM 增强
	Augmented bool `json:"augmented"`
}

// =============================================================================
// 历史记录类型
// =============================================================================

// HistoryEntry 表示一条历史生成记录。
// @Description 历史记录结构
type HistoryEntry struct {
	// 记录 ID
	ID uint `json:"id" example:"1"`
	// 创建时间戳
	CreatedAt time.Time `json:"created_at"`
	// 原始提示词
	Prompt string `json:"prompt" example:"a box 50x30x20mm"`
	// 解析出的形状
	Shape string `json:"shape" example:"box"`
	// 是否空心
	Hollow bool `json:"hollow" example:"false"`
	// 完整形状描述符
	Descriptor *types.ShapeDescriptor `json:"descriptor,omitempty"`
	// 生成的文件名
	Filename string `json:"filename,omitempty" example:"model_abc.stl"`
}

// HistoryResponse 表示历史记录列表。
// @Description 历史记录列表响应
type HistoryResponse struct {
	// 最近的记录（新到旧）
	Records []HistoryEntry `json:"records"`
	// 记录总数
	Total int64 `json:"total" example:"42"`
}

// =============================================================================
// 示例提示词类型
// =============================================================================

// PromptExample 表示一条内置示例提示词。
// @Description 示例提示词结构
type PromptExample struct {
	// 示例提示词文本
	Prompt string `json:"prompt" example:"a hollow cylinder with diameter 60 and height 80"`
	// 语言（en 或 zh）
	Language string `json:"language" example:"en"`
	// 期望解析出的形状
	Shape string `json:"shape" example:"cylinder"`
}

// ExampleListResponse 表示示例提示词列表。
// @Description 示例列表响应
type ExampleListResponse struct {
	// 示例清单
	Examples []PromptExample `json:"examples"`
}
