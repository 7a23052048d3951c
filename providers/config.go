// Package providers 定义描述增强 Provider 的公共接口与配置。
//
// Provider 将自由文本描述交给大语言模型，换回一组结构化的
// 显式覆盖值（types.Overrides），叠加在本地解析结果之上。
// 本地解析管线不依赖任何 Provider：增强是可选的。
package providers

import (
	"context"
	"time"

	"github.com/clawd/cad3d/types"
)

// Augmenter 描述增强接口
type Augmenter interface {
	// Name 返回 Provider 标识
	Name() string
	// Model 返回使用的模型名称
	Model() string
	// Augment 将描述文本转换为结构化覆盖值
	Augment(ctx context.Context, prompt string) (*types.Overrides, error)
}

// ClaudeConfig Claude Provider 配置
type ClaudeConfig struct {
	APIKey     string        `json:"api_key" yaml:"api_key"`
	BaseURL    string        `json:"base_url" yaml:"base_url"`
	Model      string        `json:"model,omitempty" yaml:"model,omitempty"`
	Timeout    time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	MaxRetries int           `json:"max_retries,omitempty" yaml:"max_retries,omitempty"`
}
