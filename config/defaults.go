// =============================================================================
// 📦 cad3d 默认配置
// =============================================================================
// 提供所有配置项的合理默认值
// =============================================================================
package config

import "time"

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Server:  DefaultServerConfig(),
		Parser:  DefaultParserConfig(),
		Kernel:  DefaultKernelConfig(),
		History: DefaultHistoryConfig(),
		LLM:     DefaultLLMConfig(),
		Log:     DefaultLogConfig(),
	}
}

// DefaultServerConfig 返回默认服务器配置
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		HTTPPort:           8080,
		MetricsPort:        9090,
		ReadTimeout:        30 * time.Second,
		WriteTimeout:       60 * time.Second,
		ShutdownTimeout:    15 * time.Second,
		RateLimitRPS:       100,
		RateLimitBurst:     200,
		APIKey:             "",
		CORSAllowedOrigins: []string{"*"},
	}
}

// DefaultParserConfig 返回默认解析器配置（无基线覆盖，解析器内置缺省值生效）
func DefaultParserConfig() ParserConfig {
	return ParserConfig{}
}

// DefaultKernelConfig 返回默认几何内核配置
func DefaultKernelConfig() KernelConfig {
	return KernelConfig{
		MeshCells: 200,
		OutputDir: "output",
	}
}

// DefaultHistoryConfig 返回默认历史配置
func DefaultHistoryConfig() HistoryConfig {
	return HistoryConfig{
		Enabled:   true,
		Path:      "cad3d.db",
		MaxRecent: 20,
	}
}

// DefaultLLMConfig 返回默认 LLM 配置
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Enabled:    false,
		APIKey:     "",
		BaseURL:    "",
		Model:      "claude-sonnet-4-20250514",
		Timeout:    2 * time.Minute,
		MaxRetries: 3,
	}
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:            "info",
		Format:           "json",
		OutputPaths:      []string{"stdout"},
		EnableCaller:     true,
		EnableStacktrace: false,
	}
}
