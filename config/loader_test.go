// 配置加载器与默认配置测试。
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- 默认配置测试 ---

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// 验证服务器默认值
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 9090, cfg.Server.MetricsPort)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 100.0, cfg.Server.RateLimitRPS)

	// 验证内核默认值
	assert.Equal(t, 200, cfg.Kernel.MeshCells)
	assert.Equal(t, "output", cfg.Kernel.OutputDir)

	// 验证历史默认值
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "cad3d.db", cfg.History.Path)
	assert.Equal(t, 20, cfg.History.MaxRecent)

	// 验证 LLM 默认值
	assert.False(t, cfg.LLM.Enabled)
	assert.Equal(t, 2*time.Minute, cfg.LLM.Timeout)
	assert.Equal(t, 3, cfg.LLM.MaxRetries)

	// 验证 Log 默认值
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

// --- Loader 测试 ---

func TestLoader_LoadDefaults(t *testing.T) {
	// 不指定配置文件，应该返回默认值
	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 200, cfg.Kernel.MeshCells)
}

func TestLoader_LoadFromYAML(t *testing.T) {
	// 创建临时配置文件
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "cad3d.yaml")

	yamlContent := `
server:
  http_port: 8888
  read_timeout: 60s
  rate_limit_rps: 50

parser:
  defaults:
    wall_thickness: 5
    diameter: 40

kernel:
  mesh_cells: 400
  output_dir: /tmp/models

history:
  enabled: true
  path: /tmp/history.db
  max_recent: 50

llm:
  enabled: true
  api_key: "test-key"
  model: "claude-haiku"

log:
  level: "debug"
  format: "console"
`
	err := os.WriteFile(configPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	// 加载配置
	cfg, err := NewLoader().
		WithConfigPath(configPath).
		Load()
	require.NoError(t, err)

	// 验证 YAML 值覆盖了默认值
	assert.Equal(t, 8888, cfg.Server.HTTPPort)
	assert.Equal(t, 60*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 50.0, cfg.Server.RateLimitRPS)

	require.NotNil(t, cfg.Parser.Defaults.WallThickness)
	assert.Equal(t, 5.0, *cfg.Parser.Defaults.WallThickness)
	require.NotNil(t, cfg.Parser.Defaults.Diameter)
	assert.Equal(t, 40.0, *cfg.Parser.Defaults.Diameter)

	assert.Equal(t, 400, cfg.Kernel.MeshCells)
	assert.Equal(t, "/tmp/models", cfg.Kernel.OutputDir)

	assert.Equal(t, "/tmp/history.db", cfg.History.Path)
	assert.Equal(t, 50, cfg.History.MaxRecent)

	assert.True(t, cfg.LLM.Enabled)
	assert.Equal(t, "test-key", cfg.LLM.APIKey)
	assert.Equal(t, "claude-haiku", cfg.LLM.Model)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoader_LoadFromEnv(t *testing.T) {
	// 设置环境变量
	envVars := map[string]string{
		"CAD3D_SERVER_HTTP_PORT":   "7777",
		"CAD3D_KERNEL_MESH_CELLS":  "300",
		"CAD3D_KERNEL_OUTPUT_DIR":  "/var/cad3d",
		"CAD3D_HISTORY_MAX_RECENT": "5",
		"CAD3D_LLM_TIMEOUT":        "90s",
		"CAD3D_LOG_LEVEL":          "warn",
	}

	for k, v := range envVars {
		os.Setenv(k, v)
	}
	defer func() {
		for k := range envVars {
			os.Unsetenv(k)
		}
	}()

	// 加载配置
	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	// 验证环境变量覆盖了默认值
	assert.Equal(t, 7777, cfg.Server.HTTPPort)
	assert.Equal(t, 300, cfg.Kernel.MeshCells)
	assert.Equal(t, "/var/cad3d", cfg.Kernel.OutputDir)
	assert.Equal(t, 5, cfg.History.MaxRecent)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoader_EnvOverridesYAML(t *testing.T) {
	// 创建临时配置文件
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "cad3d.yaml")

	yamlContent := `
server:
  http_port: 8888
kernel:
  mesh_cells: 400
  output_dir: yaml-dir
`
	err := os.WriteFile(configPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	// 设置环境变量（应该覆盖 YAML）
	os.Setenv("CAD3D_SERVER_HTTP_PORT", "9999")
	os.Setenv("CAD3D_KERNEL_MESH_CELLS", "123")
	defer func() {
		os.Unsetenv("CAD3D_SERVER_HTTP_PORT")
		os.Unsetenv("CAD3D_KERNEL_MESH_CELLS")
	}()

	cfg, err := NewLoader().
		WithConfigPath(configPath).
		Load()
	require.NoError(t, err)

	// 环境变量应该覆盖 YAML
	assert.Equal(t, 9999, cfg.Server.HTTPPort)
	assert.Equal(t, 123, cfg.Kernel.MeshCells)
	// YAML 值应该保留（没有被环境变量覆盖）
	assert.Equal(t, "yaml-dir", cfg.Kernel.OutputDir)
}

func TestLoader_CustomEnvPrefix(t *testing.T) {
	os.Setenv("MYAPP_SERVER_HTTP_PORT", "6666")
	os.Setenv("MYAPP_LOG_LEVEL", "error")
	defer func() {
		os.Unsetenv("MYAPP_SERVER_HTTP_PORT")
		os.Unsetenv("MYAPP_LOG_LEVEL")
	}()

	cfg, err := NewLoader().
		WithEnvPrefix("MYAPP").
		Load()
	require.NoError(t, err)

	assert.Equal(t, 6666, cfg.Server.HTTPPort)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoader_WithValidator(t *testing.T) {
	validator := func(cfg *Config) error {
		if cfg.Server.HTTPPort < 1024 {
			return assert.AnError
		}
		return nil
	}

	os.Setenv("CAD3D_SERVER_HTTP_PORT", "80")
	defer os.Unsetenv("CAD3D_SERVER_HTTP_PORT")

	_, err := NewLoader().
		WithValidator(validator).
		Load()
	assert.Error(t, err)
}

func TestLoader_NonExistentFile(t *testing.T) {
	// 指定不存在的文件，应该使用默认值（不报错）
	cfg, err := NewLoader().
		WithConfigPath("/non/existent/path/cad3d.yaml").
		Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
}

func TestLoader_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
server:
  http_port: [invalid
  this is not valid yaml
`
	err := os.WriteFile(configPath, []byte(invalidYAML), 0644)
	require.NoError(t, err)

	_, err = NewLoader().
		WithConfigPath(configPath).
		Load()
	assert.Error(t, err)
}

// --- Config 方法测试 ---

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "invalid HTTP port (negative)",
			modify: func(c *Config) {
				c.Server.HTTPPort = -1
			},
			wantErr: true,
		},
		{
			name: "invalid HTTP port (too large)",
			modify: func(c *Config) {
				c.Server.HTTPPort = 70000
			},
			wantErr: true,
		},
		{
			name: "invalid metrics port",
			modify: func(c *Config) {
				c.Server.MetricsPort = 0
			},
			wantErr: true,
		},
		{
			name: "non-positive parser default",
			modify: func(c *Config) {
				zero := 0.0
				c.Parser.Defaults.WallThickness = &zero
			},
			wantErr: true,
		},
		{
			name: "invalid mesh cells",
			modify: func(c *Config) {
				c.Kernel.MeshCells = 0
			},
			wantErr: true,
		},
		{
			name: "empty output dir",
			modify: func(c *Config) {
				c.Kernel.OutputDir = ""
			},
			wantErr: true,
		},
		{
			name: "history enabled without path",
			modify: func(c *Config) {
				c.History.Enabled = true
				c.History.Path = ""
			},
			wantErr: true,
		},
		{
			name: "llm enabled without api key",
			modify: func(c *Config) {
				c.LLM.Enabled = true
				c.LLM.APIKey = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// --- MustLoad 测试 ---

func TestMustLoad_Success(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "cad3d.yaml")

	yamlContent := `
server:
  http_port: 8080
`
	err := os.WriteFile(configPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		cfg := MustLoad(configPath)
		assert.Equal(t, 8080, cfg.Server.HTTPPort)
	})
}

func TestMustLoad_InvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	err := os.WriteFile(configPath, []byte("invalid: [yaml"), 0644)
	require.NoError(t, err)

	assert.Panics(t, func() {
		MustLoad(configPath)
	})
}

func TestLoadFromEnv_Function(t *testing.T) {
	os.Setenv("CAD3D_KERNEL_OUTPUT_DIR", "env-only-dir")
	defer os.Unsetenv("CAD3D_KERNEL_OUTPUT_DIR")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "env-only-dir", cfg.Kernel.OutputDir)
}
