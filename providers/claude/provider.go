package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/clawd/cad3d/providers"
	"github.com/clawd/cad3d/types"
)

// ClaudeProvider 通过 Anthropic Claude 将形状描述转换为结构化覆盖值。
// Claude API 的特殊点：
// 1. 认证使用 x-api-key 请求头而非 Bearer Token
// 2. system 消息单独传递
// 3. 必须提供 max_tokens
type ClaudeProvider struct {
	cfg    providers.ClaudeConfig
	client *http.Client
	logger *zap.Logger
}

// systemPrompt pins the model to strict JSON output the resolver can
// merge directly. Unknown or absent values must be omitted, never
// guessed: the local pipeline's own defaults fill the gaps.
const systemPrompt = `You convert a free-form 3D shape description (English or Chinese) into a JSON object.
Output ONLY a JSON object, no prose and no code fences. Allowed keys:
"shape" (one of: box, cylinder, sphere, cone, torus),
"hollow" (boolean),
"width", "height", "depth", "diameter", "wall_thickness", "minor_diameter" (numbers, millimeters).
Omit every key the text does not clearly specify. Convert radii to diameters by doubling.`

// NewClaudeProvider 创建 Claude Provider。
func NewClaudeProvider(cfg providers.ClaudeConfig, logger *zap.Logger) *ClaudeProvider {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second // Claude 响应可能较慢
	}

	// 设置默认 BaseURL
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
	}
	if cfg.Model == "" {
		cfg.Model = "claude-sonnet-4-20250514"
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &ClaudeProvider{
		cfg: cfg,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With(zap.String("provider", "claude")),
	}
}

func (p *ClaudeProvider) Name() string  { return "claude" }
func (p *ClaudeProvider) Model() string { return p.cfg.Model }

// Claude 的消息结构
type claudeMessage struct {
	Role    string          `json:"role"` // user 或 assistant
	Content []claudeContent `json:"content"`
}

type claudeContent struct {
	Type string `json:"type"` // text
	Text string `json:"text,omitempty"`
}

type claudeRequest struct {
	Model     string          `json:"model"`
	Messages  []claudeMessage `json:"messages"`
	System    string          `json:"system,omitempty"` // system 消息单独传递
	MaxTokens int             `json:"max_tokens"`
}

type claudeResponse struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Role       string          `json:"role"`
	Content    []claudeContent `json:"content"`
	Model      string          `json:"model"`
	StopReason string          `json:"stop_reason"`
}

type claudeErrorResp struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *ClaudeProvider) buildHeaders(req *http.Request) {
	// Claude 使用 x-api-key 认证
	req.Header.Set("x-api-key", p.cfg.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01") // API 版本
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

// Augment sends the description to Claude and decodes the structured
// overrides out of the reply. Retryable upstream failures are retried
// with exponential backoff up to the configured attempt count.
func (p *ClaudeProvider) Augment(ctx context.Context, prompt string) (*types.Overrides, error) {
	attempts := p.cfg.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			backoff := time.Duration(1<<uint(i-1)) * 500 * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, types.NewError(types.ErrUpstreamTimeout, "augmentation canceled").
					WithCause(ctx.Err())
			case <-time.After(backoff):
			}
		}

		ov, err := p.augmentOnce(ctx, prompt)
		if err == nil {
			return ov, nil
		}
		lastErr = err
		if !types.IsRetryable(err) {
			return nil, err
		}
		p.logger.Warn("augmentation attempt failed, retrying",
			zap.Int("attempt", i+1),
			zap.Error(err),
		)
	}
	return nil, lastErr
}

func (p *ClaudeProvider) augmentOnce(ctx context.Context, prompt string) (*types.Overrides, error) {
	body := claudeRequest{
		Model: p.cfg.Model,
		Messages: []claudeMessage{{
			Role:    "user",
			Content: []claudeContent{{Type: "text", Text: prompt}},
		}},
		System:    systemPrompt,
		MaxTokens: 512,
	}

	payload, _ := json.Marshal(body)
	endpoint := fmt.Sprintf("%s/v1/messages", strings.TrimRight(p.cfg.BaseURL, "/"))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, types.NewError(types.ErrInternalError, "failed to build request").WithCause(err)
	}
	p.buildHeaders(httpReq)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, types.NewError(types.ErrUpstreamTimeout, "claude request timed out").
				WithCause(err).
				WithRetryable(true)
		}
		return nil, types.NewError(types.ErrProviderUnavailable, "claude unreachable").
			WithCause(err).
			WithRetryable(true)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, mapClaudeError(resp.StatusCode, readClaudeErrMsg(resp.Body))
	}

	var claudeResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&claudeResp); err != nil {
		return nil, types.NewError(types.ErrUpstreamError, "malformed claude response").
			WithCause(err).
			WithRetryable(true)
	}

	return decodeOverrides(claudeResp)
}

// decodeOverrides extracts the JSON override object from the reply
// text. The model occasionally wraps its output in a code fence
// despite instructions; strip it before decoding.
func decodeOverrides(resp claudeResponse) (*types.Overrides, error) {
	var text string
	for _, c := range resp.Content {
		if c.Type == "text" {
			text += c.Text
		}
	}
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var ov types.Overrides
	dec := json.NewDecoder(strings.NewReader(text))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ov); err != nil {
		return nil, types.NewError(types.ErrUpstreamError,
			fmt.Sprintf("claude returned non-conforming overrides: %.200s", text)).
			WithCause(err)
	}
	if ov.Shape != "" && !ov.Shape.Valid() {
		return nil, types.NewError(types.ErrUpstreamError,
			fmt.Sprintf("claude returned unknown shape %q", ov.Shape))
	}
	return &ov, nil
}

func readClaudeErrMsg(body io.Reader) string {
	data, _ := io.ReadAll(body)
	var errResp claudeErrorResp
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error.Message != "" {
		return fmt.Sprintf("%s (type: %s)", errResp.Error.Message, errResp.Error.Type)
	}
	return string(data)
}

func mapClaudeError(status int, msg string) *types.Error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return types.NewError(types.ErrUpstreamError, msg).WithHTTPStatus(status)
	case http.StatusTooManyRequests:
		return types.NewError(types.ErrUpstreamError, msg).WithHTTPStatus(status).WithRetryable(true)
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return types.NewError(types.ErrUpstreamTimeout, msg).WithHTTPStatus(status).WithRetryable(true)
	case http.StatusServiceUnavailable, http.StatusBadGateway, 529: // 529: Claude 特有的过载状态码
		return types.NewError(types.ErrProviderUnavailable, msg).WithHTTPStatus(status).WithRetryable(true)
	default:
		return types.NewError(types.ErrUpstreamError, msg).
			WithHTTPStatus(status).
			WithRetryable(status >= 500)
	}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
