package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clawd/cad3d/api"
	"github.com/clawd/cad3d/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExamplesHandler_HandleExamples(t *testing.T) {
	handler := NewExamplesHandler(zap.NewNop())

	w := httptest.NewRecorder()
	handler.HandleExamples(w, httptest.NewRequest(http.MethodGet, "/api/v1/examples", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                    `json:"success"`
		Data    api.ExampleListResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data.Examples)

	// 中英文都有覆盖
	languages := make(map[string]int)
	for _, ex := range resp.Data.Examples {
		languages[ex.Language]++
	}
	assert.Positive(t, languages["en"])
	assert.Positive(t, languages["zh"])
}

// 每条内置示例都必须真的解析成它声明的形状
func TestExamplesHandler_ExamplesParse(t *testing.T) {
	for _, ex := range promptExamples {
		t.Run(ex.Prompt, func(t *testing.T) {
			desc, err := prompt.Parse(ex.Prompt)
			require.NoError(t, err)
			assert.Equal(t, ex.Shape, string(desc.Shape))
		})
	}
}

func TestExamplesHandler_MethodNotAllowed(t *testing.T) {
	handler := NewExamplesHandler(zap.NewNop())

	w := httptest.NewRecorder()
	handler.HandleExamples(w, httptest.NewRequest(http.MethodPost, "/api/v1/examples", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
