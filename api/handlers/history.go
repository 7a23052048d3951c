package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/clawd/cad3d/api"
	"github.com/clawd/cad3d/internal/history"
	"github.com/clawd/cad3d/types"
	"go.uber.org/zap"
)

// =============================================================================
// 🕘 历史记录 Handler
// =============================================================================

// HistoryReader 抽象历史记录查询
type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]history.Record, error)
	Count(ctx context.Context) (int64, error)
}

// HistoryHandler 查询最近的生成记录
type HistoryHandler struct {
	store  HistoryReader
	logger *zap.Logger
}

// NewHistoryHandler 创建历史记录处理器
func NewHistoryHandler(store HistoryReader, logger *zap.Logger) *HistoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryHandler{store: store, logger: logger}
}

// HandleRecent 处理 GET /api/v1/recent 请求
func (h *HistoryHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteErrorMessage(w, http.StatusMethodNotAllowed, types.ErrInvalidRequest, "method not allowed", h.logger)
		return
	}
	if h.store == nil {
		WriteErrorMessage(w, http.StatusNotFound, types.ErrNotFound, "history is disabled", h.logger)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidParameter, "limit must be a non-negative integer", h.logger)
			return
		}
		limit = n
	}

	records, err := h.store.Recent(r.Context(), limit)
	if err != nil {
		WriteError(w, AsAPIError(err), h.logger)
		return
	}
	total, err := h.store.Count(r.Context())
	if err != nil {
		WriteError(w, AsAPIError(err), h.logger)
		return
	}

	entries := make([]api.HistoryEntry, 0, len(records))
	for i := range records {
		rec := &records[i]
		entry := api.HistoryEntry{
			ID:        rec.ID,
			CreatedAt: rec.CreatedAt,
			Prompt:    rec.Prompt,
			Shape:     rec.Shape,
			Hollow:    rec.Hollow,
			Filename:  rec.Filename,
		}
		if desc, err := rec.DecodeDescriptor(); err == nil {
			entry.Descriptor = desc
		} else {
			h.logger.Warn("failed to decode stored descriptor",
				zap.Uint("record_id", rec.ID),
				zap.Error(err),
			)
		}
		entries = append(entries, entry)
	}

	WriteSuccess(w, api.HistoryResponse{
		Records: entries,
		Total:   total,
	})
}
