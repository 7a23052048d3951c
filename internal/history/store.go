// =============================================================================
// 🗄️ 解析历史存储
// =============================================================================
// 基于 SQLite 持久化每次解析/生成的描述符，支持最近记录查询。
// =============================================================================
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/clawd/cad3d/config"
	"github.com/clawd/cad3d/types"
)

// Record 一条解析历史记录
type Record struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Prompt 原始输入文本
	Prompt string `json:"prompt"`
	// Shape 最终形状
	Shape string `gorm:"index" json:"shape"`
	// Hollow 是否空心
	Hollow bool `json:"hollow"`
	// Descriptor 序列化后的完整描述符
	Descriptor string `json:"descriptor"`
	// Filename 生成的 STL 文件名（仅生成请求）
	Filename string `json:"filename,omitempty"`
}

// DecodeDescriptor unmarshals the stored descriptor JSON.
func (r *Record) DecodeDescriptor() (*types.ShapeDescriptor, error) {
	var desc types.ShapeDescriptor
	if err := json.Unmarshal([]byte(r.Descriptor), &desc); err != nil {
		return nil, fmt.Errorf("corrupt descriptor in record %d: %w", r.ID, err)
	}
	return &desc, nil
}

// Store 历史存储
type Store struct {
	db        *gorm.DB
	maxRecent int
	logger    *zap.Logger
}

// Open opens (creating if necessary) the history database and migrates
// its schema. Use ":memory:" as the path for an ephemeral store.
func Open(cfg config.HistoryConfig, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history schema: %w", err)
	}

	logger.Info("history store opened",
		zap.String("path", cfg.Path),
		zap.Int("max_recent", cfg.MaxRecent),
	)

	return &Store{
		db:        db,
		maxRecent: cfg.MaxRecent,
		logger:    logger.With(zap.String("component", "history")),
	}, nil
}

// Add persists one parse or generation outcome.
func (s *Store) Add(ctx context.Context, prompt string, desc *types.ShapeDescriptor, filename string) (*Record, error) {
	data, err := json.Marshal(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode descriptor: %w", err)
	}

	rec := &Record{
		Prompt:     prompt,
		Shape:      string(desc.Shape),
		Hollow:     desc.Hollow,
		Descriptor: string(data),
		Filename:   filename,
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, fmt.Errorf("failed to store history record: %w", err)
	}
	return rec, nil
}

// Recent returns up to limit records, newest first. A non-positive or
// oversized limit is clamped to the configured maximum.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 || limit > s.maxRecent {
		limit = s.maxRecent
	}

	var records []Record
	err := s.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	return records, nil
}

// Count returns the total number of stored records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Record{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return n, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
