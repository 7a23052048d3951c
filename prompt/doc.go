// =============================================================================
// 📦 自然语言形状解析
// =============================================================================
// 将英文/中文的自由文本描述解析为结构化的 ShapeDescriptor。
//
// 五级流水线，单向数据流，无共享可变状态:
//
//	Normalize → MatchShape → Extract → Resolve → ShapeDescriptor
//
// 词典与正则表在包初始化时构建一次，之后只读，并发调用无需加锁。
// =============================================================================

// Package prompt turns a free-form shape description (English or Chinese)
// into a fully-populated types.ShapeDescriptor.
//
// The pipeline never fails on malformed text: unknown shapes fall back to a
// box, missing dimensions fall back to a per-shape defaults table, and
// malformed numeric tokens are silently dropped. The only error path is an
// invalid explicit override (negative or non-finite value).
package prompt
