// 版权所有 2026 cad3d Authors。
// 基于 MIT 许可证授权。

/*
Package handlers 提供 cad3d HTTP API 的请求处理器实现。

# 概述

handlers 包实现了 cad3d 所有 HTTP 端点的请求处理逻辑，
包括提示词解析、STL 模型生成、历史记录查询、健康检查
以及统一的响应/错误处理。所有 Handler 均遵循标准 net/http 接口。

# 核心类型

  - ModelHandler     — 解析与生成处理器（/api/v1/parse、/api/v1/generate、/download）
  - HistoryHandler   — 最近生成记录查询（/api/v1/recent）
  - ExamplesHandler  — 内置双语示例提示词（/api/v1/examples）
  - HealthHandler    — 服务健康检查（/health, /healthz, /ready）
  - Response         — 统一 JSON 响应结构（success + data + error + timestamp）
  - ErrorInfo        — 结构化错误信息，含 code、message、retryable 标记
  - ResponseWriter   — 包装 http.ResponseWriter 以捕获状态码
  - HealthCheck      — 可插拔健康检查接口（数据库、输出目录等）

# 主要能力

  - 统一响应格式：WriteSuccess / WriteError / WriteJSON 辅助函数
  - 请求验证：DecodeJSONBody（1 MB 限制 + 严格模式）、ValidateContentType
  - ErrorCode → HTTP 状态码自动映射（4xx/5xx）
  - LLM 增强：请求级 augment 开关，显式覆盖值优先于增强结果
  - 安全下载：文件名校验阻止路径穿越
  - 可扩展健康检查：RegisterCheck 注册自定义 HealthCheck 实现
*/
package handlers
