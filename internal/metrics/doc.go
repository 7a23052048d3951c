// 版权所有 2026 cad3d Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 metrics 提供基于 Prometheus 的指标采集能力，覆盖
HTTP、解析、模型生成与 LLM 增强四大维度。

# 概述

本包通过 Collector 统一注册和记录 Prometheus 指标，使用 promauto
自动注册机制，避免手动管理 Registry。所有指标按 namespace 隔离，
支持多维度 label 分组，便于 Grafana 等工具进行可视化与告警。

# 主要能力

  - HTTP 指标：请求总数、请求耗时、请求/响应体大小，
    按 method/path/status 分组，状态码归类为 2xx/3xx/4xx/5xx。
  - 解析指标：解析总数按 shape/hollow/status 分组，
    字段来源计数按 provenance 分组。
  - 生成指标：生成总数、构建加导出耗时、STL 文件字节数，
    按 shape 分组。
  - LLM 指标：增强请求总数与耗时，按 provider/model 分组。
*/
package metrics
