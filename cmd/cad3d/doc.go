// 版权所有 2026 cad3d Authors。
// 基于 MIT 许可证授权。

/*
cad3d 命令行入口。

# 子命令

  - parse     — 解析形状描述，打印结构化描述符 JSON
  - generate  — 解析并生成 STL 模型文件
  - serve     — 启动 HTTP 服务（API + 指标端口）
  - health    — 对运行中的服务做健康检查
  - version   — 显示版本信息

# 示例

	cad3d parse --prompt "a hollow tube with outer diameter 60mm and height 80mm"
	cad3d generate --prompt "直径80高100的圆柱" --output cylinder.stl
	cad3d generate --prompt "a box" --width 50 --depth 30 --height 20
	cad3d serve --config cad3d.yaml
*/
package main
