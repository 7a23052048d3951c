// Package kernel 提供 cad3d 的几何内核。
//
// 将解析得到的形状描述符转换为有符号距离场（SDF）实体，
// 并通过八叉树渲染器导出为二进制 STL 网格。
package kernel
