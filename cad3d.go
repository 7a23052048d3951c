// Package cad3d provides a top-level convenience entry point for turning
// free-form shape descriptions into solid models with minimal boilerplate.
//
// Usage:
//
//	import "github.com/clawd/cad3d"
//
//	desc, err := cad3d.Parse("一个空心圆柱 直径60 高80 壁厚5")
//	desc, err := cad3d.Parse("a box 50x30x20mm")
//
// This is a thin wrapper around [prompt.Parse]; both produce identical
// results. Use this package when you prefer the shorter import path. To
// turn a descriptor into geometry, hand it to [kernel.NewEngine].
package cad3d

import (
	"github.com/clawd/cad3d/prompt"
	"github.com/clawd/cad3d/types"
)

// Parse extracts a complete shape descriptor from a free-form English or
// Chinese description. The empty string yields an all-defaults box.
func Parse(text string) (*types.ShapeDescriptor, error) {
	return prompt.Parse(text)
}

// ParseWithOverrides extracts a descriptor and merges caller-supplied
// explicit values on top of the extraction result.
func ParseWithOverrides(text string, ov types.Overrides) (*types.ShapeDescriptor, error) {
	return prompt.ParseWithOverrides(text, ov)
}

// Normalize exposes the pipeline's canonicalization step. Callers that
// cache or diff prompts should key on the normalized form.
func Normalize(text string) string {
	return prompt.Normalize(text)
}
