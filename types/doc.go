// Package types defines the shared data model of cad3d: shape kinds,
// dimension fields, extraction candidates, the resolved ShapeDescriptor
// and the structured error type used across the CLI, the HTTP API and
// the geometry kernel.
package types
