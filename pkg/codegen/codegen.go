// Package codegen provides the public API for the loom binding
// generator. This package exposes thin entry points for build scripts
// and go:generate directives while keeping implementation details
// internal.
package codegen

import (
	"github.com/mesh-intelligence/loom/internal/codegen"
)

// Generate loads the declaration file at declPath, validates it, and
// writes generated bindings to outPath.
//
// Example:
//
//	//go:generate go run github.com/mesh-intelligence/loom/cmd/loom generate --decl loom.yaml --out bindings_gen.go
func Generate(declPath, outPath string) error {
	return codegen.GenerateFile(declPath, outPath)
}
