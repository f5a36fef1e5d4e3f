// Package codegen expands a declarative schema file into Go source:
// one frozen loom schema, one typed aggregate wrapper per declared
// context, and one capability-check helper per declared routine. The
// expansion is static; generated files compile with the user's package
// and the generator does no work at runtime.
package codegen

import (
	"fmt"

	"github.com/spf13/viper"
)

// DefaultLoomImport is the import path written into generated files
// when the declaration does not override it.
const DefaultLoomImport = "github.com/mesh-intelligence/loom/pkg/loom"

// Decl is the root of a schema declaration file.
type Decl struct {
	// Package is the Go package name the generated file belongs to.
	Package string `mapstructure:"package"`

	// LoomImport overrides the loom import path; empty means
	// DefaultLoomImport.
	LoomImport string `mapstructure:"loom_import"`

	// Contexts declares the aggregates and, per aggregate, the ordered
	// list of member element types stored there.
	Contexts []ContextDecl `mapstructure:"contexts"`

	// Routines declares, per generic routine, the complete set of
	// member types it needs resolvable access to. The closure is not
	// computed: an incomplete list is the declarer's bug, surfaced by
	// the generated check helper.
	Routines []RoutineDecl `mapstructure:"routines"`
}

// ContextDecl declares one aggregate type and its member element types.
type ContextDecl struct {
	Name    string   `mapstructure:"name"`
	Members []string `mapstructure:"members"`
}

// RoutineDecl declares the reachability set of one generic routine.
type RoutineDecl struct {
	Name    string   `mapstructure:"name"`
	Context string   `mapstructure:"context"`
	Access  []string `mapstructure:"access"`
}

// LoadDecl reads a declaration file (YAML, or anything viper decodes
// by extension) into a Decl. The result is not yet validated.
func LoadDecl(path string) (*Decl, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading declaration %s: %w", path, err)
	}

	var d Decl
	if err := v.Unmarshal(&d); err != nil {
		return nil, fmt.Errorf("decoding declaration %s: %w", path, err)
	}
	if d.LoomImport == "" {
		d.LoomImport = DefaultLoomImport
	}
	return &d, nil
}
