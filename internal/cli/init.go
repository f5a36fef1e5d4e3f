package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configFile holds the structure written to loom.yaml.
type configFile struct {
	Decl string `yaml:"decl,omitempty"`
	Out  string `yaml:"out,omitempty"`
}

// Default generator paths written by init.
const (
	defaultDeclFile = "loom.decl.yaml"
	defaultOutFile  = "bindings_gen.go"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the loom configuration directory",
		Long:  "Create the configuration directory and a default loom.yaml naming the\ndeclaration file and generated output file.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir := resolveConfigDir()

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("create config directory: %s", err))
	}

	configPath := filepath.Join(configDir, "loom.yaml")
	if err := writeConfigIfMissing(configPath); err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("write config: %s", err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s\n", configPath)
	return nil
}

// writeConfigIfMissing creates loom.yaml with default values if the file
// does not exist. If it already exists, the function returns nil (idempotent).
func writeConfigIfMissing(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	cfg := configFile{
		Decl: defaultDeclFile,
		Out:  defaultOutFile,
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
