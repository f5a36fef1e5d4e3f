// Package cli implements the loom command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/loom/internal/codegen"
	"github.com/mesh-intelligence/loom/internal/paths"
	"github.com/mesh-intelligence/loom/internal/sqlite"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	verbose   bool
}

var flags rootFlags

// NewRootCmd creates the top-level "loom" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "loom",
		Short: "Schema binding generator and snapshot tool for loom contexts",
		Long: "Loom generates typed context bindings from YAML schema declarations\n" +
			"and manages SQLite snapshots of context data.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.verbose {
				configureLogging()
			}
		},
	}

	// Global persistent flags.
	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: .loom)")
	root.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "enable debug logging")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newGenerateCmd())
	root.AddCommand(newSnapshotsCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitUserError)
	}
}

// configureLogging installs a development logger in the packages that
// log. Without --verbose they keep their no-op defaults.
func configureLogging() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return
	}
	codegen.SetLogger(logger)
	sqlite.SetLogger(logger)
}

// resolveConfigDir returns the config directory from flag, env, or the
// CWD-relative default.
func resolveConfigDir() string {
	if flags.configDir != "" {
		return flags.configDir
	}
	if v := os.Getenv(paths.EnvConfigDir); v != "" {
		return v
	}
	return paths.DefaultConfigDirName
}

// exitError prints the error to stderr and returns the given exit code.
func exitError(cmd *cobra.Command, code int, msg string) error {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(code)
	return nil // unreachable
}
