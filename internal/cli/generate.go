package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/loom/pkg/codegen"
)

func newGenerateCmd() *cobra.Command {
	var declPath, outPath string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate typed context bindings from a schema declaration",
		Long: "Read a YAML schema declaration and write a Go source file with the\n" +
			"schema builders, context wrappers, and routine access checks it declares.",
		RunE: func(cmd *cobra.Command, args []string) error {
			decl, out := declPath, outPath

			// Fall back to loom.yaml in the config directory for
			// paths not given as flags.
			if decl == "" || out == "" {
				cfg, err := loadConfig(resolveConfigDir())
				if err != nil {
					return exitError(cmd, exitSysError, fmt.Sprintf("load config: %s", err))
				}
				if decl == "" {
					decl = cfg.Decl
				}
				if out == "" {
					out = cfg.Out
				}
			}
			if decl == "" {
				return exitError(cmd, exitUserError, "no declaration file: pass --decl or run loom init")
			}
			if out == "" {
				out = defaultOutFile
			}

			if err := codegen.Generate(decl, out); err != nil {
				return exitError(cmd, exitUserError, fmt.Sprintf("generate: %s", err))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&declPath, "decl", "", "schema declaration file (default: decl from loom.yaml)")
	cmd.Flags().StringVar(&outPath, "out", "", "output Go source file (default: out from loom.yaml)")

	return cmd
}

// loadConfig reads loom.yaml from the config directory. A missing file
// is not an error; the zero config is returned.
func loadConfig(configDir string) (configFile, error) {
	v := viper.New()
	v.SetConfigName("loom")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return configFile{}, nil
		}
		return configFile{}, err
	}

	return configFile{
		Decl: v.GetString("decl"),
		Out:  v.GetString("out"),
	}, nil
}
