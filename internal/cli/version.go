package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/loom/pkg/loom"
)

const modulePath = "github.com/mesh-intelligence/loom"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the loom version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "loom v%s\nmodule: %s\n", loom.Version, modulePath)
			return nil
		},
	}
}
