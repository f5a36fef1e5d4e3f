package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/loom/internal/paths"
	"github.com/mesh-intelligence/loom/pkg/snapshot"
	"github.com/mesh-intelligence/loom/pkg/sqlite"
)

func newSnapshotsCmd() *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Manage saved context snapshots",
		Long:  "List, delete, and export snapshots stored in the data directory.\nSaving and loading happen through the library, where the schema lives.",
	}

	cmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default: .loom-db)")

	cmd.AddCommand(newSnapshotsListCmd(&dataDir))
	cmd.AddCommand(newSnapshotsDeleteCmd(&dataDir))
	cmd.AddCommand(newSnapshotsExportCmd(&dataDir))

	return cmd
}

// openSnapshotStore resolves the data directory and opens a store over
// it. The caller must Close the returned store.
func openSnapshotStore(dataDirFlag string) (snapshot.Store, error) {
	dir, err := paths.ResolveDataDir(dataDirFlag, "")
	if err != nil {
		return nil, fmt.Errorf("resolve data directory: %w", err)
	}
	store := sqlite.NewStore()
	if err := store.Open(snapshot.Config{
		Backend: snapshot.BackendSQLite,
		DataDir: dir,
	}); err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return store, nil
}

func newSnapshotsListCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved snapshots, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSnapshotStore(*dataDir)
			if err != nil {
				return exitError(cmd, exitSysError, err.Error())
			}
			defer store.Close()

			infos, err := store.List()
			if err != nil {
				return exitError(cmd, exitSysError, fmt.Sprintf("list snapshots: %s", err))
			}
			if len(infos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No snapshots.")
				return nil
			}
			for _, info := range infos {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s  %s\n",
					info.SnapshotID, info.SchemaName,
					info.CreatedAt.Format(time.RFC3339), info.Label)
			}
			return nil
		},
	}
}

func newSnapshotsDeleteCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <snapshot-id>",
		Short: "Delete a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSnapshotStore(*dataDir)
			if err != nil {
				return exitError(cmd, exitSysError, err.Error())
			}
			defer store.Close()

			if err := store.Delete(args[0]); err != nil {
				return exitError(cmd, exitUserError, fmt.Sprintf("delete %s: %s", args[0], err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newSnapshotsExportCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "export <snapshot-id> <path>",
		Short: "Export a snapshot to a JSONL file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSnapshotStore(*dataDir)
			if err != nil {
				return exitError(cmd, exitSysError, err.Error())
			}
			defer store.Close()

			if err := store.Export(args[0], args[1]); err != nil {
				return exitError(cmd, exitUserError, fmt.Sprintf("export %s: %s", args[0], err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", args[0], args[1])
			return nil
		},
	}
}
