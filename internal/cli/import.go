package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/nexus/internal/sqlite"
	"github.com/mesh-intelligence/nexus/pkg/types"
)

func newImportCmd(e *env) *cobra.Command {
	var inDir string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Restore a snapshot written by export",
		Long:  "Load every <table>.jsonl from the snapshot directory into an initialized, empty\nstorage file. Nothing is written unless the whole snapshot loads.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := sqlite.Import(cmd.Context(), e.cfg.DBPath, inDir)
			if err != nil {
				switch {
				case errors.Is(err, types.ErrNotInitialized):
					return userError(fmt.Errorf("import: %w (run nexus init first)", err))
				case errors.Is(err, types.ErrNotEmpty), errors.Is(err, types.ErrSnapshot):
					return userError(fmt.Errorf("import: %w", err))
				}
				return sysError(fmt.Errorf("import: %w", err))
			}
			e.log.Info("restored snapshot %s into %s", m.SnapshotID, e.cfg.DBPath)

			out := cmd.OutOrStdout()
			if e.flags.jsonMode {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(m)
			}
			fmt.Fprintf(out, "Imported snapshot %s into %s\n", m.SnapshotID, e.cfg.DBPath)
			for _, name := range types.StandardTableNames {
				fmt.Fprintf(out, "  %s: %d\n", name, m.Tables[name])
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&inDir, "in", "i", "", "snapshot directory written by export")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
