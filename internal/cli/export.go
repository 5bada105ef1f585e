package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/nexus/internal/sqlite"
	"github.com/mesh-intelligence/nexus/pkg/types"
)

func newExportCmd(e *env) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSONL snapshot of every table",
		Long:  "Write <table>.jsonl for each table plus manifest.json into the output directory.\nThe storage file is only read.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := sqlite.Export(cmd.Context(), e.cfg.DBPath, outDir)
			if err != nil {
				if errors.Is(err, types.ErrNotInitialized) {
					return userError(fmt.Errorf("export: %w (run nexus init first)", err))
				}
				return sysError(fmt.Errorf("export: %w", err))
			}
			e.log.Debug("snapshot %s written to %s", m.SnapshotID, outDir)

			out := cmd.OutOrStdout()
			if e.flags.jsonMode {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(m)
			}
			fmt.Fprintf(out, "Exported snapshot %s to %s\n", m.SnapshotID, outDir)
			for _, name := range types.StandardTableNames {
				fmt.Fprintf(out, "  %s: %d\n", sqlite.TableFile(name), m.Tables[name])
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory for the snapshot")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
