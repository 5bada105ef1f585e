package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/nexus/internal/sqlite"
	"github.com/mesh-intelligence/nexus/pkg/types"
)

func newVerifyCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Report the state of the storage file without modifying it",
		Long:  "Check that every table exists with the expected columns and print row counts.\nExits non-zero unless the storage file is ready.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := sqlite.Inspect(cmd.Context(), e.cfg.DBPath)
			if err != nil {
				return sysError(fmt.Errorf("inspect storage: %w", err))
			}

			if e.flags.jsonMode {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(status); err != nil {
					return err
				}
			} else {
				printStatus(cmd, status)
			}

			if conflicts := status.Conflicts(); len(conflicts) > 0 {
				return userError(fmt.Errorf("storage at %s is %s: %s", status.Path, status.State, strings.Join(conflicts, "; ")))
			}
			if status.State != types.StateReady {
				return userError(fmt.Errorf("storage at %s is %s", status.Path, status.State))
			}
			return nil
		},
	}
}

func printStatus(cmd *cobra.Command, status sqlite.Status) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "path:   %s\n", status.Path)
	fmt.Fprintf(out, "state:  %s\n", status.State)
	if status.State == types.StateMissing {
		return
	}
	fmt.Fprintf(out, "schema: %d\n", status.SchemaVersion)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, t := range status.Tables {
		switch {
		case len(t.Conflicts) > 0:
			fmt.Fprintf(tw, "  %s\tconflict\t%s\n", t.Name, strings.Join(t.Conflicts, "; "))
		case !t.Present:
			fmt.Fprintf(tw, "  %s\tmissing\t\n", t.Name)
		default:
			fmt.Fprintf(tw, "  %s\t%d rows\t\n", t.Name, t.Rows)
		}
	}
	tw.Flush()
}
