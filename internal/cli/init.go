package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/nexus/internal/sqlite"
)

func newInitCmd(e *env) *cobra.Command {
	var writeConfig bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the storage file",
		Long:  "Create the storage directory and file if needed, then create any missing tables.\nExisting tables and rows are left untouched.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, e, writeConfig)
		},
	}
	cmd.Flags().BoolVar(&writeConfig, "write-config", false, "also write config.yaml with the resolved settings if it is missing")
	return cmd
}

func runInit(cmd *cobra.Command, e *env, writeConfig bool) error {
	report, err := sqlite.Initialize(cmd.Context(), e.cfg.DBPath)
	if err != nil {
		e.log.Error("initialize %s failed", e.cfg.DBPath)
		return sysError(fmt.Errorf("initialize storage: %w", err))
	}
	if report.Created {
		e.log.Debug("created storage file %s", report.Path)
	}
	if len(report.CreatedTables) > 0 {
		e.log.Info("created tables: %v", report.CreatedTables)
	}

	if writeConfig {
		written, err := writeConfigIfMissing(e.configDir, e.cfg)
		if err != nil {
			return sysError(fmt.Errorf("write config: %w", err))
		}
		if written {
			e.log.Info("wrote %s", filepath.Join(e.configDir, configFileExt))
		}
	}

	out := cmd.OutOrStdout()
	if e.flags.jsonMode {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	fmt.Fprintf(out, "Database initialized successfully at %s\n", report.Path)
	return nil
}
