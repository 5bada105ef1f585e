// Package cli implements the nexus command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/nexus/internal/logger"
	"github.com/mesh-intelligence/nexus/internal/paths"
	"github.com/mesh-intelligence/nexus/pkg/nexus"
	"github.com/mesh-intelligence/nexus/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dbPath    string
	logLevel  string
	jsonMode  bool
}

// env is the resolved runtime state shared by subcommands. It is filled in
// by the root PersistentPreRunE.
type env struct {
	flags     rootFlags
	configDir string
	cfg       types.Config
	log       logger.Logger
}

// NewRootCmd creates the top-level "nexus" command with global flags and
// all subcommands registered. Run without a subcommand it initializes the
// storage file, the same as "nexus init".
func NewRootCmd() *cobra.Command {
	e := &env{log: logger.Default}

	root := &cobra.Command{
		Use:     "nexus",
		Short:   "Initialize and inspect the nexus goals/tasks database",
		Long:    "nexus owns the local SQLite file holding goals, tasks, daily logs,\ncalendar events and patterns. Run without a subcommand to initialize it.",
		Version: nexus.Version(),
		Args:    cobra.NoArgs,
		// Errors are printed once by Run.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, e, false)
		},
	}

	root.PersistentFlags().StringVar(&e.flags.configDir, "config-dir", "", "configuration directory (default: .nexus)")
	root.PersistentFlags().StringVar(&e.flags.dbPath, "db", "", "storage file path (default: "+types.DefaultDBPath+")")
	root.PersistentFlags().StringVar(&e.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&e.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newInitCmd(e))
	root.AddCommand(newVerifyCmd(e))
	root.AddCommand(newExportCmd(e))
	root.AddCommand(newImportCmd(e))
	root.AddCommand(newVersionCmd())

	return root
}

// load resolves .env, config.yaml, flags and environment into e.
func (e *env) load(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return userError(fmt.Errorf("load .env: %w", err))
	}

	e.configDir = paths.ResolveConfigDir(e.flags.configDir)
	v, err := loadConfig(e.configDir)
	if err != nil {
		return userError(err)
	}

	e.cfg = types.DefaultConfig()
	e.cfg.DBPath = paths.ResolveDBPath(e.flags.dbPath, v.GetString(cfgKeyDBPath))
	if level := e.flags.logLevel; level != "" {
		e.cfg.LogLevel = level
	} else if level := v.GetString(cfgKeyLogLevel); level != "" {
		e.cfg.LogLevel = level
	}
	if err := e.cfg.Validate(); err != nil {
		return userError(fmt.Errorf("invalid configuration: %w", err))
	}

	e.log = logger.New(cmd.ErrOrStderr(), logger.ParseLevel(e.cfg.LogLevel))
	e.log.Debug("config dir %s, db path %s", e.configDir, e.cfg.DBPath)
	return nil
}

// Run executes the CLI with args and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "nexus:", err)
	return exitCode(err)
}

// exitCode maps an error to an exit code. Storage failures are system
// errors; anything else cobra reports (unknown command, bad flag) is a
// user error.
func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if errors.Is(err, types.ErrIO) || errors.Is(err, types.ErrSchema) {
		return exitSysError
	}
	return exitUserError
}

// Execute runs the root command against the process arguments and exits
// with the appropriate code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
