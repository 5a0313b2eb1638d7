package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tengjizhang/scrub/internal/config"
	"github.com/tengjizhang/scrub/internal/logging"
	"github.com/tengjizhang/scrub/internal/store"
)

func NewRootCmd(cfg config.Config) *cobra.Command {
	var dbPath string
	var output string
	var logLevel string
	var outFmt OutputFormat
	var app *App

	dbPath = cfg.DBPath
	output = string(OutputTable)
	logLevel = cfg.LogLevel

	getApp := func() *App { return app }
	getOutput := func() OutputFormat { return outFmt }

	cmd := &cobra.Command{
		Use:           "scrub",
		Short:         "Whitelist HTML sanitizer and document store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			parsedFmt, err := parseOutputFormat(output)
			if err != nil {
				return err
			}
			outFmt = parsedFmt
			if !requiresApp(cmd) {
				return nil
			}
			if app != nil {
				return nil
			}
			logger, err := logging.New(logging.Options{
				Level:  logLevel,
				Format: cfg.LogFormat,
				Writer: cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("%w: %v", store.ErrInvalidInput, err)
			}
			a, err := NewApp(cfg, dbPath, needsDB(cmd), logger)
			if err != nil {
				return err
			}
			app = a
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				_ = app.Close()
				app = nil
			}
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", store.ErrInvalidInput, err)
	})

	cmd.PersistentFlags().StringVar(&dbPath, "db", dbPath, "SQLite database path")
	cmd.PersistentFlags().StringVarP(&output, "output", "o", output, "Output format: table, json, wide")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", logLevel, "Log level: debug, info, warn, error")

	cmd.AddCommand(newSanitizeCmd(getApp, getOutput))
	cmd.AddCommand(newEncodeCmd(getApp, getOutput))
	cmd.AddCommand(newPutCmd(getApp, getOutput))
	cmd.AddCommand(newGetCmd(getApp, getOutput))
	cmd.AddCommand(newListCmd(getApp, getOutput))
	cmd.AddCommand(newRemoveCmd(getApp, getOutput))
	cmd.AddCommand(newStatsCmd(getApp, getOutput))
	cmd.AddCommand(newImportCmd(getApp, getOutput))
	cmd.AddCommand(newServeCmd(getApp))
	cmd.AddCommand(newPolicyCmd(getApp, getOutput))

	return cmd
}

// Execute loads the configuration, installs the default logger and runs the
// root command against os.Args.
func Execute() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return NewRootCmd(cfg).Execute()
}

func parseOutputFormat(raw string) (OutputFormat, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch OutputFormat(s) {
	case OutputTable, OutputJSON, OutputWide:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("%w: invalid output format %q (expected table|json|wide)", store.ErrInvalidInput, raw)
	}
}

func requiresApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		name := c.Name()
		if name == "help" || name == "completion" {
			return false
		}
	}
	return true
}

func needsDB(cmd *cobra.Command) bool {
	_, ok := cmd.Annotations[noDBAnnotation]
	return !ok
}
