package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tengjizhang/scrub/internal/store"
)

// noDBAnnotation marks commands that never open the database.
const noDBAnnotation = "scrub/no-db"

func requireApp(getApp func() *App) (*App, error) {
	app := getApp()
	if app == nil {
		return nil, errors.New("app not initialized")
	}
	return app, nil
}

// exactArgs is cobra.ExactArgs with the error tagged as invalid input.
func exactArgs(n int) cobra.PositionalArgs {
	return wrapArgs(cobra.ExactArgs(n))
}

func rangeArgs(min, max int) cobra.PositionalArgs {
	return wrapArgs(cobra.RangeArgs(min, max))
}

func wrapArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidInput, err)
		}
		return nil
	}
}

// readInput reads the named file, or stdin when path is empty or "-". At
// most limit+1 bytes are read so an oversize input is detected without
// loading all of it.
func readInput(cmd *cobra.Command, path string, limit int64) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("open input: %w: %w", store.ErrIO, err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", fmt.Errorf("read input: %w: %w", store.ErrIO, err)
	}
	return string(data), nil
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
