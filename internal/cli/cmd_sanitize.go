package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSanitizeCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	return &cobra.Command{
		Use:         "sanitize [file]",
		Short:       "Sanitize HTML from a file or stdin",
		Args:        rangeArgs(0, 1),
		Annotations: map[string]string{noDBAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			return runTransform(cmd, getOutput(), argAt(args, 0), app.docs.MaxInputBytes(), app.docs.Sanitize)
		},
	}
}

func newEncodeCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	return &cobra.Command{
		Use:         "encode [file]",
		Short:       "HTML-escape text from a file or stdin",
		Args:        rangeArgs(0, 1),
		Annotations: map[string]string{noDBAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			return runTransform(cmd, getOutput(), argAt(args, 0), app.docs.MaxInputBytes(), app.docs.Encode)
		},
	}
}

func runTransform(cmd *cobra.Command, format OutputFormat, path string, limit int64, fn func(string) (string, error)) error {
	raw, err := readInput(cmd, path, limit)
	if err != nil {
		return err
	}
	out, err := fn(raw)
	if err != nil {
		return err
	}
	if format == OutputJSON {
		return writeJSON(cmd.OutOrStdout(), SanitizeResponse{
			Output:      out,
			InputBytes:  len(raw),
			OutputBytes: len(out),
		})
	}
	// Written byte-for-byte so piping matches the POST /sanitize body.
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
