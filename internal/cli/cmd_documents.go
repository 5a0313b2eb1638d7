package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tengjizhang/scrub/internal/docs"
)

func newPutCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "put <name> [file]",
		Short: "Sanitize HTML and store it under a name",
		Args:  rangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			raw, err := readInput(cmd, argAt(args, 1), app.docs.MaxInputBytes())
			if err != nil {
				return err
			}
			res, err := app.docs.Put(cmd.Context(), args[0], raw, source)
			if err != nil {
				return err
			}
			if getOutput() == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			writePutResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "Where the document came from (URL or note)")
	return cmd
}

func newGetCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	var markdown bool
	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Print a stored document",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if markdown {
				md, err := app.docs.Markdown(ctx, args[0])
				if err != nil {
					return err
				}
				if getOutput() == OutputJSON {
					name, _ := docs.SafeName(args[0])
					return writeJSON(cmd.OutOrStdout(), MarkdownResponse{Name: name, Markdown: md})
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), md)
				return err
			}

			doc, err := app.docs.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if getOutput() == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), doc)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), doc.HTML)
			return err
		},
	}
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Render the document as markdown")
	return cmd
}

func newListCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	var opts ListOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored documents",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			list, err := app.docs.List(cmd.Context(), opts)
			if err != nil {
				return err
			}
			switch getOutput() {
			case OutputJSON:
				if list == nil {
					list = []Document{}
				}
				return writeJSON(cmd.OutOrStdout(), list)
			case OutputWide:
				writeDocumentsTable(cmd.OutOrStdout(), list, true)
			default:
				writeDocumentsTable(cmd.OutOrStdout(), list, false)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Prefix, "prefix", "", "Only names starting with this prefix")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Max documents (0 = default 100)")
	return cmd
}

func newRemoveCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a stored document",
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			if err := app.docs.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			name, _ := docs.SafeName(args[0])
			if getOutput() == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), RemoveDocumentResponse{Removed: name})
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", name)
			return err
		},
	}
}

func newStatsCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show document count and byte totals",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			st, err := app.docs.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if getOutput() == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), st)
			}
			writeStatsTable(cmd.OutOrStdout(), st)
			return nil
		},
	}
}
