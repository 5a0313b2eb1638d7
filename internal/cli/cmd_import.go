package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tengjizhang/scrub/internal/opml"
	"github.com/tengjizhang/scrub/internal/store"
)

func newImportCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	var opmlPath string
	var quiet bool
	cmd := &cobra.Command{
		Use:   "import [feed-url...]",
		Short: "Store sanitized feed items as documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			urls := append([]string(nil), args...)
			if opmlPath != "" {
				fromFile, err := opml.ReadFile(opmlPath)
				if err != nil {
					return err
				}
				urls = append(urls, fromFile...)
			}
			if len(urls) == 0 {
				return fmt.Errorf("%w: feed url", store.ErrMissingField)
			}

			var progress func(done, total int, r ImportResult)
			if !quiet {
				progress = func(done, total int, r ImportResult) {
					status := fmt.Sprintf("%d stored, %d updated", r.Stored, r.Updated)
					if r.Error != "" {
						status = "failed: " + oneLine(r.Error)
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] %s %s\n", done, total, r.FeedURL, status)
				}
			}
			rep := app.importer.ImportAll(cmd.Context(), urls, progress)

			switch getOutput() {
			case OutputJSON:
				return writeJSON(cmd.OutOrStdout(), rep)
			case OutputWide:
				writeImportReportTable(cmd.OutOrStdout(), rep, true)
			default:
				writeImportReportTable(cmd.OutOrStdout(), rep, false)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opmlPath, "opml", "", "Also import every feed listed in an OPML file (- for stdin)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print per-feed progress")
	return cmd
}
