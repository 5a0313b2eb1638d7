package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/tengjizhang/scrub/internal/sanitize"
)

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeDocumentsTable(out io.Writer, docs []Document, wide bool) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if wide {
		fmt.Fprintln(tw, "NAME\tSIZE\tINPUT\tREMOVED\tCREATED\tUPDATED\tSOURCE")
		for _, d := range docs {
			fmt.Fprintf(
				tw,
				"%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				d.Name,
				humanBytes(d.SanitizedBytes),
				humanBytes(d.InputBytes),
				percentRemoved(int64(d.InputBytes), int64(d.SanitizedBytes)),
				formatDate(d.CreatedAt),
				formatDate(d.UpdatedAt),
				compactText(fallback(d.Source, "-"), 60),
			)
		}
	} else {
		fmt.Fprintln(tw, "NAME\tSIZE\tUPDATED")
		for _, d := range docs {
			fmt.Fprintf(
				tw,
				"%s\t%s\t%s\n",
				compactText(d.Name, 60),
				humanBytes(d.SanitizedBytes),
				humanAgo(d.UpdatedAt),
			)
		}
	}
	_ = tw.Flush()
}

func writeStatsTable(out io.Writer, st Stats) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tVALUE")
	fmt.Fprintf(tw, "documents\t%d\n", st.Documents)
	fmt.Fprintf(tw, "input\t%s\n", humanBytes(st.InputBytes))
	fmt.Fprintf(tw, "sanitized\t%s\n", humanBytes(st.SanitizedBytes))
	fmt.Fprintf(tw, "removed\t%s (%s)\n", humanBytes(st.InputBytes-st.SanitizedBytes), percentRemoved(st.InputBytes, st.SanitizedBytes))
	_ = tw.Flush()
}

func writePutResult(out io.Writer, res PutResult) {
	verb := "Updated"
	if res.Inserted {
		verb = "Stored"
	}
	fmt.Fprintf(out, "%s %s: %s -> %s (removed %s)\n",
		verb,
		res.Name,
		humanBytes(res.InputBytes),
		humanBytes(res.OutputBytes),
		humanBytes(res.Delta),
	)
}

func writeImportReportTable(out io.Writer, rep ImportReport, wide bool) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FEED\tSTORED\tUPDATED\tSKIPPED\tERROR")
	for _, r := range rep.Results {
		fmt.Fprintf(
			tw,
			"%s\t%d\t%d\t%d\t%s\n",
			compactText(fallback(r.FeedTitle, r.FeedURL), 40),
			r.Stored,
			r.Updated,
			r.Skipped,
			compactText(oneLine(r.Error), 70),
		)
	}
	_ = tw.Flush()

	if !wide {
		return
	}
	for _, r := range rep.Results {
		for _, e := range r.Errors {
			fmt.Fprintf(out, "  %s: %s\n", fallback(r.FeedTitle, r.FeedURL), oneLine(e))
		}
	}
}

func writePolicyTable(out io.Writer, cfg sanitize.PolicyConfig) {
	tags := make([]string, 0, len(cfg.AllowedTags))
	for tag := range cfg.AllowedTags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TAG\tATTRIBUTES")
	for _, tag := range tags {
		fmt.Fprintf(tw, "%s\t%s\n", tag, fallback(strings.Join(cfg.AllowedTags[tag], " "), "-"))
	}
	_ = tw.Flush()
	fmt.Fprintf(out, "\nstrip content: %s\n", strings.Join(cfg.StripContent, " "))
	fmt.Fprintf(out, "url schemes:   %s\n", fallback(strings.Join(cfg.AllowedSchemes, " "), "(relative only)"))
}
