package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/kbukum/seedkit/fixture"
)

func printReport(w io.Writer, r *fixture.Report) {
	for _, p := range r.Purged {
		fmt.Fprintf(w, "purged %s\n", p)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, rec := range r.Loaded {
		fmt.Fprintf(tw, "  %s\t%s/%s\t%s\t%s\n", rec.Key, rec.Backend, rec.Manager, rec.Model, rec.File)
	}
	tw.Flush()

	printSkipped(w, r.Skipped)
	fmt.Fprintf(w, "loaded %d files (%d entities) in %s, run %s\n",
		len(r.Loaded), r.Entities, r.Duration.Round(time.Millisecond), r.RunID)
}

func printPlan(w io.Writer, records []*fixture.Record, skipped []fixture.SkippedFile) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tBACKEND\tMANAGER\tMODEL\tFILE")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", rec.Key, rec.Backend, rec.ManagerName(), rec.Model, rec.File)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	printSkipped(w, skipped)
	return nil
}

func printSkipped(w io.Writer, skipped []fixture.SkippedFile) {
	for _, s := range skipped {
		fmt.Fprintf(w, "skipped %s: %s\n", s.File, s.Reason)
	}
}
