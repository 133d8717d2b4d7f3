package main

import (
	"fmt"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

func newCorpusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "corpus",
		Short: "List the loaded documents and ingestion errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus, errs := loadCorpus(cmd.Context(), opts.settings)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "path: %s\nmode: %s\ndocuments: %d\n\n", opts.settings.CorpusPath, corpus.Mode, len(corpus.Documents))
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tNAME\tTYPE\tCHARS\tCHUNKS\tTRUNCATED")
			for i, d := range corpus.Documents {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%v\n", i+1, d.Name, d.ContentType, utf8.RuneCountInString(d.Text), len(d.Chunks), d.Truncated)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if len(errs) > 0 {
				fmt.Fprintf(out, "\nskipped: %d\n", len(errs))
				for _, err := range errs {
					fmt.Fprintf(out, "  %v\n", err)
				}
			}
			return nil
		},
	}
}
