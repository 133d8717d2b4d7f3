package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/akolanti/FAQBot/internal/adapter/utils"
	"github.com/akolanti/FAQBot/internal/config"
	"github.com/spf13/cobra"
)

func newAskCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Route one question through the corpus and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				return errors.New("question is empty")
			}
			ctx := context.WithValue(cmd.Context(), config.TRACE_ID_KEY, utils.GetNewUUID())

			provider, err := newProvider(ctx, opts.settings)
			if err != nil {
				return err
			}
			corpus, _ := loadCorpus(ctx, opts.settings)

			answer, err := newRouter(provider, opts.settings).Route(ctx, question, corpus)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, answer.Text)
			if answer.Source != nil {
				fmt.Fprintf(out, "\nsource: %s\n", answer.Source.Name)
			} else {
				fmt.Fprintln(out, "\nsource: none (open answer)")
			}
			return nil
		},
	}
}
