package main

import (
	"context"
	"errors"

	"github.com/akolanti/FAQBot/internal/transport/mcp"
	"github.com/spf13/cobra"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the ask tool over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			provider, err := newProvider(ctx, opts.settings)
			if err != nil {
				return err
			}
			corpus, _ := loadCorpus(ctx, opts.settings)

			err = mcp.NewServer(newRouter(provider, opts.settings), corpus, version).Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
