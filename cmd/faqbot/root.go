package main

import (
	"fmt"
	"io"
	"os"

	"github.com/akolanti/FAQBot/internal/config"
	"github.com/akolanti/FAQBot/pkg/logger_i"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	corpusPath string
	verbose    bool

	settings config.Settings
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "faqbot",
		Short:         "Document grounded FAQ bot for Telegram",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML settings file")
	cmd.PersistentFlags().StringVar(&opts.corpusPath, "corpus", "", "document file or directory (overrides CORPUS_PATH)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(
		newServeCmd(opts),
		newAskCmd(opts),
		newCorpusCmd(opts),
		newMCPCmd(opts),
	)
	return cmd
}

func (o *rootOptions) load(cmd *cobra.Command) error {
	s, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if o.corpusPath != "" {
		s.CorpusPath = o.corpusPath
	}
	if o.verbose {
		s.LogLevel = "debug"
	}
	o.settings = s

	logger_i.Configure(logger_i.Options{Level: s.LogLevel, Format: s.LogFormat, Output: logOutput(cmd)})
	return nil
}

// logOutput keeps stdout free for command output and the MCP protocol; only
// serve logs to stdout.
func logOutput(cmd *cobra.Command) io.Writer {
	if cmd.Name() == "serve" {
		return os.Stdout
	}
	return os.Stderr
}
