package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/reflow/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		verbose, quiet bool
		logFormat      string
	)

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log drag, reorder and settle events")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log errors")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text, json, logfmt")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		switch {
		case verbose:
			c.SetLogLevel(cli.LogDebug)
		case quiet:
			c.SetLogLevel(cli.LogError)
		}
		return c.SetLogFormat(logFormat)
	}

	return root.ExecuteContext(ctx)
}
