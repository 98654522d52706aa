package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roivaz/diff-review/internal/autoreview"
	"github.com/roivaz/diff-review/internal/config"
	"github.com/roivaz/diff-review/internal/failure"
	"github.com/roivaz/diff-review/internal/logging"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review-code",
		Short: "Review the latest commit with an LLM and save the report as Markdown",
		Long: `review-code diffs HEAD against its parent (or the empty tree for a first
commit), asks a chat-completion model for a code review, and writes the answer
to docs/review_report.md.

OPENAI_API_KEY must be set. Variables missing from the environment are read
from .env in the working directory (or the file named by ENV_FILE), so a key
in that file satisfies the check; real environment variables always win.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := autoreview.LoadConfig()
			if err != nil {
				return err
			}
			log, err := logging.NewForLevel(cfg.LogLevel)
			if err != nil {
				return failure.Configf("%s: %w", config.KeyLogLevel, err)
			}
			cfg.Logger = log.Logr()

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			return autoreview.New(cfg).Run(ctx)
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("output", "", "report path (default "+config.DefaultOutputPath+")")
	flags.String("model", "", "chat model name (default "+config.DefaultModel+")")
	flags.String("repo", "", "repository directory (default current directory)")
	flags.String("base-url", "", "OpenAI-compatible API base URL")
	flags.String("log-level", "", "debug, info, warn or error (default info)")
	flags.String("llm-timeout", "", "deadline for the chat completion call, e.g. 2m (default none)")
	flags.String("git-timeout", "", "deadline for each git invocation (default none)")
	flags.Int("max-prompt-tokens", 0, "warn when the prompt is estimated above this many tokens (default 8192)")
	return cmd
}

// signalContext is cancelled by SIGINT or SIGTERM, aborting the in-flight git
// process or chat completion.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

func main() {
	rootCmd := newRootCommand()
	config.Init(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(failure.ExitCode(err))
	}
}
