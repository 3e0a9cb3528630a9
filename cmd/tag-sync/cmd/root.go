package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/tag-sync/internal/logger"
	"github.com/oshokin/tag-sync/internal/service/tagsync"
	"github.com/oshokin/tag-sync/internal/version"
)

const (
	// exitFailure is used when no tag could be fetched or the command is misused.
	exitFailure = 1
	// exitUpdateFailed is used in strict mode when the template could not be updated.
	exitUpdateFailed = 2
)

var (
	// options collects flag values for the sync run.
	options tagsync.Options
	// logLevel is the raw --log-level value.
	logLevel string

	// errUnknownLogLevel is returned for unsupported --log-level values.
	errUnknownLogLevel = errors.New("unknown log level")

	// rootCmd fetches the newest registry tag and pins it in the template.
	rootCmd = &cobra.Command{
		Use:   "tag-sync",
		Short: "Pin the newest container tag in a cookiecutter template.",
		Long: `Fetch the registry listing page, pick the newest <major>.<minor>-py3 tag
and write it to the configured key of the template's cookiecutter.json.

The file is rewritten only when the pinned tag differs. Failing to fetch a tag
exits with status 1. A missing or malformed template is logged and exits with
status 0, or with status 2 when --strict is set.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("%w: %s", errUnknownLogLevel, logLevel)
			}

			logger.SetLevel(level)

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			_, err := tagsync.Run(ctx, &options)

			return err
		},
	}
)

// Execute runs the tag-sync CLI and exits with a status describing the outcome.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	defer logger.Sync()

	err := rootCmd.ExecuteContext(context.Background())
	if err == nil {
		return
	}

	logger.Errorf(context.Background(), "tag-sync: %v", err)
	logger.Sync()

	os.Exit(exitCode(err))
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	if errors.Is(err, tagsync.ErrUpdateFailed) {
		return exitUpdateFailed
	}

	return exitFailure
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.Flags()

	rootCmd.PersistentFlags().StringVarP(&options.ConfigPath, "config", "c", "",
		"path to settings file (default tag-sync.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")

	flags.StringVar(&options.RegistryURL, "url", "", "registry listing page to scan for tags")
	flags.StringVarP(&options.TemplateFile, "file", "f", "", "template configuration file to update")
	flags.StringVarP(&options.TagKey, "key", "k", "", "configuration key holding the tag")
	flags.DurationVar(&options.Timeout, "timeout", time.Duration(0), "registry request timeout")
	flags.BoolVar(&options.DryRun, "dry-run", false, "report the pending change without writing")
	flags.BoolVar(&options.Strict, "strict", false, "exit with status 2 when the template cannot be updated")
}
