package tagsync

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/afero"

	"github.com/oshokin/tag-sync/internal/config"
	"github.com/oshokin/tag-sync/internal/domain/tag"
	"github.com/oshokin/tag-sync/internal/logger"
	"github.com/oshokin/tag-sync/internal/repository/template"
	"github.com/oshokin/tag-sync/internal/service/registry"
	"github.com/oshokin/tag-sync/internal/service/updater"
)

// Options are inputs accepted by Run. Non-empty fields override settings.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
	// RegistryURL overrides the listing page address.
	RegistryURL string
	// TemplateFile overrides the configuration record path.
	TemplateFile string
	// TagKey overrides the record key holding the tag.
	TagKey string
	// Timeout overrides the registry request timeout.
	Timeout time.Duration
	// DryRun compares without writing.
	DryRun bool
	// Strict turns a failed update into ErrUpdateFailed.
	Strict bool

	// Fs is the filesystem for settings and template; nil means the OS one.
	Fs afero.Fs
	// HTTPClient replaces the default registry HTTP client.
	HTTPClient *http.Client
}

// Outcome classifies a completed run.
type Outcome int

const (
	// OutcomeUnknown is returned alongside errors that stop a run early.
	OutcomeUnknown Outcome = iota
	// OutcomeUpdated means the configuration file was rewritten.
	OutcomeUpdated
	// OutcomeUpToDate means the file already held the latest tag.
	OutcomeUpToDate
	// OutcomeUpdateFailed means the tag was fetched but the file could not be updated.
	OutcomeUpdateFailed
	// OutcomeWouldUpdate means a dry run found a newer tag.
	OutcomeWouldUpdate
)

var (
	// ErrNoTag is returned when no tag could be fetched.
	ErrNoTag = errors.New("no tag could be fetched")
	// ErrUpdateFailed is returned in strict mode when the file could not be updated.
	ErrUpdateFailed = errors.New("configuration update failed")
)

// String returns the outcome name used in logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeUpdated:
		return "updated"
	case OutcomeUpToDate:
		return "up-to-date"
	case OutcomeUpdateFailed:
		return "update-failed"
	case OutcomeWouldUpdate:
		return "would-update"
	default:
		return "unknown"
	}
}

// tagFetcher is the part of the registry client Run depends on.
type tagFetcher interface {
	FetchLatestTag(ctx context.Context) (tag.Tag, error)
}

// Run loads settings, fetches the latest tag and updates the configuration.
func Run(ctx context.Context, opts *Options) (Outcome, error) {
	ctx = logger.WithName(ctx, "tag-sync")

	if opts == nil {
		opts = new(Options)
	}

	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	cfg, err := config.Load(fsys, opts.ConfigPath)
	if err != nil {
		return OutcomeUnknown, fmt.Errorf("load settings: %w", err)
	}

	if err = applyOverrides(cfg, opts); err != nil {
		return OutcomeUnknown, err
	}

	clientOptions := []registry.Option{
		registry.WithHTTPClient(opts.HTTPClient),
		registry.WithTimeout(cfg.Timeout),
	}

	fetcher, err := registry.NewClient(cfg.RegistryURL, clientOptions...)
	if err != nil {
		return OutcomeUnknown, fmt.Errorf("create registry client: %w", err)
	}

	up, err := updater.New(template.NewFileRepository(fsys, cfg.TemplateFile), cfg.TagKey)
	if err != nil {
		return OutcomeUnknown, fmt.Errorf("create updater: %w", err)
	}

	return run(ctx, fetcher, up, opts)
}

// run performs the fetch then update steps.
func run(ctx context.Context, fetcher tagFetcher, up *updater.Updater, opts *Options) (Outcome, error) {
	latest, err := fetcher.FetchLatestTag(ctx)
	if err != nil {
		logger.Errorf(ctx, "Could not determine the latest tag: %v", err)

		return OutcomeUnknown, fmt.Errorf("%w: %w", ErrNoTag, err)
	}

	outcome, err := apply(ctx, up, latest, opts.DryRun)
	if err != nil {
		if opts.Strict {
			return outcome, fmt.Errorf("%w: %w", ErrUpdateFailed, err)
		}

		logger.WarnKV(ctx, "Configuration was not updated, continuing", "error", err)
	}

	logger.InfoKV(ctx, "Sync finished", "tag", latest.String(), "outcome", outcome.String())

	return outcome, nil
}

// apply updates the configuration, or only compares it in dry-run mode.
func apply(ctx context.Context, up *updater.Updater, latest tag.Tag, dryRun bool) (Outcome, error) {
	if dryRun {
		current, needed, err := up.Check(ctx, latest)
		if err != nil {
			return OutcomeUpdateFailed, err
		}

		if !needed {
			return OutcomeUpToDate, nil
		}

		logger.InfoKV(ctx, "Dry run, configuration left unchanged", "from", current, "to", latest.String())

		return OutcomeWouldUpdate, nil
	}

	written, err := up.Update(ctx, latest)
	if err != nil {
		return OutcomeUpdateFailed, err
	}

	if !written {
		return OutcomeUpToDate, nil
	}

	return OutcomeUpdated, nil
}

// applyOverrides copies non-empty options over the loaded settings.
func applyOverrides(cfg *config.Config, opts *Options) error {
	if opts.RegistryURL != "" {
		cfg.RegistryURL = opts.RegistryURL
	}

	if opts.TemplateFile != "" {
		cfg.TemplateFile = opts.TemplateFile
	}

	if opts.TagKey != "" {
		cfg.TagKey = opts.TagKey
	}

	if opts.Timeout != 0 {
		cfg.Timeout = opts.Timeout
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("validate settings: %w", err)
	}

	return nil
}
