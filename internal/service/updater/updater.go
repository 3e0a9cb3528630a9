package updater

import (
	"context"
	"errors"

	"github.com/oshokin/tag-sync/internal/domain/tag"
	"github.com/oshokin/tag-sync/internal/logger"
	"github.com/oshokin/tag-sync/internal/repository/template"
)

var (
	// ErrEmptyTag is returned when Update is called without a tag.
	ErrEmptyTag = errors.New("tag must be provided")
	// errEmptyKey is returned by New when no record key is configured.
	errEmptyKey = errors.New("tag key must be provided")
	// errRepositoryIsNotSet is returned by New for a nil repository.
	errRepositoryIsNotSet = errors.New("repository is not set")
)

// Updater compares and rewrites one key of the configuration record.
type Updater struct {
	// repo loads and saves the configuration record.
	repo template.Repository
	// key is the record key holding the pinned tag.
	key string
}

// New creates an Updater for key stored in repo.
func New(repo template.Repository, key string) (*Updater, error) {
	if repo == nil {
		return nil, errRepositoryIsNotSet
	}

	if key == "" {
		return nil, errEmptyKey
	}

	return &Updater{
		repo: repo,
		key:  key,
	}, nil
}

// Check reports the currently pinned value and whether t differs from it.
// It never writes.
func (u *Updater) Check(ctx context.Context, t tag.Tag) (string, bool, error) {
	_, current, needed, err := u.inspect(ctx, t)

	return current, needed, err
}

// Update pins t and reports whether the file was rewritten.
// A false result with a nil error means the file already holds t.
func (u *Updater) Update(ctx context.Context, t tag.Tag) (bool, error) {
	record, current, needed, err := u.inspect(ctx, t)
	if err != nil {
		return false, err
	}

	ctx = logger.WithKV(ctx, "file", u.repo.Path())

	if !needed {
		logger.InfoKV(ctx, "No update needed", "tag", t.String())

		return false, nil
	}

	if err = record.SetString(u.key, t.String()); err != nil {
		return false, err
	}

	if err = u.repo.Save(ctx, record); err != nil {
		logger.ErrorKV(ctx, "Failed to write configuration file", "error", err)

		return false, err
	}

	logger.InfoKV(ctx, "Updated configuration file", "key", u.key, "from", current, "to", t.String())

	return true, nil
}

// inspect loads the record and compares the pinned value with t.
func (u *Updater) inspect(ctx context.Context, t tag.Tag) (*template.Record, string, bool, error) {
	if t.IsZero() {
		return nil, "", false, ErrEmptyTag
	}

	ctx = logger.WithKV(ctx, "file", u.repo.Path())

	record, err := u.repo.Load(ctx)

	switch {
	case errors.Is(err, template.ErrNotFound):
		logger.ErrorKV(ctx, "Configuration file not found")

		return nil, "", false, err
	case errors.Is(err, template.ErrMalformed):
		logger.ErrorKV(ctx, "Configuration file is not a valid JSON object", "error", err)

		return nil, "", false, err
	case err != nil:
		logger.ErrorKV(ctx, "Failed to read configuration file", "error", err)

		return nil, "", false, err
	}

	current, isString := record.StringValue(u.key)
	if !isString {
		if raw, present := record.Lookup(u.key); present {
			// Non-string values never match a tag; keep their text for the log.
			current = string(raw)
		}
	}

	logger.DebugKV(ctx, "Compared pinned tag", "key", u.key, "current", current, "latest", t.String())

	return record, current, !isString || current != t.String(), nil
}
