package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/tag-sync/internal/config"
	"github.com/oshokin/tag-sync/internal/service/tagsync"
)

// TestExitCode maps errors to the documented exit statuses.
func TestExitCode(t *testing.T) {
	t.Parallel()

	require.Equal(t, exitFailure, exitCode(fmt.Errorf("run: %w", tagsync.ErrNoTag)))
	require.Equal(t, exitUpdateFailed, exitCode(fmt.Errorf("run: %w", tagsync.ErrUpdateFailed)))
	require.Equal(t, exitFailure, exitCode(errors.New("bad flag")))
}

// TestWriteDefaultSettings writes defaults once and refuses to overwrite them.
func TestWriteDefaultSettings(t *testing.T) {
	fsys := afero.NewMemMapFs()
	command := new(cobra.Command)

	require.NoError(t, writeDefaultSettings(command, fsys, ""))

	cfg, err := config.Load(fsys, config.DefaultConfigFilename)
	require.NoError(t, err)
	require.Equal(t, config.DefaultTagKey, cfg.TagKey)

	require.ErrorIs(t, writeDefaultSettings(command, fsys, ""), errSettingsExist)

	force = true

	t.Cleanup(func() {
		force = false
	})

	require.NoError(t, writeDefaultSettings(command, fsys, ""))
}
