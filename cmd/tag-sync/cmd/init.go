package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/oshokin/tag-sync/internal/config"
	"github.com/oshokin/tag-sync/internal/logger"
)

var (
	// force allows init to overwrite an existing settings file.
	force bool

	// errSettingsExist is returned when init would overwrite settings without --force.
	errSettingsExist = errors.New("settings file already exists, use --force to overwrite")

	// initCmd writes a settings file filled with defaults.
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Write a default settings file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeDefaultSettings(cmd, afero.NewOsFs(), options.ConfigPath)
		},
	}
)

// writeDefaultSettings saves config.Default to path unless it already exists.
func writeDefaultSettings(cmd *cobra.Command, fsys afero.Fs, path string) error {
	if path == "" {
		path = config.DefaultConfigFilename
	}

	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return fmt.Errorf("check settings file: %w", err)
	}

	if exists && !force {
		return fmt.Errorf("%s: %w", path, errSettingsExist)
	}

	if err = config.Save(fsys, path, config.Default()); err != nil {
		return err
	}

	logger.InfoKV(cmd.Context(), "Wrote default settings", "path", path)

	return nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing settings file")

	rootCmd.AddCommand(initCmd)
}
