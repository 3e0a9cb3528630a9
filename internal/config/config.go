package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Config holds everything a sync run needs.
type Config struct {
	// RegistryURL is the listing page scanned for version tags.
	RegistryURL string `yaml:"registry_url"`
	// TemplateFile is the JSON configuration record holding the pinned tag.
	TemplateFile string `yaml:"template_file"`
	// TagKey is the record key holding the pinned tag.
	TagKey string `yaml:"tag_key"`
	// Timeout bounds the registry request.
	Timeout time.Duration `yaml:"timeout"`
}

// environment mirrors Config for TAG_SYNC_* overrides.
type environment struct {
	RegistryURL  string `env:"TAG_SYNC_REGISTRY_URL"`
	TemplateFile string `env:"TAG_SYNC_TEMPLATE_FILE"`
	TagKey       string `env:"TAG_SYNC_TAG_KEY"`
	Timeout      string `env:"TAG_SYNC_TIMEOUT"`
}

const (
	// DefaultConfigFilename is the settings file looked up when none is given.
	DefaultConfigFilename = "tag-sync.yaml"

	// DefaultRegistryURL is the NGC catalog page listing PyTorch container tags.
	DefaultRegistryURL = "https://catalog.ngc.nvidia.com/orgs/nvidia/containers/pytorch/tags"

	// DefaultTemplateFile is the cookiecutter configuration kept in sync.
	DefaultTemplateFile = "cookiecutter.json"

	// DefaultTagKey is the cookiecutter variable holding the container tag.
	DefaultTagKey = "nvidia_docker_tag"

	// DefaultTimeout bounds the registry request.
	DefaultTimeout = 30 * time.Second

	// DefaultFilePermissions is used for settings files written by Save.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnsupportedScheme is returned for registry URLs that are not http(s).
	errUnsupportedScheme = errors.New("registry url must use http or https")
	// errNegativeTimeout is returned when the timeout is below zero.
	errNegativeTimeout = errors.New("timeout must not be negative")
)

// Default returns settings filled with defaults.
func Default() *Config {
	return &Config{
		RegistryURL:  DefaultRegistryURL,
		TemplateFile: DefaultTemplateFile,
		TagKey:       DefaultTagKey,
		Timeout:      DefaultTimeout,
	}
}

// Load reads settings from path, applies TAG_SYNC_* overrides from the
// process environment and validates the result.
// An empty path means DefaultConfigFilename, which may be absent.
func Load(fsys afero.Fs, path string) (*Config, error) {
	optional := path == ""
	if optional {
		path = DefaultConfigFilename
	}

	cfg := new(Config)

	contents, err := afero.ReadFile(fsys, filepath.Clean(path))

	switch {
	case err == nil:
		if err = yaml.Unmarshal(contents, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	case optional && errors.Is(err, fs.ErrNotExist):
		// No settings file: defaults and environment only.
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err = ApplyEnvironment(cfg, os.Environ()); err != nil {
		return nil, err
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnvironment overrides cfg fields with non-empty TAG_SYNC_* variables
// found in environ (KEY=value pairs, as returned by os.Environ).
func ApplyEnvironment(cfg *Config, environ []string) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	set, err := env.EnvironToEnvSet(environ)
	if err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	var overrides environment
	if err = env.Unmarshal(set, &overrides); err != nil {
		return fmt.Errorf("unmarshal environment: %w", err)
	}

	if overrides.RegistryURL != "" {
		cfg.RegistryURL = overrides.RegistryURL
	}

	if overrides.TemplateFile != "" {
		cfg.TemplateFile = overrides.TemplateFile
	}

	if overrides.TagKey != "" {
		cfg.TagKey = overrides.TagKey
	}

	if overrides.Timeout != "" {
		timeout, parseErr := time.ParseDuration(overrides.Timeout)
		if parseErr != nil {
			return fmt.Errorf("parse TAG_SYNC_TIMEOUT: %w", parseErr)
		}

		cfg.Timeout = timeout
	}

	return nil
}

// Save writes cfg to path as YAML.
func Save(fsys afero.Fs, path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err = afero.WriteFile(fsys, filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills in defaults for empty fields and checks the registry URL.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	cfg.RegistryURL = strings.TrimSpace(cfg.RegistryURL)
	if cfg.RegistryURL == "" {
		cfg.RegistryURL = DefaultRegistryURL
	}

	if cfg.TemplateFile == "" {
		cfg.TemplateFile = DefaultTemplateFile
	}

	if cfg.TagKey == "" {
		cfg.TagKey = DefaultTagKey
	}

	if cfg.Timeout < 0 {
		return errNegativeTimeout
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	registryURL, err := url.ParseRequestURI(cfg.RegistryURL)
	if err != nil {
		return fmt.Errorf("invalid registry url: %w", err)
	}

	if registryURL.Scheme != "http" && registryURL.Scheme != "https" {
		return fmt.Errorf("%w: %s", errUnsupportedScheme, cfg.RegistryURL)
	}

	return nil
}
