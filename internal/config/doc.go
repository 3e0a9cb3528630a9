// Package config defines the tag-sync settings and helpers to load, validate
// and save them in YAML format.
//
// Settings come from three layers, later ones winning: the YAML file,
// TAG_SYNC_* environment variables and command-line flags (applied by the
// caller). A missing default settings file is not an error; defaults apply.
package config
