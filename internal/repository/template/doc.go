// Package template persists the cookiecutter configuration record.
//
// The record is a JSON object whose key order and untouched values survive a
// rewrite byte for byte (modulo indentation), so pinning a new tag produces a
// one-line diff. Files are accessed through afero so callers can swap the OS
// filesystem for an in-memory one.
package template
