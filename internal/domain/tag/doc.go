// Package tag models container version tags of the form "<major>.<minor>-py3".
//
// Tags order numerically by their (major, minor) pair, so "12.3-py3" is newer
// than "2.10-py3" even though it sorts first as a string.
package tag
