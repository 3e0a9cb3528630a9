// Package tagsync runs one synchronization: fetch the newest registry tag,
// then pin it in the template configuration.
//
// Failing to obtain a tag is the only fatal outcome. A missing or malformed
// configuration file is logged and reported as OutcomeUpdateFailed, which
// callers treat as success unless Options.Strict is set.
package tagsync
