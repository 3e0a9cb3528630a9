// Package version exposes build metadata for tag-sync.
//
// Version, Commit and BuildTime are injected with -ldflags "-X ..." at build
// time. Short is used in the HTTP User-Agent, Full backs `tag-sync version`.
package version
