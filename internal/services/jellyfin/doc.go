// Package jellyfin wraps the small slice of the Jellyfin HTTP API medialink
// uses: a health probe after each organize run and an optional library
// refresh. Failures are reported to the caller, which only logs them.
package jellyfin
