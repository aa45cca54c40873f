// Package preflight provides readiness checks for the filesystem paths and
// services medialink depends on.
//
// The status command renders RunAll as a table. Beyond plain access checks,
// each library root is verified to share a filesystem with the staging
// directory, since hard links cannot cross devices.
//
// Each check is gated by its config toggle, so disabled features are skipped.
package preflight
