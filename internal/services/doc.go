// Package services defines shared utilities consumed by the organizer, the
// orphan reconciler, and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and stage names for logging.
//   - Structured error markers plus the Wrap helper so callers can tell fatal
//     misconfiguration apart from per-file failures with errors.Is.
//   - FailureReason, which turns filesystem errors into short summary labels.
//
// Integrations with external services live in subpackages (jellyfin).
package services
