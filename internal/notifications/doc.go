// Package notifications sends run summaries to an ntfy topic.
//
// NewService returns a noop implementation when no topic is configured, so
// callers never need to check whether notifications are enabled.
package notifications
