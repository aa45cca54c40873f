// Package logging assembles the structured slog loggers used across medialink.
//
// The console handler prints date(1)-style timestamps followed by the level,
// the component, and key=value pairs. The JSON handler suits log shippers.
// NewFromConfig additionally tees every record into a size-rotated log file
// under the configured log directory. Context helpers tag lines with the run
// ID and stage so a single invocation can be traced through the file.
package logging
