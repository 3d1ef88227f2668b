// Package logging assembles structured slog loggers and formatting helpers used
// across pcsurvey commands.
//
// It owns the console and JSON handlers, tees output to a per-run log file when
// configured, and exposes attribute helpers and standard field keys so every
// component tags persons, fields, and run identifiers the same way. A logger
// is built once per invocation and handed to the components that need it;
// nothing here holds process-wide state.
package logging
