// Package logging provides opt-in file-based logging with rotation for tscheck.
// When the --debug flag is set, structured JSON logs are written to
// ~/.tscheck/logs/ so hook invocations can be inspected after the fact.
//
// By default (without --debug), only warnings reach stderr; stdout is left
// to the check result.
package logging
