// Package logging provides structured logging for fieldpad.
//
// It wraps a global zap logger with level helpers. Logging is silent unless a
// level is configured, and always writes to a file: the editor owns the
// terminal while it runs, so nothing may be printed to stdout.
//
//	logging.Info("Save finished",
//	    zap.String("endpoint", endpoint),
//	    zap.Duration("took", took),
//	)
package logging
