package types

// Logger is the structured logger used by every jspull component.
//
// The method set matches zap.SugaredLogger, so most structured loggers can be
// passed in directly. Arguments after msg are alternating keys and values.
type Logger interface {
	// Debug logs a message at debug level.
	Debug(msg string, keysAndValues ...any)

	// Info logs a message at info level.
	Info(msg string, keysAndValues ...any)

	// Warn logs a message at warn level.
	Warn(msg string, keysAndValues ...any)

	// Error logs a message at error level.
	Error(msg string, keysAndValues ...any)

	// Fatal logs a message and terminates the process.
	//
	// Background publishing relies on this to stop the program when an
	// asynchronous publish fails. Test loggers fail the test instead.
	Fatal(msg string, keysAndValues ...any)
}
