package compiler

import "log/slog"

// Option configures a Compiler.
type Option func(*config)

type config struct {
	logger *slog.Logger
	idStem string
	syntax Syntax
	debug  bool
}

func defaultConfig() config {
	return config{
		logger: slog.New(slog.DiscardHandler),
		idStem: DefaultIDStem,
		syntax: DefaultSyntax,
	}
}

// WithLogger sends construction and resolution logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithIDStem overrides the identifier stem (default SYSTEM_FUNCTION).
func WithIDStem(stem string) Option {
	return func(c *config) {
		c.idStem = stem
	}
}

// WithSyntax overrides the structural characters.
func WithSyntax(s Syntax) Option {
	return func(c *config) {
		c.syntax = s
	}
}

// WithDebugEvents records parser events, retrievable with DebugEvents (development only)
func WithDebugEvents() Option {
	return func(c *config) {
		c.debug = true
	}
}

// DebugEvent holds debug tracing information (development only)
type DebugEvent struct {
	Event   string // "resolve", "open_fields", "close_fields", "literal_marker", ...
	Offset  int    // Cursor byte offset
	Context string // Invocation name or character
}
