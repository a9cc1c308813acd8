package slidefx

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// logger is the package sub-logger; every entry carries module=slidefx.
var logger = log.With().Str("module", "slidefx").Logger()

// SetLogger replaces the package logger. The module field is added if the
// caller's logger does not already carry one.
func SetLogger(l zerolog.Logger) {
	logger = l.With().Str("module", "slidefx").Logger()
}

// SetDebugMode lowers the package logger to debug level when enabled, so
// rejected gesture claims, missing interactions and stale timers are logged.
// When disabled the logger only reports warnings and above.
func SetDebugMode(enabled bool) {
	if enabled {
		logger = logger.Level(zerolog.DebugLevel)
		return
	}
	logger = logger.Level(zerolog.WarnLevel)
}
