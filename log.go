package comport

import "github.com/rs/zerolog"

// logger receives the package's diagnostic output. It is silent until an
// application installs one with SetLogger.
var logger = zerolog.Nop()

// SetLogger routes diagnostic logging (open, configuration, release) to l.
// Call it before opening ports; it is not synchronized with them.
func SetLogger(l zerolog.Logger) {
	logger = l.With().Str("component", "comport").Logger()
}
