package app

import (
	"io"

	"github.com/trustcare/cli/internal/config"
	"github.com/trustcare/cli/internal/logging"
	"github.com/trustcare/cli/internal/routes"
)

// FromConfig wires an app from the loaded configuration. Diagnostics are
// logged to logOut.
func FromConfig(nav routes.Navigator, logOut io.Writer) *App {
	cfg := config.Get()
	return New(Options{
		BaseURL:   config.ServerURL(),
		Timeout:   config.ServerTimeout(),
		CacheSize: cfg.Cache.Size,
		CacheTTL:  config.CacheTTL(),
		Navigator: nav,
		Logger:    logging.New(logOut, config.LogLevel()),
	})
}
