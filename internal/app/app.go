// Package app assembles the client: one token store, one session and the
// components that share them.
package app

import (
	"log/slog"
	"time"

	"github.com/trustcare/cli/internal/api"
	"github.com/trustcare/cli/internal/auth"
	"github.com/trustcare/cli/internal/cache"
	"github.com/trustcare/cli/internal/logging"
	"github.com/trustcare/cli/internal/routes"
	"github.com/trustcare/cli/internal/screens"
	"github.com/trustcare/cli/internal/session"
)

// Options configures New.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
	Navigator routes.Navigator
	Logger    *slog.Logger
}

// App holds the wired components.
type App struct {
	Tokens  *session.TokenStore
	Session *session.Session
	Client  *api.Client
	Cache   *cache.Cache
	Auth    *auth.Controller
	Screens *screens.Service
}

// New wires a client against opts.BaseURL. The controller is registered as
// the client's 401 handler.
func New(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	tokens := session.NewTokenStore()
	sess, writer := session.New()
	client := api.NewClient(opts.BaseURL, tokens, api.WithTimeout(opts.Timeout), api.WithLogger(logger))
	queries := cache.New(opts.CacheSize, opts.CacheTTL)

	authOpts := []auth.Option{auth.WithCache(queries), auth.WithLogger(logger)}
	if opts.Navigator != nil {
		authOpts = append(authOpts, auth.WithNavigator(opts.Navigator))
	}
	ctrl := auth.NewController(client, tokens, writer, authOpts...)
	client.SetUnauthorizedHandler(ctrl.HandleUnauthorized)

	return &App{
		Tokens:  tokens,
		Session: sess,
		Client:  client,
		Cache:   queries,
		Auth:    ctrl,
		Screens: screens.NewService(client, queries, sess),
	}
}
