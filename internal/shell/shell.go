package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/trustcare/cli/internal/api"
	"github.com/trustcare/cli/internal/app"
	"github.com/trustcare/cli/internal/format"
	"github.com/trustcare/cli/internal/logging"
	"github.com/trustcare/cli/internal/routes"
	"github.com/trustcare/cli/internal/validation"
)

// maxRedirects bounds guard redirects while rendering one screen.
const maxRedirects = 5

// Shell is a read-eval-print loop over one in-memory session.
type Shell struct {
	app     *app.App
	router  *routes.Router
	history *History
	prompt  *Prompter
	printer *format.Printer
	logger  *slog.Logger

	shown   string
	shownAt uint64
	exit    bool

	patientSearch      string
	prescriptionSearch string
	prescriptionStatus string
}

// New returns a shell driving a. history must be the navigator a was built
// with.
func New(a *app.App, history *History, prompt *Prompter, printer *format.Printer, logger *slog.Logger) *Shell {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Shell{
		app:     a,
		history: history,
		prompt:  prompt,
		printer: printer,
		logger:  logger,
	}
	s.router = s.buildRouter()
	return s
}

// Run reads commands until exit or end of input.
func (s *Shell) Run(ctx context.Context) error {
	s.printer.Info("TrustCare shell. Type 'help' for commands.")
	s.show(ctx)

	for !s.exit {
		fmt.Fprintf(s.printer.Out, "trustcare %s [%s]> ", s.history.Current(), s.app.Session.State())
		line, err := s.prompt.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(s.printer.Out)
				return nil
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		s.Exec(ctx, line)
		if s.history.Version() != s.shownAt {
			s.show(ctx)
		}
	}
	return nil
}

// Exec runs a single command line.
func (s *Shell) Exec(ctx context.Context, line string) {
	wasAuthenticated := s.app.Session.IsAuthenticated()
	if err := s.dispatch(ctx, line); err != nil {
		s.fail(err, wasAuthenticated)
	}
}

// show renders the current screen, following guard redirects.
func (s *Shell) show(ctx context.Context) {
	for hops := 0; hops < maxRedirects; hops++ {
		path := s.history.Current()
		if s.shown == routes.VerifyOtp && path != routes.VerifyOtp {
			s.app.Auth.AbandonPending()
		}
		s.shown, s.shownAt = path, s.history.Version()

		res := s.router.Resolve(path)
		switch res.Outcome.Decision {
		case routes.Redirect:
			s.logger.Debug("redirect", "from", path, "to", res.Outcome.To)
			s.history.Navigate(res.Outcome.To, true)
			continue
		case routes.Wait:
			s.printer.Info("Loading...")
			return
		case routes.Deny:
			s.printer.Error("%s", res.Outcome.DenyMessage())
			return
		}

		s.printer.Info("== %s ==", res.Route.Title)
		wasAuthenticated := s.app.Session.IsAuthenticated()
		if err := res.Route.Handler(ctx); err != nil {
			s.fail(err, wasAuthenticated)
		}
		if s.history.Version() == s.shownAt {
			return
		}
	}
	s.printer.Error("too many redirects")
}

// fail prints err the way a form would show it. A 401 that ended the session
// is reported once as a notice, not as a form error.
func (s *Shell) fail(err error, wasAuthenticated bool) {
	var verrs *validation.Errors
	if errors.As(err, &verrs) {
		for _, f := range verrs.Fields {
			s.printer.Error("%s: %s", f.Field, f.Message)
		}
		return
	}
	if api.IsAuthError(err) && wasAuthenticated && !s.app.Session.IsAuthenticated() {
		s.printer.Warning("Your session has ended. Please sign in again.")
		return
	}
	s.printer.Error("%s", api.ErrorMessage(err))
}
