package cmd

import (
	"errors"

	"github.com/trustcare/cli/internal/api"
	"github.com/trustcare/cli/internal/format"
	"github.com/trustcare/cli/internal/validation"
)

// printError reports a failed command the way forms report errors.
func printError(err error) {
	var verrs *validation.Errors
	if errors.As(err, &verrs) {
		for _, f := range verrs.Fields {
			format.PrintError("%s: %s", f.Field, f.Message)
		}
		return
	}
	format.PrintError("%s", api.ErrorMessage(err))
}
