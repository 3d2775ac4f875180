package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/matzehuels/gridcanvas/pkg/errors"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1   // unclassified failure
	ExitInvalid     = 2   // bad flags, arguments, config, grid or catalog
	ExitNotFound    = 3   // unknown widget, instance or file; denied entity
	ExitStorage     = 4   // storage backend failure
	ExitInterrupted = 130 // standard shell convention for SIGINT
)

// ExitCode maps an error returned by the root command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if stderrors.Is(err, context.Canceled) {
		return ExitInterrupted
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidGrid, errors.ErrCodeInvalidConfig,
		errors.ErrCodeInvalidCatalog, errors.ErrCodeInvalidID, errors.ErrCodeUnsupported:
		return ExitInvalid
	case errors.ErrCodeNotFound, errors.ErrCodeNotFoundWidget, errors.ErrCodeNotFoundInstance,
		errors.ErrCodeForbidden:
		return ExitNotFound
	case errors.ErrCodeStorage:
		return ExitStorage
	default:
		return ExitFailure
	}
}

// ReportError prints err to w the way the other status lines are printed.
// Coded errors show their message followed by the dimmed code.
func ReportError(w io.Writer, err error) {
	msg := errors.UserMessage(err)
	if code := errors.GetCode(err); code != "" {
		msg += " " + StyleDim.Render("["+string(code)+"]")
	}
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+msg)
}
