package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/padnav/errors"
	"github.com/grovetools/padnav/tui/theme"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler writing to stderr
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle prints a message for err based on its code and returns err.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	out := h.Out
	if out == nil {
		out = os.Stderr
	}
	details := map[string]interface{}{}
	navErr, isNav := errors.AsNavError(err)
	if isNav && navErr.Details != nil {
		details = navErr.Details
	}
	prefix := theme.DefaultTheme.Error.Render(theme.IconError)

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(out, "%s Configuration not found. Create padnav.yml or pass --config.\n", prefix)

	case errors.ErrCodeConfigInvalid, errors.ErrCodeConfigValidation:
		fmt.Fprintf(out, "%s Invalid configuration: %v\n", prefix, err)
		fmt.Fprintf(out, "Run 'padnav schema' to see the accepted settings.\n")

	case errors.ErrCodeLayoutNotFound:
		fmt.Fprintf(out, "%s Layout file '%v' not found\n", prefix, details["path"])

	case errors.ErrCodeLayoutInvalid:
		fmt.Fprintf(out, "%s Layout is invalid: %v\n", prefix, err)

	case errors.ErrCodeDeviceUnavailable:
		fmt.Fprintf(out, "%s Joystick devices are not available in %v\n", prefix, details["dir"])
		fmt.Fprintf(out, "Disable them with devices.joystick: false or use a remote pad.\n")

	case errors.ErrCodeDeviceNotFound:
		fmt.Fprintf(out, "%s Device '%v' not found. Run 'padnav devices' to list them.\n", prefix, details["device"])

	case errors.ErrCodeServerFailed:
		fmt.Fprintf(out, "%s Server on %v failed. Is the address already in use?\n", prefix, details["addr"])

	default:
		fmt.Fprintf(out, "%s Error: %v\n", prefix, err)
	}

	if h.Verbose && isNav {
		fmt.Fprintf(out, "\nError details:\n%s\n", navErr.ToJSON())
	}
	return err
}
