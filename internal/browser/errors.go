package browser

import (
	"errors"

	"github.com/rcpanes/rcpanes/internal/validation"
)

// Precondition failures surfaced to the user. No backend call is made.
var (
	ErrNoRemote        = errors.New("choose a remote first")
	ErrPaneUnset       = errors.New("cannot perform an operation when one of the panes does not have a remote chosen")
	ErrEmptyFolderName = validation.ErrEmptyName
)
