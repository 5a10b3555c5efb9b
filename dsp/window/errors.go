package window

import "errors"

// ErrUnknownWindow is returned by Parse for a name that is not a window type.
var ErrUnknownWindow = errors.New("window: unknown window")
