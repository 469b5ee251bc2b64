package workers

import "errors"

// ErrUnknownTask is returned by WakeRegistry.Invoke for a name no task was
// registered under.
var ErrUnknownTask = errors.New("unknown wake task")
