package dashboard

import "errors"

// ErrNotFound marks a scope that cannot be resolved, such as a manager with no
// department. It signals broken data, not an empty dashboard.
var ErrNotFound = errors.New("dashboard scope not found")
