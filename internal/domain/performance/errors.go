package performance

import "errors"

var ErrMalformedTask = errors.New("malformed task record")
