package runs

import "errors"

var errBadLimit = errors.New("limit must be a positive integer")
