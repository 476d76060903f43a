package appcast

import "errors"

// ErrInvalidTimestamp is returned when a release timestamp is not ISO-8601.
var ErrInvalidTimestamp = errors.New("invalid release timestamp")
