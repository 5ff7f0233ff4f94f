package domain

import "errors"

// User-facing pipeline halts. These are recoverable input conditions, not
// program faults: the current request ends and a new attempt is required.
var (
	// ErrAddressNotFound means the geocoder produced no usable coordinate
	// for the supplied address.
	ErrAddressNotFound = errors.New("address could not be geocoded")

	// ErrParcelNotFound means no parcel polygon contains the geocoded point.
	ErrParcelNotFound = errors.New("no property found at the given coordinates")
)
