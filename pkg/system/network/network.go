package network

import (
	"errors"
)

// ErrUnsupportedPlatform is returned by NewBackend on platforms without a
// native backend.
var ErrUnsupportedPlatform = errors.New("no wifi backend for this platform")
