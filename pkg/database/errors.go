package database

import "errors"

// ErrNotReady wraps the failed startup ping. The lifecycle coordinator returns it
// from Start, so the server and the forecourt CLI exit before serving
// identifications against an unreachable inventory.
var ErrNotReady = errors.New("database not ready")
