package services

import "errors"

// ErrBadRequest marks input the caller can fix: missing required fields,
// malformed rules, restriction violations. Storage-level failures surface
// as store.ErrNotFound and store.ErrConflict.
var ErrBadRequest = errors.New("bad request")
