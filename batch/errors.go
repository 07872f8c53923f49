package batch

import "errors"

// ErrSourceNotFound is the one fatal run error: the source root is missing,
// not a directory, or unreadable. It is reported before any per-file work
// begins; no observer events are emitted for a run that fails this way.
var ErrSourceNotFound = errors.New("source directory not found")

// ErrInvalidPath reports that a file handed to MapPath does not lie under
// the source root (or sits on a different volume). During a run this is a
// per-file failure, not a fatal one.
var ErrInvalidPath = errors.New("path not under source root")
