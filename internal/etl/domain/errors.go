package domain

import "errors"

var (
	// Fatal: the run aborts when either store cannot be reached.
	ErrSourceUnavailable = errors.New("relational source unavailable")
	ErrStoreUnavailable  = errors.New("graph store unavailable")

	// Contained: logged, counted, never propagated out of a run.
	ErrRowMergeFailed   = errors.New("row merge failed")
	ErrMissingEndpoint  = errors.New("relationship endpoint missing")
	ErrUnknownEventType = errors.New("unknown event type")
	ErrBadTimestamp     = errors.New("unparseable timestamp")
)
