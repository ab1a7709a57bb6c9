package events

import "errors"

// ErrReentrant is returned by Dispatch when called while another
// Dispatch on the same Dispatcher is already in progress. Session does
// not rely on it: it checks IsDispatching before each mutating verb to
// reject mutation attempted from inside a subscriber callback.
var ErrReentrant = errors.New("events: dispatch already in progress")

// ErrUnknownSubscriber is returned by Unsubscribe for an id that was
// never returned by Subscribe, or was already removed.
var ErrUnknownSubscriber = errors.New("events: unknown subscriber id")
