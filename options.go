package omegaedit

import "github.com/omegaedit/core/internal/config"

// Option configures a Session at construction time.
type Option func(*sessionOptions)

type subscription struct {
	mask EventKind
	cb   func(kind EventKind, evt any)
}

type sessionOptions struct {
	path string
	cfg  config.Config
	subs []subscription
}

// WithBackingFile opens path read-only as the session's backing file.
// Without this option the session starts as an empty, zero-length
// document (SPEC_FULL.md §3's "New" case).
func WithBackingFile(path string) Option {
	return func(o *sessionOptions) { o.path = path }
}

// WithConfig replaces the session's layered configuration (checkpoint
// directory, undo/viewport/search caps, chunk size, log level) with cfg
// as a whole. The session starts from config.Default(), and WithConfig
// overwrites every field, so a field left at its zero value in cfg is
// zero in the session.
func WithConfig(cfg config.Config) Option {
	return func(o *sessionOptions) { o.cfg = cfg }
}

// WithCheckpointDir overrides just the directory checkpoint spill
// files are written under.
func WithCheckpointDir(dir string) Option {
	return func(o *sessionOptions) { o.cfg.CheckpointDir = dir }
}

// WithSubscriber registers cb for delivery of any session event
// matching mask, from the moment the session is constructed (so it
// observes the initial EventCreate dispatch). Use Viewport.Subscribe
// for viewport-scoped events instead.
func WithSubscriber(mask EventKind, cb func(kind EventKind, evt any)) Option {
	return func(o *sessionOptions) {
		o.subs = append(o.subs, subscription{mask: mask, cb: cb})
	}
}
