package reactor

import "github.com/kestrel-state/reactor/internal"

// Reaction is an always-on observer: it runs once immediately, then reruns
// whenever anything it read last time might have changed.
type Reaction struct {
	core *internal.Reaction
}

// ReactionOption configures a Reaction at construction time.
type ReactionOption func(*reactionConfig)

type reactionConfig struct {
	name    string
	onError func(error)
	owner   *Owner
}

// WithReactionName sets the debug name shown in Dump.
func WithReactionName(name string) ReactionOption {
	return func(c *reactionConfig) { c.name = name }
}

// WithErrorHandler installs a handler invoked when the reaction body
// panics, instead of letting the panic propagate out of the batch that
// triggered the rerun.
func WithErrorHandler(fn func(error)) ReactionOption {
	return func(c *reactionConfig) { c.onError = fn }
}

// WithOwner attaches the reaction to an Owner, so it is disposed when the
// owner is.
func WithOwner(o *Owner) ReactionOption {
	return func(c *reactionConfig) { c.owner = o }
}

// NewReaction creates and immediately runs a reaction.
func NewReaction(fn func(), opts ...ReactionOption) *Reaction {
	cfg := reactionConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	r := &Reaction{core: internal.NewReaction(cfg.name, fn, cfg.onError)}
	if cfg.owner != nil {
		cfg.owner.core.Track(r.core)
	}
	return r
}

// Dispose tears down the reaction: it stops rerunning and releases every
// dependency edge it held. Idempotent.
func (r *Reaction) Dispose() { r.core.Dispose() }

// Disposed reports whether Dispose has already run.
func (r *Reaction) Disposed() bool { return r.core.Disposed() }

// Name returns the debug label.
func (r *Reaction) Name() string { return r.core.Name() }
