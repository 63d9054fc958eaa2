package state

import (
	"fmt"

	"github.com/okian/befa-admin/pkg/logger"
)

// StalePolicy decides what happens when an older Execute resolves after a newer one started.
type StalePolicy int

const (
	// DiscardStale applies only the newest request's outcome.
	DiscardStale StalePolicy = iota
	// LastResolvedWins applies every outcome in resolution order.
	LastResolvedWins
)

func (p StalePolicy) String() string {
	if p == LastResolvedWins {
		return "last_resolved_wins"
	}
	return "discard"
}

// ParseStalePolicy maps the configuration value onto a policy.
func ParseStalePolicy(s string) (StalePolicy, error) {
	switch s {
	case "", "discard":
		return DiscardStale, nil
	case "last_resolved_wins":
		return LastResolvedWins, nil
	}
	return DiscardStale, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

type config struct {
	name      string
	immediate bool
	policy    StalePolicy
	logger    logger.Logger
}

func newConfig(opts []Option) config {
	c := config{name: "anonymous", immediate: true, policy: DiscardStale, logger: logger.Nop()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Option configures a Query, Keyed or Mutation.
type Option func(*config)

// WithName labels metrics and logs.
func WithName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.name = name
		}
	}
}

// WithImmediate controls whether a query executes on construction. Default true.
func WithImmediate(on bool) Option {
	return func(c *config) {
		c.immediate = on
	}
}

// WithStalePolicy sets how out-of-order responses are handled.
func WithStalePolicy(p StalePolicy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
