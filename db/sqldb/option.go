package sqldb

import "github.com/hashicorp/go-hclog"

type Option func(*Conn)

// WithLogger sets the logger for connection lifecycle events.
func WithLogger(logger hclog.Logger) Option {
	return func(c *Conn) {
		if logger != nil {
			c.logger = logger
		}
	}
}
