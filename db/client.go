package db

import "github.com/hashicorp/go-hclog"

type Client[T any] interface {
	Init() error
	Close() error
	DBHandle() T // native handle
}

// CloseClient closes c and logs the outcome; a nil client is logged and skipped.
func CloseClient[T any](logger hclog.Logger, name string, c Client[T]) error {
	if c == nil {
		logger.Info("nothing to close", "client", name)
		return nil
	}
	if err := c.Close(); err != nil {
		logger.Warn("failed to close", "client", name, "error", err)
		return err
	}
	logger.Info("closed", "client", name)
	return nil
}
