package consumer

import (
	"context"
	"errors"
)

// Chain runs handlers in order and joins their errors. Every handler sees every message.
type Chain []Handler

// Handle implements Handler.
func (c Chain) Handle(ctx context.Context, msg Message) error {
	var errs error
	for _, h := range c {
		if err := h.Handle(ctx, msg); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}
