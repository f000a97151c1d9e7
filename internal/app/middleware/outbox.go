package middleware

import (
	"context"

	"frontdesk/internal/app/commands"
	"frontdesk/internal/app/outbox"
)

// OutboxFlush pushes events staged during the command out through the outbox
// once the handler has succeeded. Failed commands leave the buffer untouched
// so nothing half-done escapes the process.
func OutboxFlush(box outbox.Outbox) CommandMiddleware {
	if box == nil {
		panic("middleware: outbox required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := nextFn(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if err := box.Flush(ctx); err != nil {
				return nil, err
			}
			return res, nil
		})
	}
}
