package middleware

import (
	"context"
	"time"

	"frontdesk/internal/app/commands"
	"frontdesk/internal/app/queries"
)

// Recorder receives timing observations for dispatched messages. The
// Prometheus-backed implementation lives in infra/obs.
type Recorder interface {
	ObserveCommand(key string, duration time.Duration, err error)
	ObserveQuery(key string, duration time.Duration, err error)
}

func Metrics(rec Recorder) CommandMiddleware {
	if rec == nil {
		panic("middleware: metrics recorder required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			start := time.Now()
			res, err := nextFn(ctx, cmd)
			rec.ObserveCommand(cmd.Key(), time.Since(start), err)
			return res, err
		})
	}
}

func QueryMetrics(rec Recorder) QueryMiddleware {
	if rec == nil {
		panic("middleware: metrics recorder required")
	}
	return func(next queries.Bus) queries.Bus {
		nextFn := wrapQuery(next)
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			start := time.Now()
			res, err := nextFn(ctx, q)
			rec.ObserveQuery(q.Key(), time.Since(start), err)
			return res, err
		})
	}
}
