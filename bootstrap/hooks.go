package bootstrap

import (
	"context"
	"fmt"
)

// Hook is a lifecycle callback. Commands register hooks to set up and tear
// down telemetry exporters without bootstrap knowing about them.
type Hook func(ctx context.Context) error

// OnStart registers hooks that run before the task.
func (a *App[C]) OnStart(hooks ...Hook) {
	a.onStart = append(a.onStart, hooks...)
}

// OnStop registers hooks that run after the task, in reverse registration
// order, within the graceful timeout. They run even when the task failed.
func (a *App[C]) OnStop(hooks ...Hook) {
	a.onStop = append(a.onStop, hooks...)
}

// runHooks executes hooks sequentially, returning the first error.
func runHooks(ctx context.Context, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("hook %d failed: %w", i, err)
		}
	}
	return nil
}

func reversed(hooks []Hook) []Hook {
	out := make([]Hook, len(hooks))
	for i, h := range hooks {
		out[len(hooks)-1-i] = h
	}
	return out
}
