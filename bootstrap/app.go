package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/diarkit/logger"
)

// DefaultGracefulTimeout bounds shutdown hooks when no option overrides it.
const DefaultGracefulTimeout = 10 * time.Second

// App runs one finite task with a uniform lifecycle: validated config,
// initialized logger, start hooks, signal-aware cancellation and stop hooks.
// The type parameter C is the config type.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.OnStart(initTelemetry)
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    return evaluate(ctx, app.Cfg)
//	})
type App[C Config] struct {
	Name        string
	Version     string
	Environment string
	Cfg         C
	Logger      *logger.Logger

	gracefulTimeout time.Duration
	signals         []os.Signal

	onStart []Hook
	onStop  []Hook
}

// NewApp applies defaults to cfg, validates it and initializes the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base := cfg.GetServiceConfig()
	o := resolveOptions(opts)

	app := &App[C]{
		Name:            base.Name,
		Version:         o.version,
		Environment:     base.Environment,
		Cfg:             cfg,
		gracefulTimeout: DefaultGracefulTimeout,
		signals:         []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}
	if app.Version == "" {
		app.Version = "dev"
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.signals != nil {
		app.signals = o.signals
	}

	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(&base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}
	return app, nil
}

// RunTask runs start hooks, then task, then stop hooks. The task context is
// canceled on the configured signals. A task error takes precedence over a
// shutdown error.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	start := time.Now()
	a.Logger.Debug("starting", map[string]interface{}{
		"name":        a.Name,
		"version":     a.Version,
		"environment": a.Environment,
	})

	if err := runHooks(ctx, a.onStart); err != nil {
		// hooks that did start still need their teardown
		_ = a.stop()
		return fmt.Errorf("start hook failed: %w", err)
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if len(a.signals) > 0 {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, a.signals...)
		defer signal.Stop(sigCh)

		go func() {
			select {
			case sig := <-sigCh:
				a.Logger.Warn("received signal, canceling task", map[string]interface{}{
					"signal": sig.String(),
				})
				cancel()
			case <-taskCtx.Done():
			}
		}()
	}

	taskErr := task(taskCtx)
	stopErr := a.stop()

	a.Logger.Debug("finished", logger.DurationFields("task", time.Since(start)))
	if taskErr != nil {
		return taskErr
	}
	return stopErr
}

func (a *App[C]) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	if err := runHooks(ctx, reversed(a.onStop)); err != nil {
		a.Logger.Error("stop hook error", map[string]interface{}{
			logger.FieldError: err.Error(),
		})
		return err
	}
	return nil
}
