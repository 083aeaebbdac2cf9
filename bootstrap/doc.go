// Package bootstrap runs the diarkit CLI's one-shot commands with a uniform
// lifecycle.
//
// NewApp applies defaults to a typed config, validates it and initializes
// the logger. RunTask then runs OnStart hooks, the task itself under a
// context that SIGINT/SIGTERM cancel, and OnStop hooks within a graceful
// timeout:
//
//	app, err := bootstrap.NewApp(&cfg, bootstrap.WithVersion(version.Version))
//	if err != nil {
//	    return err
//	}
//	app.OnStart(func(ctx context.Context) error { ... })
//	return app.RunTask(ctx, run)
package bootstrap
