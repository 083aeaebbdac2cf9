package main

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kbukum/diarkit/bootstrap"
	"github.com/kbukum/diarkit/config"
	apperrors "github.com/kbukum/diarkit/errors"
	"github.com/kbukum/diarkit/logger"
	"github.com/kbukum/diarkit/observability"
	"github.com/kbukum/diarkit/reconcile"
	"github.com/kbukum/diarkit/validation"
	"github.com/kbukum/diarkit/version"
)

const serviceName = "diarkit"

// Component logger names.
const (
	componentEngine = "reconcile"
	componentCLI    = "cli"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   serviceName,
		Short: "Evaluate and reconcile speaker diarization output",
		Long: "diarkit scores diarization hypotheses against a reference, labels transcript\n" +
			"phrases by the sources that corroborate them, merges duplicated voice-track\n" +
			"segments and measures agreement between diarization services.",
		Version:       version.Get().Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return apperrors.InvalidInput("flags", err.Error()).WithCause(err)
	})

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default: ./diarkit.yaml, ./config/diarkit.yaml, user config dir)")
	flags.String("env-file", "", "env file to load before reading DIARKIT_* variables")
	flags.StringP("output", "o", formatJSON, "output format: json or yaml")
	flags.String("log-level", "", "override logging.level")
	flags.String("run-id", "", "UUID to stamp on the report and log lines instead of a generated one")

	root.AddCommand(newEvaluateCmd())
	root.AddCommand(newClassifyCmd())
	root.AddCommand(newMergeCmd())
	root.AddCommand(newOverlapsCmd())
	root.AddCommand(newAgreementCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// runtime is what a command body gets to work with.
type runtime struct {
	cmd    *cobra.Command
	cfg    *cliConfig
	engine *reconcile.Engine
	log    *logger.Logger
}

// positiveFlags are numeric flags whose config fields treat zero as unset.
// An explicit zero would silently fall back to the default, so it is
// rejected. Flags a command lacks never report Changed.
var positiveFlags = []string{"resolution", "primary-tolerance", "voice-tolerance", "overlap-tolerance", "coverage"}

// checkNumericFlags validates numeric flags the user set explicitly.
func checkNumericFlags(v *validation.Validator, cmd *cobra.Command) *validation.Validator {
	flags := cmd.Flags()
	for _, name := range positiveFlags {
		if !flags.Changed(name) {
			continue
		}
		val, _ := flags.GetFloat64(name)
		v.Custom(val > 0, name, fmt.Sprintf("must be greater than 0 (got %v); omit the flag for the default", val))
	}
	if flags.Changed("collar") {
		collar, _ := flags.GetFloat64("collar")
		v.NonNegative("collar", collar)
	}
	return v
}

// configure is applied to the loaded config before validation, for
// command flags that override config values.
type configure func(cmd *cobra.Command, cfg *cliConfig)

// execute loads config, runs the bootstrap lifecycle around body and
// writes what body returns in the requested format.
func execute(cmd *cobra.Command, override configure, body func(ctx context.Context, rt *runtime) (any, error)) error {
	format, _ := cmd.Flags().GetString("output")
	configFile, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")
	logLevel, _ := cmd.Flags().GetString("log-level")
	runID, _ := cmd.Flags().GetString("run-id")

	v := validation.New().
		Required("output", format).
		OneOf("output", format, outputFormats).
		OneOf("log-level", logLevel, logger.Levels).
		OptionalUUID("run-id", runID)
	if appErr := checkNumericFlags(v, cmd).Validate(); appErr != nil {
		return appErr
	}

	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}
	cfg := &cliConfig{}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if override != nil {
		override(cmd, cfg)
	}

	appOpts := []bootstrap.Option{
		bootstrap.WithVersion(version.Get().Version),
		bootstrap.WithSignals(os.Interrupt, syscall.SIGTERM, syscall.SIGHUP),
	}
	if cfg.ShutdownTimeout > 0 {
		appOpts = append(appOpts, bootstrap.WithGracefulTimeout(cfg.ShutdownTimeout))
	}
	app, err := bootstrap.NewApp(cfg, appOpts...)
	if err != nil {
		return err
	}

	for _, name := range []string{componentEngine, componentCLI} {
		logger.Register(name, app.Logger.WithComponent(name))
	}

	metrics := observability.NoopMetrics()
	if cfg.Telemetry.Enabled() {
		app.OnStart(func(ctx context.Context) error {
			mp, err := observability.InitMeter(ctx, &cfg.Telemetry)
			if err != nil {
				return err
			}
			app.OnStop(mp.Shutdown)

			tp, err := observability.InitTracer(ctx, &cfg.Telemetry)
			if err != nil {
				return err
			}
			app.OnStop(tp.Shutdown)

			metrics, err = observability.NewMetrics(observability.Meter())
			return err
		})
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return app.RunTask(ctx, func(ctx context.Context) error {
		engineOpts := []reconcile.Option{
			reconcile.WithLogger(logger.Get(componentEngine)),
			reconcile.WithMetrics(metrics),
		}
		if runID != "" {
			engineOpts = append(engineOpts, reconcile.WithRunIDs(func() string { return runID }))
		}
		engine, err := reconcile.New(cfg.Engine, engineOpts...)
		if err != nil {
			return err
		}

		result, err := body(ctx, &runtime{
			cmd:    cmd,
			cfg:    cfg,
			engine: engine,
			log:    logger.Get(componentCLI),
		})
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), format, result)
	})
}
