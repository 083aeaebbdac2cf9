package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/diarkit/alignment"
	"github.com/kbukum/diarkit/evaluation"
	"github.com/kbukum/diarkit/validation"
)

func newEvaluateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "evaluate",
		Short: "Score a diarization hypothesis against a reference",
		Long: "Aligns hypothesis speakers to reference speakers and reports DER, JER,\n" +
			"per-speaker metrics, speaker counts and merged error intervals.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			refPath, _ := cmd.Flags().GetString("reference")
			hypPath, _ := cmd.Flags().GetString("hypothesis")
			if appErr := validation.New().
				Required("reference", refPath).
				Required("hypothesis", hypPath).
				Validate(); appErr != nil {
				return appErr
			}

			return execute(cmd, evaluateOverrides, func(ctx context.Context, rt *runtime) (any, error) {
				stdin := cmd.InOrStdin()
				reference, err := readSegments(refPath, stdin)
				if err != nil {
					return nil, err
				}
				hypothesis, err := readSegments(hypPath, stdin)
				if err != nil {
					return nil, err
				}
				return rt.engine.Evaluate(ctx, reference, hypothesis)
			})
		},
	}
	c.Flags().StringP("reference", "r", "", "reference segments file, - for stdin (required)")
	c.Flags().StringP("hypothesis", "H", "", "hypothesis segments file (required)")
	c.Flags().String("strategy", "", "speaker alignment: greedy or hungarian")
	c.Flags().String("method", "", "time measurement: sampled or continuous")
	c.Flags().Float64("collar", 0, "collar in seconds, reported only")
	c.Flags().Float64("resolution", 0, "sampling step in seconds, > 0")
	c.Flags().Bool("parallel", false, "compute metric families concurrently")
	return c
}

func evaluateOverrides(cmd *cobra.Command, cfg *cliConfig) {
	flags := cmd.Flags()
	if flags.Changed("strategy") {
		v, _ := flags.GetString("strategy")
		cfg.Engine.Evaluation.Strategy = alignment.Strategy(v)
	}
	if flags.Changed("method") {
		v, _ := flags.GetString("method")
		cfg.Engine.Evaluation.Method = evaluation.Method(v)
	}
	if flags.Changed("collar") {
		cfg.Engine.Evaluation.Collar, _ = flags.GetFloat64("collar")
	}
	if flags.Changed("resolution") {
		cfg.Engine.Evaluation.Resolution, _ = flags.GetFloat64("resolution")
	}
	if flags.Changed("parallel") {
		cfg.Engine.Evaluation.Parallel, _ = flags.GetBool("parallel")
	}
}
