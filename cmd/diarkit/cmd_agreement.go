package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/diarkit/validation"
)

func newAgreementCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "agreement",
		Short: "Measure how closely diarization services agree with each other",
		Long: "Evaluates every ordered pair of services, one as reference and the other as\n" +
			"hypothesis, and reports the agreement matrix with per-service means.",
		Example: "  diarkit agreement --hypothesis svc_a=a.json --hypothesis svc_b=b.json --workers 8",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			specs, _ := cmd.Flags().GetStringArray("hypothesis")
			if appErr := validation.New().
				MinCount("hypothesis", len(specs), 2).
				Validate(); appErr != nil {
				return appErr
			}

			return execute(cmd, agreementOverrides, func(ctx context.Context, rt *runtime) (any, error) {
				hyps, err := readNamed(specs, cmd.InOrStdin())
				if err != nil {
					return nil, err
				}
				return rt.engine.Agreement(ctx, hyps)
			})
		},
	}
	c.Flags().StringArrayP("hypothesis", "H", nil, "service output as name=path, at least two")
	c.Flags().Int("workers", 0, "concurrent pair evaluations")
	c.Flags().String("strategy", "", "speaker alignment: greedy or hungarian")
	return c
}

func agreementOverrides(cmd *cobra.Command, cfg *cliConfig) {
	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Engine.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("strategy") {
		evaluateOverrides(cmd, cfg)
	}
}
