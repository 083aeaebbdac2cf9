package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/diarkit/validation"
)

func newClassifyCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "classify",
		Short: "Label candidate phrases by the sources that corroborate them",
		Long: "Each candidate is checked against the full-mix transcript and every voice\n" +
			"track near its time. Candidates come from a markdown table\n" +
			"(id | speaker | text | start | end) or a JSON array.",
		Example: "  diarkit classify --primary mix.json --voice host=host.json --voice guest=guest.json --candidates merged.md",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			primaryPath, _ := cmd.Flags().GetString("primary")
			voiceSpecs, _ := cmd.Flags().GetStringArray("voice")
			candPath, _ := cmd.Flags().GetString("candidates")
			if appErr := validation.New().
				Required("candidates", candPath).
				Validate(); appErr != nil {
				return appErr
			}

			return execute(cmd, toleranceOverrides, func(ctx context.Context, rt *runtime) (any, error) {
				stdin := cmd.InOrStdin()
				candidates, err := readCandidates(candPath, stdin, rt.log)
				if err != nil {
					return nil, err
				}
				voice, err := readNamed(voiceSpecs, stdin)
				if err != nil {
					return nil, err
				}
				primary, err := optionalSegments(primaryPath, stdin)
				if err != nil {
					return nil, err
				}
				return rt.engine.Classify(ctx, primary, voice, candidates)
			})
		},
	}
	c.Flags().StringP("primary", "p", "", "full-mix transcript segments file")
	c.Flags().StringArrayP("voice", "v", nil, "voice track as name=path, repeatable")
	c.Flags().String("candidates", "", "candidate table (.md) or JSON array (required)")
	c.Flags().Float64("primary-tolerance", 0, "time window in seconds for primary matches, > 0")
	c.Flags().Float64("voice-tolerance", 0, "time window in seconds for voice-track matches, > 0")
	return c
}

func newOverlapsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "overlaps",
		Short: "List voice-track segments spoken over another speaker",
		Long: "Reports each voice-track segment that runs alongside a different speaker\n" +
			"on another track, flagged with whether the full-mix transcript carries it.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			primaryPath, _ := cmd.Flags().GetString("primary")
			voiceSpecs, _ := cmd.Flags().GetStringArray("voice")
			if appErr := validation.New().
				MinCount("voice", len(voiceSpecs), 2).
				Validate(); appErr != nil {
				return appErr
			}

			return execute(cmd, toleranceOverrides, func(ctx context.Context, rt *runtime) (any, error) {
				stdin := cmd.InOrStdin()
				voice, err := readNamed(voiceSpecs, stdin)
				if err != nil {
					return nil, err
				}
				primary, err := optionalSegments(primaryPath, stdin)
				if err != nil {
					return nil, err
				}
				return rt.engine.OverlapCandidates(ctx, primary, voice)
			})
		},
	}
	c.Flags().StringP("primary", "p", "", "full-mix transcript segments file")
	c.Flags().StringArrayP("voice", "v", nil, "voice track as name=path, at least two")
	c.Flags().Float64("primary-tolerance", 0, "time window in seconds for primary matches, > 0")
	c.Flags().Float64("overlap-tolerance", 0, "time window in seconds for simultaneous speech, > 0")
	return c
}

// toleranceOverrides serves classify and overlaps; flags a command lacks
// never report Changed.
func toleranceOverrides(cmd *cobra.Command, cfg *cliConfig) {
	flags := cmd.Flags()
	if flags.Changed("primary-tolerance") {
		cfg.Engine.Classify.PrimaryTolerance, _ = flags.GetFloat64("primary-tolerance")
	}
	if flags.Changed("voice-tolerance") {
		cfg.Engine.Classify.VoiceTolerance, _ = flags.GetFloat64("voice-tolerance")
	}
	if flags.Changed("overlap-tolerance") {
		cfg.Engine.Classify.OverlapTolerance, _ = flags.GetFloat64("overlap-tolerance")
	}
}
