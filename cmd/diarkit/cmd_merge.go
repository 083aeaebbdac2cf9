package main

import (
	"context"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kbukum/diarkit/timeline"
	"github.com/kbukum/diarkit/validation"
)

func newMergeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "merge",
		Short: "Collapse duplicated voice-track segments into one timeline",
		Long: "Pools the segments of every voice track, collapses same-speaker duplicates\n" +
			"picked up by more than one microphone, and reconciles the result with the\n" +
			"full-mix transcript when one is given.",
		Example: "  diarkit merge --voice track_1=a.json --voice track_2=b.json --primary mix.json -o yaml",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			primaryPath, _ := cmd.Flags().GetString("primary")
			voiceSpecs, _ := cmd.Flags().GetStringArray("voice")
			if appErr := validation.New().
				MinCount("voice", len(voiceSpecs), 1).
				Validate(); appErr != nil {
				return appErr
			}

			return execute(cmd, mergeOverrides, func(ctx context.Context, rt *runtime) (any, error) {
				stdin := cmd.InOrStdin()
				tracks, err := readNamed(voiceSpecs, stdin)
				if err != nil {
					return nil, err
				}
				primary, err := optionalSegments(primaryPath, stdin)
				if err != nil {
					return nil, err
				}
				return rt.engine.MergeOverlaps(ctx, poolTracks(tracks), primary)
			})
		},
	}
	c.Flags().StringArrayP("voice", "v", nil, "voice track as name=path, repeatable")
	c.Flags().StringP("primary", "p", "", "full-mix transcript segments file")
	c.Flags().Float64("coverage", 0, "overlap ratio in (0, 1] above which same-speaker segments may be duplicates")
	c.Flags().Bool("no-primary-fill", false, "do not append primary segments no voice track explains")
	return c
}

// poolTracks flattens tracks in name order, stamping each segment with its
// track name.
func poolTracks(tracks map[string][]timeline.RawSegment) []timeline.RawSegment {
	names := make([]string, 0, len(tracks))
	for name := range tracks {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []timeline.RawSegment
	for _, name := range names {
		out = append(out, stampSource(tracks[name], name)...)
	}
	return out
}

func mergeOverrides(cmd *cobra.Command, cfg *cliConfig) {
	flags := cmd.Flags()
	if flags.Changed("coverage") {
		cfg.Engine.Merge.CoverageThreshold, _ = flags.GetFloat64("coverage")
	}
	if flags.Changed("no-primary-fill") {
		cfg.Engine.Merge.SkipPrimaryFill, _ = flags.GetBool("no-primary-fill")
	}
}
