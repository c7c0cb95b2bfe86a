package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "momentcut <transcript.json>",
		Short:        "Rank the most clip-worthy moments in a transcript",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	// Visible flags
	root.Flags().String("out", "out", "Output directory")
	root.Flags().Int("clips", 0, "Number of moments to keep")
	root.Flags().String("audio", "", "Audio file for energy-driven discovery")
	root.Flags().String("scorer", "", "Scoring backend: local or openrouter")
	root.Flags().Bool("verbose", false, "Debug logging")

	// Hidden tuning flags (internal)
	root.Flags().Float64("min", 0, "Min moment duration seconds")
	root.Flags().Float64("max", 0, "Max moment duration seconds")
	root.Flags().Float64("floor", 0, "Minimum composite score to keep")
	root.Flags().String("lexicon", "", "Keyword lexicon YAML override")
	_ = root.Flags().MarkHidden("min")
	_ = root.Flags().MarkHidden("max")
	_ = root.Flags().MarkHidden("floor")
	_ = root.Flags().MarkHidden("lexicon")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
