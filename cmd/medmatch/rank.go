package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/medmatch/medmatch/pkg/donation"
	"github.com/medmatch/medmatch/pkg/scoring"
	"github.com/medmatch/medmatch/pkg/surface"
)

func newRankCmd() *cobra.Command {
	var opts rankOpts

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Score and rank donations against an NGO request",
		Long: `Reads a match request ({"ngoProfile": ..., "donations": [...]}), runs the
fraud and match scorers over every donation and prints the ranked list.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRank(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "Path to the match request JSON, or - for stdin (required)")
	cmd.Flags().StringVar(&opts.outputFmt, "output", "text", "Output format: text, json or markdown")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to config file (default: discover .medmatch/config.yaml)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Donations scored concurrently (default: scoring.workers from config)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

type rankOpts struct {
	input      string
	outputFmt  string
	configPath string
	workers    int
}

func runRank(w io.Writer, opts rankOpts) error {
	renderer, err := rendererFor(opts.outputFmt)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	req, err := donation.LoadMatchRequest(opts.input)
	if err != nil {
		return err
	}

	engine := scoring.NewEngineFromWeights(cfg.Scoring.Weights,
		scoring.WithWorkers(firstPositive(opts.workers, cfg.Scoring.Workers, 1)))

	fmt.Fprintf(os.Stderr, "Ranking %d donations...\n", len(req.Donations))
	results := engine.Rank(req.Profile, req.Donations)

	report := surface.NewReport(uuid.NewString(), req.Profile, results)
	if err := renderer.Render(w, report); err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	return nil
}

func rendererFor(format string) (surface.Renderer, error) {
	switch format {
	case "text", "":
		return &surface.TerminalRenderer{}, nil
	case "json":
		return &surface.JSONRenderer{}, nil
	case "markdown", "md":
		return &surface.MarkdownRenderer{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q (want text, json or markdown)", format)
}
