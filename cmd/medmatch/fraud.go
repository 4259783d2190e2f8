package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/medmatch/medmatch/pkg/donation"
	"github.com/medmatch/medmatch/pkg/scoring"
	"github.com/medmatch/medmatch/pkg/surface"
)

func newFraudCmd() *cobra.Command {
	var opts fraudOpts

	cmd := &cobra.Command{
		Use:   "fraud",
		Short: "Run only the fraud checks over a set of donations",
		Long: `Reads a match request and prints the fraud score and issues of every
donation in input order. The NGO profile is not used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFraud(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "Path to the match request JSON, or - for stdin (required)")
	cmd.Flags().StringVar(&opts.outputFmt, "output", "text", "Output format: text or json")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to config file (default: discover .medmatch/config.yaml)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

type fraudOpts struct {
	input      string
	outputFmt  string
	configPath string
}

func runFraud(w io.Writer, opts fraudOpts) error {
	if opts.outputFmt != "text" && opts.outputFmt != "json" {
		return fmt.Errorf("unknown output format %q (want text or json)", opts.outputFmt)
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	req, err := donation.LoadMatchRequest(opts.input)
	if err != nil {
		return err
	}

	scorer := scoring.NewFraudScorer(scoring.DefaultFraudChecks(cfg.Scoring.Weights)...)
	entries := make([]surface.FraudEntry, 0, len(req.Donations))
	for _, d := range req.Donations {
		entries = append(entries, surface.FraudEntry{
			ID:           d.ID,
			MedicineName: d.MedicineName.Or(scoring.DefaultMedicineName),
			Assessment:   scorer.Assess(d),
		})
	}

	renderer := &surface.FraudRenderer{JSON: opts.outputFmt == "json"}
	return renderer.Render(w, entries)
}
