package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/venturescope/venturescope"
	"github.com/venturescope/venturescope/config"
	"github.com/venturescope/venturescope/core"
	"github.com/venturescope/venturescope/logging"
)

func newResearchCmd(configPath *string) *cobra.Command {
	var (
		depth string
		focus []string
	)

	cmd := &cobra.Command{
		Use:   "research <company name>",
		Short: "Research a company and print the dossier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := logging.New(os.Stderr, cfg.LogLevel, "text")

			vs := venturescope.New(func(o *venturescope.Options) {
				o.Provider = cfg.Provider
				o.Model = cfg.Model
				o.SerperAPIKey = cfg.SerperAPIKey
				o.ToolTimeout = cfg.ToolTimeout
				o.MaxConcurrentTools = cfg.MaxConcurrentTools
				o.StepBudget = cfg.StepBudget
				o.DetailedStepBudget = cfg.DetailedStepBudget
				o.Logger = logger
			})

			run := vs.Research(cmd.Context(), core.ResearchRequest{
				Subject:    args[0],
				Depth:      core.Depth(depth),
				FocusAreas: focus,
			})

			for ev := range run.Events() {
				switch ev.Type {
				case core.EventRunCompleted:
					out, err := json.MarshalIndent(ev.Data, "", "  ")
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), string(out))
				case core.EventRunFailed:
					return fmt.Errorf("research failed: %s", ev.Message)
				default:
					line := string(ev.Type)
					if ev.Task != "" {
						line += " [" + ev.Task + "]"
					}
					if ev.Message != "" {
						line += " " + ev.Message
					}
					fmt.Fprintln(cmd.ErrOrStderr(), line)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&depth, "depth", string(core.DepthStandard), "research depth: standard or detailed")
	cmd.Flags().StringSliceVar(&focus, "focus", nil, "restrict research to these task keys")
	return cmd
}
