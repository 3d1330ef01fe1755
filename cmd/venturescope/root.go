package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "venturescope",
		Short: "Company research dossiers for venture diligence",
		Long: `VentureScope fans a single company name out to concurrent research
tasks driven by a reasoning model with web search and scraping tools,
and composes the results into a dashboard dossier.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a config file")

	cmd.AddCommand(newServeCmd(&configPath))
	cmd.AddCommand(newResearchCmd(&configPath))
	return cmd
}
