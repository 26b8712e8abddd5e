package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/parsets/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The logger is attached to each command's context in PersistentPreRunE so
// subcommands can retrieve it with loggerFromContext.
func (c *CLI) RootCommand() *cobra.Command {
	var logFormat string

	root := &cobra.Command{
		Use:   appName,
		Short: "parsets lays out categorical data as parallel sets",
		Long: `parsets partitions tabular categorical data by an ordered list of dimensions
and lays out the result as a parallel-sets chart: one axis per dimension, one
segment per value, and ribbons whose widths follow the number of records they
carry.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.setLogFormat(logFormat); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text, json, logfmt")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
