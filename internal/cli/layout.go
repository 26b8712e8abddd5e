package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/parsets/pkg/parsets"
	"github.com/matzehuels/parsets/pkg/pipeline"
	"github.com/matzehuels/parsets/pkg/render/sink"
)

// modelFlags are the flags of commands that only need the model.
type modelFlags struct {
	src     sourceFlags
	lay     optionFlags
	noCache bool
	refresh bool
}

func (f *modelFlags) register(cmd *cobra.Command) {
	f.src.register(cmd)
	f.lay.register(cmd)
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached records")
}

// buildModel loads the records and builds the model for cmd.
func (c *CLI) buildModel(ctx context.Context, cmd *cobra.Command, args []string, f *modelFlags) (*parsets.Model, pipeline.Options, error) {
	source, err := f.src.source(args)
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	opts, err := f.lay.options(cmd)
	if err != nil {
		return nil, opts, err
	}
	source = f.src.withFields(source, opts.Dimensions)

	runner, err := c.newRunner(f.noCache)
	if err != nil {
		return nil, opts, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	data, err := c.loadData(ctx, runner, source, f.refresh)
	if err != nil {
		return nil, opts, err
	}
	opts.Logger = c.Logger
	if err := opts.ValidateForBuild(); err != nil {
		return nil, opts, err
	}
	m, err := runner.Build(ctx, data, opts)
	if err != nil {
		return nil, opts, err
	}
	return m, opts, nil
}

// layoutCommand creates the layout command, which prints the computed axes
// and segments.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags    modelFlags
		asJSON   bool
		maxDepth int
	)

	cmd := &cobra.Command{
		Use:   "layout [records.csv|records.json]",
		Short: "Print the axes, segments and ratios of a parallel-sets model",
		Long: `Print the axes, segments and ratios of a parallel-sets model.

Each axis is shown as a table with the segment count, its raw and adjusted
share of the records, and its slot on the axis. Merged segments are marked.
With --json the full model document (axes, paths, tree, scene) is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, opts, err := c.buildModel(ctx, cmd, args, &flags)
			if err != nil {
				return err
			}

			if asJSON {
				opts.SetLayoutDefaults()
				data, err := sink.RenderJSON(m,
					sink.WithJSONScene(pipeline.BuildScene(m, opts)),
					sink.WithJSONMaxDepth(maxDepth))
				if err != nil {
					return err
				}
				_, err = c.Out.Write(data)
				return err
			}

			fmt.Fprint(c.Out, formatModel(m))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the model document as JSON")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "limit the tree depth in JSON output (0 = all)")

	return cmd
}

// formatModel renders every axis table followed by a summary line.
func formatModel(m *parsets.Model) string {
	var b strings.Builder
	for _, a := range m.OrderedAxes() {
		b.WriteString(StyleTitle.Render(a.Label()))
		if a.Label() != a.Dimension {
			b.WriteString(StyleDim.Render(" (" + a.Dimension + ")"))
		}
		b.WriteString("\n")
		b.WriteString(axisTable(a))
		b.WriteString("\n\n")
	}
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d records · %d paths · %d tree nodes · %d leaves",
		m.Total, m.Index.Len(), m.Tree.Len(), len(m.Tree.Leaves()))))
	b.WriteString("\n")
	return b.String()
}

// exploreCommand creates the explore command, an interactive browser over
// the partition tree.
func (c *CLI) exploreCommand() *cobra.Command {
	var flags modelFlags

	cmd := &cobra.Command{
		Use:   "explore [records.csv|records.json]",
		Short: "Browse the partition tree interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, _, err := c.buildModel(ctx, cmd, args, &flags)
			if err != nil {
				return err
			}
			p := tea.NewProgram(NewTreeModel(m), tea.WithContext(ctx), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}
