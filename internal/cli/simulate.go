package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/reflow/pkg/config"
	"github.com/matzehuels/reflow/pkg/pipeline"
	"github.com/matzehuels/reflow/pkg/render"
	"github.com/matzehuels/reflow/pkg/scene"
	"github.com/matzehuels/reflow/pkg/snapshot"
)

// simulateOpts holds the command-line flags for the simulate command.
type simulateOpts struct {
	output  string // final snapshot (.json or .bson)
	svg     string // final frame as SVG
	trace   string // every captured frame (.json or .bson)
	every   int    // capture every n-th tick into the trace
	targets bool   // outline targets in the SVG
}

// simulateCommand creates the simulate command for replaying pointer scripts.
func (c *CLI) simulateCommand() *cobra.Command {
	opts := simulateOpts{every: 1}

	cmd := &cobra.Command{
		Use:   "simulate [scene] [script.toml]",
		Short: "Replay a pointer script against a scene",
		Long: `Replay a pointer script against a scene.

The scene is settled first, then every event of the script runs in order:
press, move, release, wait, settle and set. Each settle event reports how
many ticks the containers needed to come to rest.

Use -o for the final snapshot, --svg for a drawing of the final frame and
--trace to archive every frame (BSON keeps long traces compact).`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeFiles(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.every < 1 {
				return fmt.Errorf("--every must be at least 1")
			}
			return c.runSimulate(args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the final snapshot (.json or .bson)")
	cmd.Flags().StringVar(&opts.svg, "svg", "", "write the final frame as SVG")
	cmd.Flags().StringVar(&opts.trace, "trace", "", "write every captured frame (.json or .bson)")
	cmd.Flags().IntVar(&opts.every, "every", opts.every, "capture every n-th tick into the trace")
	cmd.Flags().BoolVar(&opts.targets, "targets", false, "outline target positions in the SVG")

	return cmd
}

// runSimulate builds the scene, runs the script and writes the requested
// outputs.
func (c *CLI) runSimulate(scenePath, scriptPath string, opts simulateOpts) error {
	script, err := config.LoadScript(scriptPath)
	if err != nil {
		return err
	}
	spec, host, err := c.loadScene(scenePath, 0)
	if err != nil {
		return err
	}
	defer host.Close()

	var trace *snapshot.Trace
	var observe config.Observer
	if opts.trace != "" {
		trace = &snapshot.Trace{Scene: spec.Name, Every: opts.every}
		trace.Add(pipeline.Capture(spec, host))
		observe = func(s *scene.Scene) {
			if s.Frame()%opts.every == 0 {
				trace.Add(pipeline.Capture(spec, s))
			}
		}
	}

	prog := newProgress(c.Logger)
	start := host.Frame()
	res, err := script.Run(host, observe)
	if err != nil {
		return fmt.Errorf("run script: %w", err)
	}
	prog.done("simulated", "scene", spec.Name, "frames", res.Frames-start)

	printSettles(res)

	frame := pipeline.Capture(spec, host)
	if opts.output != "" {
		if err := snapshot.WriteFile(frame, opts.output); err != nil {
			return fmt.Errorf("write output %s: %w", opts.output, err)
		}
		printFile(opts.output)
	}
	if opts.svg != "" {
		var svgOpts []render.SVGOption
		if opts.targets {
			svgOpts = append(svgOpts, render.WithTargets())
		}
		svgOpts = append(svgOpts, render.WithPointer(host.Pointer()))
		if err := os.WriteFile(opts.svg, render.RenderSVG(frame, svgOpts...), 0644); err != nil {
			return fmt.Errorf("write svg %s: %w", opts.svg, err)
		}
		printFile(opts.svg)
	}
	if trace != nil {
		if err := snapshot.WriteTraceFile(*trace, opts.trace); err != nil {
			return fmt.Errorf("write trace %s: %w", opts.trace, err)
		}
		printFile(opts.trace)
		printDetail("%d frames captured", len(trace.Frames))
	}

	items := 0
	for _, cs := range frame.Containers {
		items += len(cs.Items)
	}
	printStats(len(frame.Containers), items, res.Frames-start, nil)
	if !res.Settled {
		printWarning("Scene had not settled when the script ended")
	}
	return nil
}

// printSettles prints how many ticks each settle event took.
func printSettles(res config.Result) {
	if len(res.Settles) == 0 {
		return
	}
	rows := make([][]string, len(res.Settles))
	for i, n := range res.Settles {
		rows[i] = []string{strconv.Itoa(i + 1), strconv.Itoa(n)}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Settle", "Ticks").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Foreground(colorCyan)
		})
	fmt.Println(t.Render())
}
