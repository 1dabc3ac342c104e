package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/reflow/pkg/layout"
	"github.com/matzehuels/reflow/pkg/pipeline"
	"github.com/matzehuels/reflow/pkg/snapshot"
)

// layoutCommand creates the layout command for settling a scene and
// reporting where every item ended up.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		ticks  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "layout [scene]",
		Short: "Settle a scene and print item slots and positions",
		Long: `Settle a scene and print item slots and positions.

The layout command builds every container of a scene file, ticks the scene
until all items have reached their targets, and prints one table per
container. With --ticks the scene is stopped after that many 16ms ticks
instead, showing items mid-transition.

Use -o to write the snapshot to a file (.json or .bson), or --json to print
it to stdout.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFiles(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(args[0], output, ticks, asJSON)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write snapshot to file (.json or .bson)")
	cmd.Flags().IntVar(&ticks, "ticks", 0, "run this many ticks instead of settling")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the snapshot as JSON")

	return cmd
}

// runLayout loads and settles the scene, then prints or writes the snapshot.
func (c *CLI) runLayout(input, output string, ticks int, asJSON bool) error {
	spec, host, err := c.loadScene(input, ticks)
	if err != nil {
		return err
	}
	defer host.Close()

	frame := pipeline.Capture(spec, host)

	if asJSON {
		data, err := snapshot.Marshal(frame)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}

	items := 0
	for _, cs := range frame.Containers {
		printContainer(cs)
		printNewline()
		items += len(cs.Items)
	}

	if output != "" {
		if err := snapshot.WriteFile(frame, output); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
		printSuccess("Snapshot written")
		printFile(output)
	}
	printStats(len(frame.Containers), items, frame.Tick, nil)
	if !frame.Settled {
		printWarning("Scene has not settled")
	}
	printNextStep("Render it", fmt.Sprintf("%s render %s", appName, input))
	return nil
}

// printContainer prints a container header and a table of its items in slot
// order.
func printContainer(cs snapshot.Container) {
	fmt.Println(StyleTitle.Render(cs.Name) + " " + StyleDim.Render(fmt.Sprintf(
		"%s · %s · %d rows · %.0fx%.0f at %.0f,%.0f",
		cs.Config.Axis, cs.Config.Direction, cs.Rows, cs.Width, cs.Height, cs.X, cs.Y)))
	if cs.Warning != "" {
		printWarning("%s", cs.Warning)
	}

	fmt.Println(layoutTable(cs).Render())
}

func layoutTable(cs snapshot.Container) *table.Table {
	rows := make([][]string, len(cs.Items))
	for _, it := range cs.Items {
		if it.Index < 0 || it.Index >= len(rows) {
			continue
		}
		rows[it.Index] = []string{
			strconv.Itoa(it.Index),
			it.Label,
			strconv.Itoa(it.Row),
			formatVec(layout.Vec2{X: it.X, Y: it.Y}),
			formatVec(it.Target()),
			fmt.Sprintf("%.0fx%.0f", it.Width, it.Height),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Slot", "Label", "Row", "Position", "Target", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < len(rows) && cs.Dragged != "" && rowDragged(cs, row) {
				return lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
			}
			if col == 0 || col == 2 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
}

func rowDragged(cs snapshot.Container, slot int) bool {
	for _, it := range cs.Items {
		if it.Index == slot {
			return it.Dragged
		}
	}
	return false
}

func formatVec(v layout.Vec2) string {
	return fmt.Sprintf("%.1f, %.1f", v.X, v.Y)
}
