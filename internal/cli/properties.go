package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/reflow/pkg/layout"
)

// propertiesCommand creates the properties command listing the named
// container properties.
func (c *CLI) propertiesCommand() *cobra.Command {
	var (
		container string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "properties [scene]",
		Short: "List container properties and their values",
		Long: `List container properties and their values.

Without a scene the default value of every property is shown. With a scene
the values of one container are shown (the first one unless --container is
given). Properties marked "moves items" change targets when set; the others
only affect animation and drag behaviour.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeFiles(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := layout.DefaultConfig()
			title := "defaults"
			if len(args) == 1 {
				spec, err := c.loadSpec(args[0])
				if err != nil {
					return err
				}
				idx := 0
				if container != "" {
					idx = -1
					for i, sc := range spec.Containers {
						if sc.Name == container {
							idx = i
						}
					}
					if idx < 0 {
						return fmt.Errorf("container %q not found in %s", container, args[0])
					}
				}
				if cfg, err = spec.Containers[idx].Layout.Config(); err != nil {
					return err
				}
				title = spec.Containers[idx].Name
			}

			if asJSON {
				return writePropertiesJSON(cfg)
			}
			fmt.Println(StyleTitle.Render("Properties") + " " + StyleDim.Render(title))
			fmt.Println(propertiesTable(cfg).Render())
			return nil
		},
	}

	cmd.Flags().StringVarP(&container, "container", "c", "", "container to show (default: first)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}

// propertyValue pairs a property description with its current value.
type propertyValue struct {
	layout.PropertyInfo
	Value string `json:"value"`
}

func propertyValues(cfg layout.Config) []propertyValue {
	infos := layout.Properties()
	out := make([]propertyValue, 0, len(infos))
	for _, p := range infos {
		v, err := cfg.Get(p.Name)
		if err != nil {
			continue
		}
		out = append(out, propertyValue{PropertyInfo: p, Value: fmt.Sprint(v)})
	}
	return out
}

func writePropertiesJSON(cfg layout.Config) error {
	data, err := json.MarshalIndent(propertyValues(cfg), "", "  ")
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(append(data, '\n'))
	return err
}

func propertiesTable(cfg layout.Config) *table.Table {
	values := propertyValues(cfg)
	rows := make([][]string, len(values))
	for i, p := range values {
		moves := ""
		if p.Layout {
			moves = "moves items"
		}
		rows[i] = []string{p.Name, string(p.Type), p.Value, p.Hint, moves}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Property", "Type", "Value", "Accepts", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 2:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorDim)
		})
}
