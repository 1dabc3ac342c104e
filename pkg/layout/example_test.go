package layout_test

import (
	"fmt"

	"github.com/matzehuels/reflow/pkg/layout"
)

func ExamplePass_Target() {
	cfg := layout.DefaultConfig()
	cfg.Wrap = false
	cfg.Spacing = 10

	sizes := []layout.Size{{W: 50, H: 20}, {W: 50, H: 20}, {W: 50, H: 20}}
	p := layout.NewPass(cfg, layout.Size{W: 400, H: 40}, sizes)
	for i := range sizes {
		fmt.Println(i, p.Target(i).X)
	}
	// Output:
	// 0 0
	// 1 60
	// 2 120
}

func ExamplePass_HoverIndex() {
	cfg := layout.DefaultConfig()
	cfg.Wrap = false
	cfg.Spacing = 10

	sizes := make([]layout.Size, 5)
	for i := range sizes {
		sizes[i] = layout.Size{W: 50, H: 50}
	}
	p := layout.NewPass(cfg, layout.Size{W: 300, H: 50}, sizes)

	// Item 3 is dragged to the middle of the gap after item 1.
	fmt.Println(p.HoverIndex(layout.Vec2{X: 115, Y: 10}, 3))
	// Output: 1
}

func ExamplePass_MaxItemCountForRow() {
	cfg := layout.DefaultConfig()
	cfg.Spacing = 10

	sizes := []layout.Size{{W: 100, H: 20}, {W: 100, H: 20}, {W: 100, H: 20}, {W: 100, H: 20}}
	p := layout.NewPass(cfg, layout.Size{W: 300, H: 100}, sizes)
	fmt.Println(p.RowCount(), p.MaxItemCountForRow(0), p.MaxItemCountForRow(2))
	// Output: 2 2 -1
}
