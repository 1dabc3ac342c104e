package pipeline

import (
	"context"
	"fmt"

	errs "github.com/matzehuels/reflow/pkg/errors"
	"github.com/matzehuels/reflow/pkg/render"
	"github.com/matzehuels/reflow/pkg/render/tree"
	"github.com/matzehuels/reflow/pkg/snapshot"
)

// Render draws f for one artifact. The json format returns the snapshot
// itself.
func Render(ctx context.Context, f snapshot.Frame, a Artifact, opts Options) ([]byte, error) {
	if a.Format == FormatJSON {
		if a.View != ViewFrame {
			return nil, errs.New(errs.ErrCodeUnsupported, "the %s view has no json form", a.View)
		}
		return snapshot.Marshal(f)
	}

	switch a.View {
	case ViewFrame:
		return render.Convert(render.RenderSVG(f, opts.SVGOptions()...), a.Format, opts.Scale)
	case ViewTree:
		return renderTree(ctx, f, a.Format, opts)
	}
	return nil, ValidateView(a.View)
}

func renderTree(ctx context.Context, f snapshot.Frame, format string, opts Options) ([]byte, error) {
	dot := tree.ToDOT(f, tree.Options{Detailed: opts.Detailed})
	switch format {
	case FormatSVG:
		return tree.RenderSVG(ctx, dot)
	case FormatPDF:
		return tree.RenderPDF(ctx, dot)
	case FormatPNG:
		return tree.RenderPNG(ctx, dot, opts.Scale)
	}
	return nil, ValidateFormat(format)
}

// RenderAll draws f for every artifact the options ask for.
func RenderAll(ctx context.Context, f snapshot.Frame, opts Options) (map[Artifact][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	out := make(map[Artifact][]byte)
	for _, a := range opts.Artifacts() {
		data, err := Render(ctx, f, a, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", a, err)
		}
		out[a] = data
	}
	return out, nil
}
