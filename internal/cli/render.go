package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/reflow/pkg/errors"
	"github.com/matzehuels/reflow/pkg/pipeline"
)

// renderCommand creates the render command for drawing scenes.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output, viewsStr, formatsStr string
		noCache                      bool
	)
	opts := pipeline.Options{Scale: pipeline.DefaultScale, Names: true}

	cmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "Render a settled scene to SVG, PDF or PNG",
		Long: `Render a settled scene to SVG, PDF or PNG.

The frame view draws every container and its items at their current
positions; --targets and --rows overlay the layout the engine is heading
for. The tree view draws the scene hierarchy with Graphviz. The json format
writes the snapshot the drawing was made from.

Scenes may be TOML or JSON (by extension). Layouts and rendered artifacts
are cached by scene content. PDF and PNG output requires rsvg-convert
(librsvg).`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFiles(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Views = splitList(viewsStr)
			opts.Formats = splitList(formatsStr)
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], output, noCache, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single artifact) or base path (multiple)")
	cmd.Flags().StringVarP(&viewsStr, "view", "t", "", "view(s): frame (default), tree (comma-separated)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, pdf, png (comma-separated)")
	cmd.Flags().StringVar(&opts.Style, "style", pipeline.DefaultStyle, "frame style: simple, handdrawn")
	cmd.Flags().IntVar(&opts.Ticks, "ticks", 0, "run this many ticks instead of settling")
	cmd.Flags().BoolVar(&opts.Targets, "targets", false, "outline target positions (frame)")
	cmd.Flags().BoolVar(&opts.Rows, "rows", false, "shade row bands (frame)")
	cmd.Flags().BoolVar(&opts.Names, "names", opts.Names, "label containers (frame)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show slot, row and target (tree)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// basePath derives the base output path. A known format extension on output
// is stripped so that several formats can share it.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// runRender settles the scene and writes every requested artifact.
func (c *CLI) runRender(ctx context.Context, input, output string, noCache bool, opts pipeline.Options) error {
	spec, err := c.loadSpec(input)
	if err != nil {
		return err
	}

	store, err := newCache(noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	runner := pipeline.NewRunner(store, nil, c.Logger)
	defer runner.Close()

	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Rendering %s...", spec.Name))
	spinner.Start()
	result, err := runner.Execute(ctx, spec, opts)
	spinner.Stop()
	if err != nil {
		return err
	}

	artifacts := opts.Artifacts()
	base := basePath(output, input)
	for _, a := range artifacts {
		path := artifactPath(base, a, len(opts.Views) > 1)
		if len(artifacts) == 1 && output != "" {
			path = output
		}
		data := result.Artifacts[a]
		if err := writeOutput(path, data); err != nil {
			return err
		}
		c.Logger.Debug("generated", "path", path, "bytes", len(data))
		printFile(path)
	}

	cached := result.CacheInfo.RenderHits > 0
	if result.Built {
		printStats(len(result.Frame.Containers), countItems(result), result.Frame.Tick, &cached)
	} else {
		printInfo("All artifacts served from cache")
	}
	return nil
}

// artifactPath builds base.format, or base_view.format when several views
// are written.
func artifactPath(base string, a pipeline.Artifact, multiView bool) string {
	if !multiView {
		return fmt.Sprintf("%s.%s", base, a.Format)
	}
	return fmt.Sprintf("%s_%s.%s", base, a.View, a.Format)
}

func countItems(r *pipeline.Result) int {
	n := 0
	for _, c := range r.Frame.Containers {
		n += len(c.Items)
	}
	return n
}

// splitList parses a comma-separated flag, dropping empty and repeated
// entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" && !slices.Contains(out, part) {
			out = append(out, part)
		}
	}
	return out
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(path string, data []byte) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		if err := errs.ValidateOutputPath(path); err != nil {
			return err
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	_, err := w.Write(data)
	return err
}
