package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	errs "github.com/matzehuels/railtrack/pkg/errors"
	"github.com/matzehuels/railtrack/pkg/graph"
	"github.com/matzehuels/railtrack/pkg/observability"
	"github.com/matzehuels/railtrack/pkg/render/nodelink"
	"github.com/matzehuels/railtrack/pkg/render/terminal"
)

// RenderOptions configures output generation.
type RenderOptions struct {
	Format string

	// Terminal configures the text format. Decorations default to the refs
	// of the result.
	Terminal terminal.Options
	Styles   terminal.Styles

	// Detailed adds author and subject to DOT and SVG node labels.
	Detailed bool
}

// Render generates the artifact for one format.
func Render(ctx context.Context, res *Result, opts RenderOptions) ([]byte, error) {
	if res == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "no layout to render")
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Format)
	start := time.Now()

	data, err := render(res, opts)
	hooks.OnRenderComplete(ctx, opts.Format, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", opts.Format, err)
	}
	return data, nil
}

func render(res *Result, opts RenderOptions) ([]byte, error) {
	decorations := res.Decorations()

	switch opts.Format {
	case FormatText:
		topts := opts.Terminal
		if topts.Decorations == nil {
			topts.Decorations = decorations
		}
		var b bytes.Buffer
		if err := terminal.Render(&b, res.Graph, res.Layout, topts, opts.Styles); err != nil {
			return nil, err
		}
		return b.Bytes(), nil
	case FormatJSON:
		return graph.MarshalLayout(res.Layout)
	case FormatDOT, FormatSVG:
		dot := nodelink.ToDOT(res.Graph, res.Layout, nodelink.Options{
			Detailed:    opts.Detailed,
			Decorations: decorations,
		})
		if opts.Format == FormatDOT {
			return []byte(dot), nil
		}
		return nodelink.RenderSVG(dot)
	}
	return nil, errs.New(errs.ErrCodeUnsupported, "unsupported format: %s", opts.Format)
}
