package pipeline

import (
	"github.com/matzehuels/slidemotion/pkg/animation"
	"github.com/matzehuels/slidemotion/pkg/errors"
	"github.com/matzehuels/slidemotion/pkg/layout"
	"github.com/matzehuels/slidemotion/pkg/render"
)

// RenderFrame renders one evaluated frame in the requested format.
func RenderFrame(res layout.Result, ev *animation.Evaluator, frame int, opts Options) ([]byte, error) {
	f := ev.Frame(frame)
	switch opts.Format {
	case FormatSVG:
		svgOpts := []render.SVGOption{render.WithFrame(f)}
		if opts.Title {
			svgOpts = append(svgOpts, render.WithTitle())
		}
		if opts.Transparent {
			svgOpts = append(svgOpts, render.WithTransparentBackground())
		}
		return render.RenderSVG(res, svgOpts...), nil
	case FormatJSON:
		data, err := render.RenderJSON(res, &f)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render frame %d", frame)
		}
		return data, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported frame format: %s", opts.Format)
	}
}
