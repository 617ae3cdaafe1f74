package cli

import "github.com/spf13/cobra"

const (
	defaultWidth   = 120.0 // frame width in mm
	defaultPadding = 4.0   // margin around the frame in mm
	defaultDPMM    = 8.0   // PNG resolution, about 203 dpi
)

func bindDocFlags(cmd *cobra.Command, opts *docOpts) {
	f := cmd.Flags()
	f.StringVar(&opts.themePath, "theme", "", "TOML theme file")
	f.StringVar(&opts.dataPath, "data", "", "JSON data file for ${path} interpolation")
	f.Float64Var(&opts.width, "width", defaultWidth, "frame width in mm (0 disables wrapping)")
	f.StringVar(&opts.lineHeight, "line-height", "", `line height, e.g. "1.4x" or "6mm"`)
	f.StringVar(&opts.align, "align", "left", "line alignment: left, center or right")
	f.Float64Var(&opts.padding, "padding", defaultPadding, "margin around the frame in mm")
	f.BoolVar(&opts.stencil, "stencil", false, "fill math images with the body colour")
	f.StringVar(&opts.debugPath, "debug", "", "write layout debug JSON to this path")
}
