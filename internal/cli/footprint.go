package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/wcs-tools-mcp/internal/imaging"
	"github.com/ironsheep/wcs-tools-mcp/internal/wcs"
)

// FootprintOptions holds flags for the footprint command.
type FootprintOptions struct {
	*RootOptions
	HeaderPath string
	Width      int
	Height     int
}

// NewFootprintCommand creates the footprint command.
func NewFootprintCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FootprintOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "footprint",
		Short: "Sky positions of the image corners and centre",
		Long: `Print the RA/Dec of the four corner pixels and the centre of the image,
and the angular width, height and radius of the field. The image size
defaults to NAXIS1 x NAXIS2.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFootprint(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.HeaderPath, "header", "", "header keyword file (YAML or JSON)")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "image width in pixels (default NAXIS1)")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "image height in pixels (default NAXIS2)")
	_ = cmd.MarkFlagRequired("header")

	return cmd
}

func runFootprint(opts *FootprintOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	m, err := loadMapper(opts.HeaderPath)
	if err != nil {
		return formatter.Fail(err)
	}

	width, height := opts.Width, opts.Height
	if width == 0 {
		width, _ = m.Config().AxisLength(1)
	}
	if height == 0 {
		height, _ = m.Config().AxisLength(2)
	}
	if width <= 0 || height <= 0 {
		return formatter.Fail(&argError{Name: "size", Value: fmt.Sprintf("%dx%d", width, height)})
	}
	formatter.VerboseLog("Footprint of a %dx%d image", width, height)

	result, err := imaging.Footprint(m, width, height)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Image: %d x %d\n", result.Width, result.Height)
	fmt.Fprintf(w, "  %-13s %s %s\n", "centre", wcs.FormatRA(result.Center.RA, 2), wcs.FormatDec(result.Center.Dec, 1))
	for _, c := range result.Corners {
		fmt.Fprintf(w, "  %-13s %s %s  (%g, %g)\n", c.Name, wcs.FormatRA(c.World.RA, 2), wcs.FormatDec(c.World.Dec, 1), c.X, c.Y)
	}
	fmt.Fprintf(w, "Size: %.4f x %.4f deg, radius %.4f deg\n", result.WidthDeg, result.HeightDeg, result.RadiusDeg)
	return nil
}
