package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// PixelResult is the output of sky2pix.
type PixelResult struct {
	RA  float64 `json:"ra"`
	Dec float64 `json:"dec"`
	X   int     `json:"x"`
	Y   int     `json:"y"`
	// InImage is set when the header carries NAXIS1 and NAXIS2.
	InImage *bool `json:"in_image,omitempty"`
}

// NewSky2PixCommand creates the sky2pix command.
func NewSky2PixCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TransformOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sky2pix <ra> <dec>",
		Short: "Convert RA/Dec to the nearest pixel",
		Long: `Convert right ascension and declination in degrees to the nearest integer
FITS pixel. Positions 90 degrees or more from the tangent point cannot be
projected and exit with status 1.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSky2Pix(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.HeaderPath, "header", "", "header keyword file (YAML or JSON)")
	_ = cmd.MarkFlagRequired("header")

	return cmd
}

func runSky2Pix(opts *TransformOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	ra, err := parseFloatArg("ra", args[0])
	if err != nil {
		return formatter.Fail(err)
	}
	dec, err := parseFloatArg("dec", args[1])
	if err != nil {
		return formatter.Fail(err)
	}

	m, err := loadMapper(opts.HeaderPath)
	if err != nil {
		return formatter.Fail(err)
	}
	formatter.VerboseLog("Loaded header %s (LONPOLE %g)", opts.HeaderPath, m.NativePoleLongitude())

	p, err := m.CoordinateToPixel(ra, dec)
	if err != nil {
		return formatter.Fail(err)
	}

	result := PixelResult{RA: ra, Dec: dec, X: p.X, Y: p.Y}
	w, okW := m.Config().AxisLength(1)
	h, okH := m.Config().AxisLength(2)
	if okW && okH {
		in := p.X >= 1 && p.X <= w && p.Y >= 1 && p.Y <= h
		result.InImage = &in
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "x: %d\n", result.X)
	fmt.Fprintf(formatter.Writer, "y: %d\n", result.Y)
	if result.InImage != nil {
		fmt.Fprintf(formatter.Writer, "in image: %t\n", *result.InImage)
	}
	return nil
}
