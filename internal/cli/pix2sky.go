package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/wcs-tools-mcp/internal/wcs"
)

// TransformOptions holds flags shared by the coordinate commands.
type TransformOptions struct {
	*RootOptions
	HeaderPath string
}

// SkyResult is the output of pix2sky.
type SkyResult struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	RA           float64 `json:"ra"`
	Dec          float64 `json:"dec"`
	RANormalized float64 `json:"ra_normalized"`
	RAHMS        string  `json:"ra_hms"`
	DecDMS       string  `json:"dec_dms"`
}

// NewPix2SkyCommand creates the pix2sky command.
func NewPix2SkyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TransformOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "pix2sky <x> <y>",
		Short: "Convert a pixel position to RA/Dec",
		Long: `Convert a FITS pixel position to right ascension and declination in
degrees. RA is printed as computed and also wrapped into [0, 360).`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPix2Sky(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.HeaderPath, "header", "", "header keyword file (YAML or JSON)")
	_ = cmd.MarkFlagRequired("header")

	return cmd
}

func runPix2Sky(opts *TransformOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	x, err := parseFloatArg("x", args[0])
	if err != nil {
		return formatter.Fail(err)
	}
	y, err := parseFloatArg("y", args[1])
	if err != nil {
		return formatter.Fail(err)
	}

	m, err := loadMapper(opts.HeaderPath)
	if err != nil {
		return formatter.Fail(err)
	}
	formatter.VerboseLog("Loaded header %s (LONPOLE %g)", opts.HeaderPath, m.NativePoleLongitude())

	sky, err := m.PixelToCoordinate(x, y)
	if err != nil {
		return formatter.Fail(err)
	}

	result := SkyResult{
		X:            x,
		Y:            y,
		RA:           sky.RA,
		Dec:          sky.Dec,
		RANormalized: sky.Normalized().RA,
		RAHMS:        wcs.FormatRA(sky.RA, 2),
		DecDMS:       wcs.FormatDec(sky.Dec, 1),
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "RA:  %.6f (%s)\n", result.RANormalized, result.RAHMS)
	fmt.Fprintf(w, "Dec: %+.6f (%s)\n", result.Dec, result.DecDMS)
	if result.RA != result.RANormalized {
		formatter.VerboseLog("unwrapped RA %.6f", result.RA)
	}
	return nil
}
