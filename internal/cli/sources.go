package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/wcs-tools-mcp/internal/detection"
	"github.com/ironsheep/wcs-tools-mcp/internal/imaging"
)

// SourcesOptions holds flags for the sources command.
type SourcesOptions struct {
	*RootOptions
	HeaderPath string
	ImagePath  string
	Detect     detection.Options
}

// NewSourcesCommand creates the sources command.
func NewSourcesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SourcesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List bright point sources with their RA/Dec",
		Long: `Detect stars and other compact bright sources in an image and print their
centroids as FITS pixels and sky positions, brightest first.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSources(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.HeaderPath, "header", "", "header keyword file (YAML or JSON)")
	cmd.Flags().StringVar(&opts.ImagePath, "image", "", "sky image (PNG, JPEG, GIF, TGA or WebP)")
	cmd.Flags().Float64Var(&opts.Detect.Threshold, "threshold", 0, "gray levels above background (0 estimates from noise)")
	cmd.Flags().IntVar(&opts.Detect.MinPixels, "min-pixels", 3, "smallest source in pixels")
	cmd.Flags().IntVarP(&opts.Detect.MaxSources, "max", "n", 20, "list at most this many sources (0 for all)")
	cmd.Flags().Float64Var(&opts.Detect.Smooth, "smooth", 0, "Gaussian blur radius applied first")
	_ = cmd.MarkFlagRequired("header")
	_ = cmd.MarkFlagRequired("image")

	return cmd
}

func runSources(opts *SourcesOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	m, err := loadMapper(opts.HeaderPath)
	if err != nil {
		return formatter.Fail(err)
	}
	img, err := imaging.NewImageCache().Load(opts.ImagePath)
	if err != nil {
		return formatter.Fail(fmt.Errorf("%w: %v", errImage, err))
	}
	b := img.Bounds()
	if err := imaging.CheckSize(m, b.Dx(), b.Dy()); err != nil {
		return formatter.Fail(fmt.Errorf("%w: %v", errImage, err))
	}

	result, err := imaging.FindSources(img, m, opts.Detect)
	if err != nil {
		return formatter.Fail(fmt.Errorf("%w: %v", errImage, err))
	}
	formatter.VerboseLog("Background %g, threshold %g", result.Background, result.Threshold)

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "%d source(s)", result.Count)
	if result.Truncated {
		fmt.Fprint(w, ", fainter sources omitted")
	}
	fmt.Fprintln(w)
	for i, s := range result.Sources {
		fmt.Fprintf(w, "%3d  %8.2f %8.2f  %s %s  flux %.0f  peak %d\n",
			i+1, s.X, s.Y, s.RAHMS, s.DecDMS, s.Flux, s.Peak)
	}
	return nil
}
