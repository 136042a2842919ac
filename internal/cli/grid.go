package cli

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/wcs-tools-mcp/internal/imaging"
)

// GridOptions holds flags for the grid command.
type GridOptions struct {
	*RootOptions
	HeaderPath string
	ImagePath  string
	Output     string
	StepDeg    float64
	NoLabels   bool
}

// GridResult is the output of the grid command.
type GridResult struct {
	Output   string  `json:"output"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	MimeType string  `json:"mime_type"`
	StepDeg  float64 `json:"step_deg"`
	RALines  int     `json:"ra_lines"`
	DecLines int     `json:"dec_lines"`
}

// NewGridCommand creates the grid command.
func NewGridCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GridOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Draw an RA/Dec grid on an image",
		Long: `Draw lines of constant RA and Dec on an image and write the result.
Colours, sampling, gamma and the output encoding come from --config and
the WCS_MCP_* environment variables.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGrid(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.HeaderPath, "header", "", "header keyword file (YAML or JSON)")
	cmd.Flags().StringVar(&opts.ImagePath, "image", "", "sky image (PNG, JPEG, GIF, TGA or WebP)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().Float64Var(&opts.StepDeg, "step", 0, "grid spacing in degrees (0 picks one from the field size)")
	cmd.Flags().BoolVar(&opts.NoLabels, "no-labels", false, "do not label grid lines")
	_ = cmd.MarkFlagRequired("header")
	_ = cmd.MarkFlagRequired("image")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runGrid(opts *GridOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	settings := opts.settings()

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
	formatter.VerboseLog("Loaded %s (%dx%d)", opts.ImagePath, b.Dx(), b.Dy())

	step := opts.StepDeg
	if step == 0 {
		step = settings.GridStepDeg
	}
	grid, err := imaging.SkyGridOverlay(img, m, imaging.GridOptions{
		StepDeg:    step,
		Samples:    settings.GridSamples,
		ShowLabels: !opts.NoLabels,
		GridColor:  settings.GridColor,
		LabelColor: settings.LabelColor,
		Gamma:      settings.Gamma,
		Format:     settings.OutputFormat,
	})
	if err != nil {
		return formatter.Fail(fmt.Errorf("%w: %v", errImage, err))
	}

	data, err := base64.StdEncoding.DecodeString(grid.ImageBase64)
	if err != nil {
		return formatter.Fail(fmt.Errorf("%w: %v", errImage, err))
	}
	if err := os.WriteFile(opts.Output, data, 0644); err != nil {
		return formatter.Fail(fmt.Errorf("%w: %v", errWrite, err))
	}

	result := GridResult{
		Output:   opts.Output,
		Width:    grid.Width,
		Height:   grid.Height,
		MimeType: grid.MimeType,
		StepDeg:  grid.StepDeg,
		RALines:  grid.RALines,
		DecLines: grid.DecLines,
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "Wrote %dx%d %s to %s\n", result.Width, result.Height, result.MimeType, result.Output)
	fmt.Fprintf(formatter.Writer, "Grid step %g deg: %d RA line(s), %d Dec line(s)\n", result.StepDeg, result.RALines, result.DecLines)
	return nil
}
