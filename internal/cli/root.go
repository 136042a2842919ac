package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/wcs-tools-mcp/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Settings are the rendering defaults; nil means config.Default().
	Settings *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the wcs CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "wcs",
		Short: "wcs - FITS WCS (TAN) coordinate tools",
		Long: `Convert between image pixels and sky coordinates using the WCS keywords
of a FITS header, stored as a YAML or JSON keyword file.

Pixels follow the FITS convention: (1, 1) is the centre of the bottom-left
pixel. Put -- before negative positional values, e.g. "wcs sky2pix -- 150 -20".`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return opts.loadSettings()
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "YAML or JSON settings file")

	cmd.AddCommand(NewPix2SkyCommand(opts))
	cmd.AddCommand(NewSky2PixCommand(opts))
	cmd.AddCommand(NewHeaderCommand(opts))
	cmd.AddCommand(NewFootprintCommand(opts))
	cmd.AddCommand(NewGridCommand(opts))
	cmd.AddCommand(NewSourcesCommand(opts))

	return cmd
}

// loadSettings reads --config, then the environment overrides.
func (o *RootOptions) loadSettings() error {
	cfg := config.Default()
	if o.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(o.ConfigPath); err != nil {
			return err
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.Settings = &cfg
	return nil
}

func (o *RootOptions) settings() config.Config {
	if o.Settings == nil {
		return config.Default()
	}
	return *o.Settings
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
