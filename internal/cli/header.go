package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ironsheep/wcs-tools-mcp/internal/wcs"
)

// HeaderResult is the output of the header command.
type HeaderResult struct {
	Projection []string   `json:"projection"`
	LonPole    float64    `json:"lon_pole"`
	Keywords   wcs.Header `json:"keywords"`
}

// NewHeaderCommand creates the header command.
func NewHeaderCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "header <file>",
		Short: "Validate a header file and list its WCS keywords",
		Long: `Check that a header describes a two-axis RA---TAN / DEC--TAN transform and
list the WCS keywords it carries. Keywords needed by a transform but absent
from the header are reported when that transform runs.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHeader(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runHeader(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	m, err := loadMapper(path)
	if err != nil {
		return formatter.Fail(err)
	}

	cfg := m.Config()
	ctype1, _ := cfg.CTYPE(1)
	ctype2, _ := cfg.CTYPE(2)
	result := HeaderResult{
		Projection: []string{ctype1, ctype2},
		LonPole:    m.NativePoleLongitude(),
		Keywords:   cfg.Keywords(),
	}
	formatter.VerboseLog("Header %s carries %d WCS keyword(s)", path, len(result.Keywords))

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Projection: %s, %s\n", ctype1, ctype2)
	fmt.Fprintf(w, "Native pole longitude: %g\n", result.LonPole)
	fmt.Fprintln(w, "Keywords:")

	keys := make([]string, 0, len(result.Keywords))
	for k := range result.Keywords {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s = %v\n", k, result.Keywords[k])
	}
	return nil
}
