package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/page-composer/internal/config"
)

// mustGetBool gets a bool flag value or panics if the flag doesn't exist.
// This is appropriate for flags defined in init() - errors indicate programming bugs.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// mustGetInt gets an int flag value or panics if the flag doesn't exist.
func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// mustGetString gets a string flag value or panics if the flag doesn't exist.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// mustGetStringSlice gets a string slice flag value or panics if the flag doesn't exist.
func mustGetStringSlice(cmd *cobra.Command, name string) []string {
	val, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// addPageFlags registers the page and export flags shared by several commands.
func addPageFlags(c *cobra.Command) {
	c.Flags().String("paper", "", "Paper size (A4, A3, A5, Letter); defaults to PAGE_PAPER or A4")
	c.Flags().String("orientation", "", "Page orientation: portrait or landscape")
	c.Flags().Int("dpi", 0, "Page resolution in dots per inch")
	c.Flags().Bool("fit", false, "Fit every image inside the page margins (constrained mode)")
	c.Flags().Bool("no-fit", false, "Export the raw image without page composition")
	c.Flags().StringP("output", "o", "", "Output folder for exported PDFs")
	c.Flags().Bool("verify", false, "Validate every written PDF")
	c.MarkFlagsMutuallyExclusive("fit", "no-fit")
}

// applyPageFlags overrides configuration values with explicitly set flags.
func applyPageFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("paper") {
		cfg.Page.Paper = mustGetString(cmd, "paper")
	}
	if flags.Changed("orientation") {
		cfg.Page.Orientation = mustGetString(cmd, "orientation")
	}
	if flags.Changed("dpi") {
		cfg.Page.DPI = mustGetInt(cmd, "dpi")
	}
	if flags.Changed("fit") {
		cfg.Export.FitToPage = mustGetBool(cmd, "fit")
	}
	if flags.Changed("no-fit") {
		cfg.Export.FitToPage = !mustGetBool(cmd, "no-fit")
	}
	if flags.Changed("output") {
		cfg.Export.OutputDir = mustGetString(cmd, "output")
	}
	if flags.Changed("verify") {
		cfg.Export.Verify = mustGetBool(cmd, "verify")
	}
}
