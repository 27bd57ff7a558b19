package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/page-composer/internal/config"
)

// Build metadata variables, set by -ldflags at compile time.
var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the page defaults",
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(os.Stdout, config.Load())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// printVersion writes build metadata and the page the configuration resolves to.
func printVersion(w io.Writer, cfg *config.Config) {
	paper := cfg.Paper()
	fmt.Fprintf(w, "page-composer %s\n", Version)
	fmt.Fprintf(w, "  Commit: %s\n", CommitSHA)
	fmt.Fprintf(w, "  Built:  %s\n", BuildDate)
	fmt.Fprintf(w, "  Page:   %s %s, %d DPI, margin %d units\n",
		paper.Name, cfg.Page.Orientation, cfg.Page.DPI, cfg.Page.MarginUnits)
}
