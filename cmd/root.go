package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "page-composer",
	Short: "Place images on printable pages and export them as PDF",
	Long: `Page Composer positions raster images on a fixed-size printable page
(A4 by default), lets you pan and zoom each image within the page margins
in a browser-based editor, and exports every composed page as a PDF.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
