package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/page-composer/internal/config"
	"github.com/kozaktomas/page-composer/internal/export"
	"github.com/kozaktomas/page-composer/internal/placement"
)

var exportCmd = &cobra.Command{
	Use:   "export <image|folder> [image|folder...]",
	Short: "Export images as single-page PDFs",
	Long: `Export every image as its own PDF page using the default placement:
shrunk to fit inside the page margins (never enlarged) and centered.

With --no-fit the raw image is written without page composition.
Folders are searched non-recursively unless -r is given.
Supported formats: png, jpg, jpeg, bmp, tiff, tif, webp

Example:
  page-composer export scan.png
  page-composer export --orientation landscape -o ./pdf /path/to/photos
  page-composer export -r --verify /path/to/photos`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().BoolP("recursive", "r", false, "Search for images recursively in subdirectories")
	addPageFlags(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	applyPageFlags(cmd, cfg)

	geometry, err := cfg.NewGeometry()
	if err != nil {
		return fmt.Errorf("invalid page configuration: %w", err)
	}

	queue, err := collectImages(args, mustGetBool(cmd, "recursive"))
	if err != nil {
		return err
	}
	if queue.Len() == 0 {
		fmt.Println("No image files found.")
		return nil
	}

	if err := os.MkdirAll(cfg.Export.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output folder: %w", err)
	}

	items := make([]export.Item, 0, queue.Len())
	for _, id := range queue.List() {
		items = append(items, export.Item{ID: id})
	}
	opts := export.Options{
		OutputDir:   cfg.Export.OutputDir,
		Constrained: cfg.Export.FitToPage,
		Bounds:      placement.BoundsOf(geometry),
	}

	mode := "fit to page"
	if !opts.Constrained {
		mode = "free-form"
	}
	fmt.Printf("Exporting %d image(s) to %s (%s, %s, %d DPI)\n\n",
		len(items), opts.OutputDir, geometry.Orientation(), mode, geometry.DPI())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bar := progressbar.NewOptions(len(items),
		progressbar.OptionSetDescription("Exporting"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("pages"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	exporter := export.NewExporter(export.NewPDFEncoder(geometry.DPI(), cfg.Export.Verify), opts)
	summary := exporter.Run(ctx, items, func(done, total int, r export.Result) {
		_ = bar.Add(1)
	})
	fmt.Println()

	for _, r := range summary.Results {
		if r.Err != nil {
			fmt.Printf("Failed: %s: %s\n", filepath.Base(r.ID), r.Error)
		}
	}

	written := len(summary.Results) - summary.Failed
	if summary.Canceled {
		fmt.Printf("\nCancelled: %d skipped\n", summary.Skipped)
	}
	fmt.Printf("\nDone! Wrote %d of %d PDF(s) to %s\n", written, summary.Total, opts.OutputDir)

	if !summary.AllSucceeded() {
		return fmt.Errorf("%d image(s) were not exported", summary.Failed+summary.Skipped)
	}
	return nil
}
