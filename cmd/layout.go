package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/page-composer/internal/asset"
	"github.com/kozaktomas/page-composer/internal/config"
	"github.com/kozaktomas/page-composer/internal/placement"
)

var layoutCmd = &cobra.Command{
	Use:   "layout <image|folder> [image|folder...]",
	Short: "Show the page geometry and default placement of images",
	Long: `Print the page size in page units and, for every image, the default
placement (scale and top-left corner), its footprint on the page and the
largest scale that still fits inside the margins. Nothing is written.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLayout,
}

func init() {
	rootCmd.AddCommand(layoutCmd)
	layoutCmd.Flags().BoolP("recursive", "r", false, "Search for images recursively in subdirectories")
	addPageFlags(layoutCmd)
}

func runLayout(cmd *cobra.Command, args []string) error {
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

	wMM, hMM := geometry.SizeMM()
	maxW, maxH := geometry.MaxContent()
	fmt.Printf("Page: %s %s, %.0fx%.0f mm at %d DPI\n", cfg.Paper().Name, geometry.Orientation(), wMM, hMM, geometry.DPI())
	fmt.Printf("  Units:   %dx%d\n", geometry.Width(), geometry.Height())
	fmt.Printf("  Margin:  %d\n", geometry.Margin())
	fmt.Printf("  Content: %.0fx%.0f\n", maxW, maxH)

	bounds := placement.BoundsOf(geometry)
	for _, id := range queue.List() {
		a, err := asset.Decode(id)
		if err != nil {
			fmt.Printf("\n%s\n  Error: %v\n", filepath.Base(id), err)
			continue
		}

		d := a.Dims()
		p := placement.Default(d, bounds)
		fw, fh := p.Footprint(d)
		fmt.Printf("\n%s (%dx%d %s)\n", filepath.Base(id), d.Width, d.Height, a.Format)
		fmt.Printf("  Scale:     %.4f (max %.4f)\n", p.Scale, placement.MaxScale(d, bounds))
		fmt.Printf("  Position:  %.1f, %.1f\n", p.X, p.Y)
		fmt.Printf("  Footprint: %.1fx%.1f\n", fw, fh)
	}
	return nil
}
