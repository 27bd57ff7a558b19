package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/page-composer/internal/app"
	"github.com/kozaktomas/page-composer/internal/config"
	"github.com/kozaktomas/page-composer/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the editor web server",
	Long: `Start the Page Composer web server.
The web server provides a browser-based editor for queueing images,
placing them on the page with drag and wheel zoom, and exporting PDFs.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().StringSlice("allowed-origin", nil, "Additional CORS origin (repeatable)")
	addPageFlags(serveCmd)
}

// applyServeFlags overrides the web settings with explicitly set flags.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Web.Port = mustGetInt(cmd, "port")
	}
	if flags.Changed("host") {
		cfg.Web.Host = mustGetString(cmd, "host")
	}
	if flags.Changed("allowed-origin") {
		cfg.Web.AllowedOrigins = append(cfg.Web.AllowedOrigins, mustGetStringSlice(cmd, "allowed-origin")...)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	applyPageFlags(cmd, cfg)
	applyServeFlags(cmd, cfg)

	geometry, err := cfg.NewGeometry()
	if err != nil {
		return fmt.Errorf("invalid page configuration: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	editor := app.NewEditor(geometry, cfg.Export.FitToPage, cfg.Export.OutputDir, nil)
	go editor.Run(ctx)

	server := web.NewServer(cfg, editor)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	paper := cfg.Paper()
	fmt.Printf("Page: %s %s, %d DPI (%dx%d units)\n",
		paper.Name, geometry.Orientation(), geometry.DPI(), geometry.Width(), geometry.Height())
	fmt.Printf("Exports go to %s\n", cfg.Export.OutputDir)
	fmt.Printf("Starting Page Composer on http://%s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
