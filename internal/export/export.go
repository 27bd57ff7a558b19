// Package export composes every queued image onto its page and writes one
// document per image.
package export

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/kozaktomas/page-composer/internal/asset"
	"github.com/kozaktomas/page-composer/internal/compose"
	"github.com/kozaktomas/page-composer/internal/constants"
	"github.com/kozaktomas/page-composer/internal/placement"
)

// Item is a snapshot of one queued asset taken when the export starts.
type Item struct {
	ID           string
	Asset        *asset.Asset // nil when not decoded yet
	Placement    placement.Placement
	HasPlacement bool
}

// Options control how pages are composed and where they are written.
type Options struct {
	OutputDir   string
	Constrained bool
	Bounds      placement.Bounds
}

// Result is the outcome for one asset.
type Result struct {
	ID     string `json:"id"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
	Err    error  `json:"-"`
}

// Summary tallies a finished export.
type Summary struct {
	Total    int      `json:"total"`
	Failed   int      `json:"failed"`
	Skipped  int      `json:"skipped"`
	Canceled bool     `json:"canceled"`
	Results  []Result `json:"results"`
}

// AllSucceeded reports whether every asset was written.
func (s Summary) AllSucceeded() bool {
	return s.Failed == 0 && s.Skipped == 0
}

// ProgressFunc is called after each asset with the number of processed assets.
type ProgressFunc func(done, total int, r Result)

// Exporter runs batch exports.
type Exporter struct {
	encoder Encoder
	opts    Options
	decode  func(path string) (*asset.Asset, error)
}

// NewExporter creates an exporter writing through enc.
func NewExporter(enc Encoder, opts Options) *Exporter {
	return &Exporter{encoder: enc, opts: opts, decode: asset.Decode}
}

// OutputPath returns <dir>/<base name without extension>.pdf for id.
func OutputPath(dir, id string) string {
	base := filepath.Base(id)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, norm.NFC.String(base)+constants.OutputExtension)
}

// Run exports items one at a time. Per-asset failures are logged and counted;
// the batch always completes unless ctx is canceled, in which case the
// remaining items are reported as skipped.
func (e *Exporter) Run(ctx context.Context, items []Item, progress ProgressFunc) Summary {
	summary := Summary{Total: len(items), Results: make([]Result, 0, len(items))}

	for i, item := range items {
		if ctx.Err() != nil {
			summary.Canceled = true
			summary.Skipped = len(items) - i
			break
		}

		r := Result{ID: item.ID}
		out, err := e.exportOne(item)
		if err != nil {
			log.Printf("export %s: %v", item.ID, err)
			r.Err = err
			r.Error = err.Error()
			summary.Failed++
		} else {
			r.Output = out
		}
		summary.Results = append(summary.Results, r)

		if progress != nil {
			progress(i+1, len(items), r)
		}
	}
	return summary
}

func (e *Exporter) exportOne(item Item) (string, error) {
	a := item.Asset
	if a == nil {
		var err error
		if a, err = e.decode(item.ID); err != nil {
			return "", err
		}
	}

	p := item.Placement
	if !item.HasPlacement {
		p = placement.Default(a.Dims(), e.opts.Bounds)
	}

	pageImg, err := compose.RenderExportPage(a.Image, p, e.opts.Bounds, e.opts.Constrained)
	if err != nil {
		return "", err
	}

	out := OutputPath(e.opts.OutputDir, item.ID)
	if err := e.encoder.EncodePage(pageImg, out); err != nil {
		return "", fmt.Errorf("write %s: %w", filepath.Base(out), err)
	}
	return out, nil
}
