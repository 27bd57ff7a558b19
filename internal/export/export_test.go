package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/kozaktomas/page-composer/internal/asset"
	"github.com/kozaktomas/page-composer/internal/compose"
	"github.com/kozaktomas/page-composer/internal/page"
	"github.com/kozaktomas/page-composer/internal/placement"
)

type fakeEncoder struct {
	pages map[string]image.Image
	fail  map[string]bool
}

func newFakeEncoder() *fakeEncoder {
	return &fakeEncoder{pages: make(map[string]image.Image), fail: make(map[string]bool)}
}

func (f *fakeEncoder) EncodePage(img image.Image, outputPath string) error {
	if f.fail[filepath.Base(outputPath)] {
		return ErrEncode
	}
	f.pages[outputPath] = img
	return nil
}

func solidAsset(id string, w, h int) *asset.Asset {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	return &asset.Asset{ID: id, Image: img}
}

func a4Options(dir string, constrained bool) Options {
	return Options{
		OutputDir:   dir,
		Constrained: constrained,
		Bounds:      placement.BoundsOf(page.NewA4(page.Portrait, 300)),
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		id       string
		expected string
	}{
		{"/photos/holiday.jpg", "/out/holiday.pdf"},
		{"/photos/scan.final.png", "/out/scan.final.pdf"},
		{"/photos/noext", "/out/noext.pdf"},
		{"/photos/café.png", "/out/café.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := OutputPath("/out", tt.id); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestRun_ConstrainedComposesPages(t *testing.T) {
	dir := t.TempDir()
	enc := newFakeEncoder()
	e := NewExporter(enc, a4Options(dir, true))

	items := []Item{
		{ID: "/in/a.png", Asset: solidAsset("/in/a.png", 1000, 500)},
		{ID: "/in/b.png", Asset: solidAsset("/in/b.png", 400, 400), Placement: placement.Placement{Scale: 2, X: 30, Y: 40}, HasPlacement: true},
	}

	var calls int
	summary := e.Run(context.Background(), items, func(done, total int, r Result) {
		calls++
		if done != calls || total != 2 {
			t.Errorf("unexpected progress %d/%d", done, total)
		}
	})

	if !summary.AllSucceeded() {
		t.Fatalf("expected success, got %+v", summary)
	}
	if calls != 2 {
		t.Errorf("expected 2 progress calls, got %d", calls)
	}
	for _, r := range summary.Results {
		img, ok := enc.pages[r.Output]
		if !ok {
			t.Fatalf("expected page written for %s", r.ID)
		}
		if got := img.Bounds().Size(); got != image.Pt(2480, 3508) {
			t.Errorf("expected A4 page buffer, got %v", got)
		}
	}
}

func TestRun_FreeFormWritesRawImage(t *testing.T) {
	enc := newFakeEncoder()
	e := NewExporter(enc, a4Options(t.TempDir(), false))

	summary := e.Run(context.Background(), []Item{{ID: "/in/raw.png", Asset: solidAsset("/in/raw.png", 321, 123)}}, nil)
	if !summary.AllSucceeded() {
		t.Fatalf("expected success, got %+v", summary)
	}
	img := enc.pages[summary.Results[0].Output]
	if got := img.Bounds().Size(); got != image.Pt(321, 123) {
		t.Errorf("expected raw 321x123 buffer, got %v", got)
	}
}

func TestRun_CollectsPerAssetFailures(t *testing.T) {
	dir := t.TempDir()
	enc := newFakeEncoder()
	enc.fail["broken-writer.pdf"] = true
	e := NewExporter(enc, a4Options(dir, true))

	items := []Item{
		{ID: filepath.Join(dir, "missing.png")},
		{ID: "/in/tiny.png", Asset: solidAsset("/in/tiny.png", 9, 9), Placement: placement.Placement{Scale: 0.01}, HasPlacement: true},
		{ID: "/in/broken-writer.png", Asset: solidAsset("/in/broken-writer.png", 10, 10)},
		{ID: "/in/ok.png", Asset: solidAsset("/in/ok.png", 10, 10)},
	}

	summary := e.Run(context.Background(), items, nil)
	if summary.Total != 4 || summary.Failed != 3 {
		t.Fatalf("expected 3 of 4 failed, got %+v", summary)
	}
	if summary.AllSucceeded() {
		t.Error("expected AllSucceeded to be false")
	}

	wantErrs := []error{asset.ErrDecode, compose.ErrUndersizedPlacement, ErrEncode, nil}
	for i, want := range wantErrs {
		got := summary.Results[i].Err
		if want == nil {
			if got != nil {
				t.Errorf("item %d: unexpected error %v", i, got)
			}
			continue
		}
		if !errors.Is(got, want) {
			t.Errorf("item %d: expected %v, got %v", i, want, got)
		}
		if summary.Results[i].Error == "" {
			t.Errorf("item %d: expected error message", i)
		}
	}
}

func TestRun_DecodesUncachedAssets(t *testing.T) {
	enc := newFakeEncoder()
	e := NewExporter(enc, a4Options(t.TempDir(), true))
	var decoded []string
	e.decode = func(path string) (*asset.Asset, error) {
		decoded = append(decoded, path)
		return solidAsset(path, 50, 50), nil
	}

	summary := e.Run(context.Background(), []Item{{ID: "/in/lazy.png"}}, nil)
	if !summary.AllSucceeded() {
		t.Fatalf("expected success, got %+v", summary)
	}
	if len(decoded) != 1 || decoded[0] != "/in/lazy.png" {
		t.Errorf("expected lazy decode, got %v", decoded)
	}
}

func TestRun_CanceledSkipsRemaining(t *testing.T) {
	enc := newFakeEncoder()
	e := NewExporter(enc, a4Options(t.TempDir(), false))
	ctx, cancel := context.WithCancel(context.Background())

	items := []Item{
		{ID: "/in/1.png", Asset: solidAsset("/in/1.png", 5, 5)},
		{ID: "/in/2.png", Asset: solidAsset("/in/2.png", 5, 5)},
		{ID: "/in/3.png", Asset: solidAsset("/in/3.png", 5, 5)},
	}
	summary := e.Run(ctx, items, func(done, total int, r Result) {
		if done == 1 {
			cancel()
		}
	})

	if !summary.Canceled || summary.Skipped != 2 || len(summary.Results) != 1 {
		t.Errorf("expected cancel after first item, got %+v", summary)
	}
	if summary.AllSucceeded() {
		t.Error("a canceled export must not report success")
	}
}

func TestPDFEncoder_WritesSinglePage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.pdf")
	img := image.NewRGBA(image.Rect(0, 0, 248, 351))
	for y := 0; y < 351; y++ {
		for x := 0; x < 248; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 0x40, 0xff})
		}
	}

	enc := NewPDFEncoder(30, true)
	if err := enc.EncodePage(img, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("expected PDF header, got %q", data[:min(len(data), 8)])
	}
}

func TestPDFEncoder_UnwritablePath(t *testing.T) {
	enc := NewPDFEncoder(300, false)
	path := filepath.Join(t.TempDir(), "missing-dir", "page.pdf")
	err := enc.EncodePage(image.NewRGBA(image.Rect(0, 0, 10, 10)), path)
	if !errors.Is(err, ErrEncode) {
		t.Errorf("expected ErrEncode, got %v", err)
	}
}

func TestPageSizeMM(t *testing.T) {
	w, h := PageSizeMM(2480, 3508, 300)
	if w < 209.9 || w > 210.1 || h < 296.9 || h > 297.1 {
		t.Errorf("expected about 210x297 mm, got %.2fx%.2f", w, h)
	}
}
