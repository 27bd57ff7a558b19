package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/kozaktomas/page-composer/internal/constants"
)

// ErrEncode is returned when a composed page cannot be written as a document.
var ErrEncode = errors.New("encode failed")

const pointsPerInch = 72.0

func init() {
	// pdfcpu would otherwise create a config directory in the user's home.
	api.DisableConfigDir()
}

// Encoder writes one composed page buffer to outputPath.
type Encoder interface {
	EncodePage(img image.Image, outputPath string) error
}

// PDFEncoder writes single-page PDF documents. The page size follows the
// buffer's pixel size at DPI, so a page-sized buffer yields the physical paper size.
type PDFEncoder struct {
	DPI    int
	Verify bool
}

// NewPDFEncoder creates a PDF encoder for the given resolution.
func NewPDFEncoder(dpi int, verify bool) *PDFEncoder {
	if dpi <= 0 {
		dpi = constants.DefaultDPI
	}
	return &PDFEncoder{DPI: dpi, Verify: verify}
}

// PageSizeMM converts a pixel size to millimeters at dpi.
func PageSizeMM(w, h, dpi int) (float64, float64) {
	return float64(w) / float64(dpi) * constants.MMPerInch, float64(h) / float64(dpi) * constants.MMPerInch
}

func (e *PDFEncoder) EncodePage(img image.Image, outputPath string) error {
	b := img.Bounds()
	if b.Empty() {
		return fmt.Errorf("%w: empty page buffer", ErrEncode)
	}
	wMM, hMM := PageSizeMM(b.Dx(), b.Dy(), e.DPI)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: wMM, Ht: hMM},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("page", opts, &buf)
	pdf.ImageOptions("page", 0, 0, wMM, hMM, false, opts, 0, "")

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrEncode, outputPath, err)
	}

	if e.Verify {
		if err := Verify(outputPath, wMM, hMM); err != nil {
			return fmt.Errorf("%w: %w", ErrEncode, err)
		}
	}
	return nil
}

// Verify validates the document at path with pdfcpu and checks that it holds
// exactly one page of the expected size.
func Verify(path string, wantWMM, wantHMM float64) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, conf); err != nil {
		return fmt.Errorf("validate %s: %w", path, err)
	}

	count, err := api.PageCountFile(path)
	if err != nil {
		return fmt.Errorf("count pages: %w", err)
	}
	if count != 1 {
		return fmt.Errorf("expected 1 page, got %d", count)
	}

	dims, err := api.PageDimsFile(path)
	if err != nil {
		return fmt.Errorf("page dimensions: %w", err)
	}
	wantW := wantWMM / constants.MMPerInch * pointsPerInch
	wantH := wantHMM / constants.MMPerInch * pointsPerInch
	if len(dims) != 1 || math.Abs(dims[0].Width-wantW) > 1 || math.Abs(dims[0].Height-wantH) > 1 {
		return fmt.Errorf("unexpected page size %v, want %.1fx%.1f pt", dims, wantW, wantH)
	}
	return nil
}
