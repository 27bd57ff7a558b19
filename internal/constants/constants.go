// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Physical page constants
const (
	// MMPerInch converts millimeters to inches (1 inch = 25.4 mm)
	MMPerInch = 25.4

	// A4WidthMM and A4HeightMM are the exact ISO 216 A4 dimensions in portrait
	A4WidthMM  = 210.0
	A4HeightMM = 297.0

	// DefaultDPI is the print resolution used to convert the page to page units
	DefaultDPI = 300

	// DefaultMarginUnits is the border inset from each page edge, in page units.
	// It is not rescaled when the DPI changes.
	DefaultMarginUnits = 20

	// GridSpacingUnits is the distance between preview grid lines, in page units
	GridSpacingUnits = 100
)

// View constants
const (
	// ViewFillRatio is the share of the display area the page may occupy
	ViewFillRatio = 0.96

	// MinRenderableSize is the smallest display dimension (exclusive) that can hold a page
	MinRenderableSize = 1

	// MinPreviewSize is the smallest on-screen footprint (in display pixels) worth drawing
	MinPreviewSize = 2
)

// Interaction constants
const (
	// ZoomStep is the multiplicative scale change for one wheel notch
	ZoomStep = 1.1

	// MinScale is the smallest allowed placement scale
	MinScale = 0.05

	// FreeScaleCeiling is the largest scale allowed when constrained mode is off
	FreeScaleCeiling = 5.0

	// ScaleEpsilon is the smallest scale change that counts as a zoom
	ScaleEpsilon = 1e-6
)

// Export constants
const (
	// OutputExtension is the file extension of exported documents
	OutputExtension = ".pdf"
)
