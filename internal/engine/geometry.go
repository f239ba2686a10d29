package engine

import (
	"image"
	"math"

	"github.com/docshield/pdf-redaction-service/internal/domain"
)

// paddingRatio widens redaction boxes by a fraction of the page height so
// that glyph ascenders and descenders at the box edges are fully covered.
const paddingRatio = 0.02

// pageSize is a page's dimensions in points.
type pageSize struct {
	Width  float64
	Height float64
}

// mediaBox is a page's native bounding box in points. Origins may be
// nonzero or negative, so native coordinates are translated by the
// origin before any flip or scale.
type mediaBox struct {
	OriginX float64
	OriginY float64
	Width   float64
	Height  float64
}

// pointsToPixels converts a position in points to a pixel rectangle on a
// raster of the given dimensions. Both spaces share a top-left origin, so
// only the scale differs.
func pointsToPixels(pos domain.Position, page pageSize, imgW, imgH int) image.Rectangle {
	scaleX := float64(imgW) / page.Width
	scaleY := float64(imgH) / page.Height
	return image.Rect(
		int(math.Floor(pos.X0*scaleX)),
		int(math.Floor(pos.Y0*scaleY)),
		int(math.Ceil(pos.X1*scaleX)),
		int(math.Ceil(pos.Y1*scaleY)),
	)
}

// pixelsToPoints converts a pixel rectangle back to points given the
// render resolution. PDF points are 1/72 inch.
func pixelsToPoints(r image.Rectangle, dpi float64) (domain.Position, error) {
	scale := dpi / 72.0
	return domain.NewPosition(
		float64(r.Min.X)/scale,
		float64(r.Min.Y)/scale,
		float64(r.Max.X)/scale,
		float64(r.Max.Y)/scale,
	)
}

// flipY converts a box from a bottom-left origin (y growing upward) to a
// top-left origin (y growing downward) on a page of the given height.
func flipY(x0, yBottom, x1, yTop, pageHeight float64) domain.Position {
	return domain.Position{X0: x0, Y0: pageHeight - yTop, X1: x1, Y1: pageHeight - yBottom}
}

// padBox widens a box vertically and horizontally by a fraction of the
// page height, clipped to the page bounds.
func padBox(pos domain.Position, page pageSize) domain.Position {
	pad := page.Height * paddingRatio
	return domain.Position{
		X0: math.Max(0, pos.X0-pad),
		Y0: math.Max(0, pos.Y0-pad),
		X1: math.Min(page.Width, pos.X1+pad),
		Y1: math.Min(page.Height, pos.Y1+pad),
	}
}

// dedupeOccurrences drops occurrences whose page and box exactly match an
// earlier one, preserving order. Case-variant searches can report the
// same region more than once.
func dedupeOccurrences(occs []domain.TermOccurrence) []domain.TermOccurrence {
	type key struct {
		page           int
		x0, y0, x1, y1 float64
	}
	seen := make(map[key]struct{}, len(occs))
	out := occs[:0:0]
	for _, occ := range occs {
		k := key{occ.PageNumber, occ.Position.X0, occ.Position.Y0, occ.Position.X1, occ.Position.Y1}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, occ)
	}
	return out
}
