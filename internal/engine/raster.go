package engine

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	"github.com/gen2brain/go-fitz"
	"github.com/jung-kurt/gofpdf"

	"github.com/docshield/pdf-redaction-service/internal/domain"
)

// rasterize renders every page, paints the occurrence boxes black and
// reassembles the pages into a new PDF. The output contains only page
// images, so the original text layer cannot be recovered from it.
func rasterize(docBytes []byte, occurrences []domain.TermOccurrence, opts Options) ([]byte, error) {
	doc, err := fitz.NewFromMemory(docBytes)
	if err != nil {
		return nil, domain.NewProcessingError("open", err)
	}
	defer doc.Close()

	byPage := make(map[int][]domain.TermOccurrence, len(occurrences))
	for _, occ := range occurrences {
		byPage[occ.PageNumber] = append(byPage[occ.PageNumber], occ)
	}

	out := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "pt"})
	out.SetAutoPageBreak(false, 0)

	for n := 0; n < doc.NumPage(); n++ {
		bound, err := doc.Bound(n)
		if err != nil {
			return nil, domain.NewProcessingError("bounds", fmt.Errorf("page %d: %w", n+1, err))
		}
		page := pageSize{Width: float64(bound.Dx()), Height: float64(bound.Dy())}

		img, err := doc.ImageDPI(n, opts.RenderDPI)
		if err != nil {
			return nil, domain.NewProcessingError("render", fmt.Errorf("page %d: %w", n+1, err))
		}

		rgba := image.NewRGBA(img.Bounds())
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)

		for _, occ := range byPage[n+1] {
			padded := padBox(occ.Position, page)
			rect := pointsToPixels(padded, page, rgba.Bounds().Dx(), rgba.Bounds().Dy())
			draw.Draw(rgba, rect.Intersect(rgba.Bounds()), image.NewUniform(color.Black), image.Point{}, draw.Src)
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, rgba, &jpeg.Options{Quality: opts.JPEGQuality}); err != nil {
			return nil, domain.NewProcessingError("encode", fmt.Errorf("page %d: %w", n+1, err))
		}

		size := gofpdf.SizeType{Wd: page.Width, Ht: page.Height}
		orientation := "P"
		if page.Width > page.Height {
			orientation = "L"
		}
		out.AddPageFormat(orientation, size)

		name := fmt.Sprintf("page-%d", n+1)
		imgOpts := gofpdf.ImageOptions{ImageType: "JPG"}
		out.RegisterImageOptionsReader(name, imgOpts, bytes.NewReader(buf.Bytes()))
		out.ImageOptions(name, 0, 0, page.Width, page.Height, false, imgOpts, 0, "")
	}

	var result bytes.Buffer
	if err := out.Output(&result); err != nil {
		return nil, domain.NewProcessingError("assemble", err)
	}
	return result.Bytes(), nil
}
