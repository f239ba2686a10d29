package textextract

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// maxOCRDimension caps the longer edge of images handed to OCR. Larger
// rasters slow Tesseract down without improving recognition.
const maxOCRDimension = 2500

// Preprocessor enhances rendered pages before OCR.
type Preprocessor struct {
	maxDimension int
}

// NewPreprocessor creates a preprocessor with the default size cap.
func NewPreprocessor() *Preprocessor {
	return &Preprocessor{maxDimension: maxOCRDimension}
}

// Prepare converts the image to grayscale and downscales it when it
// exceeds the size cap, keeping the aspect ratio.
func (p *Preprocessor) Prepare(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	targetW, targetH := w, h
	if longest := max(w, h); longest > p.maxDimension {
		scale := float64(p.maxDimension) / float64(longest)
		targetW = int(float64(w) * scale)
		targetH = int(float64(h) * scale)
	}

	if targetW == w && targetH == h {
		return grayscale(img)
	}

	scaled := image.NewGray(image.Rect(0, 0, targetW, targetH))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, xdraw.Src, nil)
	return scaled
}

func grayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x-bounds.Min.X, y-bounds.Min.Y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}
