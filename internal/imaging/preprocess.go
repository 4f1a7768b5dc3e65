// Package imaging prepares raster images for text recognition.
package imaging

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

const (
	// ContrastFactor is the fixed enhancement factor applied before OCR.
	ContrastFactor = 2.0

	// MinOCRWidth is the narrowest image width handed to the OCR engine.
	// Smaller inputs are upscaled first; glyphs below ~20px tend to misread.
	MinOCRWidth = 1000
)

// Grayscale converts any decoded image to single-channel grayscale.
func Grayscale(src image.Image) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

// EnhanceContrast stretches pixel values away from the image mean by the
// given factor, clamping to [0, 255]. factor 1.0 is a no-op.
func EnhanceContrast(src *image.Gray, factor float64) *image.Gray {
	b := src.Bounds()
	mean := meanGray(src)
	dst := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := float64(src.GrayAt(x, y).Y)
			v = mean + (v-mean)*factor
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			dst.Pix[dst.PixOffset(x, y)] = uint8(v + 0.5)
		}
	}
	return dst
}

func meanGray(img *image.Gray) float64 {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return 0
	}
	var sum uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride : (y-b.Min.Y)*img.Stride+b.Dx()]
		for _, v := range row {
			sum += uint64(v)
		}
	}
	return float64(sum) / float64(n)
}

// upscale resizes src so its width is at least MinOCRWidth, preserving the
// aspect ratio. Images already wide enough are returned unchanged.
func upscale(src *image.Gray) *image.Gray {
	b := src.Bounds()
	if b.Dx() >= MinOCRWidth || b.Dx() == 0 {
		return src
	}
	scale := float64(MinOCRWidth) / float64(b.Dx())
	w := MinOCRWidth
	h := int(float64(b.Dy())*scale + 0.5)
	dst := image.NewGray(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}

// PrepareForOCR runs the full preprocessing chain: grayscale conversion,
// fixed contrast enhancement, and minimum-width upscaling.
func PrepareForOCR(src image.Image) *image.Gray {
	g := Grayscale(src)
	g = EnhanceContrast(g, ContrastFactor)
	return upscale(g)
}

// EncodePNG serializes an image for engines that consume encoded bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
