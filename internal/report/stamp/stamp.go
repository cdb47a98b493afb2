// Package stamp draws a caption strip onto report photos.
package stamp

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	lineHeight  = 16
	padding     = 8
	jpegQuality = 90
)

var stripColor = color.RGBA{A: 0xb4}

// JPEG decodes src as JPEG, draws the caption lines onto a translucent
// strip along the bottom edge and re-encodes the result.
func JPEG(src []byte, lines []string) ([]byte, error) {
	img, err := jpeg.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, img, bounds.Min, draw.Src)

	stripH := len(lines)*lineHeight + 2*padding
	if stripH > bounds.Dy() {
		stripH = bounds.Dy()
	}
	strip := image.Rect(bounds.Min.X, bounds.Max.Y-stripH, bounds.Max.X, bounds.Max.Y)
	draw.Draw(dst, strip, image.NewUniform(stripColor), image.Point{}, draw.Over)

	d := font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: basicfont.Face7x13,
	}
	y := strip.Min.Y + padding + lineHeight - 4
	for _, line := range lines {
		d.Dot = fixed.P(bounds.Min.X+padding, y)
		d.DrawString(line)
		y += lineHeight
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
