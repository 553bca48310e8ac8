// Package qrcard renders referral QR landing cards: a QR code composited
// onto a branch-supplied template image at percentage-based coordinates.
package qrcard

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	stddraw "image/draw"
	"image/png"
	"io"

	qrcode "github.com/skip2/go-qrcode"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/webp"

	_ "image/jpeg"
)

// Placement positions the QR code on the template. Coordinates are
// percentages of the template's dimensions so one placement works for
// any template resolution: X/Y locate the top-left corner, Width sizes
// the code relative to the template width.
type Placement struct {
	XPercent     float64
	YPercent     float64
	WidthPercent float64
}

// DefaultPlacement puts the code in the lower-right quarter of the card.
var DefaultPlacement = Placement{XPercent: 65, YPercent: 65, WidthPercent: 28}

// Rect resolves the placement against concrete template bounds. The
// region is clamped to stay inside the template; a degenerate placement
// collapses to an empty rectangle.
func (p Placement) Rect(bounds image.Rectangle) image.Rectangle {
	w := bounds.Dx()
	h := bounds.Dy()

	side := int(float64(w) * p.WidthPercent / 100.0)
	if side <= 0 {
		return image.Rectangle{}
	}
	x := bounds.Min.X + int(float64(w)*p.XPercent/100.0)
	y := bounds.Min.Y + int(float64(h)*p.YPercent/100.0)

	if x < bounds.Min.X {
		x = bounds.Min.X
	}
	if y < bounds.Min.Y {
		y = bounds.Min.Y
	}
	if x+side > bounds.Max.X {
		x = bounds.Max.X - side
	}
	if y+side > bounds.Max.Y {
		y = bounds.Max.Y - side
	}
	if x < bounds.Min.X || y < bounds.Min.Y {
		// Template smaller than the requested code; fill what we have.
		return bounds
	}
	return image.Rect(x, y, x+side, y+side)
}

// DecodeTemplate reads a PNG, JPEG, or WebP template image.
func DecodeTemplate(r io.Reader) (image.Image, error) {
	raw, err := io.ReadAll(io.LimitReader(r, 10<<20))
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("template image is empty")
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		if decoded, decodeErr := webp.Decode(bytes.NewReader(raw)); decodeErr == nil {
			return decoded, nil
		}
		return nil, errors.New("unable to decode template image")
	}
	return img, nil
}

// PlainTemplate builds a white card used when a branch has not uploaded
// template artwork yet.
func PlainTemplate(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	stddraw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, stddraw.Src)
	return img
}

// Compose draws the QR code for url onto the template at the placement
// and returns the finished card.
func Compose(template image.Image, url string, p Placement) (image.Image, error) {
	if url == "" {
		return nil, errors.New("url is required")
	}

	region := p.Rect(template.Bounds())
	if region.Empty() {
		return nil, errors.New("placement produces an empty region")
	}

	code, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	// Render at the target size directly; the library quantizes to whole
	// modules, so scale the result up to fill the region exactly.
	qrImg := code.Image(region.Dx())

	out := image.NewRGBA(template.Bounds())
	stddraw.Draw(out, out.Bounds(), template, template.Bounds().Min, stddraw.Src)
	xdraw.CatmullRom.Scale(out, region, qrImg, qrImg.Bounds(), xdraw.Over, nil)
	return out, nil
}

// WritePNG encodes a finished card for download.
func WritePNG(w io.Writer, card image.Image) error {
	return png.Encode(w, card)
}
