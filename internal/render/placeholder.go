package render

import (
	"image"
	"image/color"
	idraw "image/draw"

	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
)

// placeholderColor is the solid frame used when a slot has no usable asset
// and no earlier slot decoded successfully.
var placeholderColor = color.RGBA{R: 24, G: 24, B: 28, A: 255}

// SolidFrame returns a single-color frame of the target resolution.
func SolidFrame(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	idraw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, idraw.Src)
	return img
}

// ScaleToFit letterboxes an image onto a width x height canvas, preserving
// its aspect ratio.
func ScaleToFit(src image.Image, width, height int) *image.RGBA {
	dst := SolidFrame(width, height, color.RGBA{A: 255})

	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return dst
	}

	scale := float64(width) / float64(sb.Dx())
	if s := float64(height) / float64(sb.Dy()); s < scale {
		scale = s
	}
	w := int(float64(sb.Dx()) * scale)
	h := int(float64(sb.Dy()) * scale)
	x := (width - w) / 2
	y := (height - h) / 2

	draw.CatmullRom.Scale(dst, image.Rect(x, y, x+w, y+h), src, sb, draw.Src, nil)
	return dst
}

// QREndCard renders a QR code for the given link centered on a dark frame,
// used as an optional closing slide.
func QREndCard(link string, width, height int) (*image.RGBA, error) {
	side := height / 2
	if width < height {
		side = width / 2
	}

	q, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	qimg := q.Image(side)

	frame := SolidFrame(width, height, placeholderColor)
	offset := image.Pt((width-side)/2, (height-side)/2)
	target := image.Rectangle{Min: offset, Max: offset.Add(image.Pt(side, side))}
	idraw.Draw(frame, target, qimg, qimg.Bounds().Min, idraw.Over)
	return frame, nil
}
