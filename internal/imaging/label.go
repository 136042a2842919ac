package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// labelPadding is the background margin around label text, in pixels.
const labelPadding = 1

// drawLabel draws text with its top-left corner at (x, y) over a filled
// background box. Text falling outside dst is clipped.
func drawLabel(dst draw.Image, x, y int, text string, fg, bg color.Color) {
	face := basicfont.Face7x13
	metrics := face.Metrics()

	width := font.MeasureString(face, text).Ceil()
	height := metrics.Height.Ceil()

	box := image.Rect(x-labelPadding, y-labelPadding, x+width+labelPadding, y+height+labelPadding)
	draw.Draw(dst, box.Intersect(dst.Bounds()), image.NewUniform(bg), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(x, y+metrics.Ascent.Ceil()),
	}
	d.DrawString(text)
}
