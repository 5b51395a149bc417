package report

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	cellPadX = 8
	cellPadY = 6
)

var (
	colorBorder  = color.RGBA{R: 0xd1, G: 0xd5, B: 0xdb, A: 0xff}
	colorHeader  = color.RGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff}
	colorStripe  = color.RGBA{R: 0xf3, G: 0xf4, B: 0xf6, A: 0xff}
	colorText    = color.RGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}
	colorHeading = color.RGBA{R: 0x11, G: 0x18, B: 0x27, A: 0xff}
)

// ErrNoColumns is returned when every column of a table is excluded.
var ErrNoColumns = errors.New("report: table has no visible columns")

// MaxRasterPixels bounds the area of the bitmap Rasterize returns.
const MaxRasterPixels = 24_000_000

// bandHeight is the pixel height of one slice rendered before scaling.
const bandHeight = 2048

// layout holds the measured geometry of a table.
type layout struct {
	table     Table
	cols      []int
	widths    []int
	rowHeight int
	ascent    int
	width     int
	height    int
	lines     int
}

// Rasterize draws the table into an opaque bitmap no larger than
// MaxRasterPixels. See RasterizeWithin.
func Rasterize(table Table, maxWidth int) (*image.RGBA, error) {
	return RasterizeWithin(table, maxWidth, MaxRasterPixels)
}

// RasterizeWithin draws the table into an opaque bitmap. Excluded columns are
// skipped entirely, so the result is identical to rendering a table without
// them. A raster wider than maxWidth pixels, or larger than maxPixels in area,
// is scaled down keeping its aspect ratio; zero disables either limit.
// Scaled tables are rendered in horizontal bands so the full-size bitmap is
// never allocated.
func RasterizeWithin(table Table, maxWidth, maxPixels int) (*image.RGBA, error) {
	l, err := measure(table)
	if err != nil {
		return nil, err
	}

	outW, outH := fit(l.width, l.height, maxWidth, maxPixels)
	if outW == l.width && outH == l.height {
		img := image.NewRGBA(image.Rect(0, 0, l.width, l.height))
		l.drawLines(img, 0, l.lines)
		return img, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, outW, outH))
	perBand := bandHeight / l.rowHeight
	if perBand < 1 {
		perBand = 1
	}
	for first := 0; first < l.lines; first += perBand {
		last := first + perBand
		if last > l.lines {
			last = l.lines
		}
		bottom := last*l.rowHeight + 1
		if bottom > l.height {
			bottom = l.height
		}
		band := image.NewRGBA(image.Rect(0, first*l.rowHeight, l.width, bottom))
		l.drawLines(band, first, last)

		y0 := band.Rect.Min.Y * outH / l.height
		y1 := band.Rect.Max.Y * outH / l.height
		if y1 <= y0 {
			y1 = y0 + 1
		}
		xdraw.ApproxBiLinear.Scale(dst, image.Rect(0, y0, outW, y1), band, band.Bounds(), xdraw.Src, nil)
	}
	return dst, nil
}

func measure(table Table) (*layout, error) {
	cols := table.visible()
	if len(cols) == 0 {
		return nil, ErrNoColumns
	}

	face := basicfont.Face7x13
	l := &layout{
		table:     table,
		cols:      cols,
		widths:    make([]int, len(cols)),
		ascent:    face.Metrics().Ascent.Ceil(),
		rowHeight: face.Metrics().Height.Ceil() + 2*cellPadY,
		lines:     len(table.Rows) + 1,
	}
	for i, col := range cols {
		w := font.MeasureString(face, table.Columns[col].Header).Ceil()
		for row := range table.Rows {
			if cw := font.MeasureString(face, table.cell(row, col)).Ceil(); cw > w {
				w = cw
			}
		}
		l.widths[i] = w + 2*cellPadX
	}

	l.width = 1
	for _, w := range l.widths {
		l.width += w
	}
	l.height = l.rowHeight*l.lines + 1
	return l, nil
}

// fit returns the output size for a w x h raster under the limits.
func fit(w, h, maxWidth, maxPixels int) (int, int) {
	outW, outH := w, h
	if maxWidth > 0 && outW > maxWidth {
		outW = maxWidth
		outH = h * maxWidth / w
		if outH < 1 {
			outH = 1
		}
	}
	if maxPixels > 0 && int64(outW)*int64(outH) > int64(maxPixels) {
		f := math.Sqrt(float64(maxPixels) / (float64(outW) * float64(outH)))
		outW = max(1, int(float64(outW)*f))
		outH = max(1, int(float64(outH)*f))
	}
	return outW, outH
}

// drawLines paints table lines [first, last) into img, whose bounds are in
// full-size raster coordinates. Line 0 is the header.
func (l *layout) drawLines(img *image.RGBA, first, last int) {
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	face := basicfont.Face7x13

	for line := first; line < last; line++ {
		top := line * l.rowHeight
		bg := color.RGBA{}
		switch {
		case line == 0:
			bg = colorHeader
		case (line-1)%2 == 0:
			bg = colorStripe
		}
		if bg.A != 0 {
			draw.Draw(img, image.Rect(0, top, l.width, top+l.rowHeight), image.NewUniform(bg), image.Point{}, draw.Src)
		}

		x := 0
		for i, col := range l.cols {
			text := l.table.Columns[col].Header
			ink := colorHeading
			if line > 0 {
				text = l.table.cell(line-1, col)
				ink = colorText
			}
			d := font.Drawer{
				Dst:  img,
				Src:  image.NewUniform(ink),
				Face: face,
				Dot:  fixed.P(x+cellPadX+1, top+cellPadY+l.ascent+1),
			}
			d.DrawString(text)
			x += l.widths[i]
		}
	}

	border := image.NewUniform(colorBorder)
	for line := first; line <= last; line++ {
		y := line * l.rowHeight
		draw.Draw(img, image.Rect(0, y, l.width, y+1), border, image.Point{}, draw.Src)
	}
	bounds := img.Bounds()
	x := 0
	for i := 0; i <= len(l.widths); i++ {
		draw.Draw(img, image.Rect(x, bounds.Min.Y, x+1, bounds.Max.Y), border, image.Point{}, draw.Src)
		if i < len(l.widths) {
			x += l.widths[i]
		}
	}
}
