package printing

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/quanpos/api/internal/enum"
	"github.com/quanpos/api/internal/receipt"
)

// Target pixel widths per paper class.
const (
	PixelWidth58 = 384
	PixelWidth80 = 576
)

func PixelWidth(paperWidth string) int {
	if paperWidth == enum.PaperWidth80 {
		return PixelWidth80
	}
	return PixelWidth58
}

// The layout uses the fixed 7x13 bitmap face at integer zoom factors.
// It is ASCII only, which is why all drawn text goes through FoldASCII.
var face = basicfont.Face7x13

const (
	glyphW  = 7
	glyphH  = 13
	ascent  = 11
	leading = 4
)

func zoom(size string) int {
	switch size {
	case enum.FontSmall:
		return 1
	case enum.FontLarge:
		return 3
	default:
		return 2
	}
}

// Render lays a document out at the given pixel width and returns the
// monochrome page. It is a pure function with no thread affinity, so
// print jobs can render on any goroutine.
func Render(doc receipt.Document, width int) *image.Gray {
	var strips []*image.Gray
	for _, b := range doc.Blocks {
		switch b.Kind {
		case receipt.BlockText:
			strips = append(strips, textStrips(b.Text, b.Align, zoom(b.Size), b.Bold, width)...)
		case receipt.BlockRow:
			strips = append(strips, rowStrips(b.Text, b.Right, zoom(b.Size), b.Bold, width)...)
		case receipt.BlockRule:
			strips = append(strips, ruleStrip(width))
		case receipt.BlockImage:
			strips = append(strips, imageStrip(b.Image, width))
		}
	}

	height := 0
	for _, s := range strips {
		height += s.Bounds().Dy()
	}
	if height == 0 {
		height = 1
	}

	page := blank(width, height)
	y := 0
	for _, s := range strips {
		xdraw.Draw(page, image.Rect(0, y, width, y+s.Bounds().Dy()), s, image.Point{}, xdraw.Src)
		y += s.Bounds().Dy()
	}
	return page
}

func blank(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	return img
}

// drawLine renders one already-folded text line at 1x.
func drawLine(text string, bold bool) *image.Gray {
	w := len(text) * glyphW
	if bold {
		w++
	}
	if w == 0 {
		w = 1
	}
	img := blank(w, glyphH)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(0, ascent),
	}
	d.DrawString(text)
	if bold {
		d.Dot = fixed.P(1, ascent)
		d.DrawString(text)
	}
	return img
}

// textStrips wraps, folds, and renders a text block into full-width
// strips, one per wrapped line.
func textStrips(text, align string, z int, bold bool, width int) []*image.Gray {
	maxChars := width / (glyphW * z)
	var out []*image.Gray
	for _, line := range wrap(FoldASCII(text), maxChars) {
		src := drawLine(line, bold)
		strip := blank(width, glyphH*z+leading)
		lineW := src.Bounds().Dx() * z
		x := 0
		switch align {
		case enum.AlignCenter:
			x = (width - lineW) / 2
		case enum.AlignRight:
			x = width - lineW
		}
		if x < 0 {
			x = 0
		}
		xdraw.NearestNeighbor.Scale(strip,
			image.Rect(x, 0, x+lineW, glyphH*z),
			src, src.Bounds(), xdraw.Src, nil)
		out = append(out, strip)
	}
	return out
}

// rowStrips renders a two-column row: left text wrapped, right text
// right-aligned on the first line.
func rowStrips(left, right string, z int, bold bool, width int) []*image.Gray {
	right = FoldASCII(right)
	rightW := (len(right)*glyphW + 1) * z
	maxChars := (width - rightW - glyphW*z) / (glyphW * z)
	if maxChars < 1 {
		maxChars = 1
	}

	var out []*image.Gray
	for i, line := range wrap(FoldASCII(left), maxChars) {
		strip := blank(width, glyphH*z+leading)
		src := drawLine(line, bold)
		lineW := src.Bounds().Dx() * z
		xdraw.NearestNeighbor.Scale(strip,
			image.Rect(0, 0, lineW, glyphH*z),
			src, src.Bounds(), xdraw.Src, nil)
		if i == 0 && right != "" {
			rsrc := drawLine(right, bold)
			rw := rsrc.Bounds().Dx() * z
			xdraw.NearestNeighbor.Scale(strip,
				image.Rect(width-rw, 0, width, glyphH*z),
				rsrc, rsrc.Bounds(), xdraw.Src, nil)
		}
		out = append(out, strip)
	}
	return out
}

func ruleStrip(width int) *image.Gray {
	const h = 9
	strip := blank(width, h)
	for x := 0; x < width; x++ {
		if x%10 < 6 { // dashed
			strip.SetGray(x, h/2, color.Gray{Y: 0})
			strip.SetGray(x, h/2+1, color.Gray{Y: 0})
		}
	}
	return strip
}

func imageStrip(src image.Image, width int) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > width {
		h = h * width / w
		w = width
	}
	strip := blank(width, h+leading)
	x := (width - w) / 2
	xdraw.ApproxBiLinear.Scale(strip, image.Rect(x, 0, x+w, h), src, b, xdraw.Src, nil)
	return strip
}

// wrap splits text into lines of at most maxChars characters, breaking
// on spaces where possible.
func wrap(text string, maxChars int) []string {
	if maxChars < 1 {
		maxChars = 1
	}
	if len(text) <= maxChars {
		return []string{text}
	}
	var lines []string
	for len(text) > maxChars {
		cut := maxChars
		for i := maxChars; i > 0; i-- {
			if text[i] == ' ' {
				cut = i
				break
			}
		}
		lines = append(lines, text[:cut])
		text = text[cut:]
		for len(text) > 0 && text[0] == ' ' {
			text = text[1:]
		}
	}
	if len(text) > 0 {
		lines = append(lines, text)
	}
	return lines
}
