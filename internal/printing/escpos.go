// Package printing rasterizes receipt documents and encodes them into
// the thermal-printer byte protocol, then delivers the bytes over TCP
// or a local raw device. Everything here is best-effort: a failed
// print is logged and dropped, never retried.
package printing

import (
	"image"
	"image/color"
)

// Control sequences of the receipt protocol.
var (
	cmdInit        = []byte{0x1B, 0x40}             // ESC @
	cmdAlignLeft   = []byte{0x1B, 0x61, 0x00}       // ESC a 0
	cmdAlignCenter = []byte{0x1B, 0x61, 0x01}       // ESC a 1
	cmdFeed        = []byte{0x1B, 0x64, 0x04}       // ESC d 4: feed 4 lines
	cmdCut         = []byte{0x1D, 0x56, 0x42, 0x00} // GS V B 0: feed and cut
	rasterHeader   = []byte{0x1D, 0x76, 0x30, 0x00} // GS v 0, normal density
)

const inkThreshold = 128

// ink applies the luminance threshold: 0.3R + 0.59G + 0.11B below 128
// is a black printed dot.
func ink(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	lum := 0.3*float64(r>>8) + 0.59*float64(g>>8) + 0.11*float64(b>>8)
	return lum < inkThreshold
}

// EncodeRaster packs an image into the raster-image command: 4-byte
// header, little-endian bytes-per-row, little-endian row count, then
// row data with 8 pixels per byte, most significant bit first. Widths
// that are not a multiple of 8 are padded with blank pixels.
func EncodeRaster(img image.Image) []byte {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	bytesPerRow := (w + 7) / 8

	out := make([]byte, 0, len(rasterHeader)+4+bytesPerRow*h)
	out = append(out, rasterHeader...)
	out = append(out, byte(bytesPerRow), byte(bytesPerRow>>8))
	out = append(out, byte(h), byte(h>>8))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		var cur byte
		bit := 7
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if ink(img.At(x, y)) {
				cur |= 1 << bit
			}
			if bit == 0 {
				out = append(out, cur)
				cur, bit = 0, 7
			} else {
				bit--
			}
		}
		if bit != 7 {
			out = append(out, cur)
		}
	}
	return out
}

// ImageJob wraps a rendered receipt image in the full print sequence:
// initialize, center, raster image, feed, cut.
func ImageJob(img image.Image) []byte {
	var out []byte
	out = append(out, cmdInit...)
	out = append(out, cmdAlignCenter...)
	out = append(out, EncodeRaster(img)...)
	out = append(out, cmdFeed...)
	out = append(out, cmdCut...)
	return out
}

// TextJob encodes plain text lines directly in the protocol's text
// mode (used for printer self-tests). Diacritics are folded since text
// mode has no non-ASCII glyphs.
func TextJob(lines []string) []byte {
	var out []byte
	out = append(out, cmdInit...)
	out = append(out, cmdAlignLeft...)
	for _, line := range lines {
		out = append(out, []byte(FoldASCII(line))...)
		out = append(out, '\n')
	}
	out = append(out, cmdFeed...)
	out = append(out, cmdCut...)
	return out
}
