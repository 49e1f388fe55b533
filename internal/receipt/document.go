// Package receipt turns an order (or a kitchen dispatch batch) plus a
// receipt template into a flat renderable document. It knows nothing
// about printer hardware; the printing package rasterizes and encodes
// the documents produced here.
package receipt

import "image"

type BlockKind int

const (
	BlockText BlockKind = iota
	BlockRule
	BlockImage
	BlockRow
)

// Block is one laid-out row of a document. Kind selects which fields
// are meaningful: Text/Align/Size/Bold for BlockText, Text+Right for
// BlockRow (two-column line), Image for BlockImage.
type Block struct {
	Kind  BlockKind
	Text  string
	Right string
	Align string
	Size  string
	Bold  bool
	Image image.Image
}

// Document is the flat output of the template engine, in print order.
type Document struct {
	Blocks []Block
}

func (d *Document) text(text, align, size string, bold bool) {
	d.Blocks = append(d.Blocks, Block{Kind: BlockText, Text: text, Align: align, Size: size, Bold: bold})
}

func (d *Document) row(left, right, size string, bold bool) {
	d.Blocks = append(d.Blocks, Block{Kind: BlockRow, Text: left, Right: right, Size: size, Bold: bold})
}

func (d *Document) rule() {
	d.Blocks = append(d.Blocks, Block{Kind: BlockRule})
}

func (d *Document) image(img image.Image) {
	if img != nil {
		d.Blocks = append(d.Blocks, Block{Kind: BlockImage, Image: img})
	}
}

// ImageSource resolves a named image resource (logo files on disk,
// typically). Resolve returns nil when the name is unknown.
type ImageSource interface {
	Resolve(name string) image.Image
}
