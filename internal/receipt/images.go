package receipt

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DirImages resolves image names against a directory of logo files.
// Decoded images are cached for the process lifetime; receipts reuse
// the same logo thousands of times a day.
type DirImages struct {
	dir string

	mu    sync.Mutex
	cache map[string]image.Image
}

func NewDirImages(dir string) *DirImages {
	return &DirImages{dir: dir, cache: make(map[string]image.Image)}
}

// Resolve loads the named image from the asset directory. Names may
// omit the extension; .png is tried first, then .jpg. Unknown names
// resolve to nil and the element is skipped.
func (d *DirImages) Resolve(name string) image.Image {
	if name == "" || strings.Contains(name, "..") {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if img, ok := d.cache[name]; ok {
		return img
	}

	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = []string{name + ".png", name + ".jpg"}
	}
	for _, c := range candidates {
		img, err := decodeFile(filepath.Join(d.dir, c))
		if err != nil {
			continue
		}
		d.cache[name] = img
		return img
	}

	log.Printf("image %q not found in %s", name, d.dir)
	d.cache[name] = nil
	return nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}
