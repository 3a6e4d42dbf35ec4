package tileset

import (
	"bufio"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"roomedit/rom"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// Cache renders tileset images into Dir, once per file name. An image that
// already exists on disk is never rendered again, so hand edited tilesets
// survive an export.
type Cache struct {
	Dir string

	rom   *rom.ROM
	group singleflight.Group
}

func NewCache(dir string, r *rom.ROM) *Cache {
	return &Cache{Dir: dir, rom: r}
}

// Ensure makes sure the image for p exists and returns its file name relative
// to Dir. Concurrent callers asking for the same name share one render.
func (c *Cache) Ensure(p Params) (string, error) {
	name := p.Filename()
	_, err, _ := c.group.Do(name, func() (interface{}, error) {
		path := filepath.Join(c.Dir, name)
		if _, err := os.Stat(path); err == nil {
			return nil, nil
		}

		src, err := LoadSource(c.rom, p)
		if err != nil {
			return nil, err
		}
		return nil, ExportPNG(path, Render(src))
	})
	return name, err
}

// Open decodes a cached tileset image.
func (c *Cache) Open(name string) (image.Image, error) {
	f, err := os.Open(filepath.Join(c.Dir, filepath.Base(name)))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := png.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrapf(err, "decode %q", name)
	}
	return g, nil
}

// ExportPNG writes g to a temporary file next to name and renames it into
// place, so readers never observe a partial image.
func ExportPNG(name string, g image.Image) (err error) {
	var po *os.File

	po, err = os.CreateTemp(filepath.Dir(name), ".tileset-*.png")
	if err != nil {
		return errors.Wrap(err, "create temp image")
	}
	tmp := po.Name()
	defer func() {
		if err != nil {
			po.Close()
			os.Remove(tmp)
		}
	}()

	if err = po.Chmod(0644); err != nil {
		return errors.Wrap(err, "chmod temp image")
	}

	bo := bufio.NewWriterSize(po, 256*1024)

	if err = png.Encode(bo, g); err != nil {
		return errors.Wrapf(err, "encode %q", name)
	}
	if err = bo.Flush(); err != nil {
		return errors.Wrapf(err, "write %q", name)
	}
	if err = po.Close(); err != nil {
		return errors.Wrapf(err, "close %q", name)
	}
	if err = os.Rename(tmp, name); err != nil {
		return errors.Wrapf(err, "rename to %q", name)
	}
	return nil
}
