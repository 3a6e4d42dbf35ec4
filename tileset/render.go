package tileset

import (
	"image"
	"image/color"

	"roomedit/rom"

	"github.com/pkg/errors"
)

const (
	// ImageSize is the width and height of a tileset image: 16x16 metatiles
	// of 16x16 pixels.
	ImageSize = 256

	gfxSize      = 0x1000 // 256 tiles of 16 bytes
	metatileSize = 0x400  // 256 metatiles of 4 tiles
	animOffset   = 0x6C0
	animSize     = 0x40
)

// animation graphics in bank 0x2C, by room animation id
var animAddr = map[uint8]int{
	2:  0x2B00,
	3:  0x2C00,
	4:  0x2D00,
	5:  0x2E00,
	6:  0x2F00,
	7:  0x2D00,
	8:  0x3000,
	9:  0x3100,
	10: 0x3200,
	11: 0x2A00,
	12: 0x3300,
	13: 0x3500,
	14: 0x3600,
	15: 0x3400,
	16: 0x3700,
}

// AnimationAddr returns where the animated tiles for id live in bank 0x2C.
func AnimationAddr(id uint8) int {
	return animAddr[id]
}

// span returns a copy of n bytes of bank starting at start, checking bounds
// since table driven addresses may point anywhere.
func span(r *rom.ROM, bank, start, n int) ([]byte, error) {
	if bank < 0 || bank >= len(r.Banks) || start < 0 || start+n > rom.BankSize {
		return nil, errors.Errorf("bank $%02X [$%04X,$%04X) out of range", bank, start, start+n)
	}
	return append([]byte(nil), r.Banks[bank][start:start+n]...), nil
}

// Source is the raw material for one tileset image.
type Source struct {
	Gfx       []byte // gfxSize bytes of 2bpp tile data
	Metatiles []byte // 4 tile indexes per metatile
	Attrs     []byte // 4 attribute bytes per metatile
	Palette   color.Palette
}

var grayPalette = color.Palette{
	color.RGBA{255, 255, 255, 255},
	color.RGBA{170, 170, 170, 255},
	color.RGBA{85, 85, 85, 255},
	color.RGBA{0, 0, 0, 255},
}

// LoadSource gathers tile graphics, metatiles, attributes and palette for p.
func LoadSource(r *rom.ROM, p Params) (*Source, error) {
	var err error
	src := &Source{}

	parts := make([][]byte, 0, 5)
	add := func(bank, start, n int) {
		if err != nil {
			return
		}
		var b []byte
		if b, err = span(r, bank, start, n); err == nil {
			parts = append(parts, b)
		}
	}

	switch p.Kind {
	case KindOverworld:
		add(0x2F, int(p.Tileset)*0x100, 0x200)
		add(0x2C, 0x1200, 0x600)
		add(0x2C, 0x0800, 0x800)
	case KindIndoor:
		if p.Tileset == 0xFF {
			parts = append(parts, make([]byte, 0x100))
		} else {
			add(0x0D, 0x1000+int(p.Tileset)*0x100, 0x100)
		}
		add(0x0D, 0x2100, 0x100)
		add(0x0D, 0x0000, 0x600)
		parts = append(parts, make([]byte, 0x700))
		add(0x12, 0x3800, 0x100)
	case KindSidescroll:
		// TODO: sidescroll graphics differ per map, bank 0x0D [0x3000,0x3800) holds the other set
		add(0x0D, 0x3800, 0x800)
		parts = append(parts, make([]byte, 0x700))
		add(0x12, 0x3800, 0x100)
	default:
		return nil, errors.Errorf("unsupported tileset kind %s", p.Kind)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "tileset %s graphics", p.Filename())
	}

	src.Gfx = make([]byte, 0, gfxSize)
	for _, b := range parts {
		src.Gfx = append(src.Gfx, b...)
	}
	if len(src.Gfx) != gfxSize {
		return nil, errors.Errorf("tileset %s: assembled $%X graphics bytes", p.Filename(), len(src.Gfx))
	}

	anim, err := span(r, 0x2C, AnimationAddr(p.Animation), animSize)
	if err != nil {
		return nil, errors.Wrapf(err, "tileset %s animation", p.Filename())
	}
	copy(src.Gfx[animOffset:], anim)

	if p.Kind == KindOverworld {
		if src.Metatiles, err = span(r, 0x1A, 0x2B1D, metatileSize); err != nil {
			return nil, errors.Wrapf(err, "tileset %s metatiles", p.Filename())
		}
		if src.Attrs, err = span(r, int(p.AttrBank), int(p.AttrAddr), metatileSize); err != nil {
			return nil, errors.Wrapf(err, "tileset %s attributes", p.Filename())
		}
		// bush with hole, and stairs
		src.Metatiles[0xD3*4+1] = src.Metatiles[0xE8*4+1]
		src.Metatiles[0xD3*4+3] = src.Metatiles[0xC6*4+3]

		if src.Palette, err = loadPalette(r, p.Palette); err != nil {
			return nil, errors.Wrapf(err, "tileset %s", p.Filename())
		}
	} else {
		if src.Metatiles, err = span(r, 0x08, 0x0000, metatileSize); err != nil {
			return nil, errors.Wrapf(err, "tileset %s metatiles", p.Filename())
		}
		src.Attrs = make([]byte, metatileSize)
		src.Palette = grayPalette
	}
	return src, nil
}

const (
	paletteBank  = 0x21
	paletteTable = 0x02B1
)

// loadPalette reads 8 palettes of 4 BGR15 colors.
func loadPalette(r *rom.ROM, index uint8) (color.Palette, error) {
	addr := int(r.Read16(paletteBank, paletteTable+int(index)*2)) - 0x4000
	raw, err := span(r, paletteBank, addr, 32*2)
	if err != nil {
		return nil, errors.Wrapf(err, "palette %d", index)
	}
	pal := make(color.Palette, 32)
	for i := range pal {
		pal[i] = bgr15RGBA(uint16(raw[i*2]) | uint16(raw[i*2+1])<<8)
	}
	return pal, nil
}

func bgr15RGBA(bgr15 uint16) color.RGBA {
	// convert BGR15 color format (MSB unused) to RGB24:
	return color.RGBA{
		R: uint8(bgr15&0x1F) << 3,
		G: uint8((bgr15>>5)&0x1F) << 3,
		B: uint8((bgr15>>10)&0x1F) << 3,
		A: 0xff,
	}
}

// Render draws all 256 metatiles of src into a paletted 256x256 image,
// metatile n at (n%16*16, n/16*16).
func Render(src *Source) *image.Paletted {
	g := image.NewPaletted(image.Rect(0, 0, ImageSize, ImageSize), src.Palette)
	for n := 0; n < 256; n++ {
		x, y := (n&15)*16, (n>>4)*16
		m := src.Metatiles[n*4 : n*4+4]
		a := src.Attrs[n*4 : n*4+4]
		draw2bppTile(g, src.Gfx, x+0, y+0, m[0], a[0])
		draw2bppTile(g, src.Gfx, x+8, y+0, m[1], a[1])
		draw2bppTile(g, src.Gfx, x+0, y+8, m[2], a[2])
		draw2bppTile(g, src.Gfx, x+8, y+8, m[3], a[3])
	}
	return g
}

func draw2bppTile(g *image.Paletted, gfx []byte, x, y int, index uint8, attr uint8) {
	t := gfx[int(index)*16 : int(index)*16+16]
	for py := 0; py < 8; py++ {
		lo, hi := t[py*2], t[py*2+1]
		if attr&0x40 != 0 {
			// vertical flip:
			lo, hi = t[14-py*2], t[15-py*2]
		}
		for px := 0; px < 8; px++ {
			bit := uint8(0x80) >> px
			if attr&0x20 != 0 {
				// horizontal flip:
				bit = 0x01 << px
			}
			c := (attr & 7) << 2
			if lo&bit != 0 {
				c |= 1
			}
			if hi&bit != 0 {
				c |= 2
			}
			g.SetColorIndex(x+px, y+py, c)
		}
	}
}
