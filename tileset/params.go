package tileset

import (
	"fmt"
	"regexp"
	"strconv"

	"roomedit/rom"
	"roomedit/room"

	"github.com/pkg/errors"
)

var ErrUnknownTileset = errors.New("unknown tileset image name")

type Kind uint8

const (
	KindOverworld Kind = iota
	KindIndoor
	KindSidescroll
)

func (k Kind) String() string {
	switch k {
	case KindOverworld:
		return "overworld"
	case KindIndoor:
		return "indoor"
	case KindSidescroll:
		return "sidescroll"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Params identifies one rendered tileset image. Fields that a kind does not
// use are zero.
type Params struct {
	Kind      Kind
	Tileset   uint8
	Animation uint8
	Palette   uint8
	AttrBank  uint8
	AttrAddr  uint16 // in-bank offset
}

func (p Params) Filename() string {
	switch p.Kind {
	case KindOverworld:
		return fmt.Sprintf("ZZ_overworld_%02x_%02x_%02x_%02x_%04x.png", p.Tileset, p.Animation, p.Palette, p.AttrBank, p.AttrAddr)
	case KindIndoor:
		return fmt.Sprintf("ZZ_indoor_%02x_%02x.png", p.Tileset, p.Animation)
	default:
		return fmt.Sprintf("ZZ_sidescroll_%02x.png", p.Animation)
	}
}

var (
	overworldName  = regexp.MustCompile(`^ZZ_overworld_([0-9a-f]+)_([0-9a-f]+)_([0-9a-f]+)_([0-9a-f]+)_([0-9a-f]+)\.png$`)
	indoorName     = regexp.MustCompile(`^ZZ_indoor_([0-9a-f]+)_([0-9a-f]+)\.png$`)
	sidescrollName = regexp.MustCompile(`^ZZ_sidescroll_([0-9a-f]+)\.png$`)
)

func ParseFilename(name string) (p Params, err error) {
	hex := func(s string, bits int) uint64 {
		if err != nil {
			return 0
		}
		var v uint64
		v, err = strconv.ParseUint(s, 16, bits)
		return v
	}

	if m := overworldName.FindStringSubmatch(name); m != nil {
		p = Params{
			Kind:      KindOverworld,
			Tileset:   uint8(hex(m[1], 8)),
			Animation: uint8(hex(m[2], 8)),
			Palette:   uint8(hex(m[3], 8)),
			AttrBank:  uint8(hex(m[4], 8)),
			AttrAddr:  uint16(hex(m[5], 16)),
		}
	} else if m = indoorName.FindStringSubmatch(name); m != nil {
		p = Params{
			Kind:      KindIndoor,
			Tileset:   uint8(hex(m[1], 8)),
			Animation: uint8(hex(m[2], 8)),
		}
	} else if m = sidescrollName.FindStringSubmatch(name); m != nil {
		p = Params{
			Kind:      KindSidescroll,
			Animation: uint8(hex(m[1], 8)),
		}
	} else {
		return Params{}, errors.Wrapf(ErrUnknownTileset, "%q", name)
	}
	if err != nil {
		return Params{}, errors.Wrapf(err, "tileset image %q", name)
	}
	return p, nil
}

// per-room tileset selection tables
const (
	owTilesetBank   = 0x3F
	owTilesetAddr   = 0x2F00
	owAttrBankBank  = 0x1A
	owAttrBankAddr  = 0x2476
	owAttrAddrBank  = 0x1A
	owAttrAddrAddr  = 0x1E76
	owPaletteBank   = 0x21
	owPaletteAddr   = 0x02EF
	indoorTilesBank = 0x20
	indoorTilesAddr = 0x2EB3 // indexed by room - 0x100
)

// ReadParams looks up the tileset a room is drawn with. animation comes from
// the room's object header.
func ReadParams(r *rom.ROM, id room.ID, animation uint8, sidescroll bool) Params {
	if id.IsOverworld() {
		return Params{
			Kind:      KindOverworld,
			Tileset:   r.Read8(owTilesetBank, owTilesetAddr+int(id)),
			Animation: animation,
			Palette:   r.Read8(owPaletteBank, owPaletteAddr+int(id)),
			AttrBank:  r.Read8(owAttrBankBank, owAttrBankAddr+int(id)),
			AttrAddr:  r.Read16(owAttrAddrBank, owAttrAddrAddr+int(id)*2) - 0x4000,
		}
	}
	if sidescroll {
		return Params{Kind: KindSidescroll, Animation: animation}
	}
	return Params{
		Kind:      KindIndoor,
		Tileset:   r.Read8(indoorTilesBank, indoorTilesAddr+int(id-room.FirstIndoor)),
		Animation: animation,
	}
}

// Apply writes p back to the room's tileset selection tables. Params of a
// kind that does not match the room are ignored, as are sidescroll params
// which only carry the animation.
func (p Params) Apply(r *rom.ROM, id room.ID) {
	switch {
	case p.Kind == KindOverworld && id.IsOverworld():
		r.Write8(owTilesetBank, owTilesetAddr+int(id), p.Tileset)
		r.Write8(owAttrBankBank, owAttrBankAddr+int(id), p.AttrBank)
		r.Write16(owAttrAddrBank, owAttrAddrAddr+int(id)*2, p.AttrAddr+0x4000)
		r.Write8(owPaletteBank, owPaletteAddr+int(id), p.Palette)
	case p.Kind == KindIndoor && !id.IsOverworld():
		r.Write8(indoorTilesBank, indoorTilesAddr+int(id-room.FirstIndoor), p.Tileset)
	}
}

// Matches reports whether p is a valid tileset kind for the room.
func (p Params) Matches(id room.ID) bool {
	return (p.Kind == KindOverworld) == id.IsOverworld()
}
