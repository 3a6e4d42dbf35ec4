package layout

import (
	"roomedit/rom"
	"roomedit/room"

	"github.com/pkg/errors"
)

// Classification records what the layouts and warps say about each room.
// It must be complete before any room is decoded: a room's tileset depends
// on whether some warp leads into it as a sidescroller.
type Classification struct {
	MapPerRoom map[room.ID]int
	Minimap    map[room.ID]string
	Sidescroll map[room.ID]bool
}

// lastWarpScanRoom bounds the warp scan; the color dungeon is not scanned.
const lastWarpScanRoom = 0x2FE

func Classify(r *rom.ROM, st *room.Store) (*Classification, error) {
	c := &Classification{
		MapPerRoom: make(map[room.ID]int, 0x200),
		Minimap:    make(map[room.ID]string, 0x200),
		Sidescroll: make(map[room.ID]bool),
	}

	for n := 0; n < Count; n++ {
		l := Read(r, n)
		for y := 0; y < Size; y++ {
			for x := 0; x < Size; x++ {
				if l.Member(x, y) {
					c.MapPerRoom[l.Room(x, y)] = n
				}
			}
		}

		addr, ok := MinimapAddr(n)
		if !ok {
			continue
		}
		minimap := r.Slice(minimapBank, addr, addr+Size*Size)
		for idx, code := range minimap {
			if l.Cells[idx] == 0 && n != 11 {
				continue
			}
			name, err := MarkerName(code)
			if err != nil {
				return nil, errors.Wrapf(err, "%s cell %d", l.String(), idx)
			}
			c.Minimap[room.ID(l.Cells[idx])+RoomOffset(n)] = name
		}
	}

	for id := room.ID(0); id <= lastWarpScanRoom; id++ {
		s, err := st.Load(id)
		if err != nil {
			return nil, err
		}
		for _, w := range s.Warps() {
			switch w.Kind {
			case room.WarpSidescroll:
				c.Sidescroll[room.ID(w.Room)] = true
			case room.WarpIndoor:
				c.MapPerRoom[room.ID(w.Room)] = int(w.Map)
			}
		}
	}
	return c, nil
}

// Category names the kind of room for listings.
func (c *Classification) Category(id room.ID) string {
	switch {
	case id.IsOverworld():
		return "overworld"
	case c.Sidescroll[id]:
		return "sidescroll"
	default:
		return "indoor"
	}
}
