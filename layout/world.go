package layout

import (
	"fmt"
	"os"
	"path/filepath"

	"roomedit/rom"
	"roomedit/room"
	"roomedit/tiled"

	"github.com/pkg/errors"
)

const (
	OverworldWorld = "overworld.world"

	mapWidth  = room.Width * 16
	mapHeight = room.Height * 16
)

func WorldFilename(n int) string {
	return fmt.Sprintf("layout_%02x.world", n)
}

// Overworld places every overworld room on its 16x16 grid.
func Overworld() *tiled.World {
	maps := make([]tiled.WorldMap, 0, 0x100)
	for id := room.ID(0); id < room.FirstIndoor; id++ {
		maps = append(maps, tiled.WorldMap{
			FileName: tiled.RoomFilename(id),
			Height:   mapHeight,
			Width:    mapWidth,
			X:        int(id&0x0F) * mapWidth,
			Y:        int(id>>4) * mapHeight,
		})
	}
	return tiled.NewWorld(maps)
}

// World places the layout's member rooms, row-major.
func (l *Layout) World() *tiled.World {
	maps := make([]tiled.WorldMap, 0, Size*Size)
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if !l.Member(x, y) {
				continue
			}
			maps = append(maps, tiled.WorldMap{
				FileName: tiled.RoomFilename(l.Room(x, y)),
				Height:   mapHeight,
				Width:    mapWidth,
				X:        x * mapWidth,
				Y:        y * mapHeight,
			})
		}
	}
	return tiled.NewWorld(maps)
}

// FromWorld rebuilds layout n from a world file. The returned map gives the
// minimap cell offset of every room placed, when layout n has a minimap.
func FromWorld(n int, w *tiled.World) (Layout, map[room.ID]int, error) {
	l := Layout{Index: n}
	base, hasMinimap := MinimapAddr(n)
	addrs := make(map[room.ID]int, len(w.Maps))

	for _, m := range w.Maps {
		x, y := m.X/mapWidth, m.Y/mapHeight
		if m.X < 0 || m.Y < 0 || x >= Size || y >= Size {
			return l, nil, errors.Errorf("%s: %s placed outside the layout at %d,%d", WorldFilename(n), m.FileName, m.X, m.Y)
		}
		id, err := tiled.ParseRoomFilename(m.FileName)
		if err != nil {
			return l, nil, errors.Wrap(err, WorldFilename(n))
		}
		l.Cells[x+y*Size] = uint8(id)
		if hasMinimap {
			addrs[id] = base + x + y*Size
		}
	}
	return l, addrs, nil
}

// Export writes overworld.world and every layout world file into dir.
func Export(r *rom.ROM, dir string) error {
	if err := tiled.SaveWorld(filepath.Join(dir, OverworldWorld), Overworld()); err != nil {
		return err
	}
	for n := 0; n < Count; n++ {
		l := Read(r, n)
		if err := tiled.SaveWorld(filepath.Join(dir, WorldFilename(n)), l.World()); err != nil {
			return err
		}
	}
	return nil
}

// Minimaps maps rooms to their minimap cell in bank 0x02, as recorded by
// Import.
type Minimaps map[room.ID]int

// Import reads every layout world file from dir back into the ROM and
// clears the minimap tables, which Write then fills in room by room.
func Import(r *rom.ROM, dir string) (Minimaps, error) {
	all := make(Minimaps, 0x200)
	for n := 0; n < Count; n++ {
		w, err := tiled.LoadWorld(filepath.Join(dir, WorldFilename(n)))
		if err != nil {
			if os.IsNotExist(errors.Cause(err)) {
				return nil, errors.Wrapf(err, "missing %s", WorldFilename(n))
			}
			return nil, err
		}
		l, addrs, err := FromWorld(n, w)
		if err != nil {
			return nil, err
		}
		l.Write(r)
		for id, a := range addrs {
			all[id] = a
		}
	}
	ClearMinimaps(r)
	return all, nil
}

// Write stores the room's minimap marker. Rooms outside every minimap and
// rooms without a marker name are left alone.
func (m Minimaps) Write(r *rom.ROM, id room.ID, name string) error {
	addr, ok := m[id]
	if !ok || name == "" {
		return nil
	}
	code, err := MarkerCode(name)
	if err != nil {
		return errors.Wrapf(err, "room $%03X", uint16(id))
	}
	r.Write8(minimapBank, addr, code)
	return nil
}
