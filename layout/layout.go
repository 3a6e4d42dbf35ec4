// Package layout reads and writes the indoor map layouts and their
// minimaps, and classifies rooms by the map they belong to.
package layout

import (
	"fmt"

	"roomedit/rom"
	"roomedit/room"

	"github.com/pkg/errors"
)

var ErrUnknownMarker = errors.New("unknown minimap marker")

const (
	// Count is the number of indoor layouts.
	Count = 13
	Size  = 8 // layouts are Size x Size rooms

	layoutBank = 0x14
	layoutAddr = 0x0220

	minimapBank   = 0x02
	minimapAddr   = 0x2479
	minimapTables = 10
)

const (
	MarkerInvisible = 0x7D
	MarkerRoom      = 0xEF
	MarkerChest     = 0xED
	MarkerBoss      = 0xEE
)

var markerNames = map[uint8]string{
	MarkerInvisible: "INVISIBLE",
	MarkerRoom:      "ROOM",
	MarkerChest:     "CHEST",
	MarkerBoss:      "BOSS",
}

func MarkerName(code uint8) (string, error) {
	if n, ok := markerNames[code]; ok {
		return n, nil
	}
	return "", errors.Wrapf(ErrUnknownMarker, "code $%02X", code)
}

func MarkerCode(name string) (uint8, error) {
	for c, n := range markerNames {
		if n == name {
			return c, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownMarker, "%q", name)
}

// RoomOffset is added to a layout cell to get the full room index.
func RoomOffset(n int) room.ID {
	switch {
	case n == 11:
		return 0x300 // color dungeon
	case n > 5:
		return 0x200
	default:
		return 0x100
	}
}

// MinimapAddr returns the bank 0x02 offset of layout n's minimap table.
// Layouts 8, 9 and 10 have none.
func MinimapAddr(n int) (int, bool) {
	var k int
	switch {
	case n < 8:
		k = n
	case n == 12: // collapsed tower
		k = 8
	case n == 11: // color dungeon
		k = 9
	default:
		return 0, false
	}
	return minimapAddr + k*Size*Size, true
}

// Layout is one 8x8 grid of low room bytes.
type Layout struct {
	Index int
	Cells [Size * Size]uint8
}

func Read(r *rom.ROM, n int) Layout {
	l := Layout{Index: n}
	copy(l.Cells[:], r.Slice(layoutBank, layoutAddr+n*len(l.Cells), layoutAddr+(n+1)*len(l.Cells)))
	return l
}

func (l *Layout) Write(r *rom.ROM) {
	copy(r.Slice(layoutBank, layoutAddr+l.Index*len(l.Cells), layoutAddr+(l.Index+1)*len(l.Cells)), l.Cells[:])
}

// Member reports whether the cell holds a room. Empty cells read 0, except
// the color dungeon entrance which really is room 0x300.
func (l *Layout) Member(x, y int) bool {
	return l.Cells[x+y*Size] != 0 || (l.Index == 11 && x == 1 && y == 3)
}

func (l *Layout) Room(x, y int) room.ID {
	return room.ID(l.Cells[x+y*Size]) + RoomOffset(l.Index)
}

func (l *Layout) String() string {
	return fmt.Sprintf("layout_%02x", l.Index)
}

// ClearMinimaps sets every minimap table to MarkerInvisible.
func ClearMinimaps(r *rom.ROM) {
	b := r.Slice(minimapBank, minimapAddr, minimapAddr+minimapTables*Size*Size)
	for i := range b {
		b[i] = MarkerInvisible
	}
}
