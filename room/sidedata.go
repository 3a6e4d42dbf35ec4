package room

import "roomedit/rom"

// SideData holds the per-room values kept in tables outside the room data.
type SideData struct {
	Minimap   string // empty when the room has no minimap cell
	ChestItem uint8
	RoomItem  uint8
	HasEvent  bool
	Event     uint8

	TilesetImage string
}

const (
	chestItemBank = 0x14
	chestItemAddr = 0x0560
	roomItemBank  = 0x3E
	roomItemAddr  = 0x3800
	eventBank     = 0x14
	eventAddr     = 0x0000 // indexed by room - 0x100
)

// HasEventTable reports whether rooms of this index carry an event byte.
func (id ID) HasEventTable() bool { return id >= FirstIndoor }

// ReadSideData reads the item and event tables; Minimap and TilesetImage
// are left for the layout assembler and the tileset renderer.
func ReadSideData(r *rom.ROM, id ID) SideData {
	sd := SideData{
		ChestItem: r.Read8(chestItemBank, chestItemAddr+int(id)),
		RoomItem:  r.Read8(roomItemBank, roomItemAddr+int(id)),
	}
	if id.HasEventTable() {
		sd.HasEvent = true
		sd.Event = r.Read8(eventBank, eventAddr+int(id-FirstIndoor))
	}
	return sd
}

func WriteSideData(r *rom.ROM, id ID, sd SideData) {
	r.Write8(chestItemBank, chestItemAddr+int(id), sd.ChestItem)
	r.Write8(roomItemBank, roomItemAddr+int(id), sd.RoomItem)
	if sd.HasEvent && id.HasEventTable() {
		r.Write8(eventBank, eventAddr+int(id-FirstIndoor), sd.Event)
	}
}
