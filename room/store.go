package room

import (
	"roomedit/rom"

	"github.com/pkg/errors"
)

type objectRegion struct {
	First ID
	Table rom.PointerTable
}

var objectRegions = [...]objectRegion{
	{0x000, rom.PointerTable{Bank: 0x09, Addr: 0x0000, Count: 0x100, DataStart: 0x0200, DataEnd: 0x4000}},
	{0x100, rom.PointerTable{Bank: 0x0A, Addr: 0x0000, Count: 0x100, DataStart: 0x0200, DataEnd: 0x4000}},
	{0x200, rom.PointerTable{Bank: 0x0B, Addr: 0x0000, Count: 0x0FF, DataStart: 0x01FE, DataEnd: 0x4000}},
	{0x300, rom.PointerTable{Bank: 0x3F, Addr: 0x3000, Count: 0x016, DataStart: 0x302C, DataEnd: 0x3800}}, // color dungeon
}

var entityTable = rom.PointerTable{Bank: 0x16, Addr: 0x0000, Count: 0x320, DataStart: 0x0640, DataEnd: 0x4000}

const (
	overlayBankTop    = 0x26
	overlayBankBottom = 0x27
	overlaySplit      = 0xCC
)

// AllRooms lists every room index the store knows about, in export order.
func AllRooms() []ID {
	ids := make([]ID, 0, 0x320)
	for _, rg := range objectRegions {
		for n := 0; n < rg.Table.Count; n++ {
			ids = append(ids, rg.First+ID(n))
		}
	}
	return ids
}

func regionFor(id ID) (objectRegion, int, error) {
	for _, rg := range objectRegions {
		if id >= rg.First && int(id-rg.First) < rg.Table.Count {
			return rg, int(id - rg.First), nil
		}
	}
	return objectRegion{}, 0, errors.Errorf("room $%03X has no object table", uint16(id))
}

func overlayLocation(id ID) (bank int, addr int) {
	if id < overlaySplit {
		return overlayBankTop, int(id) * Cells
	}
	return overlayBankBottom, int(id-overlaySplit) * Cells
}

// Store reads room snapshots out of a ROM and writes them back. Snapshots
// are cached so that edits survive until Flush.
type Store struct {
	rom   *rom.ROM
	rooms map[ID]*Snapshot
}

func NewStore(r *rom.ROM) *Store {
	return &Store{rom: r, rooms: make(map[ID]*Snapshot, 0x320)}
}

// Load returns the cached snapshot for id, reading it from ROM on first use.
func (st *Store) Load(id ID) (*Snapshot, error) {
	if s, ok := st.rooms[id]; ok {
		return s, nil
	}

	rg, n, err := regionFor(id)
	if err != nil {
		return nil, err
	}
	s := &Snapshot{Index: id}

	raw, err := rg.Table.Data(st.rom, n)
	if err != nil {
		return nil, errors.Wrapf(err, "room $%03X objects", uint16(id))
	}
	if err = ParseObjects(s, raw); err != nil {
		return nil, err
	}

	raw, err = entityTable.Data(st.rom, int(id))
	if err != nil {
		return nil, errors.Wrapf(err, "room $%03X entities", uint16(id))
	}
	if err = ParseEntities(s, raw); err != nil {
		return nil, err
	}

	if id.IsOverworld() {
		bank, addr := overlayLocation(id)
		s.Overlay = make([]byte, Cells)
		copy(s.Overlay, st.rom.Slice(bank, addr, addr+Cells))
	}

	st.rooms[id] = s
	return s, nil
}

// Flush repacks every object and entity table from the cached snapshots.
func (st *Store) Flush() error {
	// read everything before any table gets overwritten
	for _, id := range AllRooms() {
		if _, err := st.Load(id); err != nil {
			return err
		}
	}

	for _, rg := range objectRegions {
		entries := make([][]byte, rg.Table.Count)
		for n := range entries {
			b, err := st.rooms[rg.First+ID(n)].EncodeObjects()
			if err != nil {
				return err
			}
			entries[n] = b
		}
		if err := rg.Table.Store(st.rom, entries); err != nil {
			return errors.Wrapf(err, "rooms $%03X", uint16(rg.First))
		}
	}

	entities := make([][]byte, entityTable.Count)
	for n := range entities {
		if s, ok := st.rooms[ID(n)]; ok {
			entities[n] = s.EncodeEntities()
		} else {
			entities[n] = []byte{entitiesEnd}
		}
	}
	if err := entityTable.Store(st.rom, entities); err != nil {
		return errors.Wrap(err, "entities")
	}

	for id, s := range st.rooms {
		if !id.IsOverworld() || s.Overlay == nil {
			continue
		}
		if len(s.Overlay) != Cells {
			return errors.Errorf("room $%03X: overlay has %d cells", uint16(id), len(s.Overlay))
		}
		bank, addr := overlayLocation(id)
		copy(st.rom.Slice(bank, addr, addr+Cells), s.Overlay)
	}
	return nil
}

// InitTables points every object and entity slot at an empty room and
// clears the overlays.
func InitTables(r *rom.ROM) error {
	for _, rg := range objectRegions {
		entries := make([][]byte, rg.Table.Count)
		for n := range entries {
			entries[n] = []byte{0x00, 0x00, objectsEnd}
		}
		if err := rg.Table.Store(r, entries); err != nil {
			return err
		}
	}
	entities := make([][]byte, entityTable.Count)
	for n := range entities {
		entities[n] = []byte{entitiesEnd}
	}
	if err := entityTable.Store(r, entities); err != nil {
		return err
	}
	for id := ID(0); id < FirstIndoor; id++ {
		bank, addr := overlayLocation(id)
		clear(r.Slice(bank, addr, addr+Cells))
	}
	return nil
}
