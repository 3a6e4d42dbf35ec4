package room

import (
	"bytes"
	"reflect"
	"testing"

	"roomedit/rom"

	"github.com/pkg/errors"
)

func isCause(err, target error) bool {
	return err != nil && errors.Cause(err) == target
}

func TestObjectsBinaryRoundTrip(t *testing.T) {
	raw := []byte{
		0x02, 0x9D, // animation, floor
		0x83, 0x21, 0x40, // horizontal 3 at 1,2
		0xC4, 0x05, 0x41, // vertical 4 at 5,0
		0x37, 0xEC, // single at 7,3
		0xE1, 0x07, 0x3C, 0x50, 0x7C, // indoor warp
		0xFE,
	}
	s := &Snapshot{Index: 0x150}
	if err := ParseObjects(s, raw); err != nil {
		t.Fatal(err)
	}
	expected := []Object{
		Horizontal(1, 2, 0x40, 3),
		Vertical(5, 0, 0x41, 4),
		Single(7, 3, 0xEC),
		WarpObject(NewWarp(WarpIndoor, 0x07, 0x3C, 0x50, 0x7C)),
	}
	if !reflect.DeepEqual(s.Objects, expected) {
		t.Errorf("Objects=%v; expected %v", s.Objects, expected)
	}
	if s.AnimationID != 0x02 || s.FloorObject != 0x9D {
		t.Errorf("header=%#02x %#02x", s.AnimationID, s.FloorObject)
	}
	out, err := s.EncodeObjects()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, raw) {
		t.Errorf("EncodeObjects=% x; expected % x", out, raw)
	}
}

func TestObjectsTruncated(t *testing.T) {
	s := &Snapshot{Index: 0x150}
	if err := ParseObjects(s, []byte{0, 0, 0x83, 0x21}); err == nil {
		t.Error("expected truncation error")
	}
}

func TestEntitiesBinaryRoundTrip(t *testing.T) {
	raw := []byte{0x34, 0x09, 0x71, 0x1B, 0xFF}
	s := &Snapshot{}
	if err := ParseEntities(s, raw); err != nil {
		t.Fatal(err)
	}
	expected := []Entity{{X: 4, Y: 3, Kind: 0x09}, {X: 1, Y: 7, Kind: 0x1B}}
	if !reflect.DeepEqual(s.Entities, expected) {
		t.Errorf("Entities=%v; expected %v", s.Entities, expected)
	}
	if out := s.EncodeEntities(); !bytes.Equal(out, raw) {
		t.Errorf("EncodeEntities=% x; expected % x", out, raw)
	}
}

func TestStoreFlushAndReload(t *testing.T) {
	r := rom.New(0x40)
	if err := InitTables(r); err != nil {
		t.Fatal(err)
	}

	st := NewStore(r)
	s, err := st.Load(0x105)
	if err != nil {
		t.Fatal(err)
	}
	s.FloorObject = 0x9D
	s.Objects = []Object{Horizontal(0, 1, 0x40, 4)}
	s.Entities = []Entity{{X: 2, Y: 2, Kind: 0x19}}

	ow, err := st.Load(0x0D0)
	if err != nil {
		t.Fatal(err)
	}
	if len(ow.Overlay) != Cells {
		t.Fatalf("overlay has %d cells", len(ow.Overlay))
	}
	ow.Overlay[0] = 0x3A

	if err = st.Flush(); err != nil {
		t.Fatal(err)
	}

	again, err := NewStore(r).Load(0x105)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(again.Objects, s.Objects) || !reflect.DeepEqual(again.Entities, s.Entities) || again.FloorObject != 0x9D {
		t.Errorf("reloaded %+v", again)
	}
	if r.Read8(overlayBankBottom, (0x0D0-overlaySplit)*Cells) != 0x3A {
		t.Error("overlay not written back")
	}
	if other, _ := NewStore(r).Load(0x106); len(other.Objects) != 0 {
		t.Errorf("room 0x106 objects=%v", other.Objects)
	}
}

func TestAllRooms(t *testing.T) {
	ids := AllRooms()
	if len(ids) != 0x2FF+0x16 {
		t.Fatalf("len=%#x", len(ids))
	}
	if ids[0x2FE] != 0x2FE || ids[0x2FF] != 0x300 || ids[len(ids)-1] != 0x315 {
		t.Errorf("unexpected boundaries %#x %#x %#x", ids[0x2FE], ids[0x2FF], ids[len(ids)-1])
	}
}

func TestItemTables(t *testing.T) {
	for _, it := range chestItems {
		code, err := ItemCode(it.Name)
		if err != nil || code != it.Code {
			t.Errorf("ItemCode(%q)=%#02x,%v", it.Name, code, err)
		}
	}
	if _, err := ItemName(0xFA); !isCause(err, ErrUnknownItem) {
		t.Errorf("ItemName(0xfa) err=%v", err)
	}
	for k := 0; k < 256; k++ {
		if got, err := EntityKind(EntityName(uint8(k))); err != nil || got != uint8(k) {
			t.Errorf("entity %#02x round trip=%#02x,%v", k, got, err)
		}
	}
}
