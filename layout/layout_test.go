package layout

import (
	"path/filepath"
	"reflect"
	"testing"

	"roomedit/rom"
	"roomedit/room"
	"roomedit/tiled"

	"github.com/pkg/errors"
)

func TestRoomOffset(t *testing.T) {
	tests := []struct {
		n      int
		offset room.ID
	}{
		{0, 0x100}, {5, 0x100}, {6, 0x200}, {10, 0x200}, {11, 0x300}, {12, 0x200},
	}
	for _, test := range tests {
		if got := RoomOffset(test.n); got != test.offset {
			t.Errorf("RoomOffset(%d)=%#x; expected %#x", test.n, got, test.offset)
		}
	}
}

func TestMinimapAddr(t *testing.T) {
	tests := []struct {
		n    int
		addr int
		ok   bool
	}{
		{0, 0x2479, true}, {7, 0x2479 + 7*64, true},
		{8, 0, false}, {10, 0, false},
		{11, 0x2479 + 9*64, true}, {12, 0x2479 + 8*64, true},
	}
	for _, test := range tests {
		addr, ok := MinimapAddr(test.n)
		if addr != test.addr || ok != test.ok {
			t.Errorf("MinimapAddr(%d)=%#x,%v; expected %#x,%v", test.n, addr, ok, test.addr, test.ok)
		}
	}
}

func TestMarkers(t *testing.T) {
	for code, name := range markerNames {
		if got, err := MarkerCode(name); err != nil || got != code {
			t.Errorf("MarkerCode(%q)=%#02x,%v", name, got, err)
		}
	}
	if _, err := MarkerName(0x00); errors.Cause(err) != ErrUnknownMarker {
		t.Errorf("err=%v", err)
	}
}

func TestColorDungeonEntranceIsMember(t *testing.T) {
	l := Layout{Index: 11}
	if !l.Member(1, 3) || l.Room(1, 3) != 0x300 {
		t.Error("color dungeon entrance missing")
	}
	if l.Member(0, 0) {
		t.Error("empty cell is a member")
	}
	l.Index = 3
	if l.Member(1, 3) {
		t.Error("empty cell of layout 3 is a member")
	}
}

func testROM(t *testing.T) *rom.ROM {
	t.Helper()
	r := rom.New(0x40)
	if err := room.InitTables(r); err != nil {
		t.Fatal(err)
	}
	ClearMinimaps(r)
	return r
}

func TestLayoutWorldRoundTrip(t *testing.T) {
	r := testROM(t)
	l := Layout{Index: 2}
	l.Cells[0] = 0x17
	l.Cells[3+5*Size] = 0x2A
	l.Write(r)

	read := Read(r, 2)
	w := read.World()
	expected := []tiled.WorldMap{
		{FileName: "room117.json", Width: 160, Height: 128, X: 0, Y: 0},
		{FileName: "room12a.json", Width: 160, Height: 128, X: 480, Y: 640},
	}
	if !reflect.DeepEqual(w.Maps, expected) {
		t.Errorf("World().Maps=%v; expected %v", w.Maps, expected)
	}

	back, addrs, err := FromWorld(2, w)
	if err != nil {
		t.Fatal(err)
	}
	if back != l {
		t.Errorf("FromWorld=%v; expected %v", back, l)
	}
	if addrs[0x12A] != 0x2479+2*64+3+5*8 {
		t.Errorf("minimap address %#x", addrs[0x12A])
	}

	if _, _, err = FromWorld(9, w); err != nil {
		t.Fatal(err)
	}
	_, addrs, _ = FromWorld(9, w)
	if len(addrs) != 0 {
		t.Errorf("layout 9 got minimap addresses %v", addrs)
	}
}

func TestFromWorldRejectsOutside(t *testing.T) {
	w := tiled.NewWorld([]tiled.WorldMap{{FileName: "room101.json", X: 8 * 160}})
	if _, _, err := FromWorld(0, w); err == nil {
		t.Error("expected error")
	}
}

func TestOverworldWorld(t *testing.T) {
	w := Overworld()
	if len(w.Maps) != 0x100 || w.Type != "world" || w.OnlyShowAdjacentMaps {
		t.Fatalf("unexpected world %d %q", len(w.Maps), w.Type)
	}
	m := w.Maps[0x37]
	if m.FileName != "room037.json" || m.X != 7*160 || m.Y != 3*128 {
		t.Errorf("map $37=%+v", m)
	}
}

func TestClassify(t *testing.T) {
	r := testROM(t)
	l := Layout{Index: 1}
	l.Cells[0] = 0x20
	l.Cells[1] = 0x21
	l.Write(r)
	base, _ := MinimapAddr(1)
	r.Write8(minimapBank, base+0, MarkerBoss)
	r.Write8(minimapBank, base+1, MarkerChest)

	st := room.NewStore(r)
	s, err := st.Load(0x010)
	if err != nil {
		t.Fatal(err)
	}
	s.Objects = append(s.Objects,
		room.WarpObject(room.NewWarp(room.WarpSidescroll, 0x01, 0x60, 0, 0)),
		room.WarpObject(room.NewWarp(room.WarpIndoor, 0x10, 0x80, 0, 0)),
	)

	c, err := Classify(r, st)
	if err != nil {
		t.Fatal(err)
	}
	if c.MapPerRoom[0x120] != 1 || c.MapPerRoom[0x121] != 1 {
		t.Errorf("MapPerRoom=%v", c.MapPerRoom)
	}
	if c.Minimap[0x120] != "BOSS" || c.Minimap[0x121] != "CHEST" {
		t.Errorf("Minimap=%v", c.Minimap)
	}
	if !c.Sidescroll[0x160] || c.Category(0x160) != "sidescroll" {
		t.Error("room $160 not a sidescroller")
	}
	if c.MapPerRoom[0x280] != 0x10 {
		t.Errorf("warp target map=%d", c.MapPerRoom[0x280])
	}
	if c.Category(0x010) != "overworld" || c.Category(0x121) != "indoor" {
		t.Error("unexpected categories")
	}
}

func TestClassifyUnknownMarker(t *testing.T) {
	r := testROM(t)
	l := Layout{Index: 0}
	l.Cells[4] = 0x05
	l.Write(r)
	r.Write8(minimapBank, minimapAddr+4, 0x12)
	if _, err := Classify(r, room.NewStore(r)); errors.Cause(err) != ErrUnknownMarker {
		t.Errorf("err=%v", err)
	}
}

func TestExportImport(t *testing.T) {
	dir := t.TempDir()
	r := testROM(t)
	l := Layout{Index: 12}
	l.Cells[9] = 0x44
	l.Write(r)
	if err := Export(r, dir); err != nil {
		t.Fatal(err)
	}

	out := testROM(t)
	out.Write8(minimapBank, minimapAddr+100, 0x00)
	m, err := Import(out, dir)
	if err != nil {
		t.Fatal(err)
	}
	if got := Read(out, 12); got != l {
		t.Errorf("imported layout %v", got)
	}
	if out.Read8(minimapBank, minimapAddr+100) != MarkerInvisible {
		t.Error("minimaps not cleared")
	}
	if err = m.Write(out, 0x244, "ROOM"); err != nil {
		t.Fatal(err)
	}
	if out.Read8(minimapBank, minimapAddr+8*64+9) != MarkerRoom {
		t.Error("marker not written")
	}
	if err = m.Write(out, 0x244, "LAVA"); errors.Cause(err) != ErrUnknownMarker {
		t.Errorf("err=%v", err)
	}

	if _, err = Import(out, filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for a missing directory")
	}
}
