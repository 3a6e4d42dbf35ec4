package rom

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestBanksAliasBytes(t *testing.T) {
	r := New(4)
	if len(r.Banks) != 4 {
		t.Fatalf("len(Banks)=%d; expected 4", len(r.Banks))
	}
	r.Write16(2, 0x10, 0xBEEF)
	if got := r.Bytes()[2*BankSize+0x10]; got != 0xEF {
		t.Errorf("low byte=%#02x; expected 0xef", got)
	}
	if got := r.Read16(2, 0x10); got != 0xBEEF {
		t.Errorf("Read16=%#04x; expected 0xbeef", got)
	}
}

func TestFromBytesPads(t *testing.T) {
	r := FromBytes(make([]byte, BankSize+1))
	if len(r.Banks) != 2 || len(r.Bytes()) != 2*BankSize {
		t.Errorf("got %d banks, %d bytes", len(r.Banks), len(r.Bytes()))
	}
}

func TestSaveLoad(t *testing.T) {
	r := New(2)
	copy(r.Bytes()[0x134:], "ROOMTEST")
	r.Write8(0, 0x143, 0x80)
	name := filepath.Join(t.TempDir(), "out.gbc")
	if err := r.Save(name); err != nil {
		t.Fatal(err)
	}
	l, err := Load(name)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(l.Bytes(), r.Bytes()) {
		t.Fatal("loaded image differs from saved image")
	}
	h := l.Header()
	if h.Title != "ROOMTEST" || !h.IsColor() {
		t.Errorf("header=%+v", h)
	}
}

func TestPointerTableStoreShares(t *testing.T) {
	r := New(2)
	pt := PointerTable{Bank: 1, Addr: 0, Count: 3, DataStart: 6, DataEnd: 0x20}
	if err := pt.Store(r, [][]byte{{1, 2, 0xFE}, {3, 0xFE}, {1, 2, 0xFE}}); err != nil {
		t.Fatal(err)
	}
	var offs [3]int
	for i := range offs {
		off, err := pt.Offset(r, i)
		if err != nil {
			t.Fatal(err)
		}
		offs[i] = off
	}
	if offs != [3]int{6, 9, 6} {
		t.Errorf("offsets=%v; expected [6 9 6]", offs)
	}
	d, _ := pt.Data(r, 1)
	if d[0] != 3 || d[1] != 0xFE {
		t.Errorf("entry 1 data=% x", d[:2])
	}
}

func TestPointerTableOverflow(t *testing.T) {
	r := New(2)
	pt := PointerTable{Bank: 1, Addr: 0, Count: 1, DataStart: 2, DataEnd: 4}
	if err := pt.Store(r, [][]byte{{1, 2, 3}}); err == nil {
		t.Fatal("expected overflow error")
	}
}

var patchTests = []struct {
	name     string
	old, new []byte
	out      []byte
}{
	{"same", []byte{1, 2, 3}, []byte{1, 2, 3}, []byte("PATCHEOF")},
	{"one", []byte{1, 2, 3}, []byte{1, 9, 3},
		append(append([]byte("PATCH"), 0, 0, 1, 0, 1, 9), "EOF"...)},
	{"grow", []byte{1}, []byte{1, 7, 8},
		append(append([]byte("PATCH"), 0, 0, 1, 0, 2, 7, 8), "EOF"...)},
}

func TestMakePatch(t *testing.T) {
	for _, test := range patchTests {
		if got := MakePatch(test.old, test.new); !bytes.Equal(got, test.out) {
			t.Errorf("%s: MakePatch=% x; expected % x", test.name, got, test.out)
		}
	}
}
