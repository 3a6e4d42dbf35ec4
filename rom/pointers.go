package rom

import (
	"bytes"

	"github.com/pkg/errors"
)

// PointerTable describes a table of little-endian banked pointers
// (0x4000..0x7FFF) whose targets live in a data region of a single bank.
type PointerTable struct {
	Bank      int // bank holding both the pointers and the data
	Addr      int // offset of the first pointer in Bank
	Count     int
	DataStart int // first free byte of the data region
	DataEnd   int // one past the last byte of the data region
}

// Offset returns the in-bank offset of entry n's data.
func (t PointerTable) Offset(r *ROM, n int) (int, error) {
	if n < 0 || n >= t.Count {
		return 0, errors.Errorf("pointer index %d out of range [0,%d)", n, t.Count)
	}
	p := int(r.Read16(t.Bank, t.Addr+n*2))
	if p < 0x4000 || p >= 0x8000 {
		return 0, errors.Errorf("pointer $%04X for entry %d in bank $%02X is not banked", p, n, t.Bank)
	}
	return p - 0x4000, nil
}

// Data returns the bank bytes starting at entry n; entries are variable
// length and parsed by the caller.
func (t PointerTable) Data(r *ROM, n int) ([]byte, error) {
	off, err := t.Offset(r, n)
	if err != nil {
		return nil, err
	}
	return r.Banks[t.Bank][off:], nil
}

// Store packs entries back-to-back into the data region and rewrites every
// pointer. Identical entries share one copy.
func (t PointerTable) Store(r *ROM, entries [][]byte) error {
	if len(entries) != t.Count {
		return errors.Errorf("pointer table in bank $%02X expects %d entries, got %d", t.Bank, t.Count, len(entries))
	}

	packed := make([]byte, 0, t.DataEnd-t.DataStart)
	offsets := make([]int, len(entries))
	for i, e := range entries {
		found := -1
		for j := 0; j < i; j++ {
			if bytes.Equal(entries[j], e) {
				found = offsets[j]
				break
			}
		}
		if found >= 0 {
			offsets[i] = found
			continue
		}
		offsets[i] = t.DataStart + len(packed)
		packed = append(packed, e...)
	}
	if t.DataStart+len(packed) > t.DataEnd {
		return errors.Errorf("data for bank $%02X overflows by %d bytes", t.Bank, t.DataStart+len(packed)-t.DataEnd)
	}

	copy(r.Banks[t.Bank][t.DataStart:], packed)
	for i, off := range offsets {
		r.Write16(t.Bank, t.Addr+i*2, uint16(off+0x4000))
	}
	return nil
}
