package rom

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
)

const BankSize = 0x4000

// ROM is a cartridge image split into fixed-size banks. Bank slices alias the
// same backing array, so writes through a bank are visible in Bytes().
type ROM struct {
	Banks [][]byte

	data []byte
}

func New(bankCount int) *ROM {
	return FromBytes(make([]byte, bankCount*BankSize))
}

// FromBytes wraps a raw image, padding it up to a whole number of banks.
func FromBytes(b []byte) *ROM {
	if rem := len(b) % BankSize; rem != 0 {
		b = append(b, make([]byte, BankSize-rem)...)
	}
	r := &ROM{data: b}
	r.Banks = make([][]byte, len(b)/BankSize)
	for i := range r.Banks {
		r.Banks[i] = b[i*BankSize : (i+1)*BankSize : (i+1)*BankSize]
	}
	return r
}

func Load(path string) (*ROM, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read rom %q", path)
	}
	if len(b) < 2*BankSize {
		return nil, errors.Errorf("rom %q too small: %d bytes", path, len(b))
	}
	return FromBytes(b), nil
}

func (r *ROM) Bytes() []byte { return r.data }

// Clone returns a deep copy with its own backing array.
func (r *ROM) Clone() *ROM {
	b := make([]byte, len(r.data))
	copy(b, r.data)
	return FromBytes(b)
}

func (r *ROM) Save(path string) (err error) {
	var f *os.File
	f, err = os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "failed to create %q", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "failed to close %q", path)
		}
	}()

	bo := bufio.NewWriterSize(f, 1024*1024)
	if _, err = bo.Write(r.data); err != nil {
		return errors.Wrapf(err, "failed to write %q", path)
	}
	return bo.Flush()
}

func (r *ROM) bank(bank int) []byte {
	if bank < 0 || bank >= len(r.Banks) {
		panic(errors.Errorf("bank $%02X out of range", bank))
	}
	return r.Banks[bank]
}

func (r *ROM) Read8(bank int, addr int) uint8 {
	return r.bank(bank)[addr]
}

func (r *ROM) Read16(bank int, addr int) uint16 {
	b := r.bank(bank)
	return uint16(b[addr]) | uint16(b[addr+1])<<8
}

func (r *ROM) Write8(bank int, addr int, value uint8) {
	r.bank(bank)[addr] = value
}

func (r *ROM) Write16(bank int, addr int, value uint16) {
	b := r.bank(bank)
	b[addr] = uint8(value)
	b[addr+1] = uint8(value >> 8)
}

// Slice returns bank[start:end] as a view; callers that need a private
// buffer must copy.
func (r *ROM) Slice(bank int, start int, end int) []byte {
	return r.bank(bank)[start:end]
}

// Header is the subset of the GB cartridge header the tools report on.
type Header struct {
	Title    string // 0x0134
	CGBFlag  uint8  // 0x0143
	CartType uint8  // 0x0147
	ROMSize  uint8  // 0x0148
}

func (r *ROM) Header() Header {
	b := r.data
	return Header{
		Title:    strings.TrimRight(string(b[0x0134:0x0143]), "\x00"),
		CGBFlag:  b[0x0143],
		CartType: b[0x0147],
		ROMSize:  b[0x0148],
	}
}

// IsColor reports whether the header flags CGB support.
func (h Header) IsColor() bool {
	return h.CGBFlag&0x80 != 0
}
