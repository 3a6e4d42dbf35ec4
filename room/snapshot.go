package room

import (
	"github.com/pkg/errors"
)

// ID is a room index: 0x000-0x0FF overworld, 0x100 and up indoor.
type ID uint16

const FirstIndoor ID = 0x100

func (id ID) IsOverworld() bool { return id < FirstIndoor }

type Entity struct {
	X, Y uint8
	Kind uint8
}

// Snapshot is the native state of one room as stored in ROM.
type Snapshot struct {
	Index       ID
	Overlay     []byte // 80 cells for overworld rooms, nil otherwise
	AnimationID uint8
	FloorObject uint8
	Objects     []Object
	Entities    []Entity
}

func (s *Snapshot) Warps() []Warp {
	warps := make([]Warp, 0, 4)
	for _, o := range s.Objects {
		if o.Kind == ObjectWarp {
			warps = append(warps, o.Warp)
		}
	}
	return warps
}

const (
	objectsEnd  = 0xFE
	entitiesEnd = 0xFF
)

// ParseObjects decodes `[animation, floor]` followed by objects up to the
// 0xFE terminator.
func ParseObjects(s *Snapshot, raw []byte) error {
	if len(raw) < 3 {
		return errors.Errorf("room $%03X: object data truncated", uint16(s.Index))
	}
	s.AnimationID = raw[0]
	s.FloorObject = raw[1]
	s.Objects = s.Objects[:0]

	need := func(idx, n int) error {
		if idx+n > len(raw) {
			return errors.Errorf("room $%03X: object at offset %d truncated", uint16(s.Index), idx)
		}
		return nil
	}

	idx := 2
	for {
		if err := need(idx, 1); err != nil {
			return err
		}
		b := raw[idx]
		if b == objectsEnd {
			return nil
		}
		switch b & 0xF0 {
		case 0x80:
			if err := need(idx, 3); err != nil {
				return err
			}
			s.Objects = append(s.Objects, Horizontal(raw[idx+1]&0x0F, raw[idx+1]>>4, raw[idx+2], b&0x0F))
			idx += 3
		case 0xC0:
			if err := need(idx, 3); err != nil {
				return err
			}
			s.Objects = append(s.Objects, Vertical(raw[idx+1]&0x0F, raw[idx+1]>>4, raw[idx+2], b&0x0F))
			idx += 3
		case 0xE0:
			if err := need(idx, 5); err != nil {
				return err
			}
			s.Objects = append(s.Objects, WarpObject(NewWarp(WarpKind(b&0x0F), raw[idx+1], raw[idx+2], raw[idx+3], raw[idx+4])))
			idx += 5
		default:
			if err := need(idx, 2); err != nil {
				return err
			}
			s.Objects = append(s.Objects, Single(b&0x0F, b>>4, raw[idx+1]))
			idx += 2
		}
	}
}

func (s *Snapshot) EncodeObjects() ([]byte, error) {
	out := make([]byte, 0, 2+len(s.Objects)*3+1)
	out = append(out, s.AnimationID, s.FloorObject)
	for _, o := range s.Objects {
		if o.Kind != ObjectWarp && (o.X > 0x0F || o.Y >= 0x08) {
			return nil, errors.Errorf("room $%03X: %s position not encodable", uint16(s.Index), o)
		}
		yx := o.Y<<4 | o.X
		switch o.Kind {
		case ObjectHorizontal, ObjectVertical:
			if o.Count == 0 || o.Count > 0x0F {
				return nil, errors.Errorf("room $%03X: %s count not encodable", uint16(s.Index), o)
			}
			prefix := uint8(0x80)
			if o.Kind == ObjectVertical {
				prefix = 0xC0
			}
			out = append(out, prefix|o.Count, yx, o.Code)
		case ObjectWarp:
			w := o.Warp
			out = append(out, 0xE0|uint8(w.Kind)&0x0F, w.Map, uint8(w.Room), w.TargetX, w.TargetY)
		default:
			out = append(out, yx, o.Code)
		}
	}
	return append(out, objectsEnd), nil
}

// ParseEntities decodes `yx kind` pairs up to the 0xFF terminator.
func ParseEntities(s *Snapshot, raw []byte) error {
	s.Entities = s.Entities[:0]
	for idx := 0; ; idx += 2 {
		if idx >= len(raw) {
			return errors.Errorf("room $%03X: entity data truncated", uint16(s.Index))
		}
		if raw[idx] == entitiesEnd {
			return nil
		}
		if idx+1 >= len(raw) {
			return errors.Errorf("room $%03X: entity at offset %d truncated", uint16(s.Index), idx)
		}
		s.Entities = append(s.Entities, Entity{X: raw[idx] & 0x0F, Y: raw[idx] >> 4, Kind: raw[idx+1]})
	}
}

func (s *Snapshot) EncodeEntities() []byte {
	out := make([]byte, 0, len(s.Entities)*2+1)
	for _, e := range s.Entities {
		out = append(out, e.Y<<4|e.X&0x0F, e.Kind)
	}
	return append(out, entitiesEnd)
}
