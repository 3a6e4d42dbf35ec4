package room

import "fmt"

type ObjectKind uint8

const (
	ObjectSingle ObjectKind = iota
	ObjectHorizontal
	ObjectVertical
	ObjectWarp
)

func (k ObjectKind) String() string {
	switch k {
	case ObjectSingle:
		return "single"
	case ObjectHorizontal:
		return "horizontal"
	case ObjectVertical:
		return "vertical"
	case ObjectWarp:
		return "warp"
	default:
		return fmt.Sprintf("ObjectKind(%d)", uint8(k))
	}
}

// Object is one entry of a room's object list. Kind selects which fields are
// meaningful: Code for tiles, Count for runs, Warp for warps.
type Object struct {
	Kind  ObjectKind
	X, Y  uint8
	Code  uint8
	Count uint8
	Warp  Warp
}

func Single(x, y, code uint8) Object {
	return Object{Kind: ObjectSingle, X: x, Y: y, Code: code}
}

func Horizontal(x, y, code, count uint8) Object {
	return Object{Kind: ObjectHorizontal, X: x, Y: y, Code: code, Count: count}
}

func Vertical(x, y, code, count uint8) Object {
	return Object{Kind: ObjectVertical, X: x, Y: y, Code: code, Count: count}
}

func WarpObject(w Warp) Object {
	return Object{Kind: ObjectWarp, Warp: w}
}

// HasTile reports whether the object places a tile code at (X, Y).
func (o Object) HasTile() bool {
	return o.Kind != ObjectWarp
}

func (o Object) String() string {
	switch o.Kind {
	case ObjectHorizontal, ObjectVertical:
		return fmt.Sprintf("%s(%d,%d,$%02X,%d)", o.Kind, o.X, o.Y, o.Code, o.Count)
	case ObjectWarp:
		return o.Warp.String()
	default:
		return fmt.Sprintf("%s(%d,%d,$%02X)", o.Kind, o.X, o.Y, o.Code)
	}
}

type WarpKind uint8

const (
	WarpOverworld WarpKind = iota
	WarpIndoor
	WarpSidescroll
)

var warpKindNames = [...]string{"overworld", "indoor", "sidescroll"}

func (k WarpKind) String() string {
	if int(k) < len(warpKindNames) {
		return warpKindNames[k]
	}
	return fmt.Sprintf("WarpKind(%d)", uint8(k))
}

func ParseWarpKind(s string) (WarpKind, bool) {
	for i, n := range warpKindNames {
		if n == s {
			return WarpKind(i), true
		}
	}
	return 0, false
}

// Warp sends the player to Room on Map at the target tile position. Room is
// the full room index; only its low byte is stored in ROM.
type Warp struct {
	Kind    WarpKind
	Map     uint8
	Room    uint16
	TargetX uint8
	TargetY uint8
}

// NewWarp resolves the full destination room index from the map id.
func NewWarp(kind WarpKind, mapID uint8, roomLow uint8, x, y uint8) Warp {
	r := uint16(roomLow)
	if kind != WarpOverworld {
		switch {
		case mapID == 0xFF:
			r += 0x300 // color dungeon
		case mapID >= 0x06 && mapID < 0x1A:
			r += 0x200
		default:
			r += 0x100
		}
	}
	return Warp{Kind: kind, Map: mapID, Room: r, TargetX: x, TargetY: y}
}

func (w Warp) String() string {
	return fmt.Sprintf("warp(%s,map=$%02X,room=$%03X,%d,%d)", w.Kind, w.Map, w.Room, w.TargetX, w.TargetY)
}
