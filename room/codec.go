package room

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// warpTiles are overworld tile codes that can carry a warp.
var warpTiles = map[uint8]bool{
	0xA8: true,
	0xBA: true,
	0xBE: true,
	0xC2: true,
	0xC6: true,
	0xCB: true,
	0xD3: true,
	0xE1: true,
	0xE2: true,
	0xE3: true,
}

const (
	tileWaterfallCave  = 0xE1
	tileWaterfall      = 0x53
	tileGravestone     = 0xC4
	tilePushGravestone = 0xC5
	tileWindmillFlower = 0xDC
)

type glyphCell struct {
	DX, DY int
	Code   uint8
}

// doorGlyphs expands indoor door and entrance objects into their tiles.
var doorGlyphs = map[uint8][]glyphCell{
	0xEC: {{0, 0, 0x2D}, {1, 0, 0x2E}}, // key door
	0xED: {{0, 0, 0x2F}, {1, 0, 0x30}},
	0xEE: {{0, 0, 0x31}, {0, 1, 0x32}},
	0xEF: {{0, 0, 0x33}, {0, 1, 0x34}},
	0xF0: {{0, 0, 0x35}, {1, 0, 0x36}}, // closed door
	0xF1: {{0, 0, 0x37}, {1, 0, 0x38}},
	0xF2: {{0, 0, 0x39}, {0, 1, 0x3A}},
	0xF3: {{0, 0, 0x3B}, {0, 1, 0x3C}},
	0xF4: {{0, 0, 0x43}, {1, 0, 0x44}}, // open door
	0xF5: {{0, 0, 0x8C}, {1, 0, 0x08}},
	0xF6: {{0, 0, 0x09}, {0, 1, 0x0A}},
	0xF7: {{0, 0, 0x0B}, {0, 1, 0x0C}},
	0xF8: {{0, 0, 0xA4}, {1, 0, 0xA5}}, // boss door
	0xF9: {{0, 0, 0xAF}, {1, 0, 0xB0}}, // stairs door
	0xFA: {{0, 0, 0xB1}, {1, 0, 0xB2}}, // flipwall
	0xFB: {{0, 0, 0x45}, {1, 0, 0x46}}, // one way arrow
	0xFC: { // entrance
		{0, 0, 0xB3}, {1, 0, 0xB4}, {2, 0, 0xB4}, {3, 0, 0xB5},
		{0, 1, 0xB6}, {1, 1, 0xB7}, {2, 1, 0xB8}, {3, 1, 0xB9},
		{0, 2, 0xBA}, {1, 2, 0xBB}, {2, 2, 0xBC}, {3, 2, 0xBD},
	},
	0xFD: {{0, 0, 0xC1}, {1, 0, 0xC2}},
}

// overworld tiles collapsed to one solid and one open representative
var (
	solidTiles = tileSet(
		0x25, 0x26, 0x27, 0x28, 0x29, 0x2A, 0x2B, 0x2C, 0x2D, 0x2E, 0x2F,
		0x33, 0x34, 0x37, 0x38, 0x39, 0x3A, 0x3B, 0x3C, 0x3D, 0x3E, 0x3F,
		0x48, 0x49, 0x4B, 0x4C, 0x4E,
		0x80, 0x81, 0x82, 0x83, 0x84, 0x85, 0x86, 0x87, 0x88, 0x89, 0x8A, 0x8B, 0x8C, 0x8D, 0x8E, 0x8F,
	)
	openTiles = tileSet(
		0x08, 0x09, 0x0C, 0x44,
		0xF5, 0xF6, 0xF7, 0xF8, 0xF9, 0xFA, 0xFB, 0xFC, 0xFD, 0xFE, 0xFF,
	)
)

const (
	SolidTile = 0x3A
	OpenTile  = 0x04
)

func tileSet(codes ...uint8) (s [256]bool) {
	for _, c := range codes {
		s[c] = true
	}
	return
}

// Simplify maps functionally equivalent overworld tiles onto SolidTile and
// OpenTile.
func Simplify(code uint8) uint8 {
	switch {
	case solidTiles[code]:
		return SolidTile
	case openTiles[code]:
		return OpenTile
	default:
		return code
	}
}

// Decode expands a snapshot into its editable document. The snapshot is not
// modified.
func Decode(s *Snapshot, side SideData) (*Document, error) {
	doc := NewDocument()

	if s.Overlay != nil {
		if len(s.Overlay) != Cells {
			return nil, errors.Errorf("room $%03X: overlay has %d cells", uint16(s.Index), len(s.Overlay))
		}
		copy(doc.Tiles[:], s.Overlay)
		decodeOverworldObjects(doc, s)
	} else {
		if err := decodeIndoor(doc, s); err != nil {
			return nil, err
		}
	}

	for _, e := range s.Entities {
		doc.AddObject(int(e.X), int(e.Y), EntityName(e.Kind), DocEntity)
	}

	setWarpProperties(doc.Properties, s.Index, s.Warps())

	if err := setSideProperties(doc.Properties, s.Index, side); err != nil {
		return nil, err
	}
	doc.TilesetImage = side.TilesetImage
	return doc, nil
}

func decodeOverworldObjects(doc *Document, s *Snapshot) {
	for _, o := range s.Objects {
		if !o.HasTile() || int(o.X) >= Width || int(o.Y) >= Height {
			continue
		}
		cell := int(o.X) + int(o.Y)*Width
		if o.Code == tilePushGravestone && doc.Tiles[cell] == tileGravestone {
			doc.Tiles[cell] = tilePushGravestone
		}
		// a warp capable tile hidden under the overlay marks a future warp
		if warpTiles[o.Code] && doc.Tiles[cell] != o.Code {
			if o.Code != tileWaterfallCave || doc.Tiles[cell] != tileWaterfall {
				doc.AddObject(int(o.X), int(o.Y), fmt.Sprintf("%02X", o.Code), DocHiddenTile)
			}
		}
		if o.Code == tileWindmillFlower {
			doc.AddObject(int(o.X), int(o.Y), fmt.Sprintf("%02X", o.Code), DocHiddenTile)
		}
	}
}

func decodeIndoor(doc *Document, s *Snapshot) error {
	ti := int(s.FloorObject >> 4)
	if ti >= len(Templates) {
		return errors.Errorf("room $%03X: template %d out of range", uint16(s.Index), ti)
	}
	doc.Tiles = Templates[ti].Fill(s.FloorObject & 0x0F)

	for _, o := range s.Objects {
		x, y := int(o.X), int(o.Y)
		switch o.Kind {
		case ObjectHorizontal:
			for n := 0; n < int(o.Count); n++ {
				doc.SetTile(x+n, y, o.Code)
			}
		case ObjectVertical:
			for n := 0; n < int(o.Count); n++ {
				doc.SetTile(x, y+n, o.Code)
			}
		case ObjectWarp:
		default:
			if glyph, ok := doorGlyphs[o.Code]; ok {
				for _, g := range glyph {
					doc.SetTile(x+g.DX, y+g.DY, g.Code)
				}
			} else {
				doc.SetTile(x, y, o.Code)
			}
		}
	}
	return nil
}

func warpKey(n int, field string) string {
	return fmt.Sprintf("warp%d_%s", n, field)
}

func setWarpProperties(p Properties, id ID, warps []Warp) {
	for n := 0; n < 4; n++ {
		if n >= len(warps) {
			p[warpKey(n, "type")] = "none"
			p[warpKey(n, "map")] = "00"
			p[warpKey(n, "room")] = "00"
			p[warpKey(n, "target")] = "0,0"
			continue
		}
		w := warps[n]
		kind := w.Kind
		if kind > WarpSidescroll {
			log.Printf("Warning: room $%03X warp %d has unknown type %d, exported as overworld.", uint16(id), n, uint8(kind))
			kind = WarpOverworld
		}
		p[warpKey(n, "type")] = kind.String()
		p[warpKey(n, "map")] = fmt.Sprintf("%02x", w.Map)
		p[warpKey(n, "room")] = fmt.Sprintf("%02x", w.Room&0xFF)
		p[warpKey(n, "target")] = fmt.Sprintf("%d,%d", w.TargetX, w.TargetY)
	}
}

func setSideProperties(p Properties, id ID, side SideData) error {
	if side.Minimap != "" {
		p["MINIMAP"] = side.Minimap
	}
	chest, err := ItemName(side.ChestItem)
	if err != nil {
		return errors.Wrapf(err, "room $%03X CHESTITEM", uint16(id))
	}
	roomItem, err := ItemName(side.RoomItem)
	if err != nil {
		return errors.Wrapf(err, "room $%03X ROOMITEM", uint16(id))
	}
	p["CHESTITEM"] = chest
	p["ROOMITEM"] = roomItem

	if side.HasEvent && id.HasEventTable() {
		trigger, action, err := EventNames(side.Event)
		if err != nil {
			return errors.Wrapf(err, "room $%03X", uint16(id))
		}
		p["EVENT_TRIGGER"] = trigger
		p["EVENT_ACTION"] = action
	}
	return nil
}

// Encode rebuilds the snapshot's floor object, object list, entities and
// overlay from doc. The tile grid is authoritative; objects are derived
// again from it. The returned side data carries the parsed item, event and
// minimap properties.
func Encode(doc *Document, s *Snapshot) (SideData, error) {
	var side SideData

	tiles := doc.Tiles
	var expected [Cells]uint8
	if s.Overlay != nil {
		s.Overlay = append(s.Overlay[:0], doc.Tiles[:]...)
		for n := range tiles {
			tiles[n] = Simplify(tiles[n])
		}
		floor, _ := MostFrequent(&tiles, nil)
		s.FloorObject = floor
		for n := range expected {
			expected[n] = floor
		}
	} else {
		floor, _ := MostFrequent(&tiles, func(c uint8) bool { return c < 0x10 })
		ti := SelectTemplate(&tiles, floor)
		expected = Templates[ti].Fill(floor)
		s.FloorObject = floor | uint8(ti)<<4
	}

	objects := Decompose(&tiles, &expected)
	entities := make([]Entity, 0, 8)

	for _, o := range doc.Objects {
		if o.X < 0 || o.X >= 0x10 || o.Y < 0 || o.Y >= Height {
			return side, errors.Errorf("room $%03X: object %q at %d,%d out of range", uint16(s.Index), o.Name, o.X, o.Y)
		}
		switch o.Kind {
		case DocEntity:
			kind, err := EntityKind(o.Name)
			if err != nil {
				return side, errors.Wrapf(err, "room $%03X", uint16(s.Index))
			}
			entities = append(entities, Entity{X: uint8(o.X), Y: uint8(o.Y), Kind: kind})
		case DocHiddenTile:
			code, err := strconv.ParseUint(o.Name, 16, 8)
			if err != nil {
				return side, errors.Wrapf(err, "room $%03X: hidden tile %q", uint16(s.Index), o.Name)
			}
			// each hidden tile goes to the front; anything after it may overwrite it
			objects = append([]Object{Single(uint8(o.X), uint8(o.Y), uint8(code))}, objects...)
		}
	}

	warps, err := parseWarpProperties(doc.Properties)
	if err != nil {
		return side, errors.Wrapf(err, "room $%03X", uint16(s.Index))
	}
	for _, w := range warps {
		objects = append(objects, WarpObject(w))
	}

	s.Objects = objects
	s.Entities = entities

	side, err = parseSideProperties(doc.Properties, s.Index)
	if err != nil {
		return side, err
	}
	side.TilesetImage = doc.TilesetImage
	return side, nil
}

// MostFrequent returns the most common code among the accepted cells; ties
// go to the code seen first in grid order. ok is false when no cell is
// accepted, in which case the result is 0.
func MostFrequent(tiles *[Cells]uint8, accept func(uint8) bool) (code uint8, ok bool) {
	var counts [256]int
	order := make([]uint8, 0, 16)
	for _, c := range tiles {
		if accept != nil && !accept(c) {
			continue
		}
		if counts[c] == 0 {
			order = append(order, c)
		}
		counts[c]++
	}
	best := -1
	for _, c := range order {
		if counts[c] > best {
			code, best = c, counts[c]
		}
	}
	return code, best > 0
}

// SelectTemplate returns the index of the best scoring template; ties go to
// the lowest index.
func SelectTemplate(tiles *[Cells]uint8, floor uint8) int {
	best, bestScore := 0, -1
	for i := range Templates {
		if score := Templates[i].Score(tiles, floor); score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// Decompose covers every cell of tiles that differs from expected with
// horizontal runs, vertical runs and single tiles, scanning row-major.
// Applying expected and then the objects in order reproduces tiles.
func Decompose(tiles *[Cells]uint8, expected *[Cells]uint8) []Object {
	var done [Cells]bool
	for n := range done {
		done[n] = tiles[n] == expected[n]
	}

	objects := make([]Object, 0, 16)
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if done[x+y*Width] {
				continue
			}
			c := tiles[x+y*Width]

			xmax := x
			for x1 := x + 1; x1 < Width; x1++ {
				if done[x1+y*Width] {
					break
				}
				if tiles[x1+y*Width] == c {
					xmax = x1
				}
			}
			ymax := y
			for y1 := y + 1; y1 < Height; y1++ {
				if done[x+y1*Width] {
					break
				}
				if tiles[x+y1*Width] == c {
					ymax = y1
				}
			}
			w := xmax - x + 1
			h := ymax - y + 1

			switch {
			case w > 1 && w >= h:
				for n := 0; n < w; n++ {
					if tiles[x+n+y*Width] == c {
						done[x+n+y*Width] = true
					}
				}
				objects = append(objects, Horizontal(uint8(x), uint8(y), c, uint8(w)))
			case h > 1:
				for n := 0; n < h; n++ {
					if tiles[x+(y+n)*Width] == c {
						done[x+(y+n)*Width] = true
					}
				}
				objects = append(objects, Vertical(uint8(x), uint8(y), c, uint8(h)))
			default:
				done[x+y*Width] = true
				if _, isGlyph := doorGlyphs[c]; isGlyph {
					// a single would expand into the door glyph on decode
					objects = append(objects, Horizontal(uint8(x), uint8(y), c, 1))
				} else {
					objects = append(objects, Single(uint8(x), uint8(y), c))
				}
			}
		}
	}
	return objects
}

func parseWarpProperties(p Properties) ([]Warp, error) {
	warps := make([]Warp, 0, 4)
	for n := 0; n < 4; n++ {
		kindStr, ok := p.String(warpKey(n, "type"))
		if !ok {
			continue
		}
		kind, ok := ParseWarpKind(strings.ToLower(strings.TrimSpace(kindStr)))
		if !ok {
			continue
		}
		mapStr, err := warpField(p, n, "map")
		if err != nil {
			return nil, err
		}
		roomStr, err := warpField(p, n, "room")
		if err != nil {
			return nil, err
		}
		targetStr, err := warpField(p, n, "target")
		if err != nil {
			return nil, err
		}

		mapID, err := strconv.ParseUint(strings.TrimSpace(mapStr), 16, 8)
		if err != nil {
			return nil, errors.Wrapf(err, "warp%d_map %q", n, mapStr)
		}
		roomID, err := strconv.ParseUint(strings.TrimSpace(roomStr), 16, 8)
		if err != nil {
			return nil, errors.Wrapf(err, "warp%d_room %q", n, roomStr)
		}
		xs, ys, found := strings.Cut(targetStr, ",")
		if !found {
			return nil, errors.Errorf("warp%d_target %q is not x,y", n, targetStr)
		}
		tx, err := strconv.ParseUint(strings.TrimSpace(xs), 10, 8)
		if err != nil {
			return nil, errors.Wrapf(err, "warp%d_target %q", n, targetStr)
		}
		ty, err := strconv.ParseUint(strings.TrimSpace(ys), 10, 8)
		if err != nil {
			return nil, errors.Wrapf(err, "warp%d_target %q", n, targetStr)
		}
		warps = append(warps, NewWarp(kind, uint8(mapID), uint8(roomID), uint8(tx), uint8(ty)))
	}
	return warps, nil
}

// warpField reads a warp property. Map and room are hex, so a value Tiled
// typed as a number cannot be read back unambiguously.
func warpField(p Properties, n int, field string) (string, error) {
	switch v := p[warpKey(n, field)].(type) {
	case string:
		return v, nil
	case nil:
		return "", nil
	default:
		return "", errors.Errorf("%s must be a string property, got %v", warpKey(n, field), v)
	}
}

func parseSideProperties(p Properties, id ID) (SideData, error) {
	var side SideData
	var err error

	side.Minimap, _ = p.String("MINIMAP")

	chest, _ := p.String("CHESTITEM")
	if side.ChestItem, err = ItemCode(chest); err != nil {
		return side, errors.Wrapf(err, "room $%03X CHESTITEM", uint16(id))
	}
	roomItem, _ := p.String("ROOMITEM")
	if side.RoomItem, err = ItemCode(roomItem); err != nil {
		return side, errors.Wrapf(err, "room $%03X ROOMITEM", uint16(id))
	}

	if trigger, ok := p.String("EVENT_TRIGGER"); ok && id.HasEventTable() {
		action, _ := p.String("EVENT_ACTION")
		if side.Event, err = EventByte(trigger, action); err != nil {
			return side, errors.Wrapf(err, "room $%03X", uint16(id))
		}
		side.HasEvent = true
	}
	return side, nil
}
