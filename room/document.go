package room

import (
	"sort"
	"strconv"
)

type DocKind string

const (
	DocEntity     DocKind = "ENTITY"
	DocHiddenTile DocKind = "HIDDEN_TILE"
)

// DocObject is an object of the editable document, placed in tile units.
// Name is an entity name or a two digit hex tile code.
type DocObject struct {
	X, Y int
	Name string
	Kind DocKind
}

// Properties values are either string or int.
type Properties map[string]interface{}

func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String returns a property as text; int values are formatted in decimal.
func (p Properties) String(name string) (string, bool) {
	switch v := p[name].(type) {
	case string:
		return v, true
	case int:
		return strconv.Itoa(v), true
	case float64:
		return strconv.Itoa(int(v)), true
	default:
		return "", false
	}
}

// Document is the editable form of a room: a 10x8 grid of resolved tile
// codes, tagged objects and a property bag.
type Document struct {
	Tiles        [Cells]uint8
	Objects      []DocObject
	Properties   Properties
	TilesetImage string
}

func NewDocument() *Document {
	return &Document{Properties: make(Properties, 16)}
}

func (d *Document) SetTile(x, y int, code uint8) {
	if x >= 0 && x < Width && y >= 0 && y < Height {
		d.Tiles[x+y*Width] = code
	}
}

func (d *Document) Tile(x, y int) uint8 {
	return d.Tiles[x+y*Width]
}

func (d *Document) AddObject(x, y int, name string, kind DocKind) {
	d.Objects = append(d.Objects, DocObject{X: x, Y: y, Name: name, Kind: kind})
}
