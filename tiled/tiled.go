// Package tiled reads and writes rooms as Tiled JSON maps and room layouts
// as Tiled world files.
package tiled

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"regexp"
	"strconv"

	"roomedit/room"

	"github.com/pkg/errors"
)

var ErrMalformed = errors.New("malformed map")

type Map struct {
	Width        int        `json:"width"`
	Height       int        `json:"height"`
	Type         string     `json:"type"`
	RenderOrder  string     `json:"renderorder"`
	TiledVersion string     `json:"tiledversion"`
	Version      float64    `json:"version"`
	TileWidth    int        `json:"tilewidth"`
	TileHeight   int        `json:"tileheight"`
	Orientation  string     `json:"orientation"`
	Tilesets     []Tileset  `json:"tilesets"`
	Layers       []Layer    `json:"layers"`
	Properties   []Property `json:"properties"`
}

type Tileset struct {
	Columns     int    `json:"columns"`
	FirstGID    int    `json:"firstgid"`
	Image       string `json:"image"`
	ImageHeight int    `json:"imageheight"`
	ImageWidth  int    `json:"imagewidth"`
	Margin      int    `json:"margin"`
	Name        string `json:"name"`
	Spacing     int    `json:"spacing"`
	TileCount   int    `json:"tilecount"`
	TileHeight  int    `json:"tileheight"`
	TileWidth   int    `json:"tilewidth"`
}

const (
	LayerTiles   = "tilelayer"
	LayerObjects = "objectgroup"
)

// Layer is either a tile layer (Data) or an object group (Objects).
type Layer struct {
	Data    []int    `json:"data,omitempty"`
	Width   int      `json:"width,omitempty"`
	Height  int      `json:"height,omitempty"`
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Visible bool     `json:"visible"`
	Opacity float64  `json:"opacity"`
	X       int      `json:"x"`
	Y       int      `json:"y"`
	Objects []Object `json:"objects,omitempty"`
}

type Object struct {
	ID     int     `json:"id,omitempty"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Name   string  `json:"name"`
	Type   string  `json:"type,omitempty"`
	Class  string  `json:"class,omitempty"` // newer Tiled versions
}

type Property struct {
	Name  string      `json:"name"`
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

// FromDocument builds the map for a room document.
func FromDocument(doc *room.Document) (*Map, error) {
	data := make([]int, room.Cells)
	for n, code := range doc.Tiles {
		data[n] = int(code) + 1
	}

	objects := make([]Object, 0, len(doc.Objects))
	for _, o := range doc.Objects {
		objects = append(objects, Object{
			Width:  16,
			Height: 16,
			X:      float64(o.X * 16),
			Y:      float64(o.Y * 16),
			Name:   o.Name,
			Type:   string(o.Kind),
		})
	}

	props := make([]Property, 0, len(doc.Properties))
	for _, k := range doc.Properties.Keys() {
		switch v := doc.Properties[k].(type) {
		case string:
			props = append(props, Property{Name: k, Type: "string", Value: v})
		case int:
			props = append(props, Property{Name: k, Type: "int", Value: v})
		default:
			return nil, errors.Errorf("property %q has unsupported type %T", k, v)
		}
	}

	return &Map{
		Width:        room.Width,
		Height:       room.Height,
		Type:         "map",
		RenderOrder:  "right-down",
		TiledVersion: "1.4.3",
		Version:      1.4,
		TileWidth:    16,
		TileHeight:   16,
		Orientation:  "orthogonal",
		Tilesets: []Tileset{{
			Columns:     16,
			FirstGID:    1,
			Image:       doc.TilesetImage,
			ImageHeight: 256,
			ImageWidth:  256,
			Name:        "main",
			TileCount:   256,
			TileHeight:  16,
			TileWidth:   16,
		}},
		Layers: []Layer{
			{
				Data:    data,
				Width:   room.Width,
				Height:  room.Height,
				ID:      1,
				Name:    "Tiles",
				Type:    LayerTiles,
				Visible: true,
				Opacity: 1,
			},
			{
				ID:      2,
				Name:    "ObjectLayer",
				Type:    LayerObjects,
				Visible: true,
				Opacity: 1,
				Objects: objects,
			},
		},
		Properties: props,
	}, nil
}

// Document converts m back into a room document. name identifies the map in
// warnings: tile values outside one byte are truncated and reported once.
func (m *Map) Document(name string) (*room.Document, error) {
	doc := room.NewDocument()

	if len(m.Tilesets) == 0 {
		return nil, errors.Wrapf(ErrMalformed, "%s: no tileset", name)
	}
	doc.TilesetImage = m.Tilesets[0].Image

	seenTiles := false
	shownWarning := false
	for _, l := range m.Layers {
		switch l.Type {
		case LayerTiles:
			if len(l.Data) != room.Cells || (l.Width != 0 && l.Width != room.Width) || (l.Height != 0 && l.Height != room.Height) {
				return nil, errors.Wrapf(ErrMalformed, "%s: tile layer is %dx%d with %d cells", name, l.Width, l.Height, len(l.Data))
			}
			for n, v := range l.Data {
				doc.Tiles[n] = uint8(v - 1)
				if int(doc.Tiles[n]) != v-1 && !shownWarning {
					log.Printf("Warning: %s contains incorrect tile.", name)
					shownWarning = true
				}
			}
			seenTiles = true
		case LayerObjects:
			for _, o := range l.Objects {
				kind := o.Type
				if kind == "" {
					kind = o.Class
				}
				x := int(math.Floor((o.X + math.Floor(o.Width/2)) / 16))
				y := int(math.Floor((o.Y + math.Floor(o.Height/2)) / 16))
				doc.AddObject(x, y, o.Name, room.DocKind(kind))
			}
		}
	}
	if !seenTiles {
		return nil, errors.Wrapf(ErrMalformed, "%s: no tile layer", name)
	}

	for _, p := range m.Properties {
		switch v := p.Value.(type) {
		case float64:
			doc.Properties[p.Name] = int(v)
		case string:
			doc.Properties[p.Name] = v
		case bool:
			doc.Properties[p.Name] = strconv.FormatBool(v)
		default:
			doc.Properties[p.Name] = fmt.Sprint(v)
		}
	}
	return doc, nil
}

func Encode(w io.Writer, doc *room.Document) error {
	m, err := FromDocument(doc)
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(m)
}

func Decode(r io.Reader, name string) (*room.Document, error) {
	var m Map
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, errors.Wrapf(err, "decode %s", name)
	}
	return m.Document(name)
}

// SaveDocument writes doc as a Tiled map to path.
func SaveDocument(path string, doc *room.Document) error {
	return writeFile(path, func(w io.Writer) error { return Encode(w, doc) })
}

func LoadDocument(path string) (*room.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(bufio.NewReader(f), path)
}

func writeFile(path string, write func(w io.Writer) error) (err error) {
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

	bo := bufio.NewWriter(f)
	if err = write(bo); err != nil {
		return errors.Wrapf(err, "failed to write %q", path)
	}
	return bo.Flush()
}

var roomFilename = regexp.MustCompile(`room([0-9a-f]+)\.json`)

func RoomFilename(id room.ID) string {
	return fmt.Sprintf("room%03x.json", uint16(id))
}

// ParseRoomFilename extracts the room index from a name like room1a3.json.
func ParseRoomFilename(name string) (room.ID, error) {
	m := roomFilename.FindStringSubmatch(name)
	if m == nil {
		return 0, errors.Wrapf(ErrMalformed, "%q is not a room file name", name)
	}
	v, err := strconv.ParseUint(m[1], 16, 16)
	if err != nil {
		return 0, errors.Wrapf(err, "room file name %q", name)
	}
	return room.ID(v), nil
}
