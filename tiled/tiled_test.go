package tiled

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"roomedit/room"

	"github.com/pkg/errors"
)

func sampleDocument() *room.Document {
	doc := room.NewDocument()
	for n := range doc.Tiles {
		doc.Tiles[n] = uint8(n * 3)
	}
	doc.AddObject(3, 4, "OCTOROK", room.DocEntity)
	doc.AddObject(9, 7, "E1", room.DocHiddenTile)
	doc.Properties["CHESTITEM"] = "SWORD"
	doc.Properties["warp0_type"] = "none"
	doc.Properties["COUNT"] = 7
	doc.TilesetImage = "ZZ_indoor_01_02.png"
	return doc
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := sampleDocument()
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		t.Fatal(err)
	}
	back, err := Decode(&buf, "sample")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back, doc) {
		t.Errorf("Decode(Encode(doc))=%+v; expected %+v", back, doc)
	}
}

func TestMapLayout(t *testing.T) {
	m, err := FromDocument(sampleDocument())
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]interface{}
	if err = json.Unmarshal(b, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["width"] != 10.0 || raw["height"] != 8.0 || raw["orientation"] != "orthogonal" || raw["tiledversion"] != "1.4.3" {
		t.Errorf("unexpected header %v", raw)
	}
	layers := raw["layers"].([]interface{})
	tiles := layers[0].(map[string]interface{})
	if tiles["name"] != "Tiles" || tiles["type"] != "tilelayer" || tiles["id"] != 1.0 {
		t.Errorf("unexpected tile layer %v", tiles)
	}
	if data := tiles["data"].([]interface{}); data[1] != 4.0 {
		t.Errorf("data[1]=%v; expected 4", data[1])
	}
	objects := layers[1].(map[string]interface{})["objects"].([]interface{})
	first := objects[0].(map[string]interface{})
	if first["x"] != 48.0 || first["y"] != 64.0 || first["width"] != 16.0 || first["type"] != "ENTITY" {
		t.Errorf("unexpected object %v", first)
	}
	props := raw["properties"].([]interface{})
	names := make([]string, 0, len(props))
	for _, p := range props {
		names = append(names, p.(map[string]interface{})["name"].(string))
	}
	if !reflect.DeepEqual(names, []string{"CHESTITEM", "COUNT", "warp0_type"}) {
		t.Errorf("property order %v", names)
	}
	if got := props[1].(map[string]interface{})["type"]; got != "int" {
		t.Errorf("COUNT type=%v", got)
	}
}

func mapJSON(data []int, objects string) string {
	b, _ := json.Marshal(data)
	return `{"tilesets":[{"image":"x.png"}],"layers":[` +
		`{"type":"tilelayer","width":10,"height":8,"data":` + string(b) + `},` +
		`{"type":"objectgroup","objects":[` + objects + `]}],` +
		`"properties":[{"name":"ROOMITEM","type":"string","value":"KEY1"},{"name":"n","type":"int","value":12}]}`
}

func TestDecodeTruncatesAndWarnsOnce(t *testing.T) {
	var logged bytes.Buffer
	log.SetOutput(&logged)
	defer log.SetOutput(os.Stderr)
	log.SetFlags(0)
	defer log.SetFlags(log.LstdFlags)

	data := make([]int, room.Cells)
	for n := range data {
		data[n] = 1
	}
	data[0] = 0x101 + 5
	data[1] = 0x2FF
	data[2] = 0 // wraps to 0xff

	doc, err := Decode(strings.NewReader(mapJSON(data, "")), "room001.json")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Tiles[0] != 5 || doc.Tiles[1] != 0xFE || doc.Tiles[2] != 0xFF || doc.Tiles[3] != 0 {
		t.Errorf("tiles=% x", doc.Tiles[:4])
	}
	if n := strings.Count(logged.String(), "Warning: room001.json contains incorrect tile."); n != 1 {
		t.Errorf("warning logged %d times: %q", n, logged.String())
	}
	if doc.Properties["n"] != 12 || doc.Properties["ROOMITEM"] != "KEY1" {
		t.Errorf("properties %v", doc.Properties)
	}
}

func TestDecodeObjectCenter(t *testing.T) {
	data := make([]int, room.Cells)
	objects := `{"x":40,"y":20,"width":16,"height":16,"name":"GEL","type":"ENTITY"},` +
		`{"x":0,"y":0,"width":0,"height":0,"name":"E2","class":"HIDDEN_TILE"}`
	doc, err := Decode(strings.NewReader(mapJSON(data, objects)), "m")
	if err != nil {
		t.Fatal(err)
	}
	expected := []room.DocObject{
		{X: 3, Y: 1, Name: "GEL", Kind: room.DocEntity},
		{X: 0, Y: 0, Name: "E2", Kind: room.DocHiddenTile},
	}
	if !reflect.DeepEqual(doc.Objects, expected) {
		t.Errorf("Objects=%v; expected %v", doc.Objects, expected)
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"no tile layer", `{"tilesets":[{"image":"x.png"}],"layers":[{"type":"objectgroup"}]}`},
		{"short grid", `{"tilesets":[{"image":"x.png"}],"layers":[{"type":"tilelayer","data":[1,2,3]}]}`},
		{"wrong width", strings.Replace(mapJSON(make([]int, room.Cells), ""), `"width":10`, `"width":20`, 1)},
		{"no tileset", `{"layers":[]}`},
	}
	for _, test := range tests {
		_, err := Decode(strings.NewReader(test.json), test.name)
		if errors.Cause(err) != ErrMalformed {
			t.Errorf("%s: err=%v; expected ErrMalformed", test.name, err)
		}
	}
}

func TestSaveLoadFiles(t *testing.T) {
	dir := t.TempDir()
	doc := sampleDocument()
	path := filepath.Join(dir, RoomFilename(0x1A3))
	if err := SaveDocument(path, doc); err != nil {
		t.Fatal(err)
	}
	back, err := LoadDocument(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.Tiles != doc.Tiles || back.TilesetImage != doc.TilesetImage {
		t.Error("loaded document differs")
	}

	w := NewWorld([]WorldMap{{FileName: RoomFilename(0x105), Width: 160, Height: 128, X: 320, Y: 128}})
	wpath := filepath.Join(dir, "layout_00.world")
	if err = SaveWorld(wpath, w); err != nil {
		t.Fatal(err)
	}
	wback, err := LoadWorld(wpath)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(wback, w) {
		t.Errorf("LoadWorld=%+v; expected %+v", wback, w)
	}
}

func TestRoomFilename(t *testing.T) {
	if got := RoomFilename(0x0A); got != "room00a.json" {
		t.Errorf("RoomFilename=%q", got)
	}
	for _, id := range []room.ID{0, 0x0FF, 0x1A3, 0x315} {
		got, err := ParseRoomFilename(RoomFilename(id))
		if err != nil || got != id {
			t.Errorf("ParseRoomFilename(%q)=%#x,%v", RoomFilename(id), got, err)
		}
	}
	if _, err := ParseRoomFilename("overworld.world"); errors.Cause(err) != ErrMalformed {
		t.Errorf("err=%v", err)
	}
}
