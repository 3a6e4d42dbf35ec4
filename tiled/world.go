package tiled

import (
	"bufio"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
)

type World struct {
	Maps                 []WorldMap `json:"maps"`
	OnlyShowAdjacentMaps bool       `json:"onlyShowAdjacentMaps"`
	Type                 string     `json:"type"`
}

type WorldMap struct {
	FileName string `json:"fileName"`
	Height   int    `json:"height"`
	Width    int    `json:"width"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

func NewWorld(maps []WorldMap) *World {
	if maps == nil {
		maps = []WorldMap{}
	}
	return &World{Maps: maps, Type: "world"}
}

func SaveWorld(path string, w *World) error {
	return writeFile(path, func(wr io.Writer) error { return json.NewEncoder(wr).Encode(w) })
}

func LoadWorld(path string) (*World, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var w World
	if err = json.NewDecoder(bufio.NewReader(f)).Decode(&w); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return &w, nil
}
