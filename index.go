package main

import (
	"fmt"
	"os"

	"roomedit/room"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const indexFilename = "index.yaml"

// IndexEntry describes one exported room.
type IndexEntry struct {
	Room     string `yaml:"room"`
	File     string `yaml:"file"`
	Category string `yaml:"category"`
	Map      *int   `yaml:"map,omitempty"`
	Minimap  string `yaml:"minimap,omitempty"`
	Tileset  string `yaml:"tileset"`
	Warps    int    `yaml:"warps,omitempty"`
	Entities int    `yaml:"entities,omitempty"`
}

// Index lists the export in room order.
type Index struct {
	Title string       `yaml:"title"`
	Color bool         `yaml:"color"`
	Rooms []IndexEntry `yaml:"rooms"`
}

func roomKey(id room.ID) string {
	return fmt.Sprintf("%03x", uint16(id))
}

func (x *Index) Lookup(key string) (IndexEntry, bool) {
	for _, e := range x.Rooms {
		if e.Room == key {
			return e, true
		}
	}
	return IndexEntry{}, false
}

func saveIndex(path string, x *Index) error {
	b, err := yaml.Marshal(x)
	if err != nil {
		return errors.Wrap(err, "marshal index")
	}
	if err = os.WriteFile(path, b, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %q", path)
	}
	return nil
}

func loadIndex(path string) (*Index, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var x Index
	if err = yaml.Unmarshal(b, &x); err != nil {
		return nil, errors.Wrapf(err, "decode %q", path)
	}
	return &x, nil
}
