package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"roomedit/layout"
	"roomedit/rom"
	"roomedit/room"
	"roomedit/tiled"
	"roomedit/tileset"

	"github.com/pkg/errors"
)

// buildROM reads the exported rooms in dir back into a copy of src.
func buildROM(src *rom.ROM, dir string) (*rom.ROM, error) {
	r := src.Clone()

	// layouts and minimap addresses come first; rooms fill the minimap in
	minimaps, err := layout.Import(r, dir)
	if err != nil {
		return nil, err
	}

	st := room.NewStore(r)
	for _, id := range room.AllRooms() {
		name := tiled.RoomFilename(id)
		doc, err := tiled.LoadDocument(filepath.Join(dir, name))
		if err != nil {
			return nil, errors.Wrapf(err, "room $%03X", uint16(id))
		}
		s, err := st.Load(id)
		if err != nil {
			return nil, err
		}
		side, err := room.Encode(doc, s)
		if err != nil {
			return nil, errors.Wrap(err, name)
		}

		room.WriteSideData(r, id, side)
		if err = minimaps.Write(r, id, side.Minimap); err != nil {
			return nil, err
		}
		if err = applyTileset(r, s, side.TilesetImage); err != nil {
			return nil, errors.Wrap(err, name)
		}
	}

	if err = st.Flush(); err != nil {
		return nil, err
	}
	return r, nil
}

// applyTileset stores the tileset selection encoded in a tileset image name.
// A room without an image keeps the ROM tables as they are.
func applyTileset(r *rom.ROM, s *room.Snapshot, image string) error {
	if image == "" {
		return nil
	}
	p, err := tileset.ParseFilename(filepath.Base(image))
	if err != nil {
		return err
	}
	if !p.Matches(s.Index) {
		return errors.Wrapf(tileset.ErrUnknownTileset, "%s is a %s tileset, room $%03X cannot use it", image, p.Kind, uint16(s.Index))
	}
	p.Apply(r, s.Index)
	s.AnimationID = p.Animation
	return nil
}

// writeBuild saves r to out and an IPS patch against src next to it.
func writeBuild(src, r *rom.ROM, out string) error {
	if err := r.Save(out); err != nil {
		return err
	}
	patchPath := strings.TrimSuffix(out, filepath.Ext(out)) + ".ips"
	if err := os.WriteFile(patchPath, rom.MakePatch(src.Bytes(), r.Bytes()), 0644); err != nil {
		return errors.Wrapf(err, "failed to write %q", patchPath)
	}
	fmt.Printf("wrote %s and %s\n", out, patchPath)
	return nil
}
