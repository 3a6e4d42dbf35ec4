package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"roomedit/config"
	"roomedit/layout"
	"roomedit/rom"
	"roomedit/room"
	"roomedit/taskqueue"
	"roomedit/tiled"
	"roomedit/tileset"

	"github.com/pkg/errors"
)

// exportRooms writes every room of r as a Tiled map into cfg.Path, with the
// world files, the index and, when enabled, tileset images and the atlas.
func exportRooms(r *rom.ROM, cfg config.Config) (*Index, error) {
	dir := cfg.Path
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "create %q", dir)
	}

	st := room.NewStore(r)

	// the warp scan decides which rooms are sidescrollers, so it runs
	// before any room is decoded
	class, err := layout.Classify(r, st)
	if err != nil {
		return nil, err
	}
	if err = layout.Export(r, dir); err != nil {
		return nil, err
	}

	cache := tileset.NewCache(dir, r)
	q := taskqueue.NewQ(cfg.Workers, 64, func(_ *taskqueue.Q[tileset.Params], p tileset.Params) error {
		name, err := cache.Ensure(p)
		if err != nil {
			return errors.Wrapf(err, "render %s", name)
		}
		return nil
	})
	defer q.Close()
	submitted := make(map[string]bool, 64)

	h := r.Header()
	idx := &Index{Title: h.Title, Color: h.IsColor(), Rooms: make([]IndexEntry, 0, 0x320)}
	docs := make(map[room.ID]*room.Document, room.FirstIndoor)

	for _, id := range room.AllRooms() {
		s, err := st.Load(id)
		if err != nil {
			return nil, err
		}

		side := room.ReadSideData(r, id)
		side.Minimap = class.Minimap[id]
		p := tileset.ReadParams(r, id, s.AnimationID, class.Sidescroll[id])
		side.TilesetImage = p.Filename()
		if cfg.Tilesets && !submitted[side.TilesetImage] {
			submitted[side.TilesetImage] = true
			q.SubmitItem(p)
		}

		doc, err := room.Decode(s, side)
		if err != nil {
			return nil, err
		}
		name := tiled.RoomFilename(id)
		if err = tiled.SaveDocument(filepath.Join(dir, name), doc); err != nil {
			return nil, err
		}
		if id.IsOverworld() {
			docs[id] = doc
		}

		e := IndexEntry{
			Room:     roomKey(id),
			File:     name,
			Category: class.Category(id),
			Minimap:  side.Minimap,
			Tileset:  side.TilesetImage,
			Warps:    len(s.Warps()),
			Entities: len(s.Entities),
		}
		if m, ok := class.MapPerRoom[id]; ok {
			m := m
			e.Map = &m
		}
		idx.Rooms = append(idx.Rooms, e)
	}
	fmt.Printf("exported %d rooms to %s\n", len(idx.Rooms), dir)

	if err = q.Wait(); err != nil {
		return nil, err
	}
	if cfg.Tilesets {
		fmt.Printf("tilesets ready: %d\n", len(submitted))
	}

	if err = saveIndex(filepath.Join(dir, indexFilename), idx); err != nil {
		return nil, err
	}

	if cfg.Atlas != "" {
		if err = writeAtlas(cache, docs, filepath.Join(dir, cfg.Atlas), cfg.Labels); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// writeAtlas renders the overworld previews onto one image.
func writeAtlas(cache *tileset.Cache, docs map[room.ID]*room.Document, path string, labels bool) error {
	tilesets := make(map[string]image.Image, 32)
	previews := make(map[room.ID]image.Image, len(docs))
	for id, doc := range docs {
		ts, ok := tilesets[doc.TilesetImage]
		if !ok {
			var err error
			if ts, err = cache.Open(doc.TilesetImage); err != nil {
				return errors.Wrapf(err, "atlas room $%03X", uint16(id))
			}
			tilesets[doc.TilesetImage] = ts
		}
		previews[id] = tileset.Preview(&doc.Tiles, ts)
	}
	if err := tileset.ExportPNG(path, tileset.Atlas(previews, labels)); err != nil {
		return err
	}
	fmt.Printf("wrote atlas %s\n", path)
	return nil
}
