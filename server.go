package main

import (
	"encoding/json"
	"image/png"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"roomedit/room"
	"roomedit/tiled"
	"roomedit/tileset"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// server answers preview requests from an export directory.
type server struct {
	dir   string
	cache *tileset.Cache
}

func newRouter(dir string, cache *tileset.Cache) *mux.Router {
	s := &server{dir: dir, cache: cache}

	r := mux.NewRouter()
	r.HandleFunc("/rooms", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/rooms/{room}", s.handleRoom).Methods(http.MethodGet)
	r.HandleFunc("/rooms/{room}/preview.png", s.handlePreview).Methods(http.MethodGet)
	r.HandleFunc("/tilesets/{name}", s.handleTileset).Methods(http.MethodGet)
	return r
}

func startServer(addr string, dir string, cache *tileset.Cache) error {
	h := handlers.RecoveryHandler()(newRouter(dir, cache))
	h = handlers.LoggingHandler(os.Stdout, h)

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}

func writeJson(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[web] write json: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	if os.IsNotExist(errors.Cause(err)) {
		code = http.StatusNotFound
	}
	log.Printf("[web] %v", err)
	http.Error(w, err.Error(), code)
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	idx, err := loadIndex(filepath.Join(s.dir, indexFilename))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJson(w, idx)
}

func (s *server) loadRoom(r *http.Request) (*room.Document, error) {
	key := mux.Vars(r)["room"]
	id, err := strconv.ParseUint(key, 16, 16)
	if err != nil {
		return nil, errors.Wrapf(os.ErrNotExist, "room %q", key)
	}
	return tiled.LoadDocument(filepath.Join(s.dir, tiled.RoomFilename(room.ID(id))))
}

func (s *server) handleRoom(w http.ResponseWriter, r *http.Request) {
	doc, err := s.loadRoom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	m, err := tiled.FromDocument(doc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJson(w, m)
}

func (s *server) handlePreview(w http.ResponseWriter, r *http.Request) {
	doc, err := s.loadRoom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if p, perr := tileset.ParseFilename(doc.TilesetImage); perr == nil {
		// render on demand when the export skipped tilesets
		if _, err = s.cache.Ensure(p); err != nil {
			writeError(w, err)
			return
		}
	}
	ts, err := s.cache.Open(doc.TilesetImage)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err = png.Encode(w, tileset.Preview(&doc.Tiles, ts)); err != nil {
		log.Printf("[web] write png: %v", err)
	}
}

func (s *server) handleTileset(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(mux.Vars(r)["name"])
	if p, err := tileset.ParseFilename(name); err == nil {
		if _, err = s.cache.Ensure(p); err != nil {
			writeError(w, err)
			return
		}
	}
	http.ServeFile(w, r, filepath.Join(s.dir, name))
}
