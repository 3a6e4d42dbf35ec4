package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/debug"

	"roomedit/config"
	"roomedit/rom"
	"roomedit/tileset"

	"github.com/pkg/errors"
)

func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Printf("main: recovered from error: %v\n%s\n", err, debug.Stack())
			os.Exit(2)
		}
	}()

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %+v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("roomedit", flag.ContinueOnError)

	cfgPath := ""
	path := ""
	doExport := false
	buildPath := ""
	dumpStr := ""
	serveAddr := ""
	atlasName := ""
	nWorkers := -1
	noTilesets := false
	noLabels := false
	fs.StringVar(&cfgPath, "config", "", "YAML file with defaults for the other flags")
	fs.StringVar(&path, "path", "", "directory to export rooms to or build them from")
	fs.BoolVar(&doExport, "export", false, "export rooms, world files and tilesets")
	fs.StringVar(&buildPath, "build", "", "build a ROM from the exported rooms into this file, with an .ips patch next to it")
	fs.StringVar(&dumpStr, "dump", "", "dump room snapshots: list of room numbers (hex), comma delimited, ranges with x..y permitted")
	fs.StringVar(&serveAddr, "serve", "", "serve room previews on this address")
	fs.StringVar(&atlasName, "atlas", "", "write an overworld atlas PNG with this name on export")
	fs.IntVar(&nWorkers, "n", -1, "number of parallel tileset workers (-1 = from config or CPU count)")
	fs.BoolVar(&noTilesets, "notilesets", false, "do not render tileset images")
	fs.BoolVar(&noLabels, "nolabels", false, "do not draw room numbers on the atlas")
	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintln(out, "usage: roomedit [flags] input.gbc")
		fmt.Fprintln(out, "Exports overworld rooms $000-$0FF, indoor rooms $100-$2FE and color dungeon")
		fmt.Fprintln(out, "rooms $300-$315. The alternate room variants (Alt06 .. Alt8C) are not exported.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			return err
		}
	}
	if path != "" {
		cfg.Path = path
	}
	if nWorkers > 0 {
		cfg.Workers = nWorkers
	}
	if atlasName != "" {
		cfg.Atlas = atlasName
	}
	if serveAddr != "" {
		cfg.Serve = serveAddr
	}
	if noTilesets {
		cfg.Tilesets = false
	}
	if noLabels {
		cfg.Labels = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) != 1 {
		return errors.New("usage: roomedit [flags] input.gbc")
	}
	romPath := rest[0]

	src, err := rom.Load(romPath)
	if err != nil {
		return err
	}
	h := src.Header()
	fmt.Printf("loaded %s: %q, %d banks, color=%v\n", romPath, h.Title, len(src.Banks), h.IsColor())

	if dumpStr != "" {
		ids, err := parseRoomList(dumpStr)
		if err != nil {
			return err
		}
		if err = dumpRooms(src, ids); err != nil {
			return err
		}
	}

	if doExport {
		fmt.Println("Exporting data")
		if _, err = exportRooms(src, cfg); err != nil {
			return err
		}
	}

	if buildPath != "" {
		fmt.Println("Importing data")
		out, err := buildROM(src, cfg.Path)
		if err != nil {
			return err
		}
		if err = writeBuild(src, out, buildPath); err != nil {
			return err
		}
	}

	if cfg.Serve != "" {
		return startServer(cfg.Serve, cfg.Path, tileset.NewCache(cfg.Path, src))
	}
	return nil
}
