// Package config holds the defaults the command line flags start from,
// optionally read from a YAML file.
package config

import (
	"bytes"
	"io"
	"os"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Path is the directory rooms, tilesets and world files are exported
	// to and built from.
	Path string `yaml:"path"`
	// Workers is the number of tileset render workers.
	Workers int `yaml:"workers"`
	// Tilesets enables rendering of missing tileset images on export.
	Tilesets bool `yaml:"tilesets"`
	// Atlas names a PNG of the whole overworld written on export; empty
	// disables it.
	Atlas  string `yaml:"atlas,omitempty"`
	Labels bool   `yaml:"labels"`
	// Serve is the listen address of the preview server.
	Serve string `yaml:"serve,omitempty"`
}

func Default() Config {
	return Config{
		Path:     "rooms",
		Workers:  runtime.NumCPU(),
		Tilesets: true,
		Labels:   true,
	}
}

// Load reads path over the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrapf(err, "read config")
	}
	if err = Parse(b, &c); err != nil {
		return c, errors.Wrapf(err, "config %s", path)
	}
	return c, nil
}

func Parse(b []byte, c *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			// empty file
			return c.Validate()
		}
		return err
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	if c.Path == "" {
		return errors.New("path must not be empty")
	}
	if c.Workers < 1 {
		return errors.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
