// Package config reads the game configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/SvenDH/go-card-prototype/hand"
	"github.com/SvenDH/go-card-prototype/loader"
	"github.com/SvenDH/go-card-prototype/scene"
)

type Config struct {
	Loader loader.Settings `yaml:"loader"`
	Scenes []scene.Entry   `yaml:"scenes"`
	Hand   HandConfig      `yaml:"hand"`
	Server ServerConfig    `yaml:"server"`
}

type HandConfig struct {
	Capacity    int         `yaml:"capacity"`
	MaxSelected int         `yaml:"max_selected"`
	Layout      hand.Layout `yaml:"layout"`
	// DeckFile is a deck list file; Deck picks the list to play with.
	DeckFile string `yaml:"deck_file"`
	Deck     string `yaml:"deck"`
}

type ServerConfig struct {
	Addr   string `yaml:"addr"`
	DB     string `yaml:"db"`
	Secret string `yaml:"secret"`
	Static string `yaml:"static"`
}

// Scene names used by the game itself.
const (
	TitleScene = "Title"
	TableScene = "Table"
)

// DefaultDeck is used when no deck file is configured.
const DefaultDeck = `deck "Starter" {
	2 diamond with knight
	2 club with archer
	2 spade with lancer
	2 heart with healer
}
`

func Default() *Config {
	return &Config{
		Loader: loader.DefaultSettings(),
		Scenes: []scene.Entry{
			{Name: TitleScene, LoadTime: 200 * time.Millisecond, UnloadTime: 100 * time.Millisecond},
			{Name: loader.DefaultLoadingScreen, LoadTime: 50 * time.Millisecond, UnloadTime: 50 * time.Millisecond},
			{Name: TableScene, LoadTime: 1500 * time.Millisecond, UnloadTime: 300 * time.Millisecond},
		},
		Hand: HandConfig{
			Capacity:    hand.DefaultCapacity,
			MaxSelected: hand.DefaultMaxSelected,
			Layout: hand.Layout{
				CardY:       0,
				XSpacing:    90,
				YSpacing:    6,
				Angle:       3,
				FloatOffset: 24,
				Duration:    0.4,
			},
			Deck: "Starter",
		},
		Server: ServerConfig{
			Addr:   ":8080",
			DB:     "telemetry.db",
			Secret: "change-me",
			Static: "",
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if _, err := cfg.Manifest(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Manifest() (*scene.Manifest, error) {
	return scene.NewManifest(c.Scenes...)
}

// Request builds a load request for destination with the configured
// settings.
func (c *Config) Request(destination string) loader.Request {
	req := loader.NewRequest(destination)
	req.Settings = c.Loader
	return req
}

// Decks returns the configured deck lists.
func (c *Config) Decks() (*hand.DeckFile, error) {
	src := DefaultDeck
	if c.Hand.DeckFile != "" {
		data, err := os.ReadFile(c.Hand.DeckFile)
		if err != nil {
			return nil, fmt.Errorf("config: load %s: %w", c.Hand.DeckFile, err)
		}
		src = string(data)
	}
	f, err := hand.ParseDecks(src)
	if err != nil {
		return nil, fmt.Errorf("config: decks: %w", err)
	}
	return f, nil
}

// Deck returns the cards of the configured deck list.
func (c *Config) Deck() ([]hand.Card, error) {
	f, err := c.Decks()
	if err != nil {
		return nil, err
	}
	list, ok := f.Deck(c.Hand.Deck)
	if !ok {
		return nil, fmt.Errorf("config: no deck named %q", c.Hand.Deck)
	}
	return list.Cards()
}
