// Package main - config.go
//
// Tuning read from an optional YAML file. Every field has a default, so the
// bot runs without any file at all.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the bot tuning.
type Config struct {
	Game    GameConfig    `yaml:"game"`
	Refresh RefreshConfig `yaml:"refresh"`
	Farm    FarmConfig    `yaml:"farm"`
	Berries BerryConfig   `yaml:"berries"`
}

// GameConfig locates the Battle Café in the page.
type GameConfig struct {
	ModalID      string        `yaml:"modal_id"`
	BattleButton string        `yaml:"battle_button"` // CSS selector of the battle-start button
	BaseTarget   string        `yaml:"base_target"`   // reachable with any sweet
	ReadyTimeout time.Duration `yaml:"ready_timeout"` // 0 waits forever
}

// RefreshConfig tunes the visibility/status refresher.
type RefreshConfig struct {
	Period time.Duration `yaml:"period"`
}

// FarmConfig tunes the auto battle loop.
type FarmConfig struct {
	Period           time.Duration `yaml:"period"`
	PokerusThreshold int           `yaml:"pokerus_threshold"`
}

// BerryConfig tunes the berry requester.
type BerryConfig struct {
	Period   time.Duration `yaml:"period"`
	MinCount int           `yaml:"min_count"`
	Types    []string      `yaml:"types"` // order breaks ties
}

// DefaultConfig returns a Config with the values the game expects.
func DefaultConfig() Config {
	return Config{
		Game: GameConfig{
			ModalID:      "battleCafeModal",
			BattleButton: "#battleCafeModal button.btn-success",
			BaseTarget:   "Milcery (Cheesy)",
			ReadyTimeout: 5 * time.Minute,
		},
		Refresh: RefreshConfig{Period: time.Second},
		Farm: FarmConfig{
			Period:           200 * time.Millisecond,
			PokerusThreshold: 50,
		},
		Berries: BerryConfig{
			Period:   30 * time.Second,
			MinCount: 50,
			Types:    []string{"Pomeg", "Kelpsy", "Qualot", "Hondew", "Grepa", "Tamato"},
		},
	}
}

// LoadConfig reads path over the defaults.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate rejects tuning the loops cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Game.ModalID == "":
		return errors.New("game.modal_id must not be empty")
	case c.Game.BattleButton == "":
		return errors.New("game.battle_button must not be empty")
	case c.Game.BaseTarget == "":
		return errors.New("game.base_target must not be empty")
	case c.Refresh.Period <= 0:
		return errors.New("refresh.period must be positive")
	case c.Farm.Period <= 0:
		return errors.New("farm.period must be positive")
	case c.Farm.PokerusThreshold <= 0:
		return errors.New("farm.pokerus_threshold must be positive")
	case c.Berries.Period <= 0:
		return errors.New("berries.period must be positive")
	case len(c.Berries.Types) == 0:
		return errors.New("berries.types must list at least one berry")
	}

	seen := make(map[string]bool, len(c.Berries.Types))
	for _, name := range c.Berries.Types {
		if seen[name] {
			return fmt.Errorf("berries.types lists %q twice", name)
		}
		seen[name] = true
	}
	return nil
}
