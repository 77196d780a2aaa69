// Package main - catalog.go
//
// This file defines the Battle Café catalog: which pokémon each sweet yields
// for each spin, and the pokédex ids of those pokémon.
//
// The catalog is read from the game once, when the menu is built, and is
// read-only afterwards.
package main

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
)

// PokemonID is a pokédex id. Forms carry a fractional part (869.01).
type PokemonID float64

func (id PokemonID) String() string {
	return formatNumber(float64(id))
}

// Spin is a Battle Café spin outcome, in the game's enum order.
type Spin int

const (
	SpinDayClockwiseBelow5 Spin = iota
	SpinDayClockwiseAbove5
	SpinDayCounterclockwiseBelow5
	SpinDayCounterclockwiseAbove5
	SpinNightClockwiseBelow5
	SpinNightClockwiseAbove5
	SpinNightCounterclockwiseBelow5
	SpinNightCounterclockwiseAbove5
	SpinAt5Above10
)

// spinKeys are the GameConstants.AlcremieSpins key names.
var spinKeys = map[string]Spin{
	"dayClockwiseBelow5":          SpinDayClockwiseBelow5,
	"dayClockwiseAbove5":          SpinDayClockwiseAbove5,
	"dayCounterclockwiseBelow5":   SpinDayCounterclockwiseBelow5,
	"dayCounterclockwiseAbove5":   SpinDayCounterclockwiseAbove5,
	"nightClockwiseBelow5":        SpinNightClockwiseBelow5,
	"nightClockwiseAbove5":        SpinNightClockwiseAbove5,
	"nightCounterclockwiseBelow5": SpinNightCounterclockwiseBelow5,
	"nightCounterclockwiseAbove5": SpinNightCounterclockwiseAbove5,
	"at5Above10":                  SpinAt5Above10,
}

// ParseSpin maps a GameConstants.AlcremieSpins key to a Spin.
func ParseSpin(key string) (Spin, bool) {
	s, ok := spinKeys[key]
	return s, ok
}

// SpinDuration buckets how long the player spins.
type SpinDuration int

const (
	SpinBelow5 SpinDuration = iota
	SpinAbove5
	SpinAbove10
)

// Duration returns the spin-length bucket.
func (s Spin) Duration() SpinDuration {
	switch s {
	case SpinAt5Above10:
		return SpinAbove10
	case SpinDayClockwiseAbove5, SpinNightClockwiseAbove5,
		SpinDayCounterclockwiseAbove5, SpinNightCounterclockwiseAbove5:
		return SpinAbove5
	default:
		return SpinBelow5
	}
}

// Clockwise reports the spin direction. The dusk spin counts as counter-clockwise.
func (s Spin) Clockwise() bool {
	switch s {
	case SpinDayClockwiseBelow5, SpinDayClockwiseAbove5,
		SpinNightClockwiseBelow5, SpinNightClockwiseAbove5:
		return true
	}
	return false
}

// TimeOfDay is the in-game period a spin belongs to.
type TimeOfDay int

const (
	Day TimeOfDay = iota
	Dusk
	Night
)

// TimeOfDay returns the period of the spin.
func (s Spin) TimeOfDay() TimeOfDay {
	switch {
	case s == SpinAt5Above10:
		return Dusk
	case s >= SpinNightClockwiseBelow5:
		return Night
	default:
		return Day
	}
}

// Target is a pokémon whose capture and Pokérus status is tracked.
type Target struct {
	Name string
	ID   PokemonID
}

// Reward is the target obtained with one spin of a sweet.
type Reward struct {
	Spin   Spin
	Target Target
}

// VariantGroup is the reward table of one sweet.
type VariantGroup struct {
	Index   int // BattleCafeController.selectedSweet() value
	Name    string
	Rewards []Reward // ordered by Spin
}

// Catalog is everything read from the game to build the panel.
type Catalog struct {
	Base   Target
	Groups []VariantGroup
}

// Group returns the group with the given selection index.
func (c *Catalog) Group(index int) (*VariantGroup, bool) {
	for i := range c.Groups {
		if c.Groups[i].Index == index {
			return &c.Groups[i], true
		}
	}
	return nil, false
}

// Targets returns the base target followed by every distinct group target,
// in panel order.
func (c *Catalog) Targets() []Target {
	seen := map[string]bool{c.Base.Name: true}
	targets := []Target{c.Base}
	for _, g := range c.Groups {
		for _, r := range g.Rewards {
			if seen[r.Target.Name] {
				continue
			}
			seen[r.Target.Name] = true
			targets = append(targets, r.Target)
		}
	}
	return targets
}

// catalogPayload is the JSON shape returned by the catalog script.
type catalogPayload struct {
	Sweets []struct {
		Index   int               `json:"index"`
		Name    string            `json:"name"`
		Rewards map[string]string `json:"rewards"` // spin key -> pokémon name
	} `json:"sweets"`
	IDs map[string]float64 `json:"ids"` // pokémon name -> id, missing when unknown
}

// buildCatalog validates a payload and resolves every name to its id.
func buildCatalog(p *catalogPayload, baseName string) (*Catalog, error) {
	names := make([]string, 0, len(p.IDs))
	for name := range p.IDs {
		names = append(names, name)
	}
	sort.Strings(names)

	resolve := func(name string) (Target, error) {
		id, ok := p.IDs[name]
		if !ok {
			return Target{}, fmt.Errorf("unknown pokémon %q%s", name, suggest(name, names))
		}
		return Target{Name: name, ID: PokemonID(id)}, nil
	}

	base, err := resolve(baseName)
	if err != nil {
		return nil, fmt.Errorf("base target: %w", err)
	}

	catalog := &Catalog{Base: base}
	for _, sweet := range p.Sweets {
		group := VariantGroup{Index: sweet.Index, Name: sweet.Name}
		if group.Name == "" {
			group.Name = fmt.Sprintf("Sweet %d", sweet.Index)
		}
		for key, name := range sweet.Rewards {
			spin, ok := ParseSpin(key)
			if !ok {
				LogDebug("Catalog: ignoring unknown spin %q for %s", key, group.Name)
				continue
			}
			target, err := resolve(name)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", group.Name, err)
			}
			group.Rewards = append(group.Rewards, Reward{Spin: spin, Target: target})
		}
		sort.Slice(group.Rewards, func(i, j int) bool {
			return group.Rewards[i].Spin < group.Rewards[j].Spin
		})
		catalog.Groups = append(catalog.Groups, group)
	}
	sort.SliceStable(catalog.Groups, func(i, j int) bool {
		return catalog.Groups[i].Index < catalog.Groups[j].Index
	})
	return catalog, nil
}

// suggest returns a ", did you mean …?" hint for the closest candidate, or "".
func suggest(name string, candidates []string) string {
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(name, c)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist < 0 || bestDist > len(name)/2+1 {
		return ""
	}
	return fmt.Sprintf(", did you mean %q?", best)
}
