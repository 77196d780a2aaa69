// Package main - game.go
//
// This file defines the contract with the host game and its page-backed
// implementation. Every read is one chromedp evaluation returning a JSON
// snapshot, so a poll tick sees one consistent view of the game.
//
// Game globals used:
//   - App.game.gameState, GameConstants.GameState.trainer
//   - App.game.statistics.pokemonCaptured[id]()
//   - App.game.farming (canAccess, unlockedBerries, berryList)
//   - BattleCafeController (evolutions, selectedSweet)
//   - PartyController (getCaughtStatus, getPokerusStatus)
//   - pokemonMap, BerryType, GameConstants.AlcremieSpins/AlcremieSweet
//   - Automation.Farm (the farming automation script, when installed)
package main

import (
	"fmt"
	"sort"
)

// CaughtStatus mirrors the game's CaughtStatus enum.
type CaughtStatus int

const (
	NotCaught CaughtStatus = iota
	Caught
	CaughtShiny
)

// PokerusStatus mirrors GameConstants.Pokerus.
type PokerusStatus int

const (
	PokerusUninfected PokerusStatus = iota
	PokerusInfected
	PokerusContagious
	PokerusResistant
)

// BerryType is a value of the game's BerryType enum.
type BerryType int

// TargetStatus is the live status of one target.
type TargetStatus struct {
	Caught   CaughtStatus  `json:"caught"`
	Pokerus  PokerusStatus `json:"pokerus"`
	Captured int           `json:"captured"`
}

// ButtonState describes the battle-start button.
type ButtonState struct {
	Present  bool `json:"present"`
	Disabled bool `json:"disabled"`
}

// CafeSnapshot is the Battle Café state read once per tick.
type CafeSnapshot struct {
	ModalShown    bool           `json:"modalShown"`
	TrainerBattle bool           `json:"trainerBattle"`
	SelectedSweet int            `json:"selectedSweet"`
	PanelPresent  bool           `json:"panelPresent"`
	Button        ButtonState    `json:"button"`
	Targets       []TargetStatus `json:"targets"` // aligned with the requested ids
}

// BerryStock is the farm inventory of one berry.
type BerryStock struct {
	Unlocked bool `json:"unlocked"`
	Count    int  `json:"count"`
}

// FarmSnapshot is the farming state read by the berry requester.
type FarmSnapshot struct {
	Accessible        bool         `json:"accessible"`
	AutomationPresent bool         `json:"automationPresent"`
	AutomationEnabled bool         `json:"automationEnabled"`
	Forced            *BerryType   `json:"forced"`
	Berries           []BerryStock `json:"berries"` // aligned with the requested berries
}

// Game is the host game as seen by the bot.
type Game interface {
	Catalog(baseTarget string) (*Catalog, error)
	CafeSnapshot(ids []PokemonID) (*CafeSnapshot, error)
	ClickBattle() (bool, error)
	FarmSnapshot(berries []BerryType) (*FarmSnapshot, error)
	SetForcedBerry(berry *BerryType) error
	ResolveBerries(names []string) ([]BerryType, error)
}

// pageGame implements Game on top of a Browser.
type pageGame struct {
	browser *Browser
	cfg     GameConfig
}

// NewPageGame creates the page-backed Game.
func NewPageGame(browser *Browser, cfg GameConfig) Game {
	return &pageGame{browser: browser, cfg: cfg}
}

// readyScript is true once a save is loaded and the café modal exists.
func readyScript(cfg GameConfig) string {
	return fmt.Sprintf(`typeof App !== "undefined" && !!App.game
		&& typeof BattleCafeController !== "undefined"
		&& document.getElementById(%s) !== null`, jsLiteral(cfg.ModalID))
}

func (g *pageGame) Catalog(baseTarget string) (*Catalog, error) {
	js := fmt.Sprintf(`(() => {
		const spins = Object.keys(GameConstants.AlcremieSpins).filter(k => isNaN(Number(k)));
		const sweetNames = GameConstants.AlcremieSweet || {};
		const ids = {};
		const addId = name => {
			const p = pokemonMap[name];
			if (p !== undefined && p.name === name) { ids[name] = p.id; }
		};
		addId(%s);
		const sweets = [];
		for (const key of Object.keys(BattleCafeController.evolutions)) {
			const table = BattleCafeController.evolutions[key];
			const rewards = {};
			for (const spin of spins) {
				const p = table[GameConstants.AlcremieSpins[spin]];
				if (p) { rewards[spin] = p.name; addId(p.name); }
			}
			sweets.push({ index: Number(key), name: String(sweetNames[key] ?? ""), rewards });
		}
		return { sweets, ids };
	})()`, jsLiteral(baseTarget))

	var payload catalogPayload
	if err := g.browser.Evaluate(js, &payload); err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return buildCatalog(&payload, baseTarget)
}

func (g *pageGame) CafeSnapshot(ids []PokemonID) (*CafeSnapshot, error) {
	js := fmt.Sprintf(`(() => {
		const modal = document.getElementById(%s);
		const button = document.querySelector(%s);
		return {
			modalShown: !!modal && modal.classList.contains("show"),
			trainerBattle: App.game.gameState === GameConstants.GameState.trainer,
			selectedSweet: Number(BattleCafeController.selectedSweet()),
			panelPresent: document.getElementById(%s) !== null,
			button: { present: !!button, disabled: !!button && button.disabled },
			targets: %s.map(id => ({
				caught: PartyController.getCaughtStatus(id),
				pokerus: PartyController.getPokerusStatus(id),
				captured: App.game.statistics.pokemonCaptured[id](),
			})),
		};
	})()`, jsLiteral(g.cfg.ModalID), jsLiteral(g.cfg.BattleButton), jsLiteral(panelElementID), jsLiteral(ids))

	var snap CafeSnapshot
	if err := g.browser.Evaluate(js, &snap); err != nil {
		return nil, err
	}
	if len(snap.Targets) != len(ids) {
		return nil, fmt.Errorf("snapshot returned %d targets, want %d", len(snap.Targets), len(ids))
	}
	return &snap, nil
}

func (g *pageGame) FarmSnapshot(berries []BerryType) (*FarmSnapshot, error) {
	js := fmt.Sprintf(`(() => {
		const farming = App.game.farming;
		const auto = typeof Automation !== "undefined" && !!Automation.Farm;
		return {
			accessible: farming.canAccess(),
			automationPresent: auto,
			automationEnabled: auto
				&& Automation.Utils.LocalStorage.getValue(Automation.Farm.Settings.FeatureEnabled) === "true",
			forced: auto ? (Automation.Farm.ForcePlantBerriesAsked ?? null) : null,
			berries: %s.map(b => ({
				unlocked: !!farming.unlockedBerries[b](),
				count: farming.berryList[b](),
			})),
		};
	})()`, jsLiteral(berries))

	var snap FarmSnapshot
	if err := g.browser.Evaluate(js, &snap); err != nil {
		return nil, err
	}
	if len(snap.Berries) != len(berries) {
		return nil, fmt.Errorf("snapshot returned %d berries, want %d", len(snap.Berries), len(berries))
	}
	return &snap, nil
}

// ResolveBerries maps berry names to BerryType values, in order.
func (g *pageGame) ResolveBerries(names []string) ([]BerryType, error) {
	var res struct {
		IDs map[string]int `json:"ids"`
		All []string       `json:"all"`
	}
	js := fmt.Sprintf(`(() => {
		const ids = {};
		for (const n of %s) {
			if (typeof BerryType[n] === "number") { ids[n] = BerryType[n]; }
		}
		return { ids, all: Object.keys(BerryType).filter(k => isNaN(Number(k))) };
	})()`, jsLiteral(names))

	if err := g.browser.Evaluate(js, &res); err != nil {
		return nil, fmt.Errorf("read berry types: %w", err)
	}
	return resolveBerryNames(names, res.IDs, res.All)
}

func resolveBerryNames(names []string, ids map[string]int, all []string) ([]BerryType, error) {
	sort.Strings(all)
	out := make([]BerryType, 0, len(names))
	for _, name := range names {
		id, ok := ids[name]
		if !ok {
			return nil, fmt.Errorf("unknown berry %q%s", name, suggest(name, all))
		}
		out = append(out, BerryType(id))
	}
	return out, nil
}
