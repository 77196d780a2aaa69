// Package main - farming.go
//
// This file implements the Battle Café auto battle loop.
//
// Phases:
//   - Phase 1: battle until every variant of the selected sweet is caught once
//   - Phase 2: battle until every variant of every sweet is captured 50 times
//     (enough for Pokérus)
//
// Tick Guards (first match wins):
//  1. Phase 2 complete              -> force the feature off, notify
//  2. Stop on Pokédex and phase 1   -> force the feature off, notify
//  3. Café modal not shown          -> idle
//  4. Trainer battle in progress    -> idle
//  5. Battle button enabled         -> click it
package main

import (
	"time"
)

const farmTaskName = "battlecafe-farm"

// FarmLoop is the auto battle loop and its owned state.
type FarmLoop struct {
	game     Game
	settings *Settings
	notifier Notifier
	sched    Scheduler

	period    time.Duration
	threshold int

	catalog *Catalog
	ids     []PokemonID
	index   map[string]int // target name -> position in ids
}

// NewFarmLoop creates the loop; it does nothing until toggled on.
func NewFarmLoop(game Game, settings *Settings, notifier Notifier, sched Scheduler, catalog *Catalog, cfg FarmConfig) *FarmLoop {
	f := &FarmLoop{
		game:      game,
		settings:  settings,
		notifier:  notifier,
		sched:     sched,
		period:    cfg.Period,
		threshold: cfg.PokerusThreshold,
		catalog:   catalog,
		index:     make(map[string]int),
	}
	for i, t := range catalog.Targets() {
		f.ids = append(f.ids, t.ID)
		f.index[t.Name] = i
	}
	return f
}

// Toggle starts or stops the loop. Both directions are idempotent.
func (f *FarmLoop) Toggle(enable bool) {
	if enable {
		if !f.sched.Running(farmTaskName) {
			LogInfo("Battle Café farm loop started")
		}
		f.sched.Start(farmTaskName, f.period, f.Tick)
		return
	}
	if f.sched.Running(farmTaskName) {
		LogInfo("Battle Café farm loop stopped")
	}
	f.sched.Stop(farmTaskName)
}

// Tick runs one iteration of the loop.
func (f *FarmLoop) Tick() {
	snap, err := f.game.CafeSnapshot(f.ids)
	if err != nil {
		LogDebug("Farm: skipping tick: %v", err)
		return
	}

	if f.allPokerusComplete(snap) {
		f.settings.ForceState(SettingFarmEnabled, false)
		f.notifier.Notify("All Alcremie variants have Pokérus!", NotifySource)
		return
	}

	if f.settings.Get(SettingStopOnPokedex) && f.pokedexCompleted(snap) {
		f.settings.ForceState(SettingFarmEnabled, false)
		f.notifier.Notify("All Alcremie variants caught! To get Pokérus, re-enable the farming.", NotifySource)
		return
	}

	if !snap.ModalShown || snap.TrainerBattle {
		return
	}

	if !snap.Button.Present || snap.Button.Disabled {
		return
	}
	clicked, err := f.game.ClickBattle()
	if err != nil {
		LogDebug("Farm: %v", err)
		return
	}
	if clicked {
		LogDebug("Farm: battle started")
	}
}

func (f *FarmLoop) status(snap *CafeSnapshot, name string) TargetStatus {
	return snap.Targets[f.index[name]]
}

// pokedexCompleted reports whether the base target and every variant of the
// selected sweet are caught. An unknown sweet is never complete.
func (f *FarmLoop) pokedexCompleted(snap *CafeSnapshot) bool {
	if f.status(snap, f.catalog.Base.Name).Caught == NotCaught {
		return false
	}
	group, ok := f.catalog.Group(snap.SelectedSweet)
	if !ok {
		LogDebug("Farm: unknown sweet %d", snap.SelectedSweet)
		return false
	}
	for _, reward := range group.Rewards {
		if f.status(snap, reward.Target.Name).Caught == NotCaught {
			return false
		}
	}
	return true
}

// allPokerusComplete reports whether every target of every sweet reached the
// capture threshold.
func (f *FarmLoop) allPokerusComplete(snap *CafeSnapshot) bool {
	for _, t := range snap.Targets {
		if t.Captured < f.threshold {
			return false
		}
	}
	return true
}
