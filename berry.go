// Package main - berry.go
//
// The berry requester asks the farming automation script to plant the berries
// the café sweets are made from, least stocked first.
//
// The request slot (Automation.Farm.ForcePlantBerriesAsked) is shared with
// other requesters. A request is considered ours when it names one of our
// berries; there is no separate ownership flag.
package main

import (
	"fmt"
	"time"
)

const berryTaskName = "battlecafe-berries"

// NextBerry picks the unlocked berry with the lowest count below minCount.
// Ties go to the berry listed first. It returns false when none qualifies.
func NextBerry(berries []BerryType, stock []BerryStock, minCount int) (BerryType, bool) {
	best := -1
	for i := range berries {
		s := stock[i]
		if !s.Unlocked || s.Count >= minCount {
			continue
		}
		if best < 0 || s.Count < stock[best].Count {
			best = i
		}
	}
	if best < 0 {
		return 0, false
	}
	return berries[best], true
}

// BerryRequester owns the berry watcher.
type BerryRequester struct {
	game     Game
	settings *Settings
	notifier Notifier
	sched    Scheduler

	period   time.Duration
	minCount int

	names   []string
	berries []BerryType
	byType  map[BerryType]string
}

// NewBerryRequester creates the requester; Resolve must run before Toggle.
func NewBerryRequester(game Game, settings *Settings, notifier Notifier, sched Scheduler, cfg BerryConfig) *BerryRequester {
	return &BerryRequester{
		game:     game,
		settings: settings,
		notifier: notifier,
		sched:    sched,
		period:   cfg.Period,
		minCount: cfg.MinCount,
		names:    cfg.Types,
		byType:   make(map[BerryType]string),
	}
}

// Resolve maps the configured berry names to game berry types.
func (b *BerryRequester) Resolve() error {
	berries, err := b.game.ResolveBerries(b.names)
	if err != nil {
		return fmt.Errorf("berries: %w", err)
	}
	b.berries = berries
	for i, berry := range berries {
		b.byType[berry] = b.names[i]
	}
	return nil
}

// owns reports whether berry is one of ours.
func (b *BerryRequester) owns(berry BerryType) bool {
	_, ok := b.byType[berry]
	return ok
}

func (b *BerryRequester) name(berry BerryType) string {
	if name, ok := b.byType[berry]; ok {
		return name
	}
	return fmt.Sprintf("berry #%d", int(berry))
}

// Toggle runs the enable or disable path.
func (b *BerryRequester) Toggle(enable bool) {
	if !enable {
		snap, err := b.game.FarmSnapshot(b.berries)
		if err != nil {
			LogWarn("Berries: cannot read farm state, a forced berry may be left in place: %v", err)
			snap = nil
		}
		b.stopRequesting(snap)
		return
	}

	snap, err := b.game.FarmSnapshot(b.berries)
	if err != nil {
		b.notifier.Warn("Cannot read the farm state, try again later.", NotifySource)
		LogDebug("Berries: %v", err)
		b.settings.ForceState(SettingAutoBerryFarm, false)
		return
	}
	if !snap.Accessible {
		b.notifier.Warn("Farm not yet unlocked!", NotifySource)
		b.settings.ForceState(SettingAutoBerryFarm, false)
		return
	}
	if !snap.AutomationPresent {
		b.notifier.Warn("Farming automation not installed!", NotifySource)
		b.settings.ForceState(SettingAutoBerryFarm, false)
		return
	}
	if !snap.AutomationEnabled {
		b.notifier.Warn("Please enable Farming automation first!", NotifySource)
		b.settings.ForceState(SettingAutoBerryFarm, false)
		return
	}

	b.request(snap)
}

// request asks for the neediest berry and arms the watcher.
func (b *BerryRequester) request(snap *FarmSnapshot) {
	if !snap.Accessible {
		return
	}

	berry, ok := NextBerry(b.berries, snap.Berries, b.minCount)
	if !ok {
		LogInfo("Berries: every sweet berry is stocked")
		b.stopRequesting(snap)
		return
	}

	if err := b.game.SetForcedBerry(&berry); err != nil {
		LogWarn("Berries: %v", err)
		b.notifier.Warn("Cannot ask the Farming automation for berries, try again later.", NotifySource)
		b.settings.ForceState(SettingAutoBerryFarm, false)
		return
	}

	b.sched.Start(berryTaskName, b.period, b.watch)
	b.notifier.Notify(fmt.Sprintf("Now farming %s berries for Battle Café", b.name(berry)), NotifySource)
}

// watch re-evaluates the need and rotates the request when it changed.
func (b *BerryRequester) watch() {
	if !b.settings.Get(SettingAutoBerryFarm) {
		b.sched.Stop(berryTaskName)
		return
	}

	snap, err := b.game.FarmSnapshot(b.berries)
	if err != nil {
		LogDebug("Berries: skipping tick: %v", err)
		return
	}

	berry, ok := NextBerry(b.berries, snap.Berries, b.minCount)
	if !ok {
		LogInfo("Berries: every sweet berry is stocked")
		b.stopRequesting(snap)
		return
	}

	if snap.Forced != nil && *snap.Forced == berry {
		return
	}
	if err := b.game.SetForcedBerry(&berry); err != nil {
		LogWarn("Berries: %v", err)
		return
	}
	LogInfo("Berries: now requesting %s", b.name(berry))
}

// stopRequesting clears the forced berry when it is one of ours and cancels
// the watcher. snap may be nil when the farm state is unknown.
func (b *BerryRequester) stopRequesting(snap *FarmSnapshot) {
	if snap != nil && snap.Forced != nil && b.owns(*snap.Forced) {
		if err := b.game.SetForcedBerry(nil); err != nil {
			LogWarn("Berries: %v", err)
		}
	}
	b.sched.Stop(berryTaskName)
}
