// Package main - cafe.go
//
// Cafe ties the Battle Café components together and exposes the two init
// hooks run once the game is ready:
//   - InitBuildMenu: reset the feature flags, read the catalog, render the panel
//   - InitFinalize:  start the visibility/status refresher
//
// Feature flags drive the loops through a settings observer, so a flag
// changed from the tray, from the page, or by a loop disabling itself always
// starts or stops the matching loop.
package main

import (
	"fmt"
)

// InitStep is one step of the startup sequence.
type InitStep int

const (
	InitBuildMenu InitStep = iota
	InitFinalize
)

const refreshTaskName = "battlecafe-refresh"

// Cafe is the Battle Café automation.
type Cafe struct {
	cfg      *Config
	game     Game
	view     PanelView
	settings *Settings
	notifier Notifier
	sched    Scheduler

	catalog   *Catalog
	model     *PanelModel
	refresher *Refresher
	farm      *FarmLoop
	berries   *BerryRequester

	onProgress func(Progress)
}

// NewCafe creates the automation; nothing runs before Initialize.
func NewCafe(cfg *Config, game Game, view PanelView, settings *Settings, notifier Notifier, sched Scheduler) *Cafe {
	return &Cafe{
		cfg:      cfg,
		game:     game,
		view:     view,
		settings: settings,
		notifier: notifier,
		sched:    sched,
		berries:  NewBerryRequester(game, settings, notifier, sched, cfg.Berries),
	}
}

// OnProgress registers fn for collection progress updates.
func (c *Cafe) OnProgress(fn func(Progress)) {
	c.onProgress = fn
}

// Initialize runs one init step. It must run on the scheduler's execution context.
func (c *Cafe) Initialize(step InitStep) error {
	switch step {
	case InitBuildMenu:
		return c.buildMenu()
	case InitFinalize:
		if c.refresher == nil {
			return fmt.Errorf("finalize before the menu was built")
		}
		c.sched.Start(refreshTaskName, c.cfg.Refresh.Period, c.refresher.Tick)
		LogInfo("Battle Café refresher started")
		return nil
	default:
		return fmt.Errorf("unknown init step %d", step)
	}
}

func (c *Cafe) buildMenu() error {
	catalog, err := c.game.Catalog(c.cfg.Game.BaseTarget)
	if err != nil {
		return err
	}
	if err := c.berries.Resolve(); err != nil {
		return err
	}

	c.catalog = catalog
	c.model = BuildPanel(catalog)
	c.farm = NewFarmLoop(c.game, c.settings, c.notifier, c.sched, catalog, c.cfg.Farm)
	c.refresher = NewRefresher(c.game, c.view, c.settings, catalog, c.model, c.cfg.Farm.PokerusThreshold)
	c.refresher.OnProgress(func(p Progress) {
		if c.onProgress != nil {
			c.onProgress(p)
		}
	})

	c.settings.Observe(c.onSetting)

	// The loops never resume on their own after a restart.
	c.settings.ForceState(SettingFarmEnabled, false)
	c.settings.ForceState(SettingAutoBerryFarm, false)
	c.settings.SetDefault(SettingStopOnPokedex, false)

	if err := c.view.Render(c.model, c.settings.Snapshot().Settings); err != nil {
		return err
	}
	LogInfo("Battle Café panel built: %d sweets, %d targets", len(catalog.Groups), len(catalog.Targets()))
	return nil
}

// Toggle flips a feature flag from a UI control. Unknown keys are ignored.
func (c *Cafe) Toggle(setting string) {
	switch setting {
	case SettingFarmEnabled, SettingStopOnPokedex, SettingAutoBerryFarm:
		value := c.settings.Toggle(setting)
		LogInfo("%s set to %t", setting, value)
	default:
		LogWarn("Ignoring toggle of unknown setting %q", setting)
	}
}

func (c *Cafe) onSetting(key string, value bool) {
	switch key {
	case SettingFarmEnabled:
		c.farm.Toggle(value)
	case SettingAutoBerryFarm:
		c.berries.Toggle(value)
	case SettingStopOnPokedex:
	default:
		return
	}
	// A loop may have forced the flag back while handling it.
	if err := c.view.SetButtonState(key, c.settings.Get(key)); err != nil {
		LogDebug("Failed to update %s button: %v", key, err)
	}
}

// Shutdown releases the berry request when the bot exits.
func (c *Cafe) Shutdown() {
	if c.farm != nil {
		c.farm.Toggle(false)
	}
	if c.settings.Get(SettingAutoBerryFarm) {
		c.berries.Toggle(false)
	}
	c.sched.Stop(refreshTaskName)
}
