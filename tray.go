// Package main - tray.go
//
// This file implements the system tray menu, the desktop counterpart of the
// in-page panel. Uses getlantern/systray for cross-platform tray support.
//
// Menu Structure:
//   Battle Café Bot
//   ├─ Status: Caught | Pokérus | Uptime (read-only)
//   ├─ Last: most recent notification (read-only)
//   ├─ Action: most recent page action (read-only)
//   ├─ Auto Farm            (checkbox)
//   ├─ Stop on Pokédex      (checkbox)
//   ├─ Auto Berry Farm      (checkbox)
//   └─ Quit
//
// The checkboxes stay disabled until the game is ready. Clicks go through
// Bot.ToggleSetting, so they run on the scheduler's execution context like
// every other state change. Checkmarks follow the settings store, whoever
// changed it (tray, page button, or a loop disabling itself).
package main

import (
	"github.com/getlantern/systray"
)

type trayToggle struct {
	setting string
	label   string
	tooltip string
	item    *systray.MenuItem
}

// TrayApp manages the system tray application.
type TrayApp struct {
	bot     *Bot
	onStart func()

	statusItem *systray.MenuItem
	noteItem   *systray.MenuItem
	actionItem *systray.MenuItem
	quitItem   *systray.MenuItem
	toggles    []*trayToggle

	built chan struct{}
}

// NewTrayApp creates a new tray application
func NewTrayApp(bot *Bot) *TrayApp {
	return &TrayApp{
		bot:   bot,
		built: make(chan struct{}),
		toggles: []*trayToggle{
			{setting: SettingFarmEnabled, label: "Auto Farm", tooltip: "Battle trainers in the Battle Café"},
			{setting: SettingStopOnPokedex, label: "Stop on Pokédex", tooltip: "Stop farming once the selected sweet is complete"},
			{setting: SettingAutoBerryFarm, label: "Auto Berry Farm", tooltip: "Ask the Farming automation for sweet berries"},
		},
	}
}

// OnReady sets the function started (in its own goroutine) once the tray is up.
func (t *TrayApp) OnReady(fn func()) {
	t.onStart = fn
}

// Run starts the tray application; it blocks until Quit.
func (t *TrayApp) Run() {
	LogInfo("Starting system tray application")
	systray.Run(t.onReady, func() {
		LogInfo("System tray exit complete")
	})
}

// Quit stops the tray, making Run return.
func (t *TrayApp) Quit() {
	systray.Quit()
}

func (t *TrayApp) onReady() {
	systray.SetTitle("Battle Café")
	systray.SetTooltip("Battle Café Bot")

	t.statusItem = systray.AddMenuItem("Status: Starting...", "Collection progress")
	t.statusItem.Disable()
	t.noteItem = systray.AddMenuItem("Last: -", "Most recent notification")
	t.noteItem.Disable()
	t.actionItem = systray.AddMenuItem("Action: -", "Most recent page action")
	t.actionItem.Disable()

	systray.AddSeparator()

	settings := t.bot.settings
	for _, tg := range t.toggles {
		tg.item = systray.AddMenuItemCheckbox(tg.label, tg.tooltip, settings.Get(tg.setting))
		tg.item.Disable()
	}

	systray.AddSeparator()
	t.quitItem = systray.AddMenuItem("Quit", "Quit the application")

	settings.Observe(t.onSetting)
	close(t.built)

	for _, tg := range t.toggles {
		go t.handleToggle(tg)
	}
	go t.handleQuit()

	LogInfo("System tray initialized")

	if t.onStart != nil {
		SafeGo(t.onStart)
	}
}

// EnableToggles makes the checkboxes clickable once the game is ready.
func (t *TrayApp) EnableToggles() {
	<-t.built
	settings := t.bot.settings
	for _, tg := range t.toggles {
		setChecked(tg.item, settings.Get(tg.setting))
		tg.item.Enable()
	}
	t.UpdateStatus()
}

// UpdateStatus refreshes the read-only lines.
func (t *TrayApp) UpdateStatus() {
	select {
	case <-t.built:
	default:
		return
	}
	t.statusItem.SetTitle("Status: " + t.bot.Status())
	if note := t.bot.LastNotification(); note != "" {
		t.noteItem.SetTitle("Last: " + note)
	}
	if action := t.bot.LastAction(); action != "" {
		t.actionItem.SetTitle("Action: " + action)
	}
}

func (t *TrayApp) handleToggle(tg *trayToggle) {
	for range tg.item.ClickedCh {
		t.bot.ToggleSetting(tg.setting)
		// Resync in case the toggle was refused before the game was ready.
		setChecked(tg.item, t.bot.settings.Get(tg.setting))
	}
}

func (t *TrayApp) handleQuit() {
	<-t.quitItem.ClickedCh
	LogInfo("Quit requested by user")
	t.Quit()
}

// onSetting reads the stored value instead of the notified one: a loop may
// have forced the flag back while the change was being handled.
func (t *TrayApp) onSetting(key string, _ bool) {
	for _, tg := range t.toggles {
		if tg.setting == key {
			setChecked(tg.item, t.bot.settings.Get(key))
		}
	}
}

func setChecked(item *systray.MenuItem, on bool) {
	if on {
		item.Check()
	} else {
		item.Uncheck()
	}
}
