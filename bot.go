// Package main - bot.go
//
// Bot is the main controller: it owns the browser, the scheduler, the
// settings store and the Battle Café automation, and drives the startup and
// shutdown sequences.
//
// Startup Sequence:
//  1. Start Chrome (or attach to one) and open the game
//  2. Wait until the player has loaded a save
//  3. Install the page binding used by the panel buttons
//  4. Run InitBuildMenu, then InitFinalize, on the scheduler's execution context
//  5. Enable the tray toggles and refresh the tray status every 5 seconds
//
// Shutdown (signal, tray Quit, or browser window closed):
//  1. Release the berry request and stop the loops
//  2. Stop every scheduler task
//  3. Close the browser
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Bot represents the main bot controller and orchestrates all subsystems.
type Bot struct {
	cfg      *Config
	opts     BrowserOptions
	browser  *Browser
	sched    *TickerScheduler
	settings *Settings
	cafe     *Cafe
	tray     *TrayApp

	startTime time.Time
	ready     bool
	progress  Progress
	lastNote  string
	mu        sync.Mutex

	shutdownOnce sync.Once
}

// NewBot wires every component. Nothing touches the browser yet.
func NewBot(cfg *Config, opts BrowserOptions, store *DataStore) (*Bot, error) {
	data, err := store.LoadData()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	b := &Bot{
		cfg:       cfg,
		opts:      opts,
		browser:   NewBrowser(),
		sched:     NewTickerScheduler(),
		settings:  NewSettings(data, store.SaveData),
		startTime: time.Now(),
	}

	game := NewPageGame(b.browser, cfg.Game)
	view := NewPageView(b.browser, cfg.Game.ModalID)
	notifier := NewPageNotifier(b.browser, b.onNotification)
	b.cafe = NewCafe(cfg, game, view, b.settings, notifier, b.sched)
	b.cafe.OnProgress(b.onProgress)

	for _, key := range b.settings.Keys() {
		LogDebug("Stored setting %s = %t", key, b.settings.Get(key))
	}
	return b, nil
}

// startGame runs the startup sequence up to a fully running café.
func (b *Bot) startGame() error {
	if err := b.browser.Start(b.opts); err != nil {
		return fmt.Errorf("start browser: %w", err)
	}

	LogInfo("Waiting for the game to be ready...")
	if err := b.browser.WaitReady(readyScript(b.cfg.Game), b.cfg.Game.ReadyTimeout); err != nil {
		return fmt.Errorf("wait for game: %w", err)
	}
	LogInfo("Game is ready")

	err := b.browser.Bind(toggleBinding, func(setting string) {
		b.sched.Do(func() { b.cafe.Toggle(setting) })
	})
	if err != nil {
		return err
	}

	for _, step := range []InitStep{InitBuildMenu, InitFinalize} {
		var stepErr error
		b.sched.Do(func() { stepErr = b.cafe.Initialize(step) })
		if stepErr != nil {
			return fmt.Errorf("initialize café: %w", stepErr)
		}
	}

	b.mu.Lock()
	b.ready = true
	b.mu.Unlock()
	if b.tray != nil {
		b.tray.EnableToggles()
		b.sched.Start(trayStatusTaskName, 5*time.Second, b.refreshTrayStatus)
	}
	return nil
}

// ToggleSetting flips a feature flag on the execution context.
// It is a no-op until the café is initialized.
func (b *Bot) ToggleSetting(setting string) {
	b.mu.Lock()
	ready := b.ready
	b.mu.Unlock()
	if !ready {
		LogDebug("Ignoring toggle of %s before the game is ready", setting)
		return
	}
	b.sched.Do(func() { b.cafe.Toggle(setting) })
}

func (b *Bot) onProgress(p Progress) {
	b.mu.Lock()
	b.progress = p
	b.mu.Unlock()
	LogInfo("Progress: caught %d/%d, Pokérus %d/%d, complete %d/%d",
		p.Caught, p.Total, p.Infected, p.Total, p.Complete, p.Total)
	b.refreshTrayStatus()
}

func (b *Bot) onNotification(message string) {
	b.mu.Lock()
	b.lastNote = message
	b.mu.Unlock()
	b.refreshTrayStatus()
}

// Status returns the one-line status shown in the tray.
func (b *Bot) Status() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.ready {
		return "Waiting for the game..."
	}
	p := b.progress
	return fmt.Sprintf("Caught %d/%d | Pokérus %d/%d | %s",
		p.Caught, p.Total, p.Infected, p.Total, FormatDuration(time.Since(b.startTime)))
}

// LastNotification returns the most recent notification text.
func (b *Bot) LastNotification() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastNote
}

// LastAction describes the most recent page action, "" when there is none.
func (b *Bot) LastAction() string {
	logs := b.browser.GetActionLogs()
	if len(logs) == 0 {
		return ""
	}
	return formatAction(logs[len(logs)-1], time.Now())
}

func formatAction(entry ActionLog, now time.Time) string {
	return fmt.Sprintf("%s (%s ago)", entry.Message, FormatDuration(now.Sub(entry.Timestamp)))
}

func (b *Bot) refreshTrayStatus() {
	if b.tray != nil {
		b.tray.UpdateStatus()
	}
}

// Shutdown stops everything. It is safe to call more than once.
func (b *Bot) Shutdown() {
	b.shutdownOnce.Do(func() {
		LogInfo("Shutting down...")
		b.mu.Lock()
		ready := b.ready
		b.mu.Unlock()
		if ready {
			b.sched.Do(b.cafe.Shutdown)
		}
		b.sched.StopAll()
		b.browser.Close()
	})
}

// Run starts the bot and blocks until it is asked to stop.
//
// With the tray, the tray owns the main thread and the game starts from its
// ready callback. Without it, Run waits for a signal or for the browser
// window to be closed.
func (b *Bot) Run(withTray bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if withTray {
		b.tray = NewTrayApp(b)
		errCh := make(chan error, 1)
		b.tray.OnReady(func() {
			SafeGo(func() {
				<-ctx.Done()
				LogInfo("Signal received, shutting down gracefully...")
				b.tray.Quit()
			})

			if err := b.startGame(); err != nil {
				LogError("Startup failed: %v", err)
				errCh <- err
				b.tray.Quit()
				return
			}
			<-b.browser.Done()
			LogInfo("Browser closed")
			b.tray.Quit()
		})
		b.tray.Run()
		b.Shutdown()

		select {
		case err := <-errCh:
			if ctx.Err() != nil {
				return nil
			}
			return err
		default:
			return nil
		}
	}

	errCh := make(chan error, 1)
	SafeGo(func() { errCh <- b.startGame() })

	select {
	case <-ctx.Done():
		LogInfo("Signal received, shutting down gracefully...")
	case err := <-errCh:
		if err != nil {
			b.Shutdown()
			return err
		}
		LogInfo("Bot running (Ctrl+C to quit)")
		select {
		case <-ctx.Done():
			LogInfo("Signal received, shutting down gracefully...")
		case <-b.browser.Done():
			LogInfo("Browser closed")
		}
	}

	b.Shutdown()
	return nil
}
