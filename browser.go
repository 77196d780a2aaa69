// Package main - browser.go
//
// This file implements the Browser controller that manages chromedp for game interaction.
//
// Key Responsibilities:
//   - Chromedp browser lifecycle management (launch or attach, navigate, close)
//   - JavaScript evaluation with timeout protection (2s)
//   - Waiting for the game to finish loading a save
//   - Runtime bindings so page buttons can call back into the bot
//   - Action logging for the tray status line
//
// Browser Architecture:
// The Browser uses nested contexts for proper resource management:
//   - allocCtx: Allocator context (a launched Chrome, or a remote DevTools endpoint)
//   - ctx: Browser context for page operations
// Both contexts have cancel functions for graceful cleanup.
//
// Timeout Strategy:
//   - Navigation: 60 seconds (slow network tolerance)
//   - Evaluation: 2 seconds (a poll tick must never hang)
//   - Ready check: polled every second until the configured timeout
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

const (
	navigateTimeout = 60 * time.Second
	evalTimeout     = 2 * time.Second
	readyPoll       = time.Second
)

// ErrBrowserClosed is returned when the browser context is gone.
var ErrBrowserClosed = errors.New("browser context is invalid")

// ActionLog represents a recorded page action.
type ActionLog struct {
	Message   string
	Timestamp time.Time
}

// BrowserOptions selects how Chrome is obtained.
type BrowserOptions struct {
	URL        string // game URL
	RemoteURL  string // DevTools websocket of a running Chrome; empty launches one
	ProfileDir string // user data dir, keeps the game save between runs
	Headless   bool
}

// Browser manages the chromedp browser instance for game interaction.
//
// Lifecycle:
//  1. NewBrowser(): Create instance with empty action log
//  2. Start(): Initialize chromedp contexts and navigate to the game
//  3. WaitReady(): Block until the player has loaded a save
//  4. Evaluate()/Bind(): Read state, click controls, receive button presses
//  5. Close(): Clean up contexts and browser process
type Browser struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCtx    context.Context
	allocCancel context.CancelFunc

	bindings   map[string]func(payload string)
	bindingsMu sync.Mutex

	actionLogs []ActionLog
	logMutex   sync.RWMutex
}

// NewBrowser creates a new browser instance
func NewBrowser() *Browser {
	return &Browser{
		bindings:   make(map[string]func(string)),
		actionLogs: make([]ActionLog, 0, 10),
	}
}

// LogAction logs an action for status display (keeps last 10)
func (b *Browser) LogAction(message string) {
	b.logMutex.Lock()
	defer b.logMutex.Unlock()

	b.actionLogs = append(b.actionLogs, ActionLog{
		Message:   message,
		Timestamp: time.Now(),
	})

	if len(b.actionLogs) > 10 {
		b.actionLogs = b.actionLogs[len(b.actionLogs)-10:]
	}
}

// GetActionLogs returns recent action logs
func (b *Browser) GetActionLogs() []ActionLog {
	b.logMutex.RLock()
	defer b.logMutex.RUnlock()

	logs := make([]ActionLog, len(b.actionLogs))
	copy(logs, b.actionLogs)
	return logs
}

// Start initializes chromedp and navigates to the game URL.
//
// With a RemoteURL the bot attaches to an already running Chrome and opens
// the game in a new tab. Otherwise a visible Chrome is launched with the
// configured profile directory, so the game's local-storage save survives.
func (b *Browser) Start(opts BrowserOptions) error {
	if opts.RemoteURL != "" {
		b.allocCtx, b.allocCancel = chromedp.NewRemoteAllocator(context.Background(), opts.RemoteURL)
		LogInfo("Attaching to remote browser at %s", opts.RemoteURL)
	} else {
		allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", opts.Headless),
			chromedp.Flag("disable-gpu", false),
			chromedp.Flag("enable-automation", false),
			chromedp.Flag("disable-blink-features", "AutomationControlled"),
			// The game throttles its loop in background tabs.
			chromedp.Flag("disable-background-timer-throttling", true),
			chromedp.Flag("disable-renderer-backgrounding", true),
			chromedp.WindowSize(1280, 900),
		)
		if opts.ProfileDir != "" {
			allocOpts = append(allocOpts, chromedp.UserDataDir(opts.ProfileDir))
		}
		b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(context.Background(), allocOpts...)
		LogInfo("Browser allocator context created")
	}

	b.ctx, b.cancel = chromedp.NewContext(b.allocCtx, chromedp.WithLogf(func(format string, args ...interface{}) {
		LogDebug(format, args...)
	}))
	LogInfo("Browser context created")

	chromedp.ListenTarget(b.ctx, b.onTargetEvent)

	LogInfo("Navigating to %s", opts.URL)
	navCtx, navCancel := context.WithTimeout(b.ctx, navigateTimeout)
	defer navCancel()

	if err := chromedp.Run(navCtx, chromedp.Navigate(opts.URL)); err != nil {
		return fmt.Errorf("navigate to %s: %w", opts.URL, err)
	}

	LogInfo("Navigation completed successfully")
	return nil
}

// valid reports whether the browser context can still run actions.
func (b *Browser) valid() bool {
	return b.ctx != nil && b.ctx.Err() == nil
}

// Done is closed when the browser goes away (window closed, Close called).
// It returns nil before Start.
func (b *Browser) Done() <-chan struct{} {
	if b.ctx == nil {
		return nil
	}
	return b.ctx.Done()
}

// Evaluate runs js in the page and decodes its JSON-compatible result into res.
// res may be nil when the result is not needed.
func (b *Browser) Evaluate(js string, res interface{}) error {
	if !b.valid() {
		return ErrBrowserClosed
	}

	ctx, cancel := context.WithTimeout(b.ctx, evalTimeout)
	defer cancel()

	return chromedp.Run(ctx, chromedp.Evaluate(js, res))
}

// WaitReady polls readyJS until it evaluates to true.
// A zero timeout waits until the browser is closed.
func (b *Browser) WaitReady(readyJS string, timeout time.Duration) error {
	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	ticker := time.NewTicker(readyPoll)
	defer ticker.Stop()

	waited := 0
	for {
		var ready bool
		err := b.Evaluate(readyJS, &ready)
		switch {
		case errors.Is(err, ErrBrowserClosed):
			return err
		case err != nil:
			LogDebug("Ready check failed: %v", err)
		case ready:
			return nil
		}

		waited++
		if waited%30 == 0 {
			LogInfo("Still waiting for the game (load a save in the browser window)")
		}

		select {
		case <-deadline:
			return fmt.Errorf("game not ready after %v", timeout)
		case <-b.ctx.Done():
			return ErrBrowserClosed
		case <-ticker.C:
		}
	}
}

// Bind exposes window[name](payload) to the page; handler receives the payload.
// Bindings survive page reloads.
func (b *Browser) Bind(name string, handler func(payload string)) error {
	if !b.valid() {
		return ErrBrowserClosed
	}

	b.bindingsMu.Lock()
	b.bindings[name] = handler
	b.bindingsMu.Unlock()

	ctx, cancel := context.WithTimeout(b.ctx, evalTimeout)
	defer cancel()

	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return runtime.AddBinding(name).Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("add binding %s: %w", name, err)
	}
	LogDebug("Binding %s installed", name)
	return nil
}

// onTargetEvent runs on chromedp's event goroutine and must not block.
func (b *Browser) onTargetEvent(ev interface{}) {
	called, ok := ev.(*runtime.EventBindingCalled)
	if !ok {
		return
	}

	b.bindingsMu.Lock()
	handler := b.bindings[called.Name]
	b.bindingsMu.Unlock()
	if handler == nil {
		return
	}

	payload := called.Payload
	SafeGo(func() { handler(payload) })
}

// Close closes the browser
func (b *Browser) Close() {
	LogInfo("Closing browser...")
	if b.cancel != nil {
		b.cancel()
	}
	if b.allocCancel != nil {
		b.allocCancel()
	}
	LogInfo("Browser closed successfully")
}

// jsLiteral encodes v as a JavaScript literal.
func jsLiteral(v interface{}) string {
	buf, err := json.Marshal(v)
	if err != nil {
		// Only plain strings, numbers and slices of them are passed in.
		panic(fmt.Sprintf("jsLiteral: %v", err))
	}
	return string(buf)
}
