// Package main - notify.go
//
// Notification sink. Messages are always logged; the page notifier also shows
// them as in-game toasts and forwards them to any listener (the tray).
package main

// NotifySource tags notifications sent by the café components.
const NotifySource = "Battle Café"

// Notifier delivers user-facing messages.
type Notifier interface {
	Notify(message, source string)
	Warn(message, source string)
}

type pageNotifier struct {
	browser  *Browser
	listener func(message string)
}

// NewPageNotifier creates a Notifier that toasts in the game page.
// listener may be nil.
func NewPageNotifier(browser *Browser, listener func(message string)) Notifier {
	return &pageNotifier{browser: browser, listener: listener}
}

func (n *pageNotifier) Notify(message, source string) {
	LogInfo("[%s] %s", source, message)
	n.send(message, source, false)
}

func (n *pageNotifier) Warn(message, source string) {
	LogWarn("[%s] %s", source, message)
	n.send(message, source, true)
}

func (n *pageNotifier) send(message, source string, warning bool) {
	if n.listener != nil {
		n.listener(message)
	}
	if err := n.browser.notifyPage(source, message, warning); err != nil {
		LogDebug("Failed to show notification in page: %v", err)
	}
}
