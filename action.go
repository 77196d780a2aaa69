// Package main - action.go
//
// This file implements the writes the bot performs on the game through
// JavaScript injection: clicking the battle button, setting the farming
// automation's forced berry, and showing in-game notifications.
//
// Like every page call, each action uses the Browser's 2-second evaluation
// timeout and is recorded in the action log.
package main

import (
	"fmt"
)

// ClickBattle clicks the battle-start button when it is present and enabled.
// It reports whether a click happened.
func (g *pageGame) ClickBattle() (bool, error) {
	js := fmt.Sprintf(`(() => {
		const button = document.querySelector(%s);
		if (!button || button.disabled) { return false; }
		button.click();
		return true;
	})()`, jsLiteral(g.cfg.BattleButton))

	var clicked bool
	if err := g.browser.Evaluate(js, &clicked); err != nil {
		return false, fmt.Errorf("click battle button: %w", err)
	}
	if clicked {
		g.browser.LogAction("Battle started")
	}
	return clicked, nil
}

// SetForcedBerry writes Automation.Farm.ForcePlantBerriesAsked; nil clears it.
func (g *pageGame) SetForcedBerry(berry *BerryType) error {
	value := "null"
	if berry != nil {
		value = jsLiteral(int(*berry))
	}
	js := fmt.Sprintf(`(() => {
		if (typeof Automation === "undefined" || !Automation.Farm) { return false; }
		Automation.Farm.ForcePlantBerriesAsked = %s;
		return true;
	})()`, value)

	var ok bool
	if err := g.browser.Evaluate(js, &ok); err != nil {
		return fmt.Errorf("set forced berry: %w", err)
	}
	if !ok {
		return fmt.Errorf("set forced berry: farming automation not installed")
	}
	g.browser.LogAction("Forced berry: " + value)
	return nil
}

// notifyPage shows a toast through the game's own Notifier.
func (b *Browser) notifyPage(title, message string, warning bool) error {
	option := "info"
	if warning {
		option = "warning"
	}
	js := fmt.Sprintf(`(() => {
		if (typeof Notifier === "undefined") { return; }
		Notifier.notify({
			title: %s,
			message: %s,
			type: NotificationConstants.NotificationOption[%s],
			timeout: 10000,
		});
	})()`, jsLiteral(title), jsLiteral(message), jsLiteral(option))

	return b.Evaluate(js, nil)
}
