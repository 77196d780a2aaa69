// Package main - utils.go
//
// Small helpers shared by the loops and the tray.
package main

import (
	"fmt"
	"strconv"
	"time"
)

// SafeGo runs a function in a goroutine with panic recovery
func SafeGo(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				LogError("Panic recovered in goroutine: %v", r)
			}
		}()
		fn()
	}()
}

// FormatDuration formats a duration into human-readable string
func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// formatNumber renders a float the way the page prints numbers:
// 868 stays "868", 869.01 stays "869.01".
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
