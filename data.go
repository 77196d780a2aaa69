// Package main - data.go
//
// This file defines the feature-flag store and the data persisted between runs.
//
// Feature Flags:
//   - BattleCafe-FarmEnabled: auto battle loop (forced off at every startup)
//   - BattleCafe-StopOnPokedex: stop the loop once the active sweet is complete
//   - BattleCafe-AutoBerryFarm: request sweet berries from the farming automation
//
// Every write goes through Set or ForceState, which notifies observers and
// persists the store. Observers run synchronously on the caller's goroutine.
// Callers are expected to be on the scheduler's execution context, so an
// observer may start or stop tasks but must not call Scheduler.Do.
package main

import (
	"sort"
	"sync"
)

// Setting keys
const (
	SettingFarmEnabled   = "BattleCafe-FarmEnabled"
	SettingStopOnPokedex = "BattleCafe-StopOnPokedex"
	SettingAutoBerryFarm = "BattleCafe-AutoBerryFarm"
)

// PersistentData holds all data that should be saved
type PersistentData struct {
	Settings map[string]bool `json:"settings"`
}

// NewPersistentData creates a new persistent data structure
func NewPersistentData() *PersistentData {
	return &PersistentData{
		Settings: make(map[string]bool),
	}
}

// SettingObserver is called after a key changed value.
type SettingObserver func(key string, value bool)

// Settings is the feature-flag store.
type Settings struct {
	values    map[string]bool
	observers []SettingObserver
	save      func(*PersistentData) error
	mu        sync.RWMutex
}

// NewSettings wraps loaded data. save may be nil (nothing is persisted).
func NewSettings(data *PersistentData, save func(*PersistentData) error) *Settings {
	values := make(map[string]bool, len(data.Settings))
	for k, v := range data.Settings {
		values[k] = v
	}
	return &Settings{values: values, save: save}
}

// Observe registers fn for every later change.
func (s *Settings) Observe(fn SettingObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Get returns the value of key, false when unset.
func (s *Settings) Get(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

// SetDefault sets key only when it has never been stored.
func (s *Settings) SetDefault(key string, value bool) {
	s.mu.Lock()
	if _, ok := s.values[key]; ok {
		s.mu.Unlock()
		return
	}
	s.values[key] = value
	s.mu.Unlock()
	s.persist()
}

// Set stores value and notifies observers when it changed.
func (s *Settings) Set(key string, value bool) {
	s.mu.Lock()
	old, ok := s.values[key]
	s.values[key] = value
	observers := append([]SettingObserver(nil), s.observers...)
	s.mu.Unlock()

	if ok && old == value {
		return
	}
	s.persist()
	for _, fn := range observers {
		fn(key, value)
	}
}

// ForceState writes value even when it did not change and always notifies,
// so buttons and loops are brought in line with the stored state.
func (s *Settings) ForceState(key string, value bool) {
	s.mu.Lock()
	s.values[key] = value
	observers := append([]SettingObserver(nil), s.observers...)
	s.mu.Unlock()

	s.persist()
	for _, fn := range observers {
		fn(key, value)
	}
}

// Toggle flips key and returns the new value.
func (s *Settings) Toggle(key string) bool {
	value := !s.Get(key)
	s.Set(key, value)
	return value
}

// Snapshot returns a copy of the stored values.
func (s *Settings) Snapshot() *PersistentData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data := NewPersistentData()
	for k, v := range s.values {
		data.Settings[k] = v
	}
	return data
}

// Keys returns the stored keys in sorted order.
func (s *Settings) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Settings) persist() {
	if s.save == nil {
		return
	}
	if err := s.save(s.Snapshot()); err != nil {
		LogWarn("Failed to save settings: %v", err)
	}
}
