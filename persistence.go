// Package main - persistence.go
//
// This file implements persistence of the feature flags.
// Uses JSON format for human-readable and easily editable storage.
//
// File Format:
// {
//   "settings": {
//     "BattleCafe-FarmEnabled": false,
//     "BattleCafe-StopOnPokedex": true
//   }
// }
//
// Load Behavior:
//   - If the file exists: load the stored flags
//   - If the file doesn't exist: empty store (defaults are applied at menu build)
//   - If the file is corrupted: log error, use an empty store
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// DataStore reads and writes PersistentData at a fixed path.
type DataStore struct {
	path string
}

// NewDataStore creates a store for path.
func NewDataStore(path string) *DataStore {
	return &DataStore{path: path}
}

// SaveData writes data to the store's file, replacing its previous content.
func (d *DataStore) SaveData(data *PersistentData) error {
	file, err := os.Create(d.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", d.path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encode %s: %w", d.path, err)
	}

	LogDebug("Data saved to %s", d.path)
	return nil
}

// LoadData loads the store's file.
//
// Decode failures are handled by returning an empty store so a hand-edited
// file never prevents startup.
func (d *DataStore) LoadData() (*PersistentData, error) {
	file, err := os.Open(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			LogInfo("No existing data file, creating new settings")
			return NewPersistentData(), nil
		}
		return nil, fmt.Errorf("open %s: %w", d.path, err)
	}
	defer file.Close()

	var data PersistentData
	if err := json.NewDecoder(file).Decode(&data); err != nil {
		LogError("Failed to decode data file: %v", err)
		return NewPersistentData(), nil
	}
	if data.Settings == nil {
		data.Settings = make(map[string]bool)
	}

	LogInfo("Data loaded from %s", d.path)
	return &data, nil
}
