package main

import (
	"bytes"
	"strconv"
	"strings"
	"testing"
)

func TestNextBerry(t *testing.T) {
	berries := []BerryType{10, 11, 12}
	tests := []struct {
		name  string
		stock []BerryStock
		want  BerryType
		found bool
	}{
		{
			name:  "lowest count wins",
			stock: []BerryStock{{true, 40}, {true, 12}, {true, 30}},
			want:  11, found: true,
		},
		{
			name:  "locked berries are skipped",
			stock: []BerryStock{{true, 40}, {false, 0}, {true, 30}},
			want:  12, found: true,
		},
		{
			name:  "tie goes to the first listed",
			stock: []BerryStock{{true, 50}, {true, 7}, {true, 7}},
			want:  11, found: true,
		},
		{
			name:  "stocked berries are skipped",
			stock: []BerryStock{{true, 50}, {true, 49}, {true, 51}},
			want:  11, found: true,
		},
		{
			name:  "everything stocked",
			stock: []BerryStock{{true, 50}, {true, 60}, {false, 0}},
		},
		{
			name:  "nothing unlocked",
			stock: []BerryStock{{false, 0}, {false, 0}, {false, 0}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextBerry(berries, tt.stock, 50)
			if ok != tt.found || (ok && got != tt.want) {
				t.Errorf("NextBerry = %v, %v, want %v, %v", got, ok, tt.want, tt.found)
			}
		})
	}
}

type berryFixture struct {
	game     *fakeGame
	settings *Settings
	notifier *recordingNotifier
	sched    *manualScheduler
	berries  *BerryRequester
}

// newBerryFixture wires the requester to its flag the way the café does.
// The farm is accessible with automation on and Kelpsy the scarcest berry.
func newBerryFixture(t *testing.T) *berryFixture {
	t.Helper()
	f := &berryFixture{
		game:     newFakeGame(),
		settings: NewSettings(NewPersistentData(), nil),
		notifier: &recordingNotifier{},
		sched:    newManualScheduler(),
	}
	f.berries = NewBerryRequester(f.game, f.settings, f.notifier, f.sched, DefaultConfig().Berries)
	if err := f.berries.Resolve(); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	f.settings.Observe(func(key string, value bool) {
		if key == SettingAutoBerryFarm {
			f.berries.Toggle(value)
		}
	})
	f.game.farm = &FarmSnapshot{
		Accessible:        true,
		AutomationPresent: true,
		AutomationEnabled: true,
		Berries: []BerryStock{
			{true, 80}, {true, 3}, {true, 20}, {true, 60}, {false, 0}, {true, 55},
		},
	}
	return f
}

func forcedValue(b *BerryType) string {
	if b == nil {
		return "none"
	}
	return strconv.Itoa(int(*b))
}

func TestBerryRequesterEnable(t *testing.T) {
	f := newBerryFixture(t)

	f.settings.Set(SettingAutoBerryFarm, true)

	if len(f.game.forcedCalls) != 1 || forcedValue(f.game.forcedCalls[0]) != "11" {
		t.Fatalf("forced calls = %d, want one for Kelpsy (11)", len(f.game.forcedCalls))
	}
	if !f.sched.Running(berryTaskName) {
		t.Error("watcher not armed")
	}
	want := "Now farming Kelpsy berries for Battle Café"
	if len(f.notifier.notes) != 1 || f.notifier.notes[0] != want {
		t.Errorf("notes = %q, want [%q]", f.notifier.notes, want)
	}
}

func TestBerryRequesterEnableTwice(t *testing.T) {
	f := newBerryFixture(t)
	f.berries.Toggle(true)
	f.berries.Toggle(true)

	if got := f.sched.starts[berryTaskName]; got != 1 {
		t.Errorf("watcher starts = %d, want 1", got)
	}
}

func TestBerryRequesterGates(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *berryFixture)
		warn   string
	}{
		{"farm locked", func(f *berryFixture) { f.game.farm.Accessible = false }, "Farm not yet unlocked!"},
		{"automation off", func(f *berryFixture) { f.game.farm.AutomationEnabled = false }, "Please enable Farming automation first!"},
		{"automation missing", func(f *berryFixture) {
			f.game.farm.AutomationPresent = false
			f.game.farm.AutomationEnabled = false
		}, "Farming automation not installed!"},
		{"unreadable farm", func(f *berryFixture) { f.game.farmErr = errFake }, "Cannot read the farm state, try again later."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBerryFixture(t)
			tt.mutate(f)

			f.settings.Set(SettingAutoBerryFarm, true)

			if f.settings.Get(SettingAutoBerryFarm) {
				t.Error("flag still on")
			}
			if f.sched.Running(berryTaskName) {
				t.Error("watcher armed")
			}
			if len(f.game.forcedCalls) != 0 {
				t.Errorf("forced calls = %d, want 0", len(f.game.forcedCalls))
			}
			if len(f.notifier.warns) != 1 || f.notifier.warns[0] != tt.warn {
				t.Errorf("warnings = %q, want [%q]", f.notifier.warns, tt.warn)
			}
		})
	}
}

func TestBerryRequesterNothingNeeded(t *testing.T) {
	f := newBerryFixture(t)
	for i := range f.game.farm.Berries {
		f.game.farm.Berries[i].Count = 100
	}

	f.settings.Set(SettingAutoBerryFarm, true)

	if f.sched.Running(berryTaskName) {
		t.Error("watcher armed with every berry stocked")
	}
	if len(f.game.forcedCalls) != 0 {
		t.Errorf("forced calls = %d, want 0", len(f.game.forcedCalls))
	}
}

func TestBerryWatcherRotates(t *testing.T) {
	f := newBerryFixture(t)
	f.settings.Set(SettingAutoBerryFarm, true)

	// Unchanged need: no write.
	f.sched.Fire(berryTaskName)
	if len(f.game.forcedCalls) != 1 {
		t.Fatalf("forced calls = %d, want 1", len(f.game.forcedCalls))
	}

	// Kelpsy got planted, Qualot is now the scarcest.
	f.game.farm.Berries[1].Count = 70
	f.sched.Fire(berryTaskName)
	if len(f.game.forcedCalls) != 2 || forcedValue(f.game.forcedCalls[1]) != "12" {
		t.Fatalf("forced calls = %d, want a second one for Qualot (12)", len(f.game.forcedCalls))
	}

	// Someone else took the slot: ours is asked again.
	other := BerryType(3)
	f.game.farm.Forced = &other
	f.sched.Fire(berryTaskName)
	if len(f.game.forcedCalls) != 3 || forcedValue(f.game.forcedCalls[2]) != "12" {
		t.Errorf("forced calls = %d, want Qualot asked again", len(f.game.forcedCalls))
	}
}

func TestBerryWatcherStopsWhenStocked(t *testing.T) {
	f := newBerryFixture(t)
	f.settings.Set(SettingAutoBerryFarm, true)

	for i := range f.game.farm.Berries {
		f.game.farm.Berries[i].Count = 100
	}
	f.sched.Fire(berryTaskName)

	last := f.game.forcedCalls[len(f.game.forcedCalls)-1]
	if last != nil {
		t.Errorf("last forced call = %s, want cleared", forcedValue(last))
	}
	if f.sched.Running(berryTaskName) {
		t.Error("watcher still armed")
	}
}

func TestBerryWatcherStopsWhenFlagOff(t *testing.T) {
	f := newBerryFixture(t)
	f.berries.Toggle(true)
	calls := len(f.game.forcedCalls)

	f.sched.Fire(berryTaskName)

	if f.sched.Running(berryTaskName) {
		t.Error("watcher kept running with the flag off")
	}
	if len(f.game.forcedCalls) != calls {
		t.Error("watcher wrote the forced berry with the flag off")
	}
}

func TestBerryRequesterDisable(t *testing.T) {
	tests := []struct {
		name   string
		forced *BerryType
		clears bool
	}{
		{"ours", berryPtr(11), true},
		{"someone else's", berryPtr(3), false},
		{"nothing", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBerryFixture(t)
			f.settings.Set(SettingAutoBerryFarm, true)
			f.game.farm.Forced = tt.forced
			calls := len(f.game.forcedCalls)

			f.settings.Set(SettingAutoBerryFarm, false)

			cleared := len(f.game.forcedCalls) > calls
			if cleared != tt.clears {
				t.Errorf("cleared = %v, want %v", cleared, tt.clears)
			}
			if cleared && f.game.forcedCalls[calls] != nil {
				t.Errorf("disable wrote %s, want a clear", forcedValue(f.game.forcedCalls[calls]))
			}
			if f.sched.Running(berryTaskName) {
				t.Error("watcher still armed")
			}
		})
	}
}

func berryPtr(b BerryType) *BerryType { return &b }

func TestBerryRequesterResolveError(t *testing.T) {
	game := newFakeGame()
	cfg := DefaultConfig().Berries
	cfg.Types = []string{"Pomeg", "Durin"}
	b := NewBerryRequester(game, NewSettings(NewPersistentData(), nil), &recordingNotifier{}, newManualScheduler(), cfg)
	if err := b.Resolve(); err == nil {
		t.Error("Resolve should fail on an unknown berry")
	}
}

func TestBerryRequesterRequestFails(t *testing.T) {
	f := newBerryFixture(t)
	f.game.forcedErr = errFake

	f.settings.Set(SettingAutoBerryFarm, true)

	if f.settings.Get(SettingAutoBerryFarm) {
		t.Error("flag still on after the request failed")
	}
	if f.sched.Running(berryTaskName) {
		t.Error("watcher armed after the request failed")
	}
	want := "Cannot ask the Farming automation for berries, try again later."
	if len(f.notifier.warns) != 1 || f.notifier.warns[0] != want {
		t.Errorf("warnings = %q, want [%q]", f.notifier.warns, want)
	}
	if len(f.notifier.notes) != 0 {
		t.Errorf("notes = %q, want none", f.notifier.notes)
	}
}

func TestBerryRequesterDisableUnreadableFarm(t *testing.T) {
	var buf bytes.Buffer
	globalLogger = newLogger(&buf, nil)
	defer func() { globalLogger = nil }()

	f := newBerryFixture(t)
	f.settings.Set(SettingAutoBerryFarm, true)
	f.game.farmErr = errFake
	calls := len(f.game.forcedCalls)

	f.settings.Set(SettingAutoBerryFarm, false)

	if f.sched.Running(berryTaskName) {
		t.Error("watcher still armed")
	}
	if len(f.game.forcedCalls) != calls {
		t.Error("forced berry written without knowing the farm state")
	}
	if !strings.Contains(buf.String(), "[WARN] Berries: cannot read farm state") {
		t.Errorf("log = %q, want a warning about the left-over request", buf.String())
	}
}
