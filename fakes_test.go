package main

import (
	"errors"
	"fmt"
	"time"
)

var errFake = errors.New("fake failure")

// testCatalog is a two-sweet catalog. "Alcremie (Rainbow Swirl)" is shared
// by both sweets.
//
//	row-0 base
//	sweet 0: Day row-1 SV, row-2 SR | Dusk row-3 RS | Night row-4 SM
//	sweet 1: Day row-5 BV           | Dusk row-6 RS
func testCatalog() *Catalog {
	var (
		sv = Target{Name: "Alcremie (Strawberry Vanilla Cream)", ID: 869.01}
		sr = Target{Name: "Alcremie (Strawberry Ruby Cream)", ID: 869.02}
		sm = Target{Name: "Alcremie (Strawberry Matcha Cream)", ID: 869.03}
		bv = Target{Name: "Alcremie (Berry Vanilla Cream)", ID: 869.1}
		rs = Target{Name: "Alcremie (Rainbow Swirl)", ID: 869.5}
	)
	return &Catalog{
		Base: Target{Name: "Milcery (Cheesy)", ID: 868.01},
		Groups: []VariantGroup{
			{Index: 0, Name: "Strawberry Sweet", Rewards: []Reward{
				{Spin: SpinDayClockwiseBelow5, Target: sv},
				{Spin: SpinDayCounterclockwiseBelow5, Target: sr},
				{Spin: SpinNightClockwiseBelow5, Target: sm},
				{Spin: SpinAt5Above10, Target: rs},
			}},
			{Index: 1, Name: "Berry Sweet", Rewards: []Reward{
				{Spin: SpinDayClockwiseBelow5, Target: bv},
				{Spin: SpinAt5Above10, Target: rs},
			}},
		},
	}
}

// cafeState builds a snapshot whose target statuses come from status.
func cafeState(c *Catalog, status func(Target) TargetStatus) *CafeSnapshot {
	snap := &CafeSnapshot{
		ModalShown:   true,
		PanelPresent: true,
		Button:       ButtonState{Present: true},
	}
	for _, t := range c.Targets() {
		snap.Targets = append(snap.Targets, status(t))
	}
	return snap
}

func uncaught(Target) TargetStatus { return TargetStatus{} }

type fakeGame struct {
	catalog    *Catalog
	catalogErr error

	cafe      *CafeSnapshot
	cafeErr   error
	cafeCalls int

	clicks   int
	clickErr error

	farm        *FarmSnapshot
	farmErr     error
	forcedCalls []*BerryType
	forcedErr   error

	berryIDs map[string]BerryType
}

func newFakeGame() *fakeGame {
	return &fakeGame{
		catalog: testCatalog(),
		berryIDs: map[string]BerryType{
			"Pomeg": 10, "Kelpsy": 11, "Qualot": 12,
			"Hondew": 13, "Grepa": 14, "Tamato": 15,
		},
	}
}

func (f *fakeGame) Catalog(baseTarget string) (*Catalog, error) {
	if f.catalogErr != nil {
		return nil, f.catalogErr
	}
	return f.catalog, nil
}

func (f *fakeGame) CafeSnapshot(ids []PokemonID) (*CafeSnapshot, error) {
	f.cafeCalls++
	if f.cafeErr != nil {
		return nil, f.cafeErr
	}
	if f.cafe == nil {
		return nil, errors.New("no cafe state")
	}
	if len(f.cafe.Targets) != len(ids) {
		return nil, fmt.Errorf("snapshot has %d targets, asked for %d", len(f.cafe.Targets), len(ids))
	}
	snap := *f.cafe
	snap.Targets = append([]TargetStatus(nil), f.cafe.Targets...)
	return &snap, nil
}

func (f *fakeGame) ClickBattle() (bool, error) {
	if f.clickErr != nil {
		return false, f.clickErr
	}
	f.clicks++
	return true, nil
}

func (f *fakeGame) FarmSnapshot(berries []BerryType) (*FarmSnapshot, error) {
	if f.farmErr != nil {
		return nil, f.farmErr
	}
	if f.farm == nil {
		return nil, errors.New("no farm state")
	}
	snap := *f.farm
	snap.Berries = append([]BerryStock(nil), f.farm.Berries...)
	if f.farm.Forced != nil {
		forced := *f.farm.Forced
		snap.Forced = &forced
	}
	return &snap, nil
}

func (f *fakeGame) SetForcedBerry(berry *BerryType) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	var stored *BerryType
	if berry != nil {
		v := *berry
		stored = &v
	}
	f.forcedCalls = append(f.forcedCalls, stored)
	if f.farm != nil {
		f.farm.Forced = stored
	}
	return nil
}

func (f *fakeGame) ResolveBerries(names []string) ([]BerryType, error) {
	out := make([]BerryType, 0, len(names))
	for _, name := range names {
		id, ok := f.berryIDs[name]
		if !ok {
			return nil, fmt.Errorf("unknown berry %q", name)
		}
		out = append(out, id)
	}
	return out, nil
}

type groupCall struct {
	index  int
	hidden bool
}

type badgeCall struct {
	rows   []string
	status int
}

type fakeView struct {
	renders   int
	renderErr error
	groups    []groupCall
	caught    []badgeCall
	pokerus   []badgeCall
	buttons   map[string]bool
}

func newFakeView() *fakeView {
	return &fakeView{buttons: make(map[string]bool)}
}

func (v *fakeView) Render(model *PanelModel, settings map[string]bool) error {
	if v.renderErr != nil {
		return v.renderErr
	}
	v.renders++
	for _, b := range model.Buttons {
		v.buttons[b.Setting] = settings[b.Setting]
	}
	return nil
}

func (v *fakeView) SetGroupHidden(group *GroupModel, hidden bool) error {
	v.groups = append(v.groups, groupCall{index: group.Index, hidden: hidden})
	return nil
}

func (v *fakeView) SetCaughtBadge(rowIDs []string, status CaughtStatus) error {
	v.caught = append(v.caught, badgeCall{rows: append([]string(nil), rowIDs...), status: int(status)})
	return nil
}

func (v *fakeView) SetPokerusBadge(rowIDs []string, status PokerusStatus) error {
	v.pokerus = append(v.pokerus, badgeCall{rows: append([]string(nil), rowIDs...), status: int(status)})
	return nil
}

func (v *fakeView) SetButtonState(setting string, on bool) error {
	v.buttons[setting] = on
	return nil
}

// reset forgets every recorded call.
func (v *fakeView) reset() {
	v.groups, v.caught, v.pokerus = nil, nil, nil
}

type recordingNotifier struct {
	notes []string
	warns []string
}

func (n *recordingNotifier) Notify(message, source string) {
	n.notes = append(n.notes, message)
}

func (n *recordingNotifier) Warn(message, source string) {
	n.warns = append(n.warns, message)
}

type manualTask struct {
	period time.Duration
	fn     func()
}

// manualScheduler runs tasks only when the test fires them.
type manualScheduler struct {
	tasks  map[string]manualTask
	starts map[string]int
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{
		tasks:  make(map[string]manualTask),
		starts: make(map[string]int),
	}
}

func (s *manualScheduler) Start(name string, period time.Duration, fn func()) {
	if _, ok := s.tasks[name]; ok {
		return
	}
	s.tasks[name] = manualTask{period: period, fn: fn}
	s.starts[name]++
}

func (s *manualScheduler) Stop(name string) {
	delete(s.tasks, name)
}

func (s *manualScheduler) Running(name string) bool {
	_, ok := s.tasks[name]
	return ok
}

func (s *manualScheduler) Do(fn func()) {
	fn()
}

// Fire runs one tick of name and reports whether the task was armed.
func (s *manualScheduler) Fire(name string) bool {
	task, ok := s.tasks[name]
	if !ok {
		return false
	}
	task.fn()
	return true
}
