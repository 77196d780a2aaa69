// Package main - refresher.go
//
// The visibility/status refresher keeps the panel in line with the game once
// per second: it shows only the container of the selected sweet and refreshes
// the caught and Pokérus badges of the targets currently on screen.
//
// Badge writes are memoized: a badge is re-rendered only when its status
// differs from the last rendered one.
package main

// indicator is one cache entry: the rows showing a target, its id and the
// last status rendered into them.
type indicator struct {
	rows     []string
	id       PokemonID
	status   int
	rendered bool
}

// Progress summarizes the collection goal over every target.
type Progress struct {
	Total    int
	Caught   int // caught at least once
	Infected int // any Pokérus status
	Complete int // captured at least the Pokérus threshold
}

// Refresher owns the panel's visible-sweet pointer and badge caches.
type Refresher struct {
	game      Game
	view      PanelView
	settings  *Settings
	model     *PanelModel
	threshold int

	targets []Target
	ids     []PokemonID
	index   map[string]int // target name -> position in ids

	caughtIndicators  map[string]*indicator
	pokerusIndicators map[string]*indicator

	visibleSweet int
	hasVisible   bool

	progress   Progress
	onProgress func(Progress)
}

// NewRefresher creates a refresher for an already rendered panel.
func NewRefresher(game Game, view PanelView, settings *Settings, catalog *Catalog, model *PanelModel, threshold int) *Refresher {
	r := &Refresher{
		game:      game,
		view:      view,
		settings:  settings,
		model:     model,
		threshold: threshold,
		targets:   catalog.Targets(),
		index:     make(map[string]int),
	}
	for i, t := range r.targets {
		r.ids = append(r.ids, t.ID)
		r.index[t.Name] = i
	}
	r.resetCaches()
	return r
}

// OnProgress registers fn, called whenever the progress summary changes.
func (r *Refresher) OnProgress(fn func(Progress)) {
	r.onProgress = fn
}

// resetCaches rebuilds both caches from the model with nothing rendered.
func (r *Refresher) resetCaches() {
	r.caughtIndicators = make(map[string]*indicator)
	r.pokerusIndicators = make(map[string]*indicator)
	for _, row := range r.model.Rows() {
		for _, cache := range []map[string]*indicator{r.caughtIndicators, r.pokerusIndicators} {
			entry, ok := cache[row.Target.Name]
			if !ok {
				entry = &indicator{id: row.Target.ID}
				cache[row.Target.Name] = entry
			}
			entry.rows = append(entry.rows, row.ElementID)
		}
	}
	r.hasVisible = false
}

// Tick runs one refresh.
func (r *Refresher) Tick() {
	snap, err := r.game.CafeSnapshot(r.ids)
	if err != nil {
		LogDebug("Refresh: skipping tick: %v", err)
		return
	}

	r.updateProgress(snap)

	if !snap.ModalShown {
		return
	}

	if !snap.PanelPresent {
		LogWarn("Refresh: panel missing (page reloaded?), rendering again")
		if err := r.view.Render(r.model, r.settings.Snapshot().Settings); err != nil {
			LogDebug("Refresh: render failed: %v", err)
			return
		}
		r.resetCaches()
	}

	r.refreshStatus(r.model.Base.Target.Name, snap)
	group, ok := r.model.Group(snap.SelectedSweet)
	if ok {
		for _, section := range group.Sections {
			for _, row := range section.Rows {
				r.refreshStatus(row.Target.Name, snap)
			}
		}
	}

	if r.hasVisible && r.visibleSweet == snap.SelectedSweet {
		return
	}

	if r.hasVisible {
		if prev, ok := r.model.Group(r.visibleSweet); ok {
			if err := r.view.SetGroupHidden(prev, true); err != nil {
				LogDebug("Refresh: hide sweet %d: %v", r.visibleSweet, err)
				return
			}
		}
	}
	if ok {
		if err := r.view.SetGroupHidden(group, false); err != nil {
			LogDebug("Refresh: show sweet %d: %v", snap.SelectedSweet, err)
			return
		}
	}
	r.visibleSweet = snap.SelectedSweet
	r.hasVisible = true
}

// refreshStatus re-renders the badges of name whose status changed.
func (r *Refresher) refreshStatus(name string, snap *CafeSnapshot) {
	pos, ok := r.index[name]
	if !ok {
		return
	}
	status := snap.Targets[pos]

	if entry := r.caughtIndicators[name]; entry != nil {
		if !entry.rendered || entry.status != int(status.Caught) {
			if err := r.view.SetCaughtBadge(entry.rows, status.Caught); err != nil {
				LogDebug("Refresh: caught badge of %s: %v", name, err)
			} else {
				entry.status = int(status.Caught)
				entry.rendered = true
			}
		}
	}

	if entry := r.pokerusIndicators[name]; entry != nil {
		if !entry.rendered || entry.status != int(status.Pokerus) {
			if err := r.view.SetPokerusBadge(entry.rows, status.Pokerus); err != nil {
				LogDebug("Refresh: pokérus badge of %s: %v", name, err)
			} else {
				entry.status = int(status.Pokerus)
				entry.rendered = true
			}
		}
	}
}

func (r *Refresher) updateProgress(snap *CafeSnapshot) {
	p := Progress{Total: len(snap.Targets)}
	for _, t := range snap.Targets {
		if t.Caught != NotCaught {
			p.Caught++
		}
		if t.Pokerus != PokerusUninfected {
			p.Infected++
		}
		if t.Captured >= r.threshold {
			p.Complete++
		}
	}
	if p == r.progress {
		return
	}
	r.progress = p
	if r.onProgress != nil {
		r.onProgress(p)
	}
}
