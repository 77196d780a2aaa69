// Package main - overlay.go
//
// This file renders the panel view model into the game page and updates it
// in place. All DOM work is done client-side by injected JavaScript; the Go
// side only sends JSON descriptions.
//
// DOM Layout:
//   #automation-battlecafe                 floating panel, child of the café modal
//     toggle buttons                       call window.battleCafeToggle(setting)
//     base row                             always visible
//     #automation-battlecafe-sweet-<n>     one hidden container per sweet
//       section title + rows
//   Each row holds two badge spans: <row id>-caught and <row id>-pokerus.
package main

import (
	"fmt"
)

const (
	panelElementID = "automation-battlecafe"
	toggleBinding  = "battleCafeToggle"
)

// PanelView is the rendering adapter of the panel.
type PanelView interface {
	Render(model *PanelModel, settings map[string]bool) error
	SetGroupHidden(group *GroupModel, hidden bool) error
	SetCaughtBadge(rowIDs []string, status CaughtStatus) error
	SetPokerusBadge(rowIDs []string, status PokerusStatus) error
	SetButtonState(setting string, on bool) error
}

func caughtBadgeID(rowID string) string  { return rowID + "-caught" }
func pokerusBadgeID(rowID string) string { return rowID + "-pokerus" }
func buttonElementID(setting string) string {
	return panelElementID + "-" + setting
}

// caughtBadgeHTML maps a caught status to its badge image.
func caughtBadgeHTML(status CaughtStatus) string {
	switch status {
	case Caught:
		return `<img src="assets/images/pokeball/Pokeball.svg" height="17px">`
	case CaughtShiny:
		return `<img src="assets/images/pokeball/Pokeball-shiny.svg" height="17px">`
	default:
		return `<img src="assets/images/pokeball/Pokeball.svg" height="17px" style="filter: grayscale(1) opacity(0.4)">`
	}
}

// pokerusBadgeHTML maps a Pokérus status to its badge image; uninfected has none.
func pokerusBadgeHTML(status PokerusStatus) string {
	var name string
	switch status {
	case PokerusInfected:
		name = "Infected"
	case PokerusContagious:
		name = "Contagious"
	case PokerusResistant:
		name = "Resistant"
	default:
		return ""
	}
	return fmt.Sprintf(`<img src="assets/images/breeding/pokerus/%s.png" height="12px">`, name)
}

type renderRow struct {
	ID        string `json:"id"`
	Summary   string `json:"summary"`
	Tooltip   string `json:"tooltip"`
	Aggregate bool   `json:"aggregate"`
}

type renderSection struct {
	Title string      `json:"title"`
	Rows  []renderRow `json:"rows"`
}

type renderGroup struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Sections []renderSection `json:"sections"`
}

type renderButton struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Setting string `json:"setting"`
	Tooltip string `json:"tooltip"`
	On      bool   `json:"on"`
}

type renderPanel struct {
	ID      string         `json:"id"`
	Title   string         `json:"title"`
	Buttons []renderButton `json:"buttons"`
	Base    renderRow      `json:"base"`
	Groups  []renderGroup  `json:"groups"`
}

func toRenderRow(r RowModel) renderRow {
	return renderRow{ID: r.ElementID, Summary: r.Summary, Tooltip: r.Tooltip, Aggregate: r.Aggregate}
}

func toRenderPanel(model *PanelModel, settings map[string]bool) renderPanel {
	out := renderPanel{
		ID:    panelElementID,
		Title: model.Title,
		Base:  toRenderRow(model.Base),
	}
	for _, b := range model.Buttons {
		out.Buttons = append(out.Buttons, renderButton{
			ID:      buttonElementID(b.Setting),
			Label:   b.Label,
			Setting: b.Setting,
			Tooltip: b.Tooltip,
			On:      settings[b.Setting],
		})
	}
	for _, g := range model.Groups {
		rg := renderGroup{ID: g.ElementID, Name: g.Name}
		for _, s := range g.Sections {
			rs := renderSection{Title: s.Title}
			for _, r := range s.Rows {
				rs.Rows = append(rs.Rows, toRenderRow(r))
			}
			rg.Sections = append(rg.Sections, rs)
		}
		out.Groups = append(out.Groups, rg)
	}
	return out
}

type pageView struct {
	browser *Browser
	modalID string
}

// NewPageView creates the PanelView that draws into the café modal.
func NewPageView(browser *Browser, modalID string) PanelView {
	return &pageView{browser: browser, modalID: modalID}
}

func (v *pageView) Render(model *PanelModel, settings map[string]bool) error {
	js := fmt.Sprintf(`(() => {
		const data = %s;
		const modal = document.getElementById(%s);
		if (!modal) { return false; }
		document.getElementById(data.id)?.remove();

		const panel = document.createElement("div");
		panel.id = data.id;
		panel.style.cssText = "position:absolute; top:0; left:100%%; min-width:145px; margin-left:4px;"
			+ "padding:4px; background:#2b2b2b; color:#eee; border-radius:4px; font-size:13px; z-index:1060;";
		const title = document.createElement("div");
		title.style.cssText = "text-align:center; font-weight:bold; margin-bottom:4px;";
		title.textContent = data.title;
		panel.appendChild(title);

		const paint = (button, on) => {
			button.dataset.on = on ? "true" : "false";
			button.style.background = on ? "#2e7d32" : "#b71c1c";
		};
		for (const b of data.buttons) {
			const line = document.createElement("div");
			line.style.cssText = "display:flex; justify-content:space-between; margin:2px 0;";
			line.title = b.tooltip;
			line.appendChild(document.createTextNode(b.label + " :"));
			const button = document.createElement("button");
			button.id = b.id;
			button.style.cssText = "border:none; color:#fff; border-radius:3px; width:38px; margin-left:6px;";
			button.textContent = "●";
			paint(button, b.on);
			button.addEventListener("click", () => window[%s](b.setting));
			line.appendChild(button);
			panel.appendChild(line);
		}
		panel.appendChild(document.createElement("br"));

		const addRow = (parent, r) => {
			const row = document.createElement("div");
			row.id = r.id;
			row.title = r.tooltip;
			row.style.cursor = "help";
			row.style.marginLeft = r.aggregate ? "5px" : "10px";
			if (r.aggregate) { row.style.textAlign = "center"; }
			row.appendChild(document.createTextNode(r.summary));
			const caught = document.createElement("span");
			caught.id = r.id + "-caught";
			row.appendChild(caught);
			const pokerus = document.createElement("span");
			pokerus.id = r.id + "-pokerus";
			pokerus.style.marginRight = "4px";
			row.appendChild(pokerus);
			parent.appendChild(row);
		};
		addRow(panel, data.base);

		for (const g of data.groups) {
			const container = document.createElement("div");
			container.id = g.id;
			container.hidden = true;
			container.style.cssText = "text-align:left; margin-left:5px;";
			for (const s of g.sections) {
				container.appendChild(document.createElement("br"));
				container.appendChild(document.createTextNode(s.title));
				container.appendChild(document.createElement("br"));
				for (const r of s.rows) { addRow(container, r); }
			}
			panel.appendChild(container);
		}

		(modal.querySelector(".modal-dialog") || modal).appendChild(panel);
		return true;
	})()`, jsLiteral(toRenderPanel(model, settings)), jsLiteral(v.modalID), jsLiteral(toggleBinding))

	var ok bool
	if err := v.browser.Evaluate(js, &ok); err != nil {
		return fmt.Errorf("render panel: %w", err)
	}
	if !ok {
		return fmt.Errorf("render panel: modal %q not found", v.modalID)
	}
	return nil
}

func (v *pageView) SetGroupHidden(group *GroupModel, hidden bool) error {
	js := fmt.Sprintf(`(() => {
		const el = document.getElementById(%s);
		if (el) { el.hidden = %t; }
	})()`, jsLiteral(group.ElementID), hidden)
	return v.browser.Evaluate(js, nil)
}

func (v *pageView) SetCaughtBadge(rowIDs []string, status CaughtStatus) error {
	ids := make([]string, len(rowIDs))
	for i, id := range rowIDs {
		ids[i] = caughtBadgeID(id)
	}
	js := fmt.Sprintf(`(() => {
		for (const id of %s) {
			const el = document.getElementById(id);
			if (!el) { continue; }
			el.innerHTML = %s;
			el.style.position = "relative";
			el.style.bottom = "2px";
			el.style.marginLeft = "3px";
		}
	})()`, jsLiteral(ids), jsLiteral(caughtBadgeHTML(status)))
	return v.browser.Evaluate(js, nil)
}

func (v *pageView) SetPokerusBadge(rowIDs []string, status PokerusStatus) error {
	ids := make([]string, len(rowIDs))
	for i, id := range rowIDs {
		ids[i] = pokerusBadgeID(id)
	}
	js := fmt.Sprintf(`(() => {
		for (const id of %s) {
			const el = document.getElementById(id);
			if (!el) { continue; }
			el.innerHTML = %s;
			el.style.paddingLeft = (el.innerHTML === "") ? "0px" : "3px";
		}
	})()`, jsLiteral(ids), jsLiteral(pokerusBadgeHTML(status)))
	return v.browser.Evaluate(js, nil)
}

func (v *pageView) SetButtonState(setting string, on bool) error {
	js := fmt.Sprintf(`(() => {
		const b = document.getElementById(%s);
		if (!b) { return; }
		b.dataset.on = %q;
		b.style.background = %t ? "#2e7d32" : "#b71c1c";
	})()`, jsLiteral(buttonElementID(setting)), fmt.Sprint(on), on)
	return v.browser.Evaluate(js, nil)
}
