// Package main - panel.go
//
// This file computes the Battle Café panel as a plain view model: button
// labels, one info row per reward (summary, tooltip, resolved target) and the
// sweet sections. Rendering it into the page is overlay.go's job.
//
// Row Summary Format:
//   - base target:  "3600 : #868.01"
//   - spin reward:  "<bucket> <direction> : #<id>", e.g. "1→4 ↻ : #869.01"
//     bucket is 1→4, 5+ or 11+; direction is ↻ (clockwise) or ↺
package main

import (
	"fmt"
	"strings"
)

const panelTitle = "☕ Battle Café ☕"

// ButtonModel is an on/off toggle bound to a setting.
type ButtonModel struct {
	Label   string
	Setting string
	Tooltip string
}

// RowModel is one target info row.
type RowModel struct {
	ElementID string // DOM id of the row; badges derive their ids from it
	Target    Target
	Summary   string
	Tooltip   string
	Aggregate bool
}

// SectionModel is a titled list of rows (Day, Dusk, Night).
type SectionModel struct {
	Title string
	Rows  []RowModel
}

// GroupModel is the hidden-by-default container of one sweet.
type GroupModel struct {
	Index     int
	Name      string
	ElementID string
	Sections  []SectionModel
}

// PanelModel is the whole floating panel.
type PanelModel struct {
	Title   string
	Buttons []ButtonModel
	Base    RowModel
	Groups  []GroupModel
}

// Rows returns every row, base first, in render order.
func (p *PanelModel) Rows() []RowModel {
	rows := []RowModel{p.Base}
	for _, g := range p.Groups {
		for _, s := range g.Sections {
			rows = append(rows, s.Rows...)
		}
	}
	return rows
}

// Group returns the model of the sweet with the given selection index.
func (p *PanelModel) Group(index int) (*GroupModel, bool) {
	for i := range p.Groups {
		if p.Groups[i].Index == index {
			return &p.Groups[i], true
		}
	}
	return nil, false
}

var sectionTitles = map[TimeOfDay]string{
	Day:   "Day (6:00 → 18:00)",
	Dusk:  "Dusk (17:00 → 18:00)",
	Night: "Night (18:00 → 6:00)",
}

// BuildPanel computes the view model for catalog.
func BuildPanel(catalog *Catalog) *PanelModel {
	model := &PanelModel{
		Title: panelTitle,
		Buttons: []ButtonModel{
			{
				Label:   "Auto Farm",
				Setting: SettingFarmEnabled,
				Tooltip: "Automatically battles trainers in the Battle Café.\n" +
					"Repeatedly fights trainers to farm Alcremie variants",
			},
			{
				Label:   "Stop on Pokédex",
				Setting: SettingStopOnPokedex,
				Tooltip: "Automatically disables the Battle Café farming\n" +
					"once all Alcremie variants of the selected sweet are caught",
			},
			{
				Label:   "Auto Berry Farm",
				Setting: SettingAutoBerryFarm,
				Tooltip: "Asks the Farming automation to plant the berries\n" +
					"used to make sweets, least stocked first",
			},
		},
	}

	rowCount := 0
	nextID := func() string {
		id := fmt.Sprintf("automation-battlecafe-row-%d", rowCount)
		rowCount++
		return id
	}

	model.Base = aggregateRow(nextID(), catalog.Base)

	for _, group := range catalog.Groups {
		gm := GroupModel{
			Index:     group.Index,
			Name:      group.Name,
			ElementID: fmt.Sprintf("automation-battlecafe-sweet-%d", group.Index),
		}
		for _, tod := range []TimeOfDay{Day, Dusk, Night} {
			section := SectionModel{Title: sectionTitles[tod]}
			for _, reward := range group.Rewards {
				if reward.Spin.TimeOfDay() != tod {
					continue
				}
				section.Rows = append(section.Rows, spinRow(nextID(), reward))
			}
			if len(section.Rows) > 0 {
				gm.Sections = append(gm.Sections, section)
			}
		}
		model.Groups = append(model.Groups, gm)
	}
	return model
}

func aggregateRow(elementID string, target Target) RowModel {
	return RowModel{
		ElementID: elementID,
		Target:    target,
		Summary:   fmt.Sprintf("3600 : #%s", target.ID),
		Tooltip: "By spinning for 3600 seconds in any direction, with any sweet,\n" +
			"you can get " + target.Name,
		Aggregate: true,
	}
}

func spinRow(elementID string, reward Reward) RowModel {
	var summary, tooltip strings.Builder
	tooltip.WriteString("By spinning for ")

	switch reward.Spin.Duration() {
	case SpinAbove10:
		summary.WriteString("11+")
		tooltip.WriteString("11 seconds or more ")
	case SpinAbove5:
		summary.WriteString("5+")
		tooltip.WriteString("5 seconds or more ")
	default:
		summary.WriteString("1→4")
		tooltip.WriteString("1 to 4 seconds ")
	}

	if reward.Spin.Clockwise() {
		summary.WriteString(" ↻")
		tooltip.WriteString("clockwise")
	} else {
		summary.WriteString(" ↺")
		tooltip.WriteString("counter-clockwise")
	}

	fmt.Fprintf(&summary, " : #%s", reward.Target.ID)
	fmt.Fprintf(&tooltip, "\nyou can get %s", reward.Target.Name)

	return RowModel{
		ElementID: elementID,
		Target:    reward.Target,
		Summary:   summary.String(),
		Tooltip:   tooltip.String(),
	}
}
