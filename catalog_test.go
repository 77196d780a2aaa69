package main

import (
	"strings"
	"testing"
)

func TestPokemonIDString(t *testing.T) {
	tests := []struct {
		id   PokemonID
		want string
	}{
		{868, "868"},
		{869.01, "869.01"},
		{869.1, "869.1"},
	}
	for _, tt := range tests {
		if got := tt.id.String(); got != tt.want {
			t.Errorf("PokemonID(%v).String() = %q, want %q", float64(tt.id), got, tt.want)
		}
	}
}

func TestSpinProperties(t *testing.T) {
	tests := []struct {
		spin      Spin
		duration  SpinDuration
		clockwise bool
		tod       TimeOfDay
	}{
		{SpinDayClockwiseBelow5, SpinBelow5, true, Day},
		{SpinDayClockwiseAbove5, SpinAbove5, true, Day},
		{SpinDayCounterclockwiseBelow5, SpinBelow5, false, Day},
		{SpinDayCounterclockwiseAbove5, SpinAbove5, false, Day},
		{SpinNightClockwiseBelow5, SpinBelow5, true, Night},
		{SpinNightClockwiseAbove5, SpinAbove5, true, Night},
		{SpinNightCounterclockwiseBelow5, SpinBelow5, false, Night},
		{SpinNightCounterclockwiseAbove5, SpinAbove5, false, Night},
		{SpinAt5Above10, SpinAbove10, false, Dusk},
	}
	for _, tt := range tests {
		if got := tt.spin.Duration(); got != tt.duration {
			t.Errorf("Spin(%d).Duration() = %v, want %v", tt.spin, got, tt.duration)
		}
		if got := tt.spin.Clockwise(); got != tt.clockwise {
			t.Errorf("Spin(%d).Clockwise() = %v, want %v", tt.spin, got, tt.clockwise)
		}
		if got := tt.spin.TimeOfDay(); got != tt.tod {
			t.Errorf("Spin(%d).TimeOfDay() = %v, want %v", tt.spin, got, tt.tod)
		}
	}
}

func TestParseSpin(t *testing.T) {
	if s, ok := ParseSpin("at5Above10"); !ok || s != SpinAt5Above10 {
		t.Errorf("ParseSpin(at5Above10) = %v, %v", s, ok)
	}
	if _, ok := ParseSpin("sideways"); ok {
		t.Error("ParseSpin(sideways) should fail")
	}
}

func testPayload() *catalogPayload {
	p := &catalogPayload{
		IDs: map[string]float64{
			"Milcery (Cheesy)":                    868.01,
			"Alcremie (Strawberry Vanilla Cream)": 869.01,
			"Alcremie (Strawberry Ruby Cream)":    869.02,
			"Alcremie (Berry Vanilla Cream)":      869.1,
		},
	}
	p.Sweets = append(p.Sweets,
		struct {
			Index   int               `json:"index"`
			Name    string            `json:"name"`
			Rewards map[string]string `json:"rewards"`
		}{Index: 3, Name: "", Rewards: map[string]string{
			"dayClockwiseBelow5": "Alcremie (Berry Vanilla Cream)",
		}},
		struct {
			Index   int               `json:"index"`
			Name    string            `json:"name"`
			Rewards map[string]string `json:"rewards"`
		}{Index: 0, Name: "Strawberry Sweet", Rewards: map[string]string{
			"dayCounterclockwiseBelow5": "Alcremie (Strawberry Ruby Cream)",
			"dayClockwiseBelow5":        "Alcremie (Strawberry Vanilla Cream)",
			"upsideDown":                "Alcremie (Strawberry Vanilla Cream)",
		}},
	)
	return p
}

func TestBuildCatalog(t *testing.T) {
	c, err := buildCatalog(testPayload(), "Milcery (Cheesy)")
	if err != nil {
		t.Fatalf("buildCatalog: %v", err)
	}

	if c.Base.ID != 868.01 {
		t.Errorf("base id = %v, want 868.01", c.Base.ID)
	}
	if len(c.Groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(c.Groups))
	}
	if c.Groups[0].Index != 0 || c.Groups[1].Index != 3 {
		t.Errorf("group order = %d, %d, want 0, 3", c.Groups[0].Index, c.Groups[1].Index)
	}
	if c.Groups[1].Name != "Sweet 3" {
		t.Errorf("unnamed group = %q, want %q", c.Groups[1].Name, "Sweet 3")
	}

	rewards := c.Groups[0].Rewards
	if len(rewards) != 2 {
		t.Fatalf("rewards = %d, want 2 (unknown spin ignored)", len(rewards))
	}
	if rewards[0].Spin != SpinDayClockwiseBelow5 || rewards[1].Spin != SpinDayCounterclockwiseBelow5 {
		t.Errorf("rewards not sorted by spin: %v", rewards)
	}
	if rewards[0].Target.ID != 869.01 {
		t.Errorf("reward id = %v, want 869.01", rewards[0].Target.ID)
	}

	if g, ok := c.Group(3); !ok || g.Name != "Sweet 3" {
		t.Errorf("Group(3) = %v, %v", g, ok)
	}
	if _, ok := c.Group(7); ok {
		t.Error("Group(7) should not exist")
	}
}

func TestBuildCatalogUnknownBase(t *testing.T) {
	_, err := buildCatalog(testPayload(), "Milcery (Chesy)")
	if err == nil {
		t.Fatal("expected error for unknown base target")
	}
	if !strings.Contains(err.Error(), `did you mean "Milcery (Cheesy)"`) {
		t.Errorf("error = %q, want a suggestion", err)
	}
}

func TestBuildCatalogUnknownReward(t *testing.T) {
	p := testPayload()
	p.Sweets[0].Rewards["nightClockwiseBelow5"] = "Missingno"
	_, err := buildCatalog(p, "Milcery (Cheesy)")
	if err == nil || !strings.Contains(err.Error(), "Sweet 3") {
		t.Errorf("error = %v, want it to name the sweet", err)
	}
}

func TestCatalogTargets(t *testing.T) {
	targets := testCatalog().Targets()

	want := []string{
		"Milcery (Cheesy)",
		"Alcremie (Strawberry Vanilla Cream)",
		"Alcremie (Strawberry Ruby Cream)",
		"Alcremie (Strawberry Matcha Cream)",
		"Alcremie (Rainbow Swirl)",
		"Alcremie (Berry Vanilla Cream)",
	}
	if len(targets) != len(want) {
		t.Fatalf("targets = %d, want %d", len(targets), len(want))
	}
	for i, name := range want {
		if targets[i].Name != name {
			t.Errorf("targets[%d] = %q, want %q", i, targets[i].Name, name)
		}
	}
}

func TestSuggest(t *testing.T) {
	candidates := []string{"Kelpsy", "Pomeg", "Qualot"}
	if got := suggest("Kelpsi", candidates); got != `, did you mean "Kelpsy"?` {
		t.Errorf("suggest(Kelpsi) = %q", got)
	}
	if got := suggest("Watermelon", candidates); got != "" {
		t.Errorf("suggest(Watermelon) = %q, want none", got)
	}
	if got := suggest("Kelpsy", nil); got != "" {
		t.Errorf("suggest with no candidates = %q, want none", got)
	}
}
