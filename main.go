// Package main implements the Battle Café bot for PokéClicker.
//
// The bot drives the game in Chrome through the DevTools protocol. It adds a
// floating panel to the Battle Café modal that shows, for the selected sweet,
// which Alcremie variant each spin gives and whether it is caught and has
// Pokérus. It can battle café trainers on its own and ask the Farming
// automation for the berries sweets are made from.
//
// Commands:
//   - run (default): start the bot, with a tray menu unless --no-tray
//   - catalog:       print every sweet/spin reward with its live status
//
// Exit Codes:
//   - 0: Normal exit
//   - 1: Startup or command failure
//   - 2: Unhandled panic occurred
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var version = "dev"

// Globals are the flags shared by every command.
type Globals struct {
	URL      string `help:"Game URL." default:"https://www.pokeclicker.com/" env:"BATTLECAFE_URL"`
	Remote   string `help:"DevTools websocket URL of an already running Chrome." env:"BATTLECAFE_REMOTE"`
	Profile  string `help:"Chrome user data directory (keeps the game save)." default:"chrome-profile" type:"path" env:"BATTLECAFE_PROFILE"`
	Headless bool   `help:"Run Chrome without a window." env:"BATTLECAFE_HEADLESS"`
	Config   string `help:"YAML tuning file." default:"battlecafe.yaml" type:"path" env:"BATTLECAFE_CONFIG"`
	Log      string `help:"Log file, truncated at startup." default:"Debug.log" type:"path" env:"BATTLECAFE_LOG"`
}

func (g *Globals) browserOptions() BrowserOptions {
	return BrowserOptions{
		URL:        g.URL,
		RemoteURL:  g.Remote,
		ProfileDir: g.Profile,
		Headless:   g.Headless,
	}
}

// CLI is the top-level command structure.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version." short:"V"`
	Run     RunCmd           `cmd:"" default:"withargs" help:"Run the bot."`
	Catalog CatalogCmd       `cmd:"" help:"Print the Battle Café rewards with their live status."`
}

// RunCmd starts the bot.
type RunCmd struct {
	Data   string `help:"Settings file." default:"data.json" type:"path" env:"BATTLECAFE_DATA"`
	NoTray bool   `help:"Run without the system tray." env:"BATTLECAFE_NO_TRAY"`
}

// Run executes the run command.
func (c *RunCmd) Run(g *Globals) error {
	cfg, err := LoadConfig(g.Config)
	if err != nil {
		return err
	}

	bot, err := NewBot(cfg, g.browserOptions(), NewDataStore(c.Data))
	if err != nil {
		return err
	}
	return bot.Run(!c.NoTray)
}

// CatalogCmd prints the panel rows with caught, Pokérus and capture counts.
type CatalogCmd struct{}

// Run executes the catalog command.
func (c *CatalogCmd) Run(g *Globals) error {
	cfg, err := LoadConfig(g.Config)
	if err != nil {
		return err
	}

	browser := NewBrowser()
	defer browser.Close()
	if err := browser.Start(g.browserOptions()); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Waiting for the game (load a save in the browser window)...")
	if err := browser.WaitReady(readyScript(cfg.Game), cfg.Game.ReadyTimeout); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	game := NewPageGame(browser, cfg.Game)
	catalog, err := game.Catalog(cfg.Game.BaseTarget)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	targets := catalog.Targets()
	ids := make([]PokemonID, len(targets))
	for i, t := range targets {
		ids[i] = t.ID
	}
	snap, err := game.CafeSnapshot(ids)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	fmt.Println(renderCatalog(BuildPanel(catalog), targets, snap, cfg.Farm.PokerusThreshold))
	return nil
}

// renderCatalog formats the panel model as a table.
func renderCatalog(model *PanelModel, targets []Target, snap *CafeSnapshot, threshold int) string {
	statusOf := make(map[string]TargetStatus, len(targets))
	for i, t := range targets {
		statusOf[t.Name] = snap.Targets[i]
	}

	rows := [][]string{}
	addRow := func(sweet, section string, r RowModel) {
		s := statusOf[r.Target.Name]
		rows = append(rows, []string{
			sweet, section, r.Summary, r.Target.Name,
			caughtLabel(s.Caught), pokerusLabel(s.Pokerus),
			fmt.Sprintf("%d/%d", min(s.Captured, threshold), threshold),
		})
	}
	addRow("any", "3600 s", model.Base)
	for _, g := range model.Groups {
		for _, s := range g.Sections {
			title, _, _ := strings.Cut(s.Title, " (")
			for _, r := range s.Rows {
				addRow(g.Name, title, r)
			}
		}
	}

	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Sweet", "When", "Spin", "Pokémon", "Caught", "Pokérus", "Captures").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	return t.String()
}

func caughtLabel(s CaughtStatus) string {
	switch s {
	case Caught:
		return "yes"
	case CaughtShiny:
		return "shiny"
	default:
		return "no"
	}
}

func pokerusLabel(s PokerusStatus) string {
	switch s {
	case PokerusInfected:
		return "infected"
	case PokerusContagious:
		return "contagious"
	case PokerusResistant:
		return "resistant"
	default:
		return "-"
	}
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "PANIC: %v\n", r)
			LogError("PANIC in main: %v", r)
			CloseLogger()
			os.Exit(2)
		}
	}()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("battlecafe-bot"),
		kong.Description("Battle Café automation for PokéClicker."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	if err := InitLogger(cli.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	LogInfo("=== Battle Café Bot Started (%s) ===", version)

	err := ctx.Run(&cli.Globals)
	if err != nil {
		LogError("%v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	LogInfo("=== Battle Café Bot Shutdown ===")
	CloseLogger()
	if err != nil {
		os.Exit(1)
	}
}
