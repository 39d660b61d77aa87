package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"

	"scoop-drop/internal/clock"
	"scoop-drop/internal/game"
	"scoop-drop/internal/state"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Left    key.Binding
	Right   key.Binding
	Drop    key.Binding
	Restart key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Drop, k.Restart, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Left: key.NewBinding(
		key.WithKeys("left", "h", "a"),
		key.WithHelp("←/h", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l", "d"),
		key.WithHelp("→/l", "right"),
	),
	Drop: key.NewBinding(
		key.WithKeys("down", "j", "s", " "),
		key.WithHelp("↓/space", "drop"),
	),
	Restart: key.NewBinding(
		key.WithKeys("enter", "r"),
		key.WithHelp("enter", "restart"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q", "esc"),
		key.WithHelp("q", "quit"),
	),
}

// LocalState is the bubbletea model. It feeds keys into the session input,
// runs the tick chain and renders the frames the session presents.
type LocalState struct {
	Session *game.Session
	Clock   *clock.Tea
	Input   *game.Input // nil in demo mode
	Help    help.Model
	Keys    keyMap

	frame      game.Frame
	particles  []particle
	bonusTicks int
}

func (s *LocalState) Init() tea.Cmd {
	return s.Clock.Cmd()
}

func (s *LocalState) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case clock.TickMsg:
		return s, s.Clock.Handle(msg)
	case tea.WindowSizeMsg:
		s.Help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.Keys.Quit):
			return s, tea.Quit
		case key.Matches(msg, s.Keys.Restart):
			if s.Session.Phase() != state.GameOver {
				return s, nil
			}
			if err := s.Session.Restart(); err != nil {
				slog.Error("restart failed", "err", err)
				return s, nil
			}
			s.particles = nil
			s.bonusTicks = 0
			return s, s.Clock.Cmd()
		}

		if s.Input == nil || s.Session.Phase() != state.Playing {
			return s, nil
		}
		switch {
		case key.Matches(msg, s.Keys.Left):
			s.Input.Press(game.Left)
		case key.Matches(msg, s.Keys.Right):
			s.Input.Press(game.Right)
		case key.Matches(msg, s.Keys.Drop):
			s.Input.RequestHardDrop()
		}
	}

	return s, nil
}

type options struct {
	cfg      state.Config
	seed     uint64
	hold     int
	demo     bool
	headless bool
	ticks    int
	debug    string
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if opts.headless {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
		if err := runHeadless(opts, logger, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	// The terminal belongs to the UI; logs go to a file or nowhere.
	if opts.debug != "" {
		f, err := tea.LogToFile(opts.debug, "scoop-drop")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		slog.SetLogLoggerLevel(slog.LevelDebug)
	} else {
		log.SetOutput(io.Discard)
	}

	model, err := initialModel(opts, slog.Default())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("There's been an error: %v", err)
		os.Exit(1)
	}
}

func initialModel(opts options, logger *slog.Logger) (*LocalState, error) {
	s := &LocalState{
		Clock: clock.NewTea(),
		Help:  help.New(),
		Keys:  keys,
	}

	sessOpts := []game.Option{
		game.WithClock(s.Clock),
		game.WithSink(s),
		game.WithLogger(logger),
	}
	if opts.seed != 0 {
		sessOpts = append(sessOpts, game.WithSeed(opts.seed))
	}
	if opts.demo {
		sessOpts = append(sessOpts, game.WithAutopilot(true))
	} else {
		s.Input = game.NewInput(opts.hold)
		sessOpts = append(sessOpts, game.WithInput(s.Input))
	}

	sess, err := game.InitSession(opts.cfg, sessOpts...)
	if err != nil {
		return nil, fmt.Errorf("could not start game: %w", err)
	}
	s.Session = sess
	return s, nil
}

// runHeadless plays with the autopilot on a manual clock, for soak runs and
// scripting.
func runHeadless(opts options, logger *slog.Logger, out io.Writer) error {
	clk := &clock.Manual{}
	sessOpts := []game.Option{
		game.WithClock(clk),
		game.WithLogger(logger),
		game.WithAutopilot(!opts.demo),
	}
	if opts.seed != 0 {
		sessOpts = append(sessOpts, game.WithSeed(opts.seed))
	}

	sess, err := game.InitSession(opts.cfg, sessOpts...)
	if err != nil {
		return fmt.Errorf("could not start game: %w", err)
	}

	ran := clk.Advance(opts.ticks)
	st := sess.State
	_, err = fmt.Fprintf(out, "ticks=%d phase=%s score=%d matches=%d bonuses=%d speed=%.1f\n",
		ran, sess.Phase(), sess.Score(), st.Score.Matches, st.Score.Bonuses, st.Score.FallSpeed)
	return err
}

func parseFlags(args []string) (options, error) {
	opts := options{cfg: state.DefaultConfig()}
	palette := paletteFlag(opts.cfg.Palette)
	slots := strictIntFlag(opts.cfg.SlotCount)
	colors := strictIntFlag(opts.cfg.PaletteSize)
	rate := strictIntFlag(opts.cfg.TickRate)
	hold := strictIntFlag(8)
	ticks := strictIntFlag(3600)

	fs := flag.NewFlagSet("scoop-drop", flag.ContinueOnError)
	fs.Float64Var(&opts.cfg.FieldWidth, "width", opts.cfg.FieldWidth, "play field width in pixels")
	fs.Float64Var(&opts.cfg.FieldHeight, "height", opts.cfg.FieldHeight, "play field height in pixels")
	fs.Var(&slots, "slots", "number of slots in the bottom row")
	fs.Var(&colors, "colors", "number of palette flavors in play")
	fs.Var(&palette, "palette", "flavors as name=#RRGGBB,...")
	fs.Var(&rate, "tick-rate", "simulation ticks per second")
	fs.Uint64Var(&opts.seed, "seed", 0, "random seed (0 picks one)")
	fs.Var(&hold, "hold", "ticks a key press keeps steering (0 holds until the other direction)")
	fs.BoolVar(&opts.demo, "demo", false, "let the autopilot play (headless: disable hard-drops)")
	fs.BoolVar(&opts.headless, "headless", false, "run without a terminal UI and print the result")
	fs.Var(&ticks, "ticks", "ticks to simulate in headless mode")
	fs.StringVar(&opts.debug, "debug", "", "write debug logs to this file")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.cfg.Palette = []state.Flavor(palette)
	opts.cfg.SlotCount = int(slots)
	opts.cfg.PaletteSize = int(colors)
	opts.cfg.TickRate = int(rate)
	opts.hold = int(hold)
	opts.ticks = int(ticks)
	return opts, nil
}

type paletteFlag []state.Flavor

func (p *paletteFlag) String() string {
	if p == nil {
		return ""
	}
	return state.PaletteString(*p)
}

func (p *paletteFlag) Set(s string) error {
	palette, err := state.ParsePalette(s)
	if err != nil {
		return err
	}
	*p = palette
	return nil
}

type strictIntFlag int

func (i *strictIntFlag) String() string {
	if i == nil {
		return "0"
	}
	return fmt.Sprint(int(*i))
}

func (i *strictIntFlag) Set(s string) error {
	if s == "true" {
		return fmt.Errorf("value required (format: -flag=value)")
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*i = strictIntFlag(v)
	return nil
}
