package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"scoop-drop/internal/clock"
	"scoop-drop/internal/state"
	"time"
)

// Frame is what the presentation receives after every tick.
type Frame struct {
	TickResult
	Slots       []state.Slot
	FieldWidth  float64
	FieldHeight float64
	BlockSize   float64
	Streak      int
	FallSpeed   float64
	BestScore   int
	NewBest     bool // game over with the best score of the session
	Round       int
	TopScores   []int
}

// Sink renders frames. It must not mutate the session.
type Sink interface {
	Present(f Frame)
}

type Session struct {
	Engine *Engine
	State  *state.State
	Clock  clock.Clock
	Input  InputSource
	Sink   Sink
	Logger *slog.Logger

	last TickResult
}

type sessionOptions struct {
	clock     clock.Clock
	input     InputSource
	sink      Sink
	rng       *rand.Rand
	logger    *slog.Logger
	autopilot bool
	autoDrop  bool
}

type Option func(*sessionOptions)

func WithClock(c clock.Clock) Option {
	return func(o *sessionOptions) { o.clock = c }
}

func WithInput(in InputSource) Option {
	return func(o *sessionOptions) { o.input = in }
}

func WithSink(s Sink) Option {
	return func(o *sessionOptions) { o.sink = s }
}

func WithRand(r *rand.Rand) Option {
	return func(o *sessionOptions) { o.rng = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *sessionOptions) { o.logger = l }
}

// WithSeed makes spawning reproducible.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)))
}

// WithAutopilot steers the session with an Autopilot instead of a player.
// With drop set the autopilot hard-drops once a block is lined up.
func WithAutopilot(drop bool) Option {
	return func(o *sessionOptions) {
		o.autopilot = true
		o.autoDrop = drop
	}
}

// InitSession validates cfg, builds the slot row, spawns the first block and
// starts the clock. On error nothing is started.
func InitSession(cfg state.Config, opts ...Option) (*Session, error) {
	o := sessionOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = &clock.Manual{}
	}
	if o.rng == nil {
		seed := uint64(time.Now().UnixNano())
		o.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	st, err := state.NewState(cfg)
	if err != nil {
		return nil, err
	}

	s := &Session{
		Engine: NewEngine(st, o.rng),
		State:  st,
		Clock:  o.clock,
		Input:  o.input,
		Sink:   o.sink,
		Logger: o.logger,
	}
	if o.autopilot {
		s.Input = NewAutopilot(st, o.autoDrop)
	}
	if s.Input == nil {
		s.Input = NewInput(0)
	}

	st.Hooks = state.Hooks{
		OnGameOver: s.onGameOver,
	}

	if err := s.Engine.Spawn(); err != nil {
		return nil, err
	}
	s.last = s.Engine.Snapshot()

	s.Logger.Info("session started",
		"field", fmt.Sprintf("%gx%g", cfg.FieldWidth, cfg.FieldHeight),
		"slots", cfg.SlotCount,
		"palette", state.PaletteString(st.Palette),
		"tickRate", cfg.TickRate)

	s.Clock.Start(cfg.TickRate, s.onTick)
	s.present()
	return s, nil
}

// Tick runs one simulation step. It is the clock callback.
func (s *Session) Tick() (TickResult, error) {
	res, err := s.Engine.Tick(s.Input)
	if a, ok := s.Input.(interface{ Age() }); ok {
		a.Age()
	}
	s.last = res
	if err != nil {
		return res, err
	}

	for _, ev := range res.Events {
		s.Logger.Debug("tick event", "event", ev.Kind, "flavor", ev.Flavor.Name, "score", ev.Score)
	}
	s.present()
	return res, nil
}

// Restart starts a new round after game over. It fails with
// state.ErrRestartWhilePlaying during a round and changes nothing.
func (s *Session) Restart() error {
	if err := s.State.Restart(context.Background()); err != nil {
		return err
	}
	if r, ok := s.Input.(interface{ Reset() }); ok {
		r.Reset()
	}
	if err := s.Engine.Spawn(); err != nil {
		return err
	}
	s.last = s.Engine.Snapshot()

	s.Logger.Info("round restarted", "round", s.State.Round)
	s.Clock.Start(s.State.Config.TickRate, s.onTick)
	s.present()
	return nil
}

func (s *Session) Score() int {
	return s.State.Score.CurrentScore
}

func (s *Session) Phase() state.Phase {
	return s.State.Phase()
}

// Last returns the result of the most recent tick.
func (s *Session) Last() TickResult {
	return s.last
}

// Frame assembles the presentation view of the last tick.
func (s *Session) Frame() Frame {
	st := s.State
	top := st.History.GetNScoreEntries(5)
	scores := make([]int, len(top))
	for i, entry := range top {
		scores[i] = entry.Score
	}
	return Frame{
		TickResult:  s.last,
		Slots:       append([]state.Slot(nil), st.Slots...),
		FieldWidth:  st.Config.FieldWidth,
		FieldHeight: st.Config.FieldHeight,
		BlockSize:   st.Config.BlockSize,
		Streak:      st.Score.ConsecutiveMatches,
		FallSpeed:   st.Score.FallSpeed,
		BestScore:   st.BestScore(),
		NewBest:     s.last.GameOver && st.History.GotHighScore(s.last.FinalScore),
		Round:       st.Round,
		TopScores:   scores,
	}
}

func (s *Session) onTick() {
	if _, err := s.Tick(); err != nil {
		s.Logger.Error("tick failed", "err", err)
	}
}

func (s *Session) onGameOver(finalScore int) {
	s.Clock.Stop()
	s.Logger.Info("game over",
		"round", s.State.Round,
		"score", finalScore,
		"matches", s.State.Score.Matches,
		"best", s.State.BestScore())
}

func (s *Session) present() {
	if s.Sink != nil {
		s.Sink.Present(s.Frame())
	}
}
