package state

import (
	"context"
	"errors"
	"fmt"
	"math"
	"scoop-drop/internal/scoring"
	"time"

	"github.com/kamstrup/intmap"
	"github.com/looplab/fsm"
)

var (
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrBlockInFlight       = errors.New("a block is already in flight")
	ErrRestartWhilePlaying = errors.New("restart requested while playing")
)

// Phase is the game phase, backed by the FSM's current state.
type Phase string

const (
	Playing  Phase = "playing"
	GameOver Phase = "gameOver"
)

// Config describes the play field geometry and the tuning of one session.
type Config struct {
	FieldWidth  float64
	FieldHeight float64
	SlotCount   int
	PaletteSize int
	Palette     []Flavor

	BlockSize      float64
	BaseFallSpeed  float64
	SpeedIncrement float64
	MoveSpeed      float64
	TickRate       int // ticks per second

	DropGap   float64 // hard-drop lands at FieldHeight - BlockSize*DropGap
	HitWindow float64 // arrival when Y + BlockSize*HitWindow reaches the slot row
}

// DefaultConfig returns the tuning of the original game on a 400x600 field.
func DefaultConfig() Config {
	return Config{
		FieldWidth:     400,
		FieldHeight:    600,
		SlotCount:      5,
		PaletteSize:    5,
		Palette:        DefaultPalette(),
		BlockSize:      50,
		BaseFallSpeed:  2,
		SpeedIncrement: 0.1,
		MoveSpeed:      5,
		TickRate:       60,
		DropGap:        2.2,
		HitWindow:      1.2,
	}
}

// Validate reports the first problem with c, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.FieldWidth <= 0 || c.FieldHeight <= 0:
		return fmt.Errorf("%w: field dimensions must be positive, got %gx%g", ErrInvalidConfig, c.FieldWidth, c.FieldHeight)
	case c.SlotCount <= 0:
		return fmt.Errorf("%w: slot count must be positive, got %d", ErrInvalidConfig, c.SlotCount)
	case c.PaletteSize <= 0:
		return fmt.Errorf("%w: palette size must be positive, got %d", ErrInvalidConfig, c.PaletteSize)
	case len(c.Palette) < c.PaletteSize:
		return fmt.Errorf("%w: palette has %d flavors, need %d", ErrInvalidConfig, len(c.Palette), c.PaletteSize)
	case c.BlockSize <= 0 || c.BlockSize > c.FieldWidth || c.BlockSize >= c.FieldHeight:
		return fmt.Errorf("%w: block size %g does not fit a %gx%g field", ErrInvalidConfig, c.BlockSize, c.FieldWidth, c.FieldHeight)
	case c.BaseFallSpeed <= 0:
		return fmt.Errorf("%w: base fall speed must be positive, got %g", ErrInvalidConfig, c.BaseFallSpeed)
	case c.SpeedIncrement <= 0:
		return fmt.Errorf("%w: speed increment must be positive, got %g", ErrInvalidConfig, c.SpeedIncrement)
	case c.MoveSpeed < 0:
		return fmt.Errorf("%w: move speed must not be negative, got %g", ErrInvalidConfig, c.MoveSpeed)
	case c.TickRate <= 0:
		return fmt.Errorf("%w: tick rate must be positive, got %d", ErrInvalidConfig, c.TickRate)
	}
	if err := checkDistinct(c.Palette[:c.PaletteSize]); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Block is the falling scoop. It lives from spawn until it reaches the slot row.
type Block struct {
	X, Y        float64
	Flavor      Flavor
	FlavorIndex int
}

// Slot is one landing zone of the bottom row.
type Slot struct {
	Index  int
	X, Y   float64
	Width  float64
	Flavor Flavor
}

// Hooks lets the owner of the clock react to phase transitions.
type Hooks struct {
	OnGameOver func(finalScore int)
	OnRestart  func()
}

type State struct {
	Config  Config
	Palette []Flavor
	Slots   []Slot
	Blocks  []Block
	Score   scoring.Scoring
	History scoring.ScoreHistory
	FSM     *fsm.FSM
	Hooks   Hooks
	Round   int

	slotsByFlavor *intmap.Map[int, []int]
}

// NewState validates cfg and builds a fresh session in the Playing phase.
// No block is spawned; that is the engine's job.
func NewState(cfg Config) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	palette := make([]Flavor, cfg.PaletteSize)
	copy(palette, cfg.Palette)

	s := &State{
		Config:  cfg,
		Palette: palette,
		Score:   *scoring.InitScoring(cfg.BaseFallSpeed, cfg.SpeedIncrement),
		Round:   1,
	}
	s.buildSlots()

	s.FSM = fsm.NewFSM(
		string(Playing),
		getPhaseTransitions(),
		getPhaseCallbacks(s),
	)

	return s, nil
}

func getPhaseTransitions() fsm.Events {
	return fsm.Events{
		{Name: "mismatch", Src: []string{string(Playing)}, Dst: string(GameOver)},
		{Name: "restart", Src: []string{string(GameOver)}, Dst: string(Playing)},
	}
}

func getPhaseCallbacks(s *State) fsm.Callbacks {
	return fsm.Callbacks{
		"enter_gameOver": func(ctx context.Context, e *fsm.Event) {
			s.History.Record(scoring.ScoreHistoryEntry{
				Round:     s.Round,
				Score:     s.Score.CurrentScore,
				Matches:   s.Score.Matches,
				Timestamp: time.Now().Format(time.RFC3339),
			})
			if s.Hooks.OnGameOver != nil {
				s.Hooks.OnGameOver(s.Score.CurrentScore)
			}
		},
		"enter_playing": func(ctx context.Context, e *fsm.Event) {
			s.Score.Reset()
			s.Blocks = nil
			s.buildSlots()
			s.Round++
			if s.Hooks.OnRestart != nil {
				s.Hooks.OnRestart()
			}
		},
	}
}

// Phase returns the current game phase.
func (s *State) Phase() Phase {
	return Phase(s.FSM.Current())
}

// EndRound moves the session from Playing to GameOver.
func (s *State) EndRound(ctx context.Context) error {
	if err := s.FSM.Event(ctx, "mismatch"); err != nil {
		return fmt.Errorf("could not end round: %w", err)
	}
	return nil
}

// Restart moves the session from GameOver back to Playing with fresh score,
// slots and an empty block set. It is rejected while playing.
func (s *State) Restart(ctx context.Context) error {
	if !s.FSM.Can("restart") {
		return ErrRestartWhilePlaying
	}
	if err := s.FSM.Event(ctx, "restart"); err != nil {
		return fmt.Errorf("could not restart: %w", err)
	}
	return nil
}

func (s *State) buildSlots() {
	cfg := s.Config
	width := cfg.FieldWidth / float64(cfg.SlotCount)

	s.Slots = make([]Slot, cfg.SlotCount)
	s.slotsByFlavor = intmap.New[int, []int](len(s.Palette))
	for i := range s.Slots {
		flavorIndex := i % cfg.PaletteSize
		s.Slots[i] = Slot{
			Index:  i,
			X:      width * float64(i),
			Y:      cfg.FieldHeight - cfg.BlockSize,
			Width:  width,
			Flavor: s.Palette[flavorIndex],
		}
		indexes, _ := s.slotsByFlavor.Get(flavorIndex)
		s.slotsByFlavor.Put(flavorIndex, append(indexes, i))
	}
}

// AddBlock puts b in flight. Only one block may be in flight at a time.
func (s *State) AddBlock(b Block) error {
	if len(s.Blocks) > 0 {
		return ErrBlockInFlight
	}
	s.Blocks = append(s.Blocks, b)
	return nil
}

func (s *State) RemoveBlock(i int) {
	s.Blocks = append(s.Blocks[:i], s.Blocks[i+1:]...)
}

// Active returns the block in flight, or nil.
func (s *State) Active() *Block {
	if len(s.Blocks) == 0 {
		return nil
	}
	return &s.Blocks[len(s.Blocks)-1]
}

// SlotsFor returns the indexes of the slots carrying the given flavor.
func (s *State) SlotsFor(flavorIndex int) []int {
	indexes, _ := s.slotsByFlavor.Get(flavorIndex)
	return indexes
}

// SlotAt returns the slot under a block whose left edge is at x.
func (s *State) SlotAt(x float64) (int, bool) {
	cfg := s.Config
	idx := int(math.Floor((x + cfg.BlockSize/2) / (cfg.FieldWidth / float64(cfg.SlotCount))))
	if idx < 0 || idx >= len(s.Slots) {
		return idx, false
	}
	return idx, true
}
