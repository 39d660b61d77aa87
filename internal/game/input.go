package game

// Direction is a horizontal steering direction.
type Direction int

const (
	Left Direction = iota
	Right
)

// InputSnapshot is what the engine sees of the controls at tick start.
// MoveLeft and MoveRight are level-triggered: sampled every tick while held.
// HardDrop is edge-triggered: set once per request.
type InputSnapshot struct {
	MoveLeft  bool
	MoveRight bool
	HardDrop  bool
}

// InputSource is read by the engine once per tick. The engine, not the
// source, clears a hard-drop request by calling ConsumeHardDrop.
type InputSource interface {
	Snapshot() InputSnapshot
	ConsumeHardDrop() bool
}

// Input is the keyboard-fed InputSource.
//
// Terminals report key presses but no releases, so a press holds its
// direction for HoldTicks ticks; key repeat refreshes the hold. With
// HoldTicks <= 0 a direction stays held until Release.
type Input struct {
	HoldTicks int

	left, right int
	drop        bool
}

const held = -1

func NewInput(holdTicks int) *Input {
	return &Input{HoldTicks: holdTicks}
}

// Press holds d and releases the opposite direction.
func (in *Input) Press(d Direction) {
	hold := in.HoldTicks
	if hold <= 0 {
		hold = held
	}
	switch d {
	case Left:
		in.left, in.right = hold, 0
	case Right:
		in.right, in.left = hold, 0
	}
}

func (in *Input) Release(d Direction) {
	switch d {
	case Left:
		in.left = 0
	case Right:
		in.right = 0
	}
}

// RequestHardDrop arms a one-shot hard-drop.
func (in *Input) RequestHardDrop() {
	in.drop = true
}

func (in *Input) Snapshot() InputSnapshot {
	return InputSnapshot{
		MoveLeft:  in.left != 0,
		MoveRight: in.right != 0,
		HardDrop:  in.drop,
	}
}

func (in *Input) ConsumeHardDrop() bool {
	drop := in.drop
	in.drop = false
	return drop
}

// Age counts one tick off the timed holds.
func (in *Input) Age() {
	if in.left > 0 {
		in.left--
	}
	if in.right > 0 {
		in.right--
	}
}

// Reset drops every held key and pending request.
func (in *Input) Reset() {
	in.left, in.right, in.drop = 0, 0, false
}
