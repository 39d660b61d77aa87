package clock

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is delivered to the bubbletea model for every scheduled tick.
type TickMsg struct {
	Gen  uint64
	Time time.Time
}

// Tea is a Clock backed by tea.Tick. The model feeds every TickMsg to Handle,
// which runs the callback and schedules the next tick. Each Start opens a new
// generation; messages from older generations are dropped, so a restart never
// leaves two tick chains alive.
type Tea struct {
	gen      uint64
	running  bool
	interval time.Duration
	onTick   func()
}

func NewTea() *Tea {
	return &Tea{}
}

func (c *Tea) Start(rate int, onTick func()) {
	c.gen++
	c.running = true
	c.interval = Interval(rate)
	c.onTick = onTick
}

func (c *Tea) Stop() {
	c.running = false
	c.gen++
}

func (c *Tea) Running() bool {
	return c.running
}

// Cmd schedules the next tick of the current generation, or nil when stopped.
func (c *Tea) Cmd() tea.Cmd {
	if !c.running {
		return nil
	}
	gen := c.gen
	return tea.Tick(c.interval, func(t time.Time) tea.Msg {
		return TickMsg{Gen: gen, Time: t}
	})
}

// Handle runs one tick for a current-generation message and returns the
// command for the next one.
func (c *Tea) Handle(msg TickMsg) tea.Cmd {
	if !c.running || msg.Gen != c.gen {
		return nil
	}
	c.onTick()
	return c.Cmd()
}
