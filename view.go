package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"scoop-drop/internal/game"
	"scoop-drop/internal/scoring"

	"github.com/charmbracelet/lipgloss"
)

// Terminal cells are about twice as tall as wide; one cell covers 10x20 field
// pixels.
const (
	cellWidth  = 10.0
	cellHeight = 20.0

	coneHex     = "#D4A572"
	bonusFrames = 90 // 1.5s at 60 ticks per second
)

var (
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // Game over
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // High score
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // Status line
	bonusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true)
	boldStyle   = lipgloss.NewStyle().Bold(true)
	waffleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5C4A36"))
)

var fieldStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#FF8FD2"))

// particle is a sprinkle thrown out by a match.
type particle struct {
	x, y  float64
	angle float64
	speed float64
	life  float64
	hex   string
}

func (p *particle) step() {
	p.x += math.Cos(p.angle) * p.speed
	p.y += math.Sin(p.angle) * p.speed
	p.life -= 0.02
}

// Present implements game.Sink.
func (s *LocalState) Present(f game.Frame) {
	s.frame = f

	for i := range s.particles {
		s.particles[i].step()
	}
	live := s.particles[:0]
	for _, p := range s.particles {
		if p.life > 0 {
			live = append(live, p)
		}
	}
	s.particles = live

	if s.bonusTicks > 0 {
		s.bonusTicks--
	}

	for _, ev := range f.Events {
		switch ev.Kind {
		case game.EventMatch:
			s.particles = append(s.particles, burst(ev.X, ev.Y, ev.Flavor.Hex)...)
		case game.EventBonus:
			s.bonusTicks = bonusFrames
		}
	}
}

func burst(x, y float64, hex string) []particle {
	ps := make([]particle, 10)
	for i := range ps {
		ps[i] = particle{
			x:     x,
			y:     y,
			angle: rand.Float64() * 2 * math.Pi,
			speed: rand.Float64()*3 + 2,
			life:  1,
			hex:   hex,
		}
	}
	return ps
}

// cell is one terminal character of the field.
type cell struct {
	ch  rune
	hex string
}

type grid struct {
	cols, rows int
	cells      [][]cell
}

func newGrid(width, height float64) *grid {
	g := &grid{
		cols: max(1, int(math.Ceil(width/cellWidth))),
		rows: max(1, int(math.Ceil(height/cellHeight))),
	}
	g.cells = make([][]cell, g.rows)
	for r := range g.cells {
		g.cells[r] = make([]cell, g.cols)
		for c := range g.cells[r] {
			g.cells[r][c] = cell{ch: ' '}
			if r%2 == 1 && c%4 == 2 {
				g.cells[r][c] = cell{ch: '·'}
			}
		}
	}
	return g
}

// fill paints the field rectangle [x0,x1)x[y0,y1).
func (g *grid) fill(x0, y0, x1, y1 float64, ch rune, hex string) {
	c0, c1 := int(math.Floor(x0/cellWidth)), int(math.Ceil(x1/cellWidth))
	r0, r1 := int(math.Floor(y0/cellHeight)), int(math.Ceil(y1/cellHeight))
	for r := max(0, r0); r < min(g.rows, r1); r++ {
		for c := max(0, c0); c < min(g.cols, c1); c++ {
			g.cells[r][c] = cell{ch: ch, hex: hex}
		}
	}
}

func (g *grid) set(x, y float64, ch rune, hex string) {
	c, r := int(x/cellWidth), int(y/cellHeight)
	if r >= 0 && r < g.rows && c >= 0 && c < g.cols {
		g.cells[r][c] = cell{ch: ch, hex: hex}
	}
}

// render joins runs of same-colored cells so each row is styled in a few
// chunks.
func (g *grid) render() string {
	var b strings.Builder
	for r, row := range g.cells {
		if r > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for c := 1; c <= len(row); c++ {
			if c < len(row) && row[c].hex == row[start].hex {
				continue
			}
			var run strings.Builder
			for _, cl := range row[start:c] {
				run.WriteRune(cl.ch)
			}
			style := waffleStyle
			if row[start].hex != "" {
				style = lipgloss.NewStyle().Foreground(lipgloss.Color(row[start].hex))
			}
			b.WriteString(style.Render(run.String()))
			start = c
		}
	}
	return b.String()
}

// RenderField rasterizes slots, the falling scoop and sprinkles.
func (s *LocalState) RenderField() string {
	f := s.frame
	g := newGrid(f.FieldWidth, f.FieldHeight)
	bs := f.BlockSize

	for _, slot := range f.Slots {
		g.fill(slot.X, slot.Y, slot.X+slot.Width, slot.Y+bs*0.3, '▀', slot.Flavor.Hex)
		g.fill(slot.X, slot.Y+bs*0.3, slot.X+slot.Width, slot.Y+bs, '█', slot.Flavor.Hex)
	}

	for _, b := range f.Blocks {
		g.fill(b.X+bs*0.25, b.Y+bs*0.6, b.X+bs*0.75, b.Y+bs*1.2, '▼', coneHex)
		g.fill(b.X+bs*0.1, b.Y, b.X+bs*0.9, b.Y+bs*0.75, '█', b.Flavor.Hex)
	}

	for _, p := range s.particles {
		g.set(p.x, p.y, '*', p.hex)
	}

	return g.render()
}

func (s *LocalState) View() string {
	f := s.frame

	status := fmt.Sprintf("SCORE: %d | STREAK: %d/%d | SPEED: %.1f | ROUND: %d",
		f.Score, f.Streak, scoring.StreakLength, f.FallSpeed, f.Round)
	if f.BestScore > 0 {
		status += fmt.Sprintf(" | BEST: %d", f.BestScore)
	}
	display := scoreStyle.Render(status)
	if s.bonusTicks > 0 {
		display += " " + bonusStyle.Render("(+100 BONUS!)")
	}

	display += "\n" + fieldStyle.Render(s.RenderField())

	if f.GameOver {
		display += "\n" + redStyle.Render(fmt.Sprintf("Game over! Final score: %d", f.FinalScore))
		if f.NewBest && f.FinalScore > 0 {
			display += "\n" + greenStyle.Render("New best for this session!")
		}
		if len(f.TopScores) > 1 {
			display += "\n" + boldStyle.Render("Top scores:")
			for i, score := range f.TopScores {
				display += fmt.Sprintf("\n  %d. %d", i+1, score)
			}
		}
		display += "\n" + boldStyle.Render("Press Enter to play again")
	} else if s.Input == nil {
		display += "\n" + boldStyle.Render("Demo: the autopilot is playing")
	}

	return display + "\n" + s.Help.View(s.Keys) + "\n"
}
