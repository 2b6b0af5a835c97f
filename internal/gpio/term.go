package gpio

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/sweeney/pet-feeder/internal/logic"
)

// DefaultKeyHold is how long a key press holds a simulated button down.
// It must exceed the debounce interval.
const DefaultKeyHold = 100 * time.Millisecond

// TermPanel simulates the front panel in a terminal. Keys 'a' and 'p' press
// the AM and PM buttons; 'q', Esc or Ctrl-C request shutdown.
type TermPanel struct {
	screen tcell.Screen
	now    func() time.Time
	hold   time.Duration

	mu      sync.Mutex
	amUntil time.Time
	pmUntil time.Time
	last    logic.Indicators

	quit     chan struct{}
	quitOnce sync.Once
}

// NewTermPanel initialises screen and starts reading keys from it.
func NewTermPanel(screen tcell.Screen, now func() time.Time, hold time.Duration) (*TermPanel, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()

	p := &TermPanel{
		screen: screen,
		now:    now,
		hold:   hold,
		quit:   make(chan struct{}),
	}
	p.draw(logic.Indicators{})

	go p.pollEvents()
	return p, nil
}

// Done is closed when the user asks to quit.
func (p *TermPanel) Done() <-chan struct{} {
	return p.quit
}

func (p *TermPanel) pollEvents() {
	for {
		ev := p.screen.PollEvent()
		if ev == nil {
			// Screen finalised
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			p.handleKey(ev)
		case *tcell.EventResize:
			p.mu.Lock()
			last := p.last
			p.mu.Unlock()
			p.screen.Sync()
			p.draw(last)
		}
	}
}

func (p *TermPanel) handleKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
		p.requestQuit()
		return
	}
	if ev.Key() != tcell.KeyRune {
		return
	}

	until := p.now().Add(p.hold)
	p.mu.Lock()
	defer p.mu.Unlock()
	switch ev.Rune() {
	case 'a', 'A':
		p.amUntil = until
	case 'p', 'P':
		p.pmUntil = until
	case 'q', 'Q':
		p.requestQuit()
	}
}

func (p *TermPanel) requestQuit() {
	p.quitOnce.Do(func() { close(p.quit) })
}

// Read returns Low for a button whose key was pressed within the hold time.
func (p *TermPanel) Read() (logic.Level, logic.Level, error) {
	now := p.now()
	p.mu.Lock()
	defer p.mu.Unlock()
	return logic.Level(!now.Before(p.amUntil)), logic.Level(!now.Before(p.pmUntil)), nil
}

// Write draws the LEDs.
func (p *TermPanel) Write(ind logic.Indicators) error {
	p.mu.Lock()
	p.last = ind
	p.mu.Unlock()
	p.draw(ind)
	return nil
}

// Close restores the terminal.
func (p *TermPanel) Close() error {
	p.screen.Fini()
	return nil
}

var (
	styleLabel  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleOff    = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleFed    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleHungry = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// LED cells are drawn in column 1 of rows ledRow..ledRow+3.
const ledRow = 2

var ledLabels = []string{"AM fed", "AM hungry", "PM fed", "PM hungry"}

func (p *TermPanel) draw(ind logic.Indicators) {
	p.screen.Clear()
	drawText(p.screen, 1, 0, styleLabel, "pet-feeder  [a] AM fed  [p] PM fed  [q] quit")

	for i, v := range Levels(ind) {
		style := styleOff
		if v == 1 {
			style = styleFed
			if i == 1 || i == 3 {
				style = styleHungry
			}
		}
		p.screen.SetContent(1, ledRow+i, '●', nil, style)
		drawText(p.screen, 3, ledRow+i, styleLabel, ledLabels[i])
	}
	p.screen.Show()
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
