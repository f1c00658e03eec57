// Package backend draws document views on a terminal.
package backend

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/revdiff/internal/renderer/core"
	"github.com/dshills/revdiff/internal/renderer/view"
)

// Painter draws view lines on a tcell screen.
type Painter struct {
	mu     sync.Mutex
	screen tcell.Screen
	theme  *core.Theme
	top    int
}

// NewPainter creates a painter for screen. A nil theme uses core.NewTheme.
func NewPainter(screen tcell.Screen, theme *core.Theme) *Painter {
	if theme == nil {
		theme = core.NewTheme()
	}
	return &Painter{screen: screen, theme: theme}
}

// NewTerminalPainter creates a painter for the controlling terminal.
func NewTerminalPainter(theme *core.Theme) (*Painter, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewPainter(screen, theme), nil
}

// Init initializes the screen.
func (p *Painter) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.screen.Init()
}

// Shutdown restores the terminal.
func (p *Painter) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.screen.Fini()
}

// Top returns the index of the first visible line.
func (p *Painter) Top() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.top
}

// Scroll moves the first visible line by delta, within [0, total).
func (p *Painter) Scroll(delta, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.top = min(max(p.top+delta, 0), max(total-1, 0))
}

// Paint clears the screen and draws lines from the first visible one.
// Text past the right edge is clipped.
func (p *Painter) Paint(lines []view.Line) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.screen.Clear()
	width, height := p.screen.Size()
	for y := 0; y < height && p.top+y < len(lines); y++ {
		p.paintLine(lines[p.top+y], y, width)
	}
	p.screen.Show()
}

func (p *Painter) paintLine(line view.Line, y, width int) {
	x := 0
	for _, seg := range line.Segments {
		style := convertStyle(p.theme.Resolve(seg.Classes, seg.Phantom))
		state := -1
		rest := seg.Text
		for rest != "" {
			var cluster string
			var w int
			cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
			if w == 0 {
				continue
			}
			if x+w > width {
				return
			}
			runes := []rune(cluster)
			p.screen.SetContent(x, y, runes[0], runes[1:], style)
			x += w
		}
	}
}

// Run paints the lines returned by source and handles keys until the user
// quits with q, Esc or Ctrl-C, or ctx is done. Up/Down and j/k scroll.
func (p *Painter) Run(ctx context.Context, source func() []view.Line) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		_ = p.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	lines := source()
	p.Paint(lines)
	for {
		switch ev := p.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			return ctx.Err()
		case *tcell.EventResize:
			p.screen.Sync()
			p.Paint(lines)
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC,
				ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
				return nil
			case ev.Key() == tcell.KeyDown, ev.Key() == tcell.KeyRune && ev.Rune() == 'j':
				p.Scroll(1, len(lines))
			case ev.Key() == tcell.KeyUp, ev.Key() == tcell.KeyRune && ev.Rune() == 'k':
				p.Scroll(-1, len(lines))
			case ev.Key() == tcell.KeyRune && ev.Rune() == 'r':
				lines = source()
			}
			p.Paint(lines)
		}
	}
}

// convertStyle converts a core.Style to a tcell.Style.
func convertStyle(s core.Style) tcell.Style {
	style := tcell.StyleDefault
	if !s.Foreground.IsDefault() {
		style = style.Foreground(convertColor(s.Foreground))
	}
	if !s.Background.IsDefault() {
		style = style.Background(convertColor(s.Background))
	}
	return style.
		Bold(s.Attributes.Has(core.AttrBold)).
		Dim(s.Attributes.Has(core.AttrDim)).
		Italic(s.Attributes.Has(core.AttrItalic)).
		Underline(s.Attributes.Has(core.AttrUnderline)).
		Reverse(s.Attributes.Has(core.AttrReverse)).
		StrikeThrough(s.Attributes.Has(core.AttrStrikethrough))
}

func convertColor(c core.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
