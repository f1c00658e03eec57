package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/revdiff/internal/renderer/core"
	"github.com/dshills/revdiff/internal/renderer/view"
)

func newScreen(t *testing.T, width, height int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	screen.SetSize(width, height)
	t.Cleanup(screen.Fini)
	return screen
}

func testTheme() *core.Theme {
	theme := core.NewTheme()
	theme.Set("insert", core.DefaultStyle().WithForeground(core.ColorFromRGB(0, 200, 0)))
	theme.Set("remove", core.DefaultStyle().With(core.AttrStrikethrough))
	return theme
}

func sampleLines() []view.Line {
	return []view.Line{
		{Segments: []view.Segment{{Text: "A"}, {Text: "X", Classes: []string{"insert"}}, {Text: "B"}}},
		{Segments: []view.Segment{{Text: "gone", Classes: []string{"remove"}, Phantom: true}}},
	}
}

func TestPaint(t *testing.T) {
	screen := newScreen(t, 20, 4)
	p := NewPainter(screen, testTheme())
	p.Paint(sampleLines())

	mainc, _, style, _ := screen.GetContent(1, 0)
	if mainc != 'X' {
		t.Fatalf("cell (1,0) = %q, want 'X'", mainc)
	}
	fg, _, _ := style.Decompose()
	if fg != tcell.NewRGBColor(0, 200, 0) {
		t.Errorf("inserted foreground = %v", fg)
	}

	mainc, _, style, _ = screen.GetContent(0, 1)
	if mainc != 'g' {
		t.Fatalf("cell (0,1) = %q, want 'g'", mainc)
	}
	_, _, attrs := style.Decompose()
	if attrs&tcell.AttrStrikeThrough == 0 || attrs&tcell.AttrDim == 0 {
		t.Errorf("removed attributes = %v, want strikethrough and dim", attrs)
	}

	mainc, _, _, _ = screen.GetContent(0, 0)
	if mainc != 'A' {
		t.Errorf("cell (0,0) = %q, want 'A'", mainc)
	}
}

func TestPaintClipsAndMeasuresWidth(t *testing.T) {
	screen := newScreen(t, 5, 1)
	p := NewPainter(screen, nil)
	p.Paint([]view.Line{{Segments: []view.Segment{{Text: "日本語"}}}})

	want := map[int]rune{0: '日', 2: '本'}
	for x, r := range want {
		if mainc, _, _, _ := screen.GetContent(x, 0); mainc != r {
			t.Errorf("cell (%d,0) = %q, want %q", x, mainc, r)
		}
	}
	if mainc, _, _, _ := screen.GetContent(4, 0); mainc == '語' {
		t.Error("third wide character should be clipped")
	}
}

func TestScroll(t *testing.T) {
	screen := newScreen(t, 10, 1)
	p := NewPainter(screen, nil)
	lines := sampleLines()

	p.Scroll(1, len(lines))
	p.Paint(lines)
	if mainc, _, _, _ := screen.GetContent(0, 0); mainc != 'g' {
		t.Errorf("first visible cell = %q, want 'g'", mainc)
	}

	p.Scroll(5, len(lines))
	if p.Top() != 1 {
		t.Errorf("Top() = %d, want 1", p.Top())
	}
	p.Scroll(-5, len(lines))
	if p.Top() != 0 {
		t.Errorf("Top() = %d, want 0", p.Top())
	}
}

func TestRunKeys(t *testing.T) {
	screen := newScreen(t, 10, 2)
	p := NewPainter(screen, nil)

	screen.InjectKey(tcell.KeyRune, 'j', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	if err := p.Run(context.Background(), sampleLines); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if p.Top() != 1 {
		t.Errorf("Top() = %d after 'j', want 1", p.Top())
	}
}

func TestRunCancel(t *testing.T) {
	screen := newScreen(t, 10, 2)
	p := NewPainter(screen, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Run(ctx, sampleLines); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}
