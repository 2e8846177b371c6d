// Package trackmap draws a full-screen view of a disk image being written,
// one glyph per sector and one row per track.
package trackmap

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// ErrInterrupted is returned when the user asks to stop.
var ErrInterrupted = errors.New("interrupted")

// UI owns the terminal screen. It only renders what the caller provides.
type UI struct {
	s        tcell.Screen
	stopChan chan struct{}
	once     sync.Once
	mu       sync.Mutex

	title        string
	summaryLines []string
	legendLines  []string
	statusLines  []string
	mapLines     []string
}

// NewUI takes over the terminal.
func NewUI() (*UI, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewUIWithScreen(s)
}

// NewUIWithScreen initialises s and starts the key handler on it.
func NewUIWithScreen(s tcell.Screen) (*UI, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.DisableMouse()
	u := &UI{
		s:        s,
		stopChan: make(chan struct{}),
	}
	go u.eventLoop()
	return u, nil
}

// Close restores the terminal.
func (u *UI) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.s == nil {
		return
	}
	u.s.Fini()
	u.s = nil
}

// RequestStop asks the current operation to stop. Safe to call more than once.
func (u *UI) RequestStop() {
	u.once.Do(func() {
		close(u.stopChan)
		u.mu.Lock()
		if u.s != nil {
			_ = u.s.PostEvent(tcell.NewEventInterrupt(nil))
		}
		u.mu.Unlock()
	})
}

// IsStopped reports whether a stop was requested.
func (u *UI) IsStopped() bool {
	select {
	case <-u.stopChan:
		return true
	default:
		return false
	}
}

// Done is closed once a stop was requested.
func (u *UI) Done() <-chan struct{} {
	return u.stopChan
}

// Size returns the screen size, or zero after Close.
func (u *UI) Size() (width, height int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.s == nil {
		return 0, 0
	}
	return u.s.Size()
}

// SetTitle sets the title on the top line.
func (u *UI) SetTitle(t string) {
	u.title = t
}

// SetSummaryLines sets the lines shown below the title.
func (u *UI) SetSummaryLines(lines []string) {
	u.summaryLines = append([]string(nil), lines...)
}

// SetLegend sets the legend lines shown below the summary.
func (u *UI) SetLegend(lines []string) {
	u.legendLines = append([]string(nil), lines...)
}

// SetStatusLines sets the status block at the bottom.
func (u *UI) SetStatusLines(lines []string) {
	u.statusLines = append([]string(nil), lines...)
}

// SetMap sets the rendered track rows, see Map.Lines.
func (u *UI) SetMap(lines []string) {
	u.mapLines = append([]string(nil), lines...)
}

// MapRows returns how many map rows fit between the header and the status block.
func (u *UI) MapRows() int {
	_, h := u.Size()
	rows := h - u.headerRows() - 1 - len(u.statusLines)
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (u *UI) headerRows() int {
	n := len(u.summaryLines) + len(u.legendLines)
	if u.title != "" {
		n++
	}
	return n
}

func putStr(s tcell.Screen, x, y int, str string) {
	w, _ := s.Size()
	for i, r := range []rune(str) {
		if x+i >= w {
			break
		}
		s.SetContent(x+i, y, r, nil, tcell.StyleDefault)
	}
}

// LayoutAndDraw redraws the screen from the current state.
func (u *UI) LayoutAndDraw() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.s == nil {
		return
	}
	s := u.s
	s.Clear()
	w, h := s.Size()
	y := 0

	if u.title != "" {
		putStr(s, 0, y, strings.Repeat("═", w))
		putStr(s, max(0, (w-len([]rune(u.title)))/2), y, u.title)
		y++
	}
	for _, line := range append(append([]string(nil), u.summaryLines...), u.legendLines...) {
		if y >= h {
			break
		}
		putStr(s, 0, y, line)
		y++
	}

	avail := h - u.headerRows() - 1 - len(u.statusLines)
	for i := 0; i < len(u.mapLines) && i < avail; i++ {
		putStr(s, 0, y, u.mapLines[i])
		y++
	}

	if len(u.statusLines) > 0 && y < h {
		putStr(s, 0, y, strings.Repeat("─", w))
		putStr(s, 2, y, " Status ")
		y++
		for _, line := range u.statusLines {
			if y >= h {
				break
			}
			putStr(s, 0, y, line)
			y++
		}
	}
	s.Show()
}

func (u *UI) eventLoop() {
	for {
		u.mu.Lock()
		s := u.s
		u.mu.Unlock()
		if s == nil {
			return
		}
		switch ev := s.PollEvent().(type) {
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyCtrlC, ev.Key() == tcell.KeyEscape:
				u.RequestStop()
			case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
				u.RequestStop()
			}
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventInterrupt:
			if u.IsStopped() {
				return
			}
		case nil:
			return
		}
	}
}

// StatusLine formats a "label: value" pair padded for alignment.
func StatusLine(label string, format string, args ...any) string {
	return fmt.Sprintf("%-10s %s", label+":", fmt.Sprintf(format, args...))
}
