package trackmap

import (
	"fmt"
	"strings"
	"time"
)

// State of one sector cell.
type State uint8

const (
	Pending State = iota // not written yet
	Padding              // written, no payload bytes
	Payload              // written, holds payload
)

// Glyphs used by Lines, indexed by State.
var glyphs = [...]rune{Pending: '░', Padding: '▒', Payload: '█'}

// Legend describes the glyphs.
const Legend = "Legend:  █ payload   ▒ padding   ░ not yet written | Q to quit"

// Map records the state of every sector on the disk.
type Map struct {
	tracks  int
	sectors int
	cells   []State
	current int // last track touched
}

// NewMap returns a map with every sector pending.
func NewMap(tracks, sectorsPerTrack int) *Map {
	return &Map{
		tracks:  tracks,
		sectors: sectorsPerTrack,
		cells:   make([]State, tracks*sectorsPerTrack),
	}
}

// Mark sets the state of one physical sector. Out-of-range sectors are ignored.
func (m *Map) Mark(track, slot int, st State) {
	if track < 0 || track >= m.tracks || slot < 0 || slot >= m.sectors {
		return
	}
	m.cells[track*m.sectors+slot] = st
	m.current = track
}

// State returns the state of one physical sector.
func (m *Map) State(track, slot int) State {
	if track < 0 || track >= m.tracks || slot < 0 || slot >= m.sectors {
		return Pending
	}
	return m.cells[track*m.sectors+slot]
}

// Written returns the number of sectors no longer pending.
func (m *Map) Written() int {
	n := 0
	for _, c := range m.cells {
		if c != Pending {
			n++
		}
	}
	return n
}

// Total returns the number of sectors on the disk.
func (m *Map) Total() int {
	return len(m.cells)
}

// Lines renders up to rows tracks, scrolled so the last touched track is visible.
// Each line is "T0000 " followed by one glyph per sector.
func (m *Map) Lines(rows int) []string {
	if rows < 1 || m.tracks == 0 {
		return nil
	}
	start := 0
	if m.tracks > rows {
		if m.current >= rows {
			start = m.current - rows + 1
		}
		if start+rows > m.tracks {
			start = m.tracks - rows
		}
	}
	end := start + rows
	if end > m.tracks {
		end = m.tracks
	}

	lines := make([]string, 0, end-start)
	for t := start; t < end; t++ {
		var b strings.Builder
		b.Grow(6 + m.sectors*3)
		fmt.Fprintf(&b, "T%04d ", t)
		for _, c := range m.cells[t*m.sectors : (t+1)*m.sectors] {
			b.WriteRune(glyphs[c])
		}
		lines = append(lines, b.String())
	}
	return lines
}

// Linger keeps the final screen up for d, or until the user presses a stop key.
func (u *UI) Linger(d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-u.Done():
	case <-timer.C:
	}
}
