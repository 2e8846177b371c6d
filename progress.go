package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/term"

	"mkbootdsk/bootdisk"
	"mkbootdsk/trackmap"
)

// logSink reports tracks at debug level and stops when ctx is cancelled.
type logSink struct {
	ctx context.Context
}

func (s logSink) TrackWritten(track int) {
	log.Debugf("wrote track %d", track)
}

func (s logSink) Stopped() bool {
	return s.ctx.Err() != nil
}

// screenSink paints every written track on the full-screen sector map.
type screenSink struct {
	ui     *trackmap.UI
	m      *trackmap.Map
	ctx    context.Context
	size   int
	tracks int
	start  time.Time
}

func newScreenSink(ctx context.Context, ui *trackmap.UI, output string, tracks, size int) *screenSink {
	s := &screenSink{
		ui:     ui,
		m:      trackmap.NewMap(tracks, bootdisk.SectorsPerTrack),
		ctx:    ctx,
		size:   size,
		tracks: tracks,
		start:  time.Now(),
	}
	ui.SetTitle(fmt.Sprintf(" BOOT DISK – %s  %d tracks  %d bytes ", filepath.Base(output), tracks, tracks*bootdisk.TrackSize))
	ui.SetSummaryLines([]string{
		fmt.Sprintf("Sector: %d bytes (%d data)  Sectors/Track: %d  Interleave: 2:1", bootdisk.SectorSize, bootdisk.DataPerSector, bootdisk.SectorsPerTrack),
		fmt.Sprintf("Boot code: %d bytes in %d sectors", size, bootdisk.SectorsUsed(size)),
	})
	ui.SetLegend([]string{trackmap.Legend})
	s.update("Preparing")
	return s
}

func (s *screenSink) TrackWritten(track int) {
	for slot := 0; slot < bootdisk.SectorsPerTrack; slot++ {
		st := trackmap.Padding
		if bootdisk.LogicalSector(track, slot)*bootdisk.DataPerSector < s.size {
			st = trackmap.Payload
		}
		s.m.Mark(track, slot, st)
	}
	s.update(fmt.Sprintf("Write track %d", track))
}

func (s *screenSink) Stopped() bool {
	return s.ui.IsStopped() || s.ctx.Err() != nil
}

func (s *screenSink) update(op string) {
	s.ui.SetStatusLines([]string{
		trackmap.StatusLine("Written", "%d / %d sectors", s.m.Written(), s.m.Total()),
		trackmap.StatusLine("Elapsed", "%s", time.Since(s.start).Truncate(time.Millisecond)),
		trackmap.StatusLine("Current op", "%s", op),
	})
	s.ui.SetMap(s.m.Lines(s.ui.MapRows()))
	s.ui.LayoutAndDraw()
}

// openSink picks the sink for a run. With progress on a terminal it takes over
// the screen and silences logging until the returned close func is called.
func openSink(ctx context.Context, progress bool, output string, tracks, size int) (trackSink, func(), error) {
	if !progress {
		return logSink{ctx: ctx}, func() {}, nil
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		log.Warn("--progress needs a terminal on stdout, continuing without it")
		return logSink{ctx: ctx}, func() {}, nil
	}
	ui, err := trackmap.NewUI()
	if err != nil {
		return nil, nil, fmt.Errorf("ui init: %w", err)
	}
	out := log.StandardLogger().Out
	log.SetOutput(io.Discard)
	sink := newScreenSink(ctx, ui, output, tracks, size)
	return sink, func() {
		if !ui.IsStopped() {
			sink.update("Done")
			ui.Linger(2 * time.Second)
		}
		ui.Close()
		log.SetOutput(out)
	}, nil
}
