package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"mkbootdsk/bootdisk"
	"mkbootdsk/trackmap"
)

// trackSink is told about every track written and can abort the write.
// Generated mock using mockgen:
//
//	mockgen -source=writer.go -destination=sink_mock_test.go -package main
type trackSink interface {
	TrackWritten(track int)
	Stopped() bool
}

// writeImage writes disk to path one track at a time. The data goes to a temp
// file next to path which is renamed into place only once every track is on disk,
// so an error or a stop request never leaves a partial image behind.
func writeImage(fs afero.Fs, path string, disk []byte, sink trackSink) (err error) {
	f, err := afero.TempFile(fs, filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = fs.Remove(tmp)
		}
	}()

	tracks := len(disk) / bootdisk.TrackSize
	for t := 0; t < tracks; t++ {
		if sink.Stopped() {
			return trackmap.ErrInterrupted
		}
		off := t * bootdisk.TrackSize
		if _, err = f.WriteAt(disk[off:off+bootdisk.TrackSize], int64(off)); err != nil {
			return fmt.Errorf("write track %d: %w", t, err)
		}
		sink.TrackWritten(t)
	}

	if err = f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err = fs.Chmod(tmp, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp, err)
	}
	if err = fs.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
