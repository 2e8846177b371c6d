package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/pflag"

	"mkbootdsk/bootdisk"
)

// tracksFlag backs -t/--tracks. The preset flags write to the same int, so
// whichever track flag comes last on the command line wins.
type tracksFlag struct{ n *int }

func (f tracksFlag) String() string {
	if f.n == nil {
		return "0"
	}
	return strconv.Itoa(*f.n)
}

func (f tracksFlag) Set(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 || v > bootdisk.MaxTracks {
		return fmt.Errorf("invalid track count %q (must be 1-%d)", s, bootdisk.MaxTracks)
	}
	*f.n = v
	return nil
}

func (f tracksFlag) Type() string { return "int" }

// presetFlag is a boolean flag that selects a fixed track count.
type presetFlag struct {
	n      *int
	tracks int
}

func (f presetFlag) String() string { return "false" }

func (f presetFlag) Set(s string) error {
	on, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	if on {
		*f.n = f.tracks
	}
	return nil
}

func (f presetFlag) Type() string { return "bool" }

func presetUsage(name string, tracks int) string {
	return fmt.Sprintf("%s (%d tracks, %d bytes)", name, tracks, tracks*bootdisk.TrackSize)
}

func addTrackFlags(fs *pflag.FlagSet, n *int) {
	fs.VarP(tracksFlag{n}, "tracks", "t", fmt.Sprintf("number of tracks (1-%d)", bootdisk.MaxTracks))
	presets := []struct {
		name   string
		tracks int
		usage  string
	}{
		{"8inch", bootdisk.Tracks8Inch, presetUsage("8-inch disk", bootdisk.Tracks8Inch)},
		{"mini", bootdisk.TracksMinidisk, presetUsage("minidisk", bootdisk.TracksMinidisk)},
		{"minidisk", bootdisk.TracksMinidisk, "same as --mini"},
		{"8mb", bootdisk.MaxTracks, presetUsage("8MB disk", bootdisk.MaxTracks)},
	}
	for _, p := range presets {
		fl := fs.VarPF(presetFlag{n: n, tracks: p.tracks}, p.name, "", p.usage)
		fl.NoOptDefVal = "true"
	}
}
