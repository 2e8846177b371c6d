// mkbootdsk
// Bootable Altair FDC+ disk images from Intel HEX or raw binary boot code.
// Cobra CLI, optional tcell sector map while the image is written.
//
// Build:
//
//	go build -o mkbootdsk .
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"mkbootdsk/bootdisk"
	"mkbootdsk/trackmap"
)

const helpIntro = `Create bootable FDC+ disk images from Intel HEX or binary files.

Input files ending in .hex, .ihx or .h86 are decoded as Intel HEX; anything else
is read as a raw binary. The boot code is laid out from address 0 in 137-byte
CDBL sectors, 32 per track, with 2:1 interleave.`

const helpRecords = `Intel HEX records look like :LLAAAATT[DD...]CC where LL is the byte count,
AAAA the address, TT the record type, DD the data and CC the checksum.`

// longHelp lists the disk formats with sizes taken from the track geometry.
func longHelp() string {
	var b strings.Builder
	b.WriteString(helpIntro + "\n\nDisk formats:\n")
	for _, f := range []struct {
		name   string
		tracks int
		note   string
	}{
		{"8-inch:", bootdisk.Tracks8Inch, " (default)"},
		{"Minidisk:", bootdisk.TracksMinidisk, ""},
		{"8MB:", bootdisk.MaxTracks, ""},
	} {
		fmt.Fprintf(&b, "  %-10s %d tracks x %d bytes = %d bytes%s\n",
			f.name, f.tracks, bootdisk.TrackSize, f.tracks*bootdisk.TrackSize, f.note)
	}
	b.WriteString("\n" + helpRecords)
	return b.String()
}

const examples = `  mkbootdsk hello.hex
  mkbootdsk boot.hex -o myos.dsk
  mkbootdsk boot.bin --mini -o minios.dsk
  mkbootdsk kernel.hex --8mb -o bigdisk.dsk`

func must(err error) {
	if err == nil {
		return
	}
	if !errors.Is(err, errUsageShown) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	var ue *UsageError
	if errors.As(err, &ue) {
		fmt.Fprintln(os.Stderr, "run with --help for usage")
	}
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, trackmap.ErrInterrupted):
		return 130
	default:
		return 1
	}
}

func setupLogging(w io.Writer, verbose, quiet bool) {
	log.SetOutput(w)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	switch {
	case verbose:
		log.SetLevel(log.DebugLevel)
	case quiet:
		log.SetLevel(log.WarnLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	opts := options{tracks: bootdisk.Tracks8Inch}
	var verbose, quiet bool

	root := &cobra.Command{
		Use:           "mkbootdsk <input-file>",
		Short:         "Create bootable FDC+ disk images from Intel HEX or binary files",
		Long:          longHelp(),
		Example:       examples,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 1 {
				return usageErrorf("multiple input files specified: %s and %s", args[0], args[1])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if cmd.Flags().NFlag() == 0 {
					_ = cmd.Usage()
					return errUsageShown
				}
				return usageErrorf("no input file specified")
			}
			if verbose && quiet {
				return usageErrorf("choose at most one of --verbose or --quiet")
			}
			setupLogging(cmd.OutOrStdout(), verbose, quiet)
			opts.input = args[0]
			return convert(cmd.Context(), fs, opts)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{msg: err.Error()}
	})

	f := root.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output disk image file (default: <input>.dsk)")
	addTrackFlags(f, &opts.tracks)
	f.BoolVar(&opts.progress, "progress", false, "show a full-screen sector map while writing")
	f.BoolVarP(&verbose, "verbose", "v", false, "log every track written")
	f.BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(afero.NewOsFs()).ExecuteContext(ctx)
	stop()
	must(err)
}
