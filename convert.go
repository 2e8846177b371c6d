package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"mkbootdsk/bootdisk"
	"mkbootdsk/intelhex"
	"mkbootdsk/trackmap"
)

// UsageError is a bad command line.
type UsageError struct {
	msg string
}

func (e *UsageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &UsageError{msg: fmt.Sprintf(format, args...)}
}

// errUsageShown means the usage text was already printed and nothing else should be.
var errUsageShown = errors.New("usage shown")

type options struct {
	input    string
	output   string
	tracks   int
	progress bool
}

var hexExts = map[string]bool{".hex": true, ".ihx": true, ".h86": true}

func isHexFile(path string) bool {
	return hexExts[strings.ToLower(filepath.Ext(path))]
}

// defaultOutput replaces the extension of input with .dsk.
func defaultOutput(input string) string {
	base := filepath.Base(input)
	return filepath.Join(filepath.Dir(input), strings.TrimSuffix(base, filepath.Ext(base))+".dsk")
}

// loadPayload returns the flat binary for path, decoding Intel HEX when the
// extension says so and reading anything else verbatim.
func loadPayload(fs afero.Fs, path string) ([]byte, error) {
	ok, err := afero.Exists(fs, path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("input file not found: %s", path)
	}
	log.Infof("Reading: %s", path)
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !isHexFile(path) {
		log.Infof("Read binary file: %d bytes", len(raw))
		return raw, nil
	}

	img, err := intelhex.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, w := range img.Warnings {
		log.Warnf("%s: %s", path, w)
	}
	log.Infof("Parsed HEX file: %d data records", img.Records)
	log.Infof("  Address range: 0x%04x - 0x%04x", img.MinAddress, img.MaxAddress-1)
	log.Infof("  Binary size: %d bytes", len(img.Data))
	if img.MinAddress > 0 {
		log.Infof("  Note: code starts at 0x%04x, not 0x0000; boot code should be assembled with ORG 0000h", img.MinAddress)
	}
	return img.Data, nil
}

// convert runs the whole pipeline. The image is encoded in memory before
// anything is written.
func convert(ctx context.Context, fs afero.Fs, opts options) error {
	if opts.output == "" {
		opts.output = defaultOutput(opts.input)
	}
	if filepath.Clean(opts.output) == filepath.Clean(opts.input) {
		return usageErrorf("output file %s would overwrite the input", opts.output)
	}

	payload, err := loadPayload(fs, opts.input)
	if err != nil {
		return err
	}
	disk, err := bootdisk.Encode(payload, opts.tracks)
	if err != nil {
		return err
	}
	if bootdisk.OverflowsCount(len(payload)) {
		log.Warnf("boot code is %d bytes; the sector byte count field only holds %d", len(payload), len(payload)&0xFFFF)
	}

	sink, closeSink, err := openSink(ctx, opts.progress, opts.output, opts.tracks, len(payload))
	if err != nil {
		return err
	}
	err = writeImage(fs, opts.output, disk, sink)
	closeSink()
	if err != nil {
		if errors.Is(err, trackmap.ErrInterrupted) {
			log.Warnf("interrupted, %s was not written", opts.output)
		}
		return err
	}

	used := bootdisk.SectorsUsed(len(payload))
	plural := "s"
	if used == 1 {
		plural = ""
	}
	log.Infof("Created disk image: %d tracks, %d bytes", opts.tracks, len(disk))
	log.Infof("  Boot code: %d bytes (%d sector%s)", len(payload), used, plural)
	log.Infof("Wrote: %s", opts.output)
	log.Info("Mount the image on drive 0 and boot the Altair from the FDC+")
	return nil
}
