// Package intelhex decodes Intel HEX text into a flat, zero-filled memory image.
//
// Segment (type 02) and linear (type 04) extended address records are resolved,
// start address records (03, 05) are ignored and unknown record types are reported
// as warnings rather than errors.
package intelhex

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// Record types understood by the decoder.
const (
	DataRecord            byte = 0x00
	EOFRecord             byte = 0x01
	ExtendedSegmentRecord byte = 0x02
	StartSegmentRecord    byte = 0x03
	ExtendedLinearRecord  byte = 0x04
	StartLinearRecord     byte = 0x05
)

// maxLineLen bounds a single input line; a full record is at most 521 characters,
// the rest is headroom for comment lines written by assemblers.
const maxLineLen = 1 << 20

// Record is one parsed line of Intel HEX.
type Record struct {
	Count    byte
	Address  uint16
	Type     byte
	Data     []byte
	Checksum byte
}

// Image is the flat binary produced from a HEX file.
type Image struct {
	Data       []byte    // bytes 0 .. MaxAddress-1, zero where no record wrote
	MinAddress int       // lowest address written by a data record
	MaxAddress int       // one past the highest address written
	Records    int       // number of data records
	Warnings   []Warning // skipped records
}

type fragment struct {
	address int
	data    []byte
}

// decoder is the running state folded over the records of one file.
type decoder struct {
	extended int
	frags    []fragment
	min, max int
	warnings []Warning
}

// Checksum returns the two's complement of the 8-bit sum of b.
func Checksum(b []byte) byte {
	var sum byte
	for _, v := range b {
		sum += v
	}
	return ^sum + 1
}

// ParseRecord parses a single line starting with ':'. line is only used for errors.
func ParseRecord(text string, line int) (Record, error) {
	if len(text) < 11 || text[0] != ':' {
		return Record{}, &FormatError{Line: line, Msg: "record too short"}
	}
	head, err := hex.DecodeString(text[1:9])
	if err != nil {
		return Record{}, &FormatError{Line: line, Msg: "invalid record header: " + err.Error()}
	}
	end := 9 + int(head[0])*2
	if len(text) < end+2 {
		return Record{}, &FormatError{Line: line, Msg: fmt.Sprintf("record declares %d data bytes but is truncated", head[0])}
	}
	data, err := hex.DecodeString(text[9:end])
	if err != nil {
		return Record{}, &FormatError{Line: line, Msg: "invalid data field: " + err.Error()}
	}
	cs, err := hex.DecodeString(text[end : end+2])
	if err != nil {
		return Record{}, &FormatError{Line: line, Msg: "invalid checksum field: " + err.Error()}
	}

	r := Record{
		Count:    head[0],
		Address:  uint16(head[1])<<8 | uint16(head[2]),
		Type:     head[3],
		Data:     data,
		Checksum: cs[0],
	}
	if sum := Checksum(append(head, data...)); sum != r.Checksum {
		return Record{}, &ChecksumError{Line: line, Expected: r.Checksum, Actual: sum}
	}
	return r, nil
}

func (d *decoder) apply(r Record, line int) error {
	switch r.Type {
	case DataRecord:
		adr := d.extended + int(r.Address)
		if len(d.frags) == 0 || adr < d.min {
			d.min = adr
		}
		if end := adr + len(r.Data); end > d.max {
			d.max = end
		}
		d.frags = append(d.frags, fragment{address: adr, data: r.Data})
	case EOFRecord:
	case ExtendedSegmentRecord, ExtendedLinearRecord:
		if len(r.Data) != 2 {
			return &FormatError{Line: line, Msg: fmt.Sprintf("extended address record with %d data bytes", len(r.Data))}
		}
		v := int(r.Data[0])<<8 | int(r.Data[1])
		if r.Type == ExtendedSegmentRecord {
			d.extended = v << 4
		} else {
			d.extended = v << 16
		}
	case StartSegmentRecord, StartLinearRecord:
		// entry points mean nothing to a static disk image
	default:
		d.warnings = append(d.warnings, Warning{Line: line, RecordType: r.Type})
	}
	return nil
}

func (d *decoder) image() *Image {
	img := &Image{
		Data:       make([]byte, d.max),
		MinAddress: d.min,
		MaxAddress: d.max,
		Records:    len(d.frags),
		Warnings:   d.warnings,
	}
	for _, f := range d.frags {
		copy(img.Data[f.address:], f.data)
	}
	return img
}

// Decode reads Intel HEX text from r and returns the flat image starting at address 0.
// Overlapping data records are applied in file order, so the last one wins.
func Decode(r io.Reader) (*Image, error) {
	var d decoder
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLen)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || text[0] != ':' {
			continue
		}
		rec, err := ParseRecord(text, line)
		if err != nil {
			return nil, err
		}
		if err := d.apply(rec, line); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read HEX input: %w", err)
	}
	if len(d.frags) == 0 {
		return nil, ErrEmptyInput
	}
	return d.image(), nil
}

// DecodeString is Decode over an in-memory string.
func DecodeString(s string) (*Image, error) {
	return Decode(strings.NewReader(s))
}
