package intelhex

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when a file holds no data records.
var ErrEmptyInput = errors.New("no data records found in HEX file")

// FormatError reports a record whose fields cannot be parsed.
type FormatError struct {
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format error on line %d: %s", e.Line, e.Msg)
}

// ChecksumError reports a record whose checksum byte does not match its contents.
// Expected is the value stored in the file, Actual the one computed from the record.
type ChecksumError struct {
	Line     int
	Expected byte
	Actual   byte
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum error on line %d: expected %02x, got %02x", e.Line, e.Expected, e.Actual)
}

// Warning is a non-fatal problem found while decoding.
type Warning struct {
	Line       int
	RecordType byte
}

func (w Warning) String() string {
	return fmt.Sprintf("unknown record type %02x on line %d", w.RecordType, w.Line)
}
