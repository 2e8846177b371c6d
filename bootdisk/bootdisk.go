// Package bootdisk lays a flat binary out as an Altair FDC+ boot disk image.
//
// The image is a sequence of tracks, each holding 32 sectors of 137 bytes. Every
// sector carries 128 bytes of payload framed the way the CDBL boot loader expects:
//
//	0       track number | 0x80 (sync bit)
//	1-2     payload length, 16-bit little-endian, same in every sector
//	3-130   payload
//	131     0xFF marker
//	132     8-bit sum of the 128 payload bytes
//	133-136 spare, zero
//
// CDBL reads the even sectors of a track before the odd ones, so consecutive
// payload sectors are written to physical slots 0,2,...,30 and then 1,3,...,31.
package bootdisk

import (
	"encoding/binary"
	"fmt"
)

// Geometry of the FDC+ 8-inch format.
const (
	SectorSize      = 137
	SectorsPerTrack = 32
	DataPerSector   = 128
	TrackSize       = SectorSize * SectorsPerTrack // 4384
	DataPerTrack    = DataPerSector * SectorsPerTrack

	Tracks8Inch    = 77
	TracksMinidisk = 17
	MaxTracks      = 1863 // 8 MB format
)

// Offsets inside a sector record.
const (
	offSync     = 0
	offCount    = 1
	offData     = 3
	offMarker   = offData + DataPerSector
	offChecksum = offMarker + 1

	marker   = 0xFF
	syncBit  = 0x80
	maxCount = 0xFFFF
)

// CapacityError is returned when the payload does not fit on the requested tracks.
type CapacityError struct {
	Size         int
	Tracks       int
	TracksNeeded int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("boot code (%d bytes) requires %d tracks but disk only has %d tracks", e.Size, e.TracksNeeded, e.Tracks)
}

// TrackCountError is returned for a track count outside 1..MaxTracks.
type TrackCountError struct {
	Tracks int
}

func (e *TrackCountError) Error() string {
	return fmt.Sprintf("invalid track count %d (must be 1-%d)", e.Tracks, MaxTracks)
}

// Capacity returns the number of payload bytes that fit on tracks tracks.
func Capacity(tracks int) int {
	return tracks * DataPerTrack
}

// TracksNeeded returns the smallest track count that holds n payload bytes.
func TracksNeeded(n int) int {
	return (n + DataPerTrack - 1) / DataPerTrack
}

// SectorsUsed returns how many sectors carry at least one payload byte.
func SectorsUsed(n int) int {
	return (n + DataPerSector - 1) / DataPerSector
}

// LogicalSector returns the payload sector index stored in a physical slot.
func LogicalSector(track, slot int) int {
	return track*SectorsPerTrack + slot/2 + (slot%2)*(SectorsPerTrack/2)
}

// OverflowsCount reports whether n is too large for the 16-bit length field.
func OverflowsCount(n int) bool {
	return n > maxCount
}

// Encode builds the disk image for payload on tracks tracks. The result is always
// tracks*TrackSize bytes long.
func Encode(payload []byte, tracks int) ([]byte, error) {
	if tracks < 1 || tracks > MaxTracks {
		return nil, &TrackCountError{Tracks: tracks}
	}
	if len(payload) > Capacity(tracks) {
		return nil, &CapacityError{Size: len(payload), Tracks: tracks, TracksNeeded: TracksNeeded(len(payload))}
	}

	disk := make([]byte, tracks*TrackSize)
	count := uint16(len(payload) & maxCount)
	cursor := 0
	for track := 0; track < tracks; track++ {
		for pass := 0; pass < 2; pass++ {
			for s := pass; s < SectorsPerTrack; s += 2 {
				off := (track*SectorsPerTrack + s) * SectorSize
				putSector(disk[off:off+SectorSize], track, count, chunk(payload, cursor))
				cursor += DataPerSector
			}
		}
	}
	return disk, nil
}

// chunk returns up to DataPerSector payload bytes starting at off.
func chunk(payload []byte, off int) []byte {
	if off >= len(payload) {
		return nil
	}
	end := off + DataPerSector
	if end > len(payload) {
		end = len(payload)
	}
	return payload[off:end]
}

// putSector fills a zeroed sector record.
func putSector(sec []byte, track int, count uint16, data []byte) {
	sec[offSync] = byte(track) | syncBit
	binary.LittleEndian.PutUint16(sec[offCount:], count)
	copy(sec[offData:offMarker], data)
	sec[offMarker] = marker
	sec[offChecksum] = Sum(data)
}

// Sum is the 8-bit sum used as the sector checksum. Zero padding adds nothing.
func Sum(b []byte) byte {
	var s byte
	for _, v := range b {
		s += v
	}
	return s
}
