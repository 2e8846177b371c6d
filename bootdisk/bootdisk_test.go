package bootdisk

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math/rand"
	"testing"
)

func sector(disk []byte, track, slot int) []byte {
	off := (track*SectorsPerTrack + slot) * SectorSize
	return disk[off : off+SectorSize]
}

func TestGeometry(t *testing.T) {
	if TrackSize != 4384 {
		t.Errorf("TrackSize = %d, want 4384", TrackSize)
	}
	if got := TracksMinidisk * TrackSize; got != 74528 {
		t.Errorf("minidisk image = %d bytes, want 74528", got)
	}
	if got := Tracks8Inch * TrackSize; got != 337568 {
		t.Errorf("8-inch image = %d bytes, want 337568", got)
	}
	if got := MaxTracks * TrackSize; got != 8167392 {
		t.Errorf("8 MB image = %d bytes, want 8167392", got)
	}
}

func TestEncodeTwoTracks(t *testing.T) {
	payload := make([]byte, DataPerSector*SectorsPerTrack*2)
	for i := range payload {
		payload[i] = byte(i / DataPerSector)
	}
	disk, err := Encode(payload, 2)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(disk) != 8768 {
		t.Fatalf("len = %d, want 8768", len(disk))
	}
	if got := sector(disk, 1, 0)[0]; got != 0x81 {
		t.Errorf("track 1 slot 0 sync = %02x, want 81", got)
	}
	if got := sector(disk, 0, 31)[0]; got != 0x80 {
		t.Errorf("track 0 slot 31 sync = %02x, want 80", got)
	}
	// slot 1 is the 17th sector written on track 0
	if got := sector(disk, 0, 1)[offData]; got != 16 {
		t.Errorf("track 0 slot 1 holds payload sector %d, want 16", got)
	}
	if got := sector(disk, 1, 2)[offData]; got != 33 {
		t.Errorf("track 1 slot 2 holds payload sector %d, want 33", got)
	}
}

func TestEncodeSectorFraming(t *testing.T) {
	payload := make([]byte, 5000)
	rand.New(rand.NewSource(3)).Read(payload)
	disk, err := Encode(payload, 3)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	for track := 0; track < 3; track++ {
		for slot := 0; slot < SectorsPerTrack; slot++ {
			sec := sector(disk, track, slot)
			if sec[offSync] != byte(track)|0x80 {
				t.Errorf("T%d S%d sync = %02x", track, slot, sec[offSync])
			}
			if n := binary.LittleEndian.Uint16(sec[offCount:]); n != 5000 {
				t.Errorf("T%d S%d count = %d, want 5000", track, slot, n)
			}
			if sec[offMarker] != 0xFF {
				t.Errorf("T%d S%d marker = %02x", track, slot, sec[offMarker])
			}
			var sum byte
			for _, b := range sec[offData:offMarker] {
				sum += b
			}
			if sec[offChecksum] != sum {
				t.Errorf("T%d S%d checksum = %02x, want %02x", track, slot, sec[offChecksum], sum)
			}
			if !bytes.Equal(sec[offChecksum+1:], make([]byte, 4)) {
				t.Errorf("T%d S%d spare bytes not zero", track, slot)
			}

			logical := LogicalSector(track, slot)
			want := make([]byte, DataPerSector)
			if start := logical * DataPerSector; start < len(payload) {
				copy(want, payload[start:])
			}
			if !bytes.Equal(sec[offData:offMarker], want) {
				t.Errorf("T%d S%d payload is not logical sector %d", track, slot, logical)
			}
		}
	}
}

func TestEncodeSingleByte(t *testing.T) {
	disk, err := Encode([]byte{0x42}, 1)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	first := sector(disk, 0, 0)
	if first[3] != 0x42 || first[offChecksum] != 0x42 {
		t.Errorf("slot 0 data/checksum = %02x/%02x, want 42/42", first[3], first[offChecksum])
	}
	if !bytes.Equal(first[4:offMarker], make([]byte, DataPerSector-1)) {
		t.Error("slot 0 padding not zero")
	}
	for slot := 1; slot < SectorsPerTrack; slot++ {
		sec := sector(disk, 0, slot)
		if !bytes.Equal(sec[offData:offMarker], make([]byte, DataPerSector)) {
			t.Errorf("slot %d payload not zero", slot)
		}
		if sec[offChecksum] != 0 {
			t.Errorf("slot %d checksum = %02x", slot, sec[offChecksum])
		}
	}
}

func TestEncodeCapacity(t *testing.T) {
	limit := Capacity(2)
	_, err := Encode(make([]byte, limit+1), 2)
	var ce *CapacityError
	if !errors.As(err, &ce) {
		t.Fatalf("Encode() error = %v, want *CapacityError", err)
	}
	if ce.TracksNeeded != 3 || ce.Tracks != 2 || ce.Size != limit+1 {
		t.Errorf("CapacityError = %+v", ce)
	}
	if _, err := Encode(make([]byte, limit), 2); err != nil {
		t.Errorf("Encode(at capacity) error = %v", err)
	}
	if _, err := Encode(make([]byte, limit-1), 2); err != nil {
		t.Errorf("Encode(below capacity) error = %v", err)
	}
}

func TestEncodeTrackCount(t *testing.T) {
	for _, n := range []int{0, -1, MaxTracks + 1} {
		var te *TrackCountError
		if _, err := Encode(nil, n); !errors.As(err, &te) {
			t.Errorf("Encode(nil, %d) error = %v, want *TrackCountError", n, err)
		}
	}
}

func TestEncodeEmptyPayload(t *testing.T) {
	disk, err := Encode(nil, 1)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	sec := sector(disk, 0, 5)
	if sec[0] != 0x80 || sec[1] != 0 || sec[2] != 0 || sec[offMarker] != 0xFF {
		t.Errorf("empty sector framing = % x", sec[:offData])
	}
}

func TestEncodeCountWraps(t *testing.T) {
	payload := make([]byte, 0x10000+0x123)
	if !OverflowsCount(len(payload)) {
		t.Fatal("OverflowsCount() = false")
	}
	disk, err := Encode(payload, TracksNeeded(len(payload)))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if n := binary.LittleEndian.Uint16(disk[offCount:]); n != 0x123 {
		t.Errorf("count = %#x, want 0x123", n)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	payload := make([]byte, 9000)
	rand.New(rand.NewSource(9)).Read(payload)
	a, err := Encode(payload, 4)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Encode(payload, 4)
	if !bytes.Equal(a, b) {
		t.Error("two encodings differ")
	}
}

func TestHelpers(t *testing.T) {
	tests := []struct {
		n               int
		tracks, sectors int
	}{
		{0, 0, 0},
		{1, 1, 1},
		{128, 1, 1},
		{129, 1, 2},
		{4096, 1, 32},
		{4097, 2, 33},
	}
	for _, tt := range tests {
		if got := TracksNeeded(tt.n); got != tt.tracks {
			t.Errorf("TracksNeeded(%d) = %d, want %d", tt.n, got, tt.tracks)
		}
		if got := SectorsUsed(tt.n); got != tt.sectors {
			t.Errorf("SectorsUsed(%d) = %d, want %d", tt.n, got, tt.sectors)
		}
	}
	if got := LogicalSector(0, 31); got != 31 {
		t.Errorf("LogicalSector(0, 31) = %d, want 31", got)
	}
	if got := LogicalSector(2, 3); got != 2*32+17 {
		t.Errorf("LogicalSector(2, 3) = %d, want %d", got, 2*32+17)
	}
}
