package main

import (
	"encoding/binary"
	"testing"
)

// buildArtDmx assembles an ArtDmx packet the way senders put it on the wire.
func buildArtDmx(universe int, seq byte, data []byte) []byte {
	pkt := make([]byte, artDmxHeaderLen+len(data))
	copy(pkt, artNetID)
	binary.LittleEndian.PutUint16(pkt[8:10], opDmx)
	binary.BigEndian.PutUint16(pkt[10:12], artProtVersion)
	pkt[12] = seq
	pkt[14] = byte(universe)
	pkt[15] = byte(universe >> 8)
	binary.BigEndian.PutUint16(pkt[16:18], uint16(len(data)))
	copy(pkt[artDmxHeaderLen:], data)
	return pkt
}

func buildArtSync() []byte {
	pkt := make([]byte, 14)
	copy(pkt, artNetID)
	binary.LittleEndian.PutUint16(pkt[8:10], opSync)
	binary.BigEndian.PutUint16(pkt[10:12], artProtVersion)
	return pkt
}

func buildArtPoll() []byte {
	pkt := make([]byte, 14)
	copy(pkt, artNetID)
	binary.LittleEndian.PutUint16(pkt[8:10], opPoll)
	binary.BigEndian.PutUint16(pkt[10:12], artProtVersion)
	return pkt
}

func TestParseArtDmx(t *testing.T) {
	data := make([]byte, 510)
	data[0] = 0xAA
	data[509] = 0x55
	frame, err := parseArtDmx(buildArtDmx(0x105, 7, data))
	if err != nil {
		t.Fatalf("parseArtDmx: %v", err)
	}
	if frame.Universe != 0x105 {
		t.Fatalf("universe = %d, want %d", frame.Universe, 0x105)
	}
	if frame.Sequence != 7 {
		t.Fatalf("sequence = %d, want 7", frame.Sequence)
	}
	if len(frame.Data) != 510 || frame.Data[0] != 0xAA || frame.Data[509] != 0x55 {
		t.Fatalf("data mangled: len=%d", len(frame.Data))
	}
}

func TestParseArtDmxRejects(t *testing.T) {
	good := buildArtDmx(0, 1, make([]byte, 6))

	short := good[:10]
	if _, err := parseArtDmx(short); err == nil {
		t.Fatal("short packet accepted")
	}

	oldRev := append([]byte(nil), good...)
	binary.BigEndian.PutUint16(oldRev[10:12], 13)
	if _, err := parseArtDmx(oldRev); err == nil {
		t.Fatal("old protocol revision accepted")
	}

	zeroLen := append([]byte(nil), good...)
	binary.BigEndian.PutUint16(zeroLen[16:18], 0)
	if _, err := parseArtDmx(zeroLen); err == nil {
		t.Fatal("zero-length DMX accepted")
	}

	truncated := append([]byte(nil), good...)
	binary.BigEndian.PutUint16(truncated[16:18], 512)
	if _, err := parseArtDmx(truncated); err == nil {
		t.Fatal("truncated DMX accepted")
	}
}

func TestParseOpcodeRejectsBadID(t *testing.T) {
	pkt := buildArtPoll()
	pkt[0] = 'X'
	if _, err := parseOpcode(pkt); err == nil {
		t.Fatal("bad packet ID accepted")
	}
}

func TestReceiverStreamingFlip(t *testing.T) {
	netStats.reset()
	r := newRaster(4, 4, 4)
	rx := &artNetReceiver{raster: r}

	data := make([]byte, 4*4*4*3)
	data[0] = 255
	rx.handle(buildArtDmx(0, 1, data), nil)

	// Single-universe raster: the frame publishes immediately.
	if c := r.at(0, 0, 0); c != (rgb{255, 0, 0}) {
		t.Fatalf("voxel (0,0,0) = %+v, want red", c)
	}
	if _, frames, _ := netStats.snapshot(); frames != 1 {
		t.Fatalf("frames = %d, want 1", frames)
	}
}

func TestReceiverSyncMode(t *testing.T) {
	netStats.reset()
	// 10x10x3 = 300 voxels, two universes.
	r := newRaster(10, 10, 3)
	rx := &artNetReceiver{raster: r}
	rx.handle(buildArtSync(), nil)

	data := make([]byte, channelsPerUniverse)
	data[0] = 200
	rx.handle(buildArtDmx(0, 1, data), nil)
	if c := r.at(0, 0, 0); c != (rgb{}) {
		t.Fatalf("frame published before ArtSync: %+v", c)
	}

	rx.handle(buildArtSync(), nil)
	if c := r.at(0, 0, 0); c != (rgb{200, 0, 0}) {
		t.Fatalf("voxel after ArtSync = %+v, want {200 0 0}", c)
	}
	if _, frames, _ := netStats.snapshot(); frames != 1 {
		t.Fatalf("frames = %d, want 1", frames)
	}
}

func TestReceiverLastUniverseFlips(t *testing.T) {
	netStats.reset()
	r := newRaster(10, 10, 3)
	rx := &artNetReceiver{raster: r}

	first := make([]byte, channelsPerUniverse)
	first[0] = 11
	rx.handle(buildArtDmx(0, 1, first), nil)
	if c := r.at(0, 0, 0); c != (rgb{}) {
		t.Fatalf("frame published before last universe: %+v", c)
	}

	second := make([]byte, (300-voxelsPerUniverse)*3)
	rx.handle(buildArtDmx(1, 2, second), nil)
	if c := r.at(0, 0, 0); c != (rgb{11, 0, 0}) {
		t.Fatalf("voxel after last universe = %+v, want {11 0 0}", c)
	}
}

func TestBuildPollReply(t *testing.T) {
	reply := buildPollReply(6454)
	if got := string(reply[:8]); got != string(artNetID) {
		t.Fatalf("reply ID = %q", got)
	}
	if op := binary.LittleEndian.Uint16(reply[8:10]); op != opPollReply {
		t.Fatalf("opcode = 0x%04x, want 0x%04x", op, opPollReply)
	}
	if port := binary.LittleEndian.Uint16(reply[14:16]); port != 6454 {
		t.Fatalf("port = %d, want 6454", port)
	}
	if got := string(reply[26:31]); got != "govox" {
		t.Fatalf("short name = %q, want govox", got)
	}
}

func TestReceiverAnswersPoll(t *testing.T) {
	r := newRaster(4, 4, 4)
	rx := &artNetReceiver{raster: r}

	var sent [][]byte
	rx.handle(buildArtPoll(), func(p []byte) { sent = append(sent, p) })
	if len(sent) != 1 {
		t.Fatalf("poll sent %d replies, want 1", len(sent))
	}
	if op := binary.LittleEndian.Uint16(sent[0][8:10]); op != opPollReply {
		t.Fatalf("reply opcode = 0x%04x, want ArtPollReply", op)
	}

	// Replay path has no return channel and must not panic.
	rx.handle(buildArtPoll(), nil)
}
