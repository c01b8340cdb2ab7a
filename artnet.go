package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"time"

	"golang.org/x/time/rate"
)

// Art-Net II constants. Opcodes are little-endian on the wire; everything
// else in the header is big-endian.
const (
	artNetPort     = 6454
	artProtVersion = 14

	opPoll      = 0x2000
	opPollReply = 0x2100
	opDmx       = 0x5000
	opSync      = 0x5200

	artDmxHeaderLen = 18
)

var artNetID = []byte("Art-Net\x00")

// dmxFrame is one decoded ArtDmx packet.
type dmxFrame struct {
	Sequence byte
	Universe int
	Data     []byte
}

// badPacketLimiter keeps malformed-traffic warnings from flooding the log
// when something else is broadcasting on the Art-Net port.
var badPacketLimiter = rate.NewLimiter(rate.Every(time.Second), 3)

func logBadPacket(pkt []byte, format string, v ...interface{}) {
	if badPacketLimiter.Allow() {
		logWarn(format, v...)
	}
	logDebugPacket("bad artnet", pkt)
}

// parseOpcode validates the packet preamble and returns the opcode.
func parseOpcode(pkt []byte) (uint16, error) {
	if len(pkt) < 10 {
		return 0, fmt.Errorf("short packet: %d bytes", len(pkt))
	}
	for i, b := range artNetID {
		if pkt[i] != b {
			return 0, fmt.Errorf("bad packet ID")
		}
	}
	return binary.LittleEndian.Uint16(pkt[8:10]), nil
}

// parseArtDmx decodes an ArtDmx packet body. The universe is the 15-bit
// port address: SubUni in the low byte, Net in the high byte.
func parseArtDmx(pkt []byte) (dmxFrame, error) {
	if len(pkt) < artDmxHeaderLen {
		return dmxFrame{}, fmt.Errorf("short ArtDmx: %d bytes", len(pkt))
	}
	if v := binary.BigEndian.Uint16(pkt[10:12]); v < artProtVersion {
		return dmxFrame{}, fmt.Errorf("protocol revision %d too old", v)
	}
	universe := int(pkt[14]) | int(pkt[15])<<8
	length := int(binary.BigEndian.Uint16(pkt[16:18]))
	if length == 0 || length > 512 {
		return dmxFrame{}, fmt.Errorf("bad DMX length %d", length)
	}
	if len(pkt) < artDmxHeaderLen+length {
		return dmxFrame{}, fmt.Errorf("truncated ArtDmx: have %d channels, want %d", len(pkt)-artDmxHeaderLen, length)
	}
	return dmxFrame{
		Sequence: pkt[12],
		Universe: universe,
		Data:     pkt[artDmxHeaderLen : artDmxHeaderLen+length],
	}, nil
}

// buildPollReply constructs the ArtPollReply govox answers ArtPoll with.
// The reply carries the listen port and the node name; fields a software
// node has no value for (MAC, bind address) stay zero.
func buildPollReply(port int) []byte {
	buf := make([]byte, 239)
	copy(buf, artNetID)
	binary.LittleEndian.PutUint16(buf[8:10], opPollReply)
	// Port number is little-endian in ArtPollReply, unlike the rest.
	binary.LittleEndian.PutUint16(buf[14:16], uint16(port))
	copy(buf[26:], "govox")
	copy(buf[44:], "govox volumetric display simulator")
	return buf
}

// artNetReceiver folds decoded packets into the raster. In streaming mode
// (no ArtSync seen) the frame is published when the last universe of the
// raster arrives; once a sender issues ArtSync, publishing happens only on
// ArtSync so multi-universe frames flip atomically.
type artNetReceiver struct {
	raster   *raster
	syncMode bool
	dirty    bool
}

// handle processes one Art-Net payload. The reply callback, when non-nil,
// receives packets to send back to the source (pcap replay passes nil).
func (rx *artNetReceiver) handle(pkt []byte, reply func([]byte)) {
	op, err := parseOpcode(pkt)
	if err != nil {
		logBadPacket(pkt, "artnet: %v", err)
		return
	}
	switch op {
	case opDmx:
		frame, err := parseArtDmx(pkt)
		if err != nil {
			logBadPacket(pkt, "artnet: %v", err)
			return
		}
		logDebug("artnet dmx seq=%d universe=%d len=%d", frame.Sequence, frame.Universe, len(frame.Data))
		if !rx.raster.setUniverse(frame.Universe, frame.Data) {
			logDebug("artnet dmx universe %d outside raster", frame.Universe)
			return
		}
		rx.dirty = true
		if !rx.syncMode && frame.Universe == rx.raster.universeCount()-1 {
			rx.publish()
		}
	case opSync:
		rx.syncMode = true
		rx.publish()
	case opPoll:
		logDebug("artnet poll")
		if reply != nil {
			reply(buildPollReply(gs.ListenPort))
		}
	default:
		logDebug("artnet opcode 0x%04x ignored", op)
	}
}

func (rx *artNetReceiver) publish() {
	if !rx.dirty {
		return
	}
	rx.raster.flip()
	rx.dirty = false
	netStats.addFrame()
}

// listenArtNet receives Art-Net UDP packets until ctx is cancelled.
func listenArtNet(ctx context.Context, port int, r *raster) error {
	pc, err := net.ListenPacket("udp", fmt.Sprintf(":%d", port))
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		pc.Close()
	}()
	logInfo("listening for Art-Net on udp port %d (%d universes)", port, r.universeCount())

	rx := &artNetReceiver{raster: r}
	buf := make([]byte, 2048)
	for {
		n, addr, err := pc.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		netStats.addPacket(n)
		rx.handle(buf[:n], func(reply []byte) {
			if _, err := pc.WriteTo(reply, addr); err != nil {
				logDebug("artnet poll reply: %v", err)
			}
		})
	}
}
