package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// replayPCAP feeds captured Art-Net UDP traffic into the raster, reproducing
// the original inter-packet timing. Ebiten must be running before frames are
// published, so wait for the game to start before opening the capture.
// Propagate context cancellation so that shutdown does not deadlock while
// waiting.
func replayPCAP(ctx context.Context, path string, r *raster) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	select {
	case <-gameStarted:
	case <-ctx.Done():
		return ctx.Err()
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var source *gopacket.PacketSource
	if ng, err := pcapgo.NewNgReader(f, pcapgo.NgReaderOptions{}); err == nil {
		source = gopacket.NewPacketSource(ng, ng.LinkType())
	} else {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return err
		}
		pr, err := pcapgo.NewReader(f)
		if err != nil {
			return err
		}
		source = gopacket.NewPacketSource(pr, pr.LinkType())
	}

	rx := &artNetReceiver{raster: r}
	var prevTS time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		pkt, err := source.NextPacket()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		ts := pkt.Metadata().CaptureInfo.Timestamp
		if !prevTS.IsZero() {
			if d := ts.Sub(prevTS); d > 0 {
				time.Sleep(d)
			}
		}
		prevTS = ts

		udp, ok := pkt.TransportLayer().(*layers.UDP)
		if !ok {
			continue
		}
		// The capture may hold unrelated traffic; only the Art-Net port
		// is replayed.
		if int(udp.DstPort) != gs.ListenPort && int(udp.DstPort) != artNetPort {
			continue
		}
		netStats.addPacket(len(udp.Payload))
		rx.handle(udp.Payload, nil)
	}
}
