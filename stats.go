package main

import (
	"sync"
	"time"
)

// rxStats tracks receiver activity for the overlay.
type rxStats struct {
	mu      sync.Mutex
	packets uint64
	frames  uint64
	bytes   uint64
}

// netStats is shared by the listener, the pcap replayer and the renderer.
var netStats rxStats

var startTime = time.Now()

func (s *rxStats) addPacket(n int) {
	s.mu.Lock()
	s.packets++
	s.bytes += uint64(n)
	s.mu.Unlock()
}

func (s *rxStats) addFrame() {
	s.mu.Lock()
	s.frames++
	s.mu.Unlock()
}

func (s *rxStats) snapshot() (packets, frames, bytes uint64) {
	s.mu.Lock()
	packets, frames, bytes = s.packets, s.frames, s.bytes
	s.mu.Unlock()
	return
}

func (s *rxStats) reset() {
	s.mu.Lock()
	s.packets, s.frames, s.bytes = 0, 0, 0
	s.mu.Unlock()
}
