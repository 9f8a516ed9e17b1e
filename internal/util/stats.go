package util

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/pterm/pterm"
)

// ──────────────────────────────────────────────────────────────────────────────
// Global stats singleton
// ──────────────────────────────────────────────────────────────────────────────

// Stats is the process-wide traffic counter.
var Stats = &stats{}

type stats struct {
	FramesTx   atomic.Int64 // frames written to the transport
	FramesRx   atomic.Int64 // frames delivered to the tunnel
	BytesTx    atomic.Int64 // encoded bytes written to the transport
	BytesRx    atomic.Int64 // decoded bytes delivered to the tunnel
	Dropped    atomic.Int64 // outbound frames dropped on transport write failure
	Reconnects atomic.Int64 // transport reconnections since process start
}

func (s *stats) AddTx(n int)   { s.FramesTx.Add(1); s.BytesTx.Add(int64(n)) }
func (s *stats) AddRx(n int)   { s.FramesRx.Add(1); s.BytesRx.Add(int64(n)) }
func (s *stats) AddDropped()   { s.Dropped.Add(1) }
func (s *stats) AddReconnect() { s.Reconnects.Add(1) }

// ──────────────────────────────────────────────────────────────────────────────
// Periodic reporter
// ──────────────────────────────────────────────────────────────────────────────

// StartStatsReporter launches a goroutine that logs link statistics
// every 10 seconds while there is traffic. It stops when ctx is cancelled.
func StartStatsReporter(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()

		var prevTx, prevRx, prevDrop int64
		for {
			select {
			case <-ticker.C:
				tx := Stats.BytesTx.Load()
				rx := Stats.BytesRx.Load()
				drop := Stats.Dropped.Load()

				txS := float64(tx-prevTx) / 10.0
				rxS := float64(rx-prevRx) / 10.0
				dropped := drop - prevDrop

				if txS > 0 || rxS > 0 || dropped > 0 {
					pterm.DefaultLogger.Info(formatStats(txS, rxS, dropped))
				}

				prevTx = tx
				prevRx = rx
				prevDrop = drop

			case <-ctx.Done():
				return
			}
		}
	}()
}

// byteUnits defines the units for formatting byte counts in a human-readable way.
var byteUnits = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB"}

// formatBytes formats a byte count into a human-readable string with fixed width (exactly 8 chars)
// for example: "99.0   B", " 1.5 KiB", " 0.1 MiB", "98.9 GiB", etc.
func formatBytes(b float64) string {
	unitIdx := 0

	// to prevent "100.0 KiB", which is 9 chars
	for b > 99 && unitIdx < 5 {
		b /= 1024
		unitIdx++
	}

	return fmt.Sprintf("%4.1f %3s", b, byteUnits[unitIdx])
}

// formatStats returns a formatted string of the current stats for display in the logger.
func formatStats(txS, rxS float64, dropped int64) string {
	return fmt.Sprintf("TX: %s/s | RX: %s/s | dropped: %d",
		formatBytes(txS),
		formatBytes(rxS),
		dropped,
	)
}
