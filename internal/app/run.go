// Package app contains the top-level orchestration of the bridge.
package app

import (
	"context"
	"fmt"

	"github.com/sliptun/sliptun/internal/bridge"
	"github.com/sliptun/sliptun/internal/config"
	"github.com/sliptun/sliptun/internal/link"
	"github.com/sliptun/sliptun/internal/transport"
	"github.com/sliptun/sliptun/internal/tun"
	"github.com/sliptun/sliptun/internal/util"
)

// Run sets up the tunnel interface and the transport opener, then hands
// control to the bridge supervisor until ctx is cancelled or a fatal
// error occurs:
//  1. Create the TUN interface (lives for the whole process)
//  2. Assign the point-to-point addresses
//  3. Build the transport opener for the configured kind
//  4. Start the stats reporter
//  5. Run the supervisor loop
func Run(ctx context.Context, cfg *config.Config) error {
	// ── 1. Tunnel interface ────────────────────────────────────────────
	dev, err := tun.Open()
	if err != nil {
		return fmt.Errorf("unable to create tunnel interface (are you root?): %w", err)
	}
	defer dev.Close()
	util.LogInfo("Created %s", dev.Name())

	// ── 2. Addressing ──────────────────────────────────────────────────
	if err := dev.Configure(cfg.LocalIP, cfg.RemoteIP, link.MTU); err != nil {
		return fmt.Errorf("configure %s: %w", dev.Name(), err)
	}
	util.LogInfo("%s: %s -> %s", dev.Name(), cfg.LocalIP, cfg.RemoteIP)

	// ── 3. Transport opener ────────────────────────────────────────────
	opener := transport.NewOpener(cfg)
	defer opener.Close()

	// ── 4. Stats reporter ──────────────────────────────────────────────
	util.StartStatsReporter(ctx)

	// ── 5. Supervisor ──────────────────────────────────────────────────
	return bridge.New(dev, opener.Open).Run(ctx)
}
