// sliptun bridges a TUN interface and a byte transport (serial line,
// unix stream socket, or websocket) using SLIP framing, reconnecting
// the transport automatically when it drops.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/sliptun/sliptun/internal/app"
	"github.com/sliptun/sliptun/internal/config"
	"github.com/sliptun/sliptun/internal/util"
)

func main() {
	var (
		localIP  = flag.String("l", "", "local point-to-point IP address (required)")
		remoteIP = flag.String("r", "", "remote point-to-point IP address (required)")
		baud     = flag.Int("b", config.DefaultBaud, "serial baud rate (4800, 9600, 19200, 38400, 115200)")
		kind     = flag.String("t", "h", "transport kind: h (serial), c (socket client), s (socket server), ws (websocket)")
		verbose  = flag.Bool("v", false, "enable debug logging")
	)
	flag.Usage = usage
	flag.Parse()

	if *verbose {
		util.EnableDebug()
	}

	transportKind, err := config.ParseTransportKind(*kind)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		usage()
		os.Exit(1)
	}

	cfg := &config.Config{
		Device:   flag.Arg(0),
		LocalIP:  *localIP,
		RemoteIP: *remoteIP,
		Baud:     config.NormalizeBaud(*baud),
		Kind:     transportKind,
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		usage()
		os.Exit(1)
	}

	// Root context — cancelled on Ctrl+C.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(ctx, cfg); err != nil {
		util.LogError("%v", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s -l local_ip -r remote_ip [-b baud] [-t type] [-v] device\n", os.Args[0])
	flag.PrintDefaults()
}
