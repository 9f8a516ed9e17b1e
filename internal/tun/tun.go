// Package tun provides the tunnel side of the bridge: a TUN interface
// whose reads and writes are whole link frames (null/loopback header
// plus IP packet), plus point-to-point address assignment.
package tun

import (
	"fmt"
	"os/exec"
	"runtime"
	"strconv"

	"github.com/songgao/water"

	"github.com/sliptun/sliptun/internal/link"
	"github.com/sliptun/sliptun/internal/util"
)

// Device is a TUN interface speaking link frames. It is created once
// and lives for the whole process; only the transport side reconnects.
type Device struct {
	iface *water.Interface
	name  string
}

// Open creates a new TUN interface. The kernel picks the unit number.
func Open() (*Device, error) {
	iface, err := water.New(water.Config{DeviceType: water.TUN})
	if err != nil {
		return nil, fmt.Errorf("create tun device: %w", err)
	}
	return &Device{iface: iface, name: iface.Name()}, nil
}

// Name returns the interface name (e.g. tun0, utun3).
func (d *Device) Name() string {
	return d.name
}

// Configure assigns the point-to-point address pair, sets the MTU, and
// brings the interface up. Failure here is fatal to startup: it means
// an environment or permissions problem, not a transient condition.
func (d *Device) Configure(localIP, remoteIP string, mtu int) error {
	var cmds [][]string
	switch runtime.GOOS {
	case "darwin":
		cmds = [][]string{
			{"ifconfig", d.name, localIP, remoteIP, "mtu", strconv.Itoa(mtu), "up"},
		}
	default:
		cmds = [][]string{
			{"ip", "addr", "add", localIP, "peer", remoteIP, "dev", d.name},
			{"ip", "link", "set", "dev", d.name, "mtu", strconv.Itoa(mtu), "up"},
		}
	}

	for _, argv := range cmds {
		util.LogDebug("running: %v", argv)
		out, err := exec.Command(argv[0], argv[1:]...).CombinedOutput()
		if err != nil {
			return fmt.Errorf("%v: %w (%s)", argv, err, out)
		}
	}
	return nil
}

// ReadFrame reads one link frame into buf, which must hold at least
// link.MaxFrameSize bytes, and returns its length. The TUN read yields
// exactly one IP packet; the header is synthesized in front of it.
func (d *Device) ReadFrame(buf []byte) (int, error) {
	n, err := d.iface.Read(buf[link.HeaderSize:])
	if err != nil {
		return 0, err
	}
	link.PutHeader(buf)
	return link.HeaderSize + n, nil
}

// WriteFrame writes one link frame's packet to the interface.
func (d *Device) WriteFrame(frame []byte) error {
	packet, err := link.Payload(frame)
	if err != nil {
		return err
	}
	_, err = d.iface.Write(packet)
	return err
}

// Close tears down the interface.
func (d *Device) Close() error {
	return d.iface.Close()
}
