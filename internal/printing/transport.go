package printing

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/quanpos/api/internal/domain"
	"github.com/quanpos/api/internal/enum"
)

// NetworkPort is the well-known receipt-protocol-over-TCP port.
const NetworkPort = 9100

// Transport delivers one encoded payload to one device. Best-effort:
// callers get a single error and nothing is retried or queued.
type Transport interface {
	Send(ctx context.Context, payload []byte) error
}

// NewTransport picks the transport for a printer's kind.
func NewTransport(p domain.Printer, dialTimeout time.Duration) Transport {
	if p.Kind == enum.PrinterKindLocal {
		return &localTransport{device: p.Address}
	}
	addr := p.Address
	if !strings.Contains(addr, ":") {
		addr = net.JoinHostPort(addr, strconv.Itoa(NetworkPort))
	}
	return &netTransport{addr: addr, timeout: dialTimeout}
}

type netTransport struct {
	addr    string
	timeout time.Duration
}

func (t *netTransport) Send(ctx context.Context, payload []byte) error {
	d := net.Dialer{Timeout: t.timeout}
	conn, err := d.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", t.addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetWriteDeadline(deadline)
	} else {
		conn.SetWriteDeadline(time.Now().Add(t.timeout))
	}
	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("write %s: %w", t.addr, err)
	}
	return nil
}

// localTransport writes to a raw printer device node (e.g.
// /dev/usb/lp0). Opening, writing, and closing maps to the raw spooler
// job/page sequence; an error at any step fails the whole job.
type localTransport struct {
	device string
}

func (t *localTransport) Send(_ context.Context, payload []byte) error {
	f, err := os.OpenFile(t.device, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open device %s: %w", t.device, err)
	}
	defer f.Close()

	if _, err := f.Write(payload); err != nil {
		return fmt.Errorf("write device %s: %w", t.device, err)
	}
	return nil
}
