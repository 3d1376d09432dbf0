package libreorama

import (
	"os"
	"time"

	"github.com/creack/pty"
)

/*------------------------------------------------------------------
 *
 * Purpose:	A Transport backed by a pty pair, so the player's tick loop
 *		and transport write path can be exercised in tests without a
 *		real LOR controller attached to a serial port.
 *
 *------------------------------------------------------------------*/

type ptyTransport struct {
	master *os.File
	slave  *os.File
}

func newPtyTransport() (*ptyTransport, error) {
	master, slave, err := pty.Open()
	if err != nil {
		return nil, wrapErr(KindSystemError, "opening pty pair", err)
	}
	return &ptyTransport{master: master, slave: slave}, nil
}

func (p *ptyTransport) SetBaudrate(baud int) error {
	return nil // ptys have no line speed concept
}

func (p *ptyTransport) BlockingWrite(data []byte, timeout time.Duration) (int, error) {
	n, err := p.slave.Write(data)
	if err != nil {
		return n, wrapErr(KindTransportError, "pty write failed", err)
	}
	return n, nil
}

func (p *ptyTransport) Close() error {
	_ = p.slave.Close()
	return p.master.Close()
}
