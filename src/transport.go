package libreorama

import (
	"time"

	"github.com/pkg/term"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Serial transport contract (§6): open, set_baudrate,
 *		blocking_write(timeout), close.
 *
 * Description:	Adapted from serial_port.go's term.Open/SetSpeed/Write/Close
 *		wrapper. The original's serial_port_write has no timeout
 *		concept. BlockingWrite takes a timeout argument and passes it
 *		to the port's read timeout; the write call itself is not
 *		bounded by it.
 *
 *------------------------------------------------------------------*/

// Transport is the serial transport contract the player writes tick
// payloads through.
type Transport interface {
	SetBaudrate(baud int) error
	BlockingWrite(data []byte, timeout time.Duration) (int, error)
	Close() error
}

// SerialTransport is a Transport backed by a real serial device.
type SerialTransport struct {
	fd *term.Term
}

// OpenSerialTransport opens devicename for writing at the given baud rate.
func OpenSerialTransport(devicename string, baud int) (*SerialTransport, error) {
	fd, err := term.Open(devicename, term.RawMode)
	if err != nil {
		return nil, wrapErr(KindSystemError, "opening serial port "+devicename, err)
	}

	t := &SerialTransport{fd: fd}
	if err := t.SetBaudrate(baud); err != nil {
		fd.Close()
		return nil, err
	}

	return t, nil
}

// SetBaudrate configures the line speed. 0 leaves the current speed alone.
func (t *SerialTransport) SetBaudrate(baud int) error {
	switch baud {
	case 0:
		return nil
	case 1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200:
		if err := t.fd.SetSpeed(baud); err != nil {
			return wrapErr(KindSystemError, "setting serial baud rate", err)
		}
		return nil
	default:
		return newErr(KindSystemError, "unsupported baud rate")
	}
}

// BlockingWrite writes data to the port, failing TransportError on a short
// write or a write error. timeout is applied with SetReadTimeout, which only
// bounds reads; the write blocks until the device accepts the data.
func (t *SerialTransport) BlockingWrite(data []byte, timeout time.Duration) (int, error) {
	if timeout > 0 {
		_ = t.fd.SetReadTimeout(timeout)
	}

	n, err := t.fd.Write(data)
	if err != nil {
		return n, wrapErr(KindTransportError, "serial write failed", err)
	}
	if n != len(data) {
		return n, newErr(KindTransportError, "serial short write")
	}

	return n, nil
}

// Close releases the underlying device.
func (t *SerialTransport) Close() error {
	return t.fd.Close()
}
