package libreorama

import (
	"fmt"
	"io"

	"github.com/jochenvg/go-udev"
)

/*------------------------------------------------------------------
 *
 * Purpose:	--list-devices: enumerate candidate serial devices so an
 *		operator can pick the <serial port name> CLI argument.
 *
 * Description:	LOR USB adapters commonly enumerate as ttyUSB* or ttyACM* with
 *		a vendor string attached by udev. Uses go-udev, a dependency
 *		the original repo declared (for GPS device discovery) but
 *		never exercises the tty subsystem with.
 *
 *------------------------------------------------------------------*/

// ListSerialDevices writes one line per tty-subsystem device node found by
// udev to w, annotated with vendor/model/serial properties when present.
func ListSerialDevices(w io.Writer) error {
	u := udev.Udev{}
	e := u.NewEnumerate()

	if err := e.AddMatchSubsystem("tty"); err != nil {
		return wrapErr(KindSystemError, "matching tty subsystem", err)
	}

	devices, err := e.Devices()
	if err != nil {
		return wrapErr(KindSystemError, "enumerating udev devices", err)
	}

	for _, d := range devices {
		node := d.Devnode()
		if node == "" {
			continue
		}

		vendor := d.PropertyValue("ID_VENDOR")
		model := d.PropertyValue("ID_MODEL")
		serial := d.PropertyValue("ID_SERIAL_SHORT")

		fmt.Fprintf(w, "%s", node)
		if vendor != "" || model != "" {
			fmt.Fprintf(w, "  [%s %s]", vendor, model)
		}
		if serial != "" {
			fmt.Fprintf(w, " serial=%s", serial)
		}
		fmt.Fprintln(w)
	}

	return nil
}
