package libreorama

import (
	"strconv"
	"strings"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

/*------------------------------------------------------------------
 *
 * Purpose:	--start-gpio: block until a physical trigger line goes
 *		active before starting the show, a common rig for a
 *		standalone LOR controller box with a push-button front
 *		panel instead of a keyboard.
 *
 * Description:	Uses go-gpiocdev, a dependency the original repo declared
 *		(for output control lines) but never exercises as a
 *		blocking start condition.
 *
 *------------------------------------------------------------------*/

const gpioPollInterval = 20 * time.Millisecond

// AwaitGPIOStart parses a "<chip>:<line>" spec (e.g. "gpiochip0:17"),
// requests the line as an input, and blocks until it reads active.
func AwaitGPIOStart(spec string) error {
	chip, offset, err := parseGPIOSpec(spec)
	if err != nil {
		return err
	}

	line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsInput)
	if err != nil {
		return wrapErr(KindSystemError, "requesting gpio line", err)
	}
	defer line.Close()

	for {
		v, err := line.Value()
		if err != nil {
			return wrapErr(KindSystemError, "reading gpio line", err)
		}
		if v != 0 {
			return nil
		}
		time.Sleep(gpioPollInterval)
	}
}

func parseGPIOSpec(spec string) (string, int, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return "", 0, newErr(KindSystemError, "gpio spec must be <chip>:<line>")
	}

	offset, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, wrapErr(KindSystemError, "parsing gpio line offset", err)
	}

	return parts[0], offset, nil
}
