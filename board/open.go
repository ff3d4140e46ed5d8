package board

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
	"tinygo.org/x/drivers"
)

// OpenBus resolves a bus path:
//
//	usb[:index]   MCP2221A USB-I2C bridge, first one by default
//	anything else periph.io I2C bus name ("1", "/dev/i2c-2", "" for the first bus)
func OpenBus(path string) (bus drivers.I2C, err error) {
	parts := strings.Split(path, ":")

	if parts[0] == "usb" {
		index := 0
		if len(parts) > 1 && parts[1] != "" {
			if index, err = strconv.Atoi(parts[1]); err != nil {
				return nil, &RangeError{Param: "bridge index", Value: parts[1]}
			}
		}
		m, err := OpenMCP2221A(index)
		if err != nil {
			err = &TransportError{Op: "open", Err: err}
			log.Error(err)
			return nil, err
		}
		return m, nil
	}

	if _, err = host.Init(); err != nil {
		err = &TransportError{Op: "open", Err: errors.Wrap(err, "could not init host")}
		log.Error(err)
		return nil, err
	}

	b, err := i2creg.Open(path)
	if err != nil {
		err = &TransportError{Op: "open", Err: errors.Wrapf(err, "could not open bus '%s'", path)}
		log.Error(err)
		return nil, err
	}
	log.Debugf("Opened I2C bus %s", b)
	return b, nil
}

// Open binds the bus at path to the controller at addr. Failing here is the
// only fatal condition for a session.
func Open(path string, addr uint16, opts ...Option) (res *Board, err error) {
	if err = CheckAddress(addr); err != nil {
		return nil, err
	}

	bus, err := OpenBus(path)
	if err != nil {
		return nil, err
	}

	return New(NewTransport(bus, addr), opts...), nil
}
