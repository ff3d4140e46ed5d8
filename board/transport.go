package board

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"tinygo.org/x/drivers"
)

// Transport is the exclusive binding of one I2C bus to one target address.
// Every frame is a single bus transaction, either all bytes move or the call
// fails. There are no retries at this level.
type Transport struct {
	bus    drivers.I2C
	addr   uint16
	closer io.Closer

	showInOut bool
}

// NewTransport binds bus to the 7-bit target address addr. If bus also
// implements io.Closer it is closed together with the transport.
func NewTransport(bus drivers.I2C, addr uint16) *Transport {
	t := &Transport{bus: bus, addr: addr}
	if c, ok := bus.(io.Closer); ok {
		t.closer = c
	}
	return t
}

func (t *Transport) Address() uint16 {
	return t.addr
}

// SetShowInOut dumps every frame to stdout when enabled.
func (t *Transport) SetShowInOut(show bool) {
	t.showInOut = show
}

func (t *Transport) Write(p []byte) (err error) {
	if t.showInOut {
		fmt.Printf("Out: % #x\n", p)
	}
	if err = t.bus.Tx(t.addr, p, nil); err != nil {
		err = &TransportError{Op: "write", Len: len(p), Err: err}
		log.WithField("addr", fmt.Sprintf("%#02x", t.addr)).Error(err)
	}
	return err
}

func (t *Transport) Read(p []byte) (err error) {
	if err = t.bus.Tx(t.addr, nil, p); err != nil {
		err = &TransportError{Op: "read", Len: len(p), Err: err}
		log.WithField("addr", fmt.Sprintf("%#02x", t.addr)).Error(err)
		return err
	}
	if t.showInOut {
		fmt.Printf("In: % #x\n", p)
	}
	return nil
}

func (t *Transport) Close() (err error) {
	log.Debugf("Closing I2C transport for address %#02x", t.addr)
	if t.closer != nil {
		err = t.closer.Close()
		t.closer = nil
	}
	return err
}
