// Package board talks to the AndiceLabs power controller (PowerCape, PowerHAT
// and Power Module) over I2C: single register access, the command register
// protocol on top of it and the bootloader used to replace the controller's
// firmware.
package board

import (
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DEFAULT_ADDRESS uint16 = 0x60
	ADDRESS_MIN     uint16 = 0x08
	ADDRESS_MAX     uint16 = 0x77
)

// Board is one session with one controller. All calls block until the bus
// transfers are done. A Board must not be shared between goroutines.
type Board struct {
	t      *Transport
	config Config
	sleep  func(time.Duration)
}

func New(t *Transport, opts ...Option) *Board {
	if t == nil {
		panic("transport cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Board{
		t:      t,
		config: cfg,
		sleep:  time.Sleep,
	}
}

func (b *Board) Transport() *Transport {
	return b.t
}

func (b *Board) SetShowInOut(show bool) {
	b.t.SetShowInOut(show)
}

func (b *Board) Close() error {
	log.Debugln("Closing power controller session")
	return b.t.Close()
}

// CheckAddress validates a 7-bit I2C target address.
func CheckAddress(addr uint16) error {
	if addr < ADDRESS_MIN || addr > ADDRESS_MAX {
		return &RangeError{Param: "I2C address", Value: addr, Min: ADDRESS_MIN, Max: ADDRESS_MAX}
	}
	return nil
}
