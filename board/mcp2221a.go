package board

import (
	"time"

	"github.com/karalabe/hid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"tinygo.org/x/drivers"
)

// MCP2221A USB-HID to I2C bridge. Only the I2C engine is used, every
// command and response is a 64 byte HID report.
const (
	MCP2221A_VID uint16 = 0x04d8
	MCP2221A_PID uint16 = 0x00dd

	mcpMsgSize = 64
	mcpI2CMax  = 60 // payload bytes per HID report

	mcpCmdStatus         byte = 0x10
	mcpCmdI2CWrite       byte = 0x90
	mcpCmdI2CRead        byte = 0x91
	mcpCmdI2CReadGetData byte = 0x40

	mcpStateIdle        byte = 0x00
	mcpStateAddrNACK    byte = 0x25
	mcpStatePartialData byte = 0x41
	mcpStateReadError   byte = 0x7f

	mcpRetries    = 50
	mcpRetryDelay = 300 * time.Microsecond
)

var eNoBridge = errors.New("no MCP2221A USB-I2C bridge found")

type hidDevice interface {
	Write(b []byte) (int, error)
	Read(b []byte) (int, error)
	Close() error
}

// MCP2221A drives an I2C bus through the bridge.
type MCP2221A struct {
	dev   hidDevice
	sleep func(time.Duration)
}

var _ drivers.I2C = (*MCP2221A)(nil)

// OpenMCP2221A opens the index-th attached bridge.
func OpenMCP2221A(index int) (res *MCP2221A, err error) {
	devices := hid.Enumerate(MCP2221A_VID, MCP2221A_PID)
	if index < 0 || index >= len(devices) {
		return nil, errors.Wrapf(eNoBridge, "index %d, %d attached", index, len(devices))
	}
	dev, err := devices[index].Open()
	if err != nil {
		return nil, errors.Wrap(err, "open MCP2221A")
	}
	log.Debugf("Opened MCP2221A bridge '%s' (serial %s)", devices[index].Product, devices[index].Serial)
	return newMCP2221A(dev), nil
}

func newMCP2221A(dev hidDevice) *MCP2221A {
	return &MCP2221A{dev: dev, sleep: time.Sleep}
}

func (m *MCP2221A) Close() error {
	return m.dev.Close()
}

// exchange transmits one command report and returns the matching response report.
func (m *MCP2221A) exchange(cmd byte, msg []byte) (rsp []byte, err error) {
	msg[0] = cmd
	if _, err = m.dev.Write(msg); err != nil {
		return nil, errors.Wrapf(err, "write report %#02x", cmd)
	}
	rsp = make([]byte, mcpMsgSize)
	n, err := m.dev.Read(rsp)
	if err != nil {
		return nil, errors.Wrapf(err, "read report %#02x", cmd)
	}
	if n < mcpMsgSize {
		return rsp, errors.Errorf("report %#02x: short read (%d of %d bytes)", cmd, n, mcpMsgSize)
	}
	if rsp[0] != cmd {
		return rsp, errors.Errorf("report %#02x: unexpected response %#02x", cmd, rsp[0])
	}
	return rsp, nil
}

// send is exchange for commands that must be acknowledged with a zero status.
func (m *MCP2221A) send(cmd byte, msg []byte) (rsp []byte, err error) {
	if rsp, err = m.exchange(cmd, msg); err != nil {
		return rsp, err
	}
	if rsp[1] != 0x00 {
		return rsp, errors.Errorf("report %#02x: command failed (%#02x)", cmd, rsp[1])
	}
	return rsp, nil
}

func (m *MCP2221A) i2cState() (state byte, err error) {
	rsp, err := m.send(mcpCmdStatus, make([]byte, mcpMsgSize))
	if err != nil {
		return 0, err
	}
	return rsp[8], nil
}

// cancel aborts a transfer left hanging by a previous failure.
func (m *MCP2221A) cancel() error {
	msg := make([]byte, mcpMsgSize)
	msg[2] = 0x10
	_, err := m.send(mcpCmdStatus, msg)
	m.sleep(mcpRetryDelay)
	return err
}

func (m *MCP2221A) prepare() error {
	state, err := m.i2cState()
	if err != nil {
		return err
	}
	if state != mcpStateIdle {
		return m.cancel()
	}
	return nil
}

func (m *MCP2221A) write(addr uint16, p []byte) error {
	if len(p) > mcpI2CMax {
		return errors.Errorf("frame of %d bytes exceeds bridge limit of %d", len(p), mcpI2CMax)
	}
	if err := m.prepare(); err != nil {
		return err
	}

	msg := make([]byte, mcpMsgSize)
	msg[1] = byte(len(p))
	msg[2] = byte(len(p) >> 8)
	msg[3] = byte(addr << 1)
	copy(msg[4:], p)
	if _, err := m.send(mcpCmdI2CWrite, msg); err != nil {
		return err
	}

	for retry := 0; retry < mcpRetries; retry++ {
		state, err := m.i2cState()
		if err != nil {
			return err
		}
		switch state {
		case mcpStateIdle:
			return nil
		case mcpStateAddrNACK:
			return errors.Errorf("NACK from address %#02x", addr)
		}
		m.sleep(mcpRetryDelay)
	}
	return errors.Errorf("write to %#02x did not finish", addr)
}

func (m *MCP2221A) read(addr uint16, p []byte) error {
	if len(p) > mcpI2CMax {
		return errors.Errorf("read of %d bytes exceeds bridge limit of %d", len(p), mcpI2CMax)
	}
	if err := m.prepare(); err != nil {
		return err
	}

	msg := make([]byte, mcpMsgSize)
	msg[1] = byte(len(p))
	msg[2] = byte(len(p) >> 8)
	msg[3] = byte(addr<<1) | 0x01
	if _, err := m.send(mcpCmdI2CRead, msg); err != nil {
		return err
	}

	for retry := 0; retry < mcpRetries; retry++ {
		rsp, err := m.exchange(mcpCmdI2CReadGetData, make([]byte, mcpMsgSize))
		if err != nil {
			return err
		}
		switch {
		case rsp[2] == mcpStateAddrNACK:
			return errors.Errorf("NACK from address %#02x", addr)
		case rsp[1] == mcpStatePartialData || rsp[3] == mcpStateReadError:
			m.sleep(mcpRetryDelay)
			continue
		}
		if int(rsp[3]) != len(p) {
			return errors.Errorf("short read from %#02x (%d of %d bytes)", addr, rsp[3], len(p))
		}
		copy(p, rsp[4:4+len(p)])
		return nil
	}
	return errors.Errorf("read from %#02x did not finish", addr)
}

// Tx performs a write followed by a read, either part may be empty.
func (m *MCP2221A) Tx(addr uint16, w, r []byte) error {
	if len(w) > 0 {
		if err := m.write(addr, w); err != nil {
			return err
		}
	}
	if len(r) > 0 {
		if err := m.read(addr, r); err != nil {
			return err
		}
	}
	return nil
}

func (m *MCP2221A) String() string {
	return "MCP2221A USB-I2C bridge"
}
