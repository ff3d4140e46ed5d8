package board

import (
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	CHARGE_RATE_MIN = 1
	CHARGE_RATE_MAX = 3
)

// SetChargeRate selects the battery charge current in thirds of an amp.
func (b *Board) SetChargeRate(level int) error {
	if level < CHARGE_RATE_MIN || level > CHARGE_RATE_MAX {
		return &RangeError{Param: "charge rate", Value: level, Min: CHARGE_RATE_MIN, Max: CHARGE_RATE_MAX}
	}
	return b.Command(COMMAND_SET_CHARGE_RATE_1 + Command(level-1))
}

func (b *Board) ChargeRate() (res byte, err error) {
	return b.CommandRead8(COMMAND_GET_CHARGE_RATE)
}

func (b *Board) EnableCharger() error {
	return b.Command(COMMAND_CHARGE_ENABLE)
}

// DisableCharger cuts the charger. Without a battery attached power is lost.
func (b *Board) DisableCharger() error {
	return b.Command(COMMAND_CHARGE_DISABLE)
}

// SetExternalPower switches the auxiliary output, the external LED
// connector on HAT and cape boards.
func (b *Board) SetExternalPower(on bool) error {
	if on {
		return b.Command(COMMAND_EXT_PWR_ON)
	}
	return b.Command(COMMAND_EXT_PWR_OFF)
}

// ParseSwitch accepts 1/on/yes/true and 0/off/no/false.
func ParseSwitch(s string) (on bool, err error) {
	switch strings.ToLower(s) {
	case "1", "on", "yes", "true":
		return true, nil
	case "0", "off", "no", "false":
		return false, nil
	}
	return false, &RangeError{Param: "switch", Value: s}
}

// EnableStart sets mask in REG_START_ENABLE. changed is false when every
// bit was already set, in which case nothing is written.
func (b *Board) EnableStart(mask StartFlags) (changed bool, err error) {
	return b.updateStart(mask, true)
}

// DisableStart clears mask in REG_START_ENABLE, see EnableStart.
func (b *Board) DisableStart(mask StartFlags) (changed bool, err error) {
	return b.updateStart(mask, false)
}

func (b *Board) updateStart(mask StartFlags, enable bool) (changed bool, err error) {
	v, err := b.RegisterRead(REG_START_ENABLE)
	if err != nil {
		return false, err
	}
	cur := StartFlags(v)
	next := cur &^ mask
	if enable {
		next = cur | mask
	}
	if next == cur {
		log.Debugf("Start enable %s unchanged", cur)
		return false, nil
	}
	if err = b.RegisterWrite(REG_START_ENABLE, byte(next)); err != nil {
		return false, err
	}
	return true, nil
}

// StartEnable returns the enabled start conditions.
func (b *Board) StartEnable() (res StartFlags, err error) {
	v, err := b.RegisterRead(REG_START_ENABLE)
	return StartFlags(v), err
}

// SetRestartTime arms the power-up countdown. Sub-second parts are dropped.
func (b *Board) SetRestartTime(d time.Duration) error {
	if d < 0 || d/time.Second > 0xffffffff {
		return &RangeError{Param: "restart time", Value: d, Min: time.Duration(0), Max: 0xffffffff * time.Second}
	}
	return b.CommandWrite32(COMMAND_SET_RESTART_TIME, uint32(d/time.Second))
}

func (b *Board) ClearRestartTime() error {
	return b.Command(COMMAND_CLEAR_RESTART_TIME)
}

func (b *Board) RestartTime() (time.Duration, error) {
	return b.readSeconds(COMMAND_GET_RESTART_TIME)
}

// OnTime is how long the host has been powered.
func (b *Board) OnTime() (time.Duration, error) {
	return b.readSeconds(COMMAND_GET_ONTIME)
}

// OffTime is the duration of the last power-off.
func (b *Board) OffTime() (time.Duration, error) {
	return b.readSeconds(COMMAND_GET_OFFTIME)
}

func (b *Board) readSeconds(cmd Command) (time.Duration, error) {
	v, err := b.CommandRead32(cmd)
	if err != nil {
		return 0, err
	}
	return seconds(v), nil
}

// ReadRTC returns the board clock, held as unix seconds.
func (b *Board) ReadRTC() (res time.Time, err error) {
	v, err := b.CommandRead32(COMMAND_READ_RTC)
	if err != nil {
		return res, err
	}
	return time.Unix(int64(v), 0), nil
}

func (b *Board) WriteRTC(t time.Time) error {
	secs := t.Unix()
	if secs < 0 || secs > 0xffffffff {
		return &RangeError{Param: "rtc time", Value: t, Min: time.Unix(0, 0), Max: time.Unix(0xffffffff, 0)}
	}
	return b.CommandWrite32(COMMAND_WRITE_RTC, uint32(secs))
}

// StoreEEPROM persists the current settings.
func (b *Board) StoreEEPROM() error {
	return b.Command(COMMAND_EEPROM_STORE)
}

func (b *Board) ClearEEPROM() error {
	return b.Command(COMMAND_EEPROM_CLEAR)
}

// Reboot restarts the power controller, not the host.
func (b *Board) Reboot() error {
	return b.Command(COMMAND_REBOOT)
}

// SetAddress moves the controller to addr. The session keeps talking to the
// old address.
func (b *Board) SetAddress(addr uint16) error {
	if err := CheckAddress(addr); err != nil {
		return err
	}
	return b.CommandWrite32(COMMAND_SET_I2C_ADDRESS, uint32(addr))
}

// SetLEDTiming sets the status LED blink pattern in milliseconds.
func (b *Board) SetLEDTiming(on, off time.Duration) error {
	if err := b.CommandWrite32(COMMAND_LED_ON_MS, uint32(on/time.Millisecond)); err != nil {
		return err
	}
	return b.CommandWrite32(COMMAND_LED_OFF_MS, uint32(off/time.Millisecond))
}

// SetWatchdog loads one of the countdown registers. Zero disables it.
func (b *Board) SetWatchdog(reg Register, secs int) error {
	switch reg {
	case REG_WDT_POWER, REG_WDT_STOP, REG_WDT_START:
	default:
		return &RangeError{Param: "watchdog register", Value: reg, Min: REG_WDT_POWER, Max: REG_WDT_START}
	}
	if secs < 0 || secs > 0xff {
		return &RangeError{Param: "watchdog seconds", Value: secs, Min: 0, Max: 0xff}
	}
	return b.RegisterWrite(reg, byte(secs))
}

// WatchdogByName maps power, stop and start to their countdown register.
func WatchdogByName(name string) (Register, error) {
	switch strings.ToLower(name) {
	case "power":
		return REG_WDT_POWER, nil
	case "stop":
		return REG_WDT_STOP, nil
	case "start":
		return REG_WDT_START, nil
	}
	return 0, &RangeError{Param: "watchdog", Value: name}
}

var ValueNames = []string{"button", "pgood", "rate", "ontime", "offtime", "restart"}

// Value returns a script friendly number: button and pgood as 0 or 1, rate
// as the charge level, the timers in seconds.
func (b *Board) Value(name string) (res uint32, err error) {
	switch strings.ToLower(name) {
	case "button":
		return b.statusBit(STATUS_BUTTON)
	case "pgood":
		return b.statusBit(STATUS_POWER_GOOD)
	case "rate":
		v, err := b.ChargeRate()
		return uint32(v), err
	case "ontime":
		return b.CommandRead32(COMMAND_GET_ONTIME)
	case "offtime":
		return b.CommandRead32(COMMAND_GET_OFFTIME)
	case "restart":
		return b.CommandRead32(COMMAND_GET_RESTART_TIME)
	}
	return 0, &RangeError{Param: "value name", Value: name}
}

func (b *Board) statusBit(f StatusFlags) (uint32, error) {
	v, err := b.RegisterRead(REG_STATUS)
	if err != nil {
		return 0, err
	}
	if StatusFlags(v)&f != 0 {
		return 1, nil
	}
	return 0, nil
}
