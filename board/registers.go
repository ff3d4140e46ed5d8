package board

import (
	"fmt"
	"strings"
)

type Register byte

const (
	REG_ID            Register = 0x00 // 0xED in run mode, 0xBB in bootloader mode
	REG_PROD          Register = 0x01 // product type (bootloader level in bootloader mode)
	REG_STEP          Register = 0x02
	REG_REVISION      Register = 0x03
	REG_VERSION_MAJOR Register = 0x04
	REG_VERSION_MINOR Register = 0x05
	REG_RESET_FLAGS   Register = 0x06
	REG_STATUS        Register = 0x07
	REG_CONTROL       Register = 0x08
	REG_START_ENABLE  Register = 0x09
	REG_START_REASON  Register = 0x0a

	REG_DATA_0  Register = 0x0b // LSB of 32 bit command payload
	REG_DATA_1  Register = 0x0c
	REG_DATA_2  Register = 0x0d
	REG_DATA_3  Register = 0x0e // MSB of 32 bit command payload
	REG_COMMAND Register = 0x0f

	REG_WDT_POWER Register = 0x10 // power-cycle watchdog countdown (seconds, 0 disables)
	REG_WDT_STOP  Register = 0x11 // single-shot power-off countdown (seconds, 0 disables)
	REG_WDT_START Register = 0x12 // start-up activity watchdog countdown (seconds, 0 disables)
)

// Bootloader mode register subset
const (
	BOOT_REG_CMD  Register = 0x0f
	BOOT_REG_ADDR Register = 0x10 // target half-page index
	BOOT_REG_DATA Register = 0x11 // accepts block writes
)

const (
	BOARD_ID      byte = 0xed
	BOOTLOADER_ID byte = 0xbb
)

func (r Register) String() string {
	switch r {
	case REG_ID:
		return "ID"
	case REG_PROD:
		return "PRODUCT"
	case REG_STEP:
		return "STEP"
	case REG_REVISION:
		return "REVISION"
	case REG_VERSION_MAJOR:
		return "VERSION MAJOR"
	case REG_VERSION_MINOR:
		return "VERSION MINOR"
	case REG_RESET_FLAGS:
		return "RESET FLAGS"
	case REG_STATUS:
		return "STATUS"
	case REG_CONTROL:
		return "CONTROL"
	case REG_START_ENABLE:
		return "START ENABLE"
	case REG_START_REASON:
		return "START REASON"
	case REG_DATA_0:
		return "DATA 0"
	case REG_DATA_1:
		return "DATA 1"
	case REG_DATA_2:
		return "DATA 2"
	case REG_DATA_3:
		return "DATA 3"
	case REG_COMMAND:
		return "COMMAND"
	case REG_WDT_POWER:
		return "WDT POWER"
	case REG_WDT_STOP:
		return "WDT STOP"
	case REG_WDT_START:
		return "WDT START"
	}
	return fmt.Sprintf("Unknown register %02x", byte(r))
}

type ProductType byte

const (
	PROD_UNKNOWN     ProductType = 0x00 // unprogrammed
	PROD_POWERCAPE   ProductType = 0x01 // VCC tied to 3v3
	PROD_POWERHAT    ProductType = 0x02 // VCC tied to GPIO26 for shutdown request
	PROD_POWERMODULE ProductType = 0x03 // aux power, no charger, Grove interface
)

func (p ProductType) String() string {
	switch p {
	case PROD_POWERCAPE:
		return "PowerCape"
	case PROD_POWERHAT:
		return "PowerHAT"
	case PROD_POWERMODULE:
		return "Power Module"
	}
	return "Unknown"
}

// HasCharger reports whether the product carries a battery charger.
func (p ProductType) HasCharger() bool {
	return p == PROD_POWERCAPE || p == PROD_POWERHAT
}

type StatusFlags byte

const (
	STATUS_POWER_GOOD StatusFlags = 0x01
	STATUS_BUTTON     StatusFlags = 0x02
	STATUS_OPTO       StatusFlags = 0x04
	STATUS_LED        StatusFlags = 0x08
	STATUS_EXT_POWER  StatusFlags = 0x10
	STATUS_BOOTLOADER StatusFlags = 0x80 // bootloader present
)

func (s StatusFlags) String() string {
	if s == 0 {
		return "none"
	}
	return joinFlags(byte(s), []flagName{
		{byte(STATUS_POWER_GOOD), "PGOOD"},
		{byte(STATUS_BUTTON), "BUTTON"},
		{byte(STATUS_OPTO), "OPTO"},
		{byte(STATUS_LED), "LED"},
		{byte(STATUS_EXT_POWER), "EXT_PWR"},
		{byte(STATUS_BOOTLOADER), "BOOTLOADER"},
	})
}

type ControlFlags byte

const (
	CONTROL_AUX_OUTPUT      ControlFlags = 0x01
	CONTROL_LED             ControlFlags = 0x02
	CONTROL_CHARGE_ENABLE   ControlFlags = 0x04
	CONTROL_IGNORE_POWEROFF ControlFlags = 0x08
)

func (c ControlFlags) String() string {
	if c == 0 {
		return "none"
	}
	return joinFlags(byte(c), []flagName{
		{byte(CONTROL_AUX_OUTPUT), "AUX_OUTPUT"},
		{byte(CONTROL_LED), "LED"},
		{byte(CONTROL_CHARGE_ENABLE), "CHARGE_ENABLE"},
		{byte(CONTROL_IGNORE_POWEROFF), "IGNORE_POWEROFF"},
	})
}

// StartFlags is shared by REG_START_ENABLE and REG_START_REASON.
type StartFlags byte

const (
	START_BUTTON    StartFlags = 0x01 // external (power) button
	START_EXTERNAL  StartFlags = 0x02 // external (opto) signal
	START_PWRGOOD   StartFlags = 0x04 // DC power for battery charger products
	START_TIMEOUT   StartFlags = 0x08 // countdown timeout
	START_PWR_ON    StartFlags = 0x10 // initial application of power
	START_WDT_RESET StartFlags = 0x20 // watchdog cycled power
	START_ALL       StartFlags = 0x1f
)

func (s StartFlags) String() string {
	if s == 0 {
		return "nothing"
	}
	return joinFlags(byte(s), []flagName{
		{byte(START_BUTTON), "button press"},
		{byte(START_EXTERNAL), "external event"},
		{byte(START_PWRGOOD), "power good"},
		{byte(START_TIMEOUT), "timer"},
		{byte(START_PWR_ON), "initial power"},
		{byte(START_WDT_RESET), "watchdog reset"},
	})
}

// StartSettingByName maps the user facing start setting names onto their
// REG_START_ENABLE bit.
func StartSettingByName(name string) (mask StartFlags, err error) {
	switch strings.ToLower(name) {
	case "button":
		return START_BUTTON, nil
	case "opto":
		return START_EXTERNAL, nil
	case "pgood":
		return START_PWRGOOD, nil
	case "timeout":
		return START_TIMEOUT, nil
	case "poweron":
		return START_PWR_ON, nil
	}
	return 0, &RangeError{Param: "start setting", Value: name}
}

type flagName struct {
	mask byte
	name string
}

func joinFlags(v byte, names []flagName) string {
	var set []string
	for _, n := range names {
		if v&n.mask != 0 {
			set = append(set, n.name)
		}
	}
	return strings.Join(set, " ")
}
