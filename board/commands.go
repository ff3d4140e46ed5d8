package board

import "fmt"

type Command byte

const (
	COMMAND_CHARGE_ENABLE      Command = 0x10
	COMMAND_CHARGE_DISABLE     Command = 0x11
	COMMAND_LED_ON_MS          Command = 0x12
	COMMAND_LED_OFF_MS         Command = 0x13
	COMMAND_EXT_PWR_ON         Command = 0x14
	COMMAND_EXT_PWR_OFF        Command = 0x15
	COMMAND_SET_RESTART_TIME   Command = 0x16
	COMMAND_GET_RESTART_TIME   Command = 0x17
	COMMAND_CLEAR_RESTART_TIME Command = 0x18
	COMMAND_GET_ONTIME         Command = 0x19
	COMMAND_GET_OFFTIME        Command = 0x1a
	COMMAND_GET_CHARGE_RATE    Command = 0x1b
	COMMAND_SET_CHARGE_RATE_1  Command = 0x1c
	COMMAND_SET_CHARGE_RATE_2  Command = 0x1d
	COMMAND_SET_CHARGE_RATE_3  Command = 0x1e
	COMMAND_FIRMWARE_TIMESTAMP Command = 0x1f
	COMMAND_READ_RTC           Command = 0x20
	COMMAND_WRITE_RTC          Command = 0x21
	COMMAND_SET_I2C_ADDRESS    Command = 0x22
	COMMAND_GET_SERIAL         Command = 0x23
	COMMAND_GET_TIMESTAMP      Command = 0x24

	COMMAND_GET_RTC_CAL  Command = 0x30
	COMMAND_SET_RTC_CAL  Command = 0x31
	COMMAND_EEPROM_CLEAR Command = 0x3c
	COMMAND_EEPROM_STORE Command = 0x3e

	COMMAND_REBOOT           Command = 0xbb
	COMMAND_ENTER_BOOTLOADER Command = 0xbc
)

func (c Command) String() string {
	switch c {
	case COMMAND_CHARGE_ENABLE:
		return "CHARGE ENABLE"
	case COMMAND_CHARGE_DISABLE:
		return "CHARGE DISABLE"
	case COMMAND_LED_ON_MS:
		return "LED ON MS"
	case COMMAND_LED_OFF_MS:
		return "LED OFF MS"
	case COMMAND_EXT_PWR_ON:
		return "EXT POWER ON"
	case COMMAND_EXT_PWR_OFF:
		return "EXT POWER OFF"
	case COMMAND_SET_RESTART_TIME:
		return "SET RESTART TIME"
	case COMMAND_GET_RESTART_TIME:
		return "GET RESTART TIME"
	case COMMAND_CLEAR_RESTART_TIME:
		return "CLEAR RESTART TIME"
	case COMMAND_GET_ONTIME:
		return "GET ON TIME"
	case COMMAND_GET_OFFTIME:
		return "GET OFF TIME"
	case COMMAND_GET_CHARGE_RATE:
		return "GET CHARGE RATE"
	case COMMAND_SET_CHARGE_RATE_1:
		return "SET CHARGE RATE 1"
	case COMMAND_SET_CHARGE_RATE_2:
		return "SET CHARGE RATE 2"
	case COMMAND_SET_CHARGE_RATE_3:
		return "SET CHARGE RATE 3"
	case COMMAND_FIRMWARE_TIMESTAMP:
		return "FIRMWARE TIMESTAMP"
	case COMMAND_READ_RTC:
		return "READ RTC"
	case COMMAND_WRITE_RTC:
		return "WRITE RTC"
	case COMMAND_SET_I2C_ADDRESS:
		return "SET I2C ADDRESS"
	case COMMAND_GET_SERIAL:
		return "GET SERIAL"
	case COMMAND_GET_TIMESTAMP:
		return "GET TIMESTAMP"
	case COMMAND_GET_RTC_CAL:
		return "GET RTC CALIBRATION"
	case COMMAND_SET_RTC_CAL:
		return "SET RTC CALIBRATION"
	case COMMAND_EEPROM_CLEAR:
		return "EEPROM CLEAR"
	case COMMAND_EEPROM_STORE:
		return "EEPROM STORE"
	case COMMAND_REBOOT:
		return "REBOOT"
	case COMMAND_ENTER_BOOTLOADER:
		return "ENTER BOOTLOADER"
	}
	return fmt.Sprintf("Unknown command %02x", byte(c))
}

// Values read back from REG_COMMAND once a command left the register
const (
	COMPLETION_CODE_OK              byte = 0x00
	COMPLETION_CODE_INVALID_ADDRESS byte = 0xea
	COMPLETION_CODE_INVALID_COMMAND byte = 0xec
	COMPLETION_CODE_STATE_ERROR     byte = 0xee // also the idle value before any command
)

type CompletionStatus byte

const (
	COMPLETION_PENDING CompletionStatus = iota
	COMPLETION_SUCCESS
	COMPLETION_FAULT
)

func (s CompletionStatus) String() string {
	switch s {
	case COMPLETION_PENDING:
		return "pending"
	case COMPLETION_SUCCESS:
		return "success"
	case COMPLETION_FAULT:
		return "fault"
	}
	return fmt.Sprintf("Unknown completion status %d", byte(s))
}

// Completion is the classified result of one poll of REG_COMMAND.
type Completion struct {
	Command Command
	Status  CompletionStatus
	Code    byte
}

// ClassifyCompletion tags the value read back from REG_COMMAND after cmd was
// issued. A register still holding the opcode means the board is busy.
func ClassifyCompletion(cmd Command, code byte) Completion {
	c := Completion{Command: cmd, Code: code}
	switch {
	case code == byte(cmd):
		c.Status = COMPLETION_PENDING
	case code == COMPLETION_CODE_OK:
		c.Status = COMPLETION_SUCCESS
	default:
		c.Status = COMPLETION_FAULT
	}
	return c
}

// Err converts a terminal completion into an error, nil on success.
func (c Completion) Err() error {
	if c.Status == COMPLETION_SUCCESS {
		return nil
	}
	return &CompletionError{Command: c.Command, Code: c.Code, Pending: c.Status == COMPLETION_PENDING}
}

func (c Completion) String() string {
	return fmt.Sprintf("command %s: %s (%#02x)", c.Command, c.Status, c.Code)
}

// Commands understood by the bootloader on BOOT_REG_CMD
type BootloaderCommand byte

const (
	BOOT_CMD_PAGE_ERASE     BootloaderCommand = 0x01
	BOOT_CMD_HALF_PAGE_PROG BootloaderCommand = 0x02
	BOOT_CMD_EXECUTE        BootloaderCommand = 0x03
)

func (c BootloaderCommand) String() string {
	switch c {
	case BOOT_CMD_PAGE_ERASE:
		return "PAGE ERASE"
	case BOOT_CMD_HALF_PAGE_PROG:
		return "HALF PAGE PROGRAM"
	case BOOT_CMD_EXECUTE:
		return "EXECUTE"
	}
	return fmt.Sprintf("Unknown bootloader command %02x", byte(c))
}
