package board

import (
	"fmt"

	"github.com/pkg/errors"
)

// Fault kinds. Every error returned by this package matches exactly one of
// them with errors.Is.
var (
	ErrTransport = errors.New("transport fault")
	ErrProtocol  = errors.New("protocol fault")
	ErrIdentity  = errors.New("identity fault")
	ErrImage     = errors.New("image fault")
	ErrRange     = errors.New("value out of range")
	ErrTimeout   = errors.New("command timeout")
)

// TransportError is a failed or short bus transfer.
type TransportError struct {
	Op  string // "read" or "write"
	Len int
	Err error
}

func (e *TransportError) Error() string {
	if e.Len == 0 {
		return fmt.Sprintf("I2C %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("I2C %s of %d bytes failed: %v", e.Op, e.Len, e.Err)
}

func (e *TransportError) Unwrap() error        { return e.Err }
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// CompletionError carries the terminal value of REG_COMMAND for a command
// that did not complete successfully.
type CompletionError struct {
	Command Command
	Code    byte
	Pending bool
}

func (e *CompletionError) Error() string {
	if e.Pending {
		return fmt.Sprintf("command %s still pending", e.Command)
	}
	switch e.Code {
	case COMPLETION_CODE_INVALID_ADDRESS:
		return fmt.Sprintf("command %s error: invalid address", e.Command)
	case COMPLETION_CODE_INVALID_COMMAND:
		return fmt.Sprintf("command %s error: invalid command", e.Command)
	case COMPLETION_CODE_STATE_ERROR:
		return fmt.Sprintf("command %s: command or state error", e.Command)
	}
	return fmt.Sprintf("command %s: unknown completion code %#02x", e.Command, e.Code)
}

func (e *CompletionError) Is(target error) bool { return target == ErrProtocol }

// IdentityError means REG_ID did not hold the expected signature.
type IdentityError struct {
	Expected byte
	Actual   byte
	Msg      string
}

func (e *IdentityError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s (id %#02x, expected %#02x)", e.Msg, e.Actual, e.Expected)
	}
	return fmt.Sprintf("unexpected board id %#02x, expected %#02x", e.Actual, e.Expected)
}

func (e *IdentityError) Is(target error) bool { return target == ErrIdentity }

// ImageError rejects a firmware image before anything is written to flash.
type ImageError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ImageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("firmware image '%s': %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("firmware image '%s': %s", e.Path, e.Reason)
}

func (e *ImageError) Unwrap() error        { return e.Err }
func (e *ImageError) Is(target error) bool { return target == ErrImage }

// RangeError rejects a caller supplied value before any bus traffic.
type RangeError struct {
	Param string
	Value interface{}
	Min   interface{}
	Max   interface{}
}

func (e *RangeError) Error() string {
	if e.Min != nil || e.Max != nil {
		return fmt.Sprintf("invalid %s %v (valid range %v..%v)", e.Param, e.Value, e.Min, e.Max)
	}
	return fmt.Sprintf("invalid %s %v", e.Param, e.Value)
}

func (e *RangeError) Is(target error) bool { return target == ErrRange }
