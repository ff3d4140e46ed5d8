package board

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// VerifyPresent reports whether a run-mode controller answers at the session
// address. A failed read counts as absent.
func (b *Board) VerifyPresent() bool {
	id, err := b.RegisterRead(REG_ID)
	if err != nil {
		return false
	}
	if id != BOARD_ID {
		log.Debugf("Board id %#02x does not match %#02x", id, BOARD_ID)
		return false
	}
	return true
}

// RequirePresent is VerifyPresent as an error.
func (b *Board) RequirePresent() error {
	id, err := b.RegisterRead(REG_ID)
	if err != nil {
		return err
	}
	if id != BOARD_ID {
		err = &IdentityError{Expected: BOARD_ID, Actual: id, Msg: fmt.Sprintf("no board found at %#02x", b.t.Address())}
		log.Error(err)
		return err
	}
	return nil
}

// Snapshot is a read-only view of the controller state.
type Snapshot struct {
	Product       ProductType
	Step          byte
	Revision      byte
	VersionMajor  byte
	VersionMinor  byte
	FirmwareBuild time.Time
	ChargeRate    byte
	RestartTime   time.Duration
	OnTime        time.Duration
	OffTime       time.Duration
	Status        StatusFlags
	StartReason   StartFlags

	// Not implemented by every firmware revision
	Serial        string
	HasSerial     bool
	HardwareBuild time.Time
	HasHWBuild    bool
}

// Snapshot reads the status record. Any mandatory field failing discards the
// whole snapshot.
func (b *Board) Snapshot() (res Snapshot, err error) {
	var v byte
	var d uint32

	if v, err = b.RegisterRead(REG_PROD); err != nil {
		return Snapshot{}, err
	}
	res.Product = ProductType(v)

	if res.Step, err = b.RegisterRead(REG_STEP); err != nil {
		return Snapshot{}, err
	}
	if res.Revision, err = b.RegisterRead(REG_REVISION); err != nil {
		return Snapshot{}, err
	}
	if res.VersionMajor, err = b.RegisterRead(REG_VERSION_MAJOR); err != nil {
		return Snapshot{}, err
	}
	if res.VersionMinor, err = b.RegisterRead(REG_VERSION_MINOR); err != nil {
		return Snapshot{}, err
	}

	// older firmware rejects these two commands, any other fault still aborts
	if d, err = b.CommandRead32(COMMAND_GET_SERIAL); err == nil {
		res.Serial = serialString(d)
		res.HasSerial = true
	} else if errors.Is(err, ErrProtocol) {
		log.Debugf("Serial number not available: %v", err)
	} else {
		return Snapshot{}, err
	}
	if d, err = b.CommandRead32(COMMAND_GET_TIMESTAMP); err == nil {
		res.HardwareBuild = time.Unix(int64(d), 0)
		res.HasHWBuild = true
	} else if errors.Is(err, ErrProtocol) {
		log.Debugf("Hardware build timestamp not available: %v", err)
	} else {
		return Snapshot{}, err
	}

	if d, err = b.CommandRead32(COMMAND_FIRMWARE_TIMESTAMP); err != nil {
		return Snapshot{}, err
	}
	res.FirmwareBuild = time.Unix(int64(d), 0)

	if res.ChargeRate, err = b.CommandRead8(COMMAND_GET_CHARGE_RATE); err != nil {
		return Snapshot{}, err
	}

	if d, err = b.CommandRead32(COMMAND_GET_RESTART_TIME); err != nil {
		return Snapshot{}, err
	}
	res.RestartTime = seconds(d)

	if d, err = b.CommandRead32(COMMAND_GET_ONTIME); err != nil {
		return Snapshot{}, err
	}
	res.OnTime = seconds(d)

	if d, err = b.CommandRead32(COMMAND_GET_OFFTIME); err != nil {
		return Snapshot{}, err
	}
	res.OffTime = seconds(d)

	if v, err = b.RegisterRead(REG_STATUS); err != nil {
		return Snapshot{}, err
	}
	res.Status = StatusFlags(v)

	if v, err = b.RegisterRead(REG_START_REASON); err != nil {
		return Snapshot{}, err
	}
	res.StartReason = StartFlags(v)

	return res, nil
}

// HWRevision renders step and revision as the two printable characters
// printed on the board, e.g. "B2".
func (s Snapshot) HWRevision() string {
	if isPrint(s.Step) && isPrint(s.Revision) {
		return fmt.Sprintf("%c%c", s.Step, s.Revision)
	}
	return fmt.Sprintf("%02x%02x", s.Step, s.Revision)
}

func (s Snapshot) String() string {
	res := ""
	res += fmt.Sprintf("Product      : %s\n", s.Product)
	res += fmt.Sprintf("HW Revision  : %s\n", s.HWRevision())
	res += fmt.Sprintf("Interface    : v%d.%d\n", s.VersionMajor, s.VersionMinor)
	if s.HasSerial {
		res += fmt.Sprintf("HW Serial#   : %s\n", s.Serial)
	}
	if s.HasHWBuild {
		res += fmt.Sprintf("HW Build     : %s\n", s.HardwareBuild.Format(time.ANSIC))
	}
	res += fmt.Sprintf("Firmware     : %s\n", s.FirmwareBuild.Format(time.ANSIC))
	res += fmt.Sprintf("Charge rate  : %d/3 amp\n", s.ChargeRate)
	res += fmt.Sprintf("Restart time : %d seconds (%s)\n", int64(s.RestartTime/time.Second), FormatDuration(s.RestartTime))
	res += fmt.Sprintf("On time      : %s\n", FormatDuration(s.OnTime))
	res += fmt.Sprintf("Off time     : %s\n", FormatDuration(s.OffTime))
	res += fmt.Sprintf("Status       : %s\n", s.Status)
	res += fmt.Sprintf("Power on triggered by %s\n", s.StartReason)
	return res
}
