package board

const (
	CALIBRATION_MIN = -511
	CALIBRATION_MAX = 512
)

// EncodeCalibration packs an RTC trim value into the 16 bit wire field.
func EncodeCalibration(v int) (res uint16, err error) {
	if v < CALIBRATION_MIN || v > CALIBRATION_MAX {
		return 0, &RangeError{Param: "calibration value", Value: v, Min: CALIBRATION_MIN, Max: CALIBRATION_MAX}
	}
	if v > 0 {
		return uint16(512-v) | 0x8000, nil
	}
	return uint16(-v) & 0x1ff, nil
}

// DecodeCalibration is the inverse of EncodeCalibration. Only the low 16
// bits of the command value are significant.
func DecodeCalibration(raw uint32) int {
	if raw&0x8000 != 0 {
		return 512 - int(raw&0x1ff)
	}
	return -int(raw & 0x1ff)
}

// Calibration reads the RTC calibration value.
func (b *Board) Calibration() (res int, raw uint32, err error) {
	if raw, err = b.CommandRead32(COMMAND_GET_RTC_CAL); err != nil {
		return 0, 0, err
	}
	return DecodeCalibration(raw), raw, nil
}

// SetCalibration range checks v before any bus traffic.
func (b *Board) SetCalibration(v int) (raw uint16, err error) {
	if raw, err = EncodeCalibration(v); err != nil {
		return 0, err
	}
	return raw, b.CommandWrite32(COMMAND_SET_RTC_CAL, uint32(raw))
}
