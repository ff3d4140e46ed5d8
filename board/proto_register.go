package board

/*
Bus frames:
	[reg]                write, followed by a 1 byte read
	[reg, value]         single register write
	[reg, b0 .. bN]      block write, N <= BLOCK_WRITE_MAX
*/

const BLOCK_WRITE_MAX = 16

var dataRegisters = [4]Register{REG_DATA_0, REG_DATA_1, REG_DATA_2, REG_DATA_3}

// RegisterRead selects reg and reads it back, two bus transfers.
func (b *Board) RegisterRead(reg Register) (res byte, err error) {
	if err = b.t.Write([]byte{byte(reg)}); err != nil {
		return 0, err
	}
	var buf [1]byte
	if err = b.t.Read(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (b *Board) RegisterWrite(reg Register, value byte) error {
	return b.t.Write([]byte{byte(reg), value})
}

// BlockWrite writes data starting at reg in one frame. Blocks larger than
// BLOCK_WRITE_MAX are rejected without touching the bus.
func (b *Board) BlockWrite(reg Register, data []byte) error {
	if len(data) > BLOCK_WRITE_MAX {
		return &RangeError{Param: "block write length", Value: len(data), Min: 0, Max: BLOCK_WRITE_MAX}
	}
	frame := make([]byte, len(data)+1)
	frame[0] = byte(reg)
	copy(frame[1:], data)
	return b.t.Write(frame)
}

// Value32Read assembles the four data registers, REG_DATA_3 being the most
// significant byte.
func (b *Board) Value32Read() (res uint32, err error) {
	for i := len(dataRegisters) - 1; i >= 0; i-- {
		v, err := b.RegisterRead(dataRegisters[i])
		if err != nil {
			return 0, err
		}
		res = res<<8 | uint32(v)
	}
	return res, nil
}

// Value32Write stages v in the data registers, least significant byte first.
// Registers written before a failure keep their new value.
func (b *Board) Value32Write(v uint32) error {
	for _, reg := range dataRegisters {
		if err := b.RegisterWrite(reg, byte(v)); err != nil {
			return err
		}
		v >>= 8
	}
	return nil
}

// RegisterDump holds the raw register file from REG_ID to REG_WDT_START.
type RegisterDump [REG_WDT_START + 1]byte

func (b *Board) DumpRegisters() (res RegisterDump, err error) {
	for reg := REG_ID; reg <= REG_WDT_START; reg++ {
		if res[reg], err = b.RegisterRead(reg); err != nil {
			return res, err
		}
	}
	return res, nil
}
