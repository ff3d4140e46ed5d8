package board

import (
	"time"

	"github.com/pkg/errors"
	"tinygo.org/x/drivers"
)

// Compile-time check.
var _ drivers.I2C = (*fakeBoard)(nil)

var errFakeBus = errors.New("fake bus: remote I/O error")

type bootOp struct {
	cmd  BootloaderCommand
	addr byte
}

// Scripted power controller. Register pointer semantics follow the real
// firmware: the first written byte selects the register, further bytes are
// stored from there on, reads return the selected register.
type fakeBoard struct {
	regs [256]byte
	ptr  byte
	boot bool
	rate byte

	// busyPolls is how many reads of REG_COMMAND still return the opcode,
	// negative keeps the command pending forever
	busyPolls int
	busyLeft  int
	current   Command
	pending   bool

	codes    map[Command]byte
	handlers map[Command]func(f *fakeBoard)
	commands []Command

	txs     int
	writes  [][]byte
	reads   int
	failAt  int // 1-based transaction to fail, 0 never
	failIf  func(w []byte) bool
	bootOps []bootOp
	flash   []byte
}

func newFakeBoard() *fakeBoard {
	f := &fakeBoard{
		codes:    map[Command]byte{},
		handlers: map[Command]func(f *fakeBoard){},
	}
	f.regs[REG_ID] = BOARD_ID
	f.regs[REG_COMMAND] = COMPLETION_CODE_STATE_ERROR

	// charge rate is kept in the firmware and read back on request
	for level := 1; level <= 3; level++ {
		rate := byte(level)
		f.handlers[COMMAND_SET_CHARGE_RATE_1+Command(level-1)] = func(f *fakeBoard) { f.rate = rate }
	}
	f.handlers[COMMAND_GET_CHARGE_RATE] = func(f *fakeBoard) { f.regs[REG_DATA_0] = f.rate }
	f.rate = 1
	return f
}

func newFakeBootloader() *fakeBoard {
	f := newFakeBoard()
	f.enterBootloader()
	return f
}

func (f *fakeBoard) enterBootloader() {
	f.boot = true
	f.regs[REG_ID] = BOOTLOADER_ID
	f.regs[REG_PROD] = 2
}

func (f *fakeBoard) Tx(addr uint16, w, r []byte) error {
	f.txs++
	if f.failAt > 0 && f.txs == f.failAt {
		return errFakeBus
	}
	if f.failIf != nil && len(w) > 0 && f.failIf(w) {
		return errFakeBus
	}

	if len(w) > 0 {
		f.writes = append(f.writes, append([]byte(nil), w...))
		f.write(w)
	}
	if len(r) > 0 {
		f.reads++
		for i := range r {
			r[i] = f.read(f.ptr + byte(i))
		}
	}
	return nil
}

func (f *fakeBoard) write(w []byte) {
	f.ptr = w[0]
	if len(w) == 1 {
		return
	}
	reg := Register(w[0])

	if f.boot {
		switch reg {
		case BOOT_REG_CMD:
			f.bootOps = append(f.bootOps, bootOp{cmd: BootloaderCommand(w[1]), addr: f.regs[BOOT_REG_ADDR]})
		case BOOT_REG_DATA:
			f.flash = append(f.flash, w[1:]...)
		default:
			f.regs[reg] = w[1]
		}
		return
	}

	if reg == REG_COMMAND {
		f.issue(Command(w[1]))
		return
	}
	copy(f.regs[reg:], w[1:])
}

func (f *fakeBoard) issue(cmd Command) {
	f.commands = append(f.commands, cmd)
	f.regs[REG_COMMAND] = byte(cmd)
	f.current = cmd
	f.pending = true
	f.busyLeft = f.busyPolls
}

func (f *fakeBoard) read(reg byte) byte {
	if Register(reg) == REG_COMMAND && f.pending && !f.boot {
		if f.busyLeft != 0 {
			if f.busyLeft > 0 {
				f.busyLeft--
			}
			return byte(f.current)
		}
		f.pending = false
		code, ok := f.codes[f.current]
		if !ok {
			code = COMPLETION_CODE_OK
		}
		if h := f.handlers[f.current]; h != nil && code == COMPLETION_CODE_OK {
			h(f)
		}
		f.regs[REG_COMMAND] = code
	}
	return f.regs[reg]
}

func (f *fakeBoard) stage32(v uint32) {
	f.regs[REG_DATA_0] = byte(v)
	f.regs[REG_DATA_1] = byte(v >> 8)
	f.regs[REG_DATA_2] = byte(v >> 16)
	f.regs[REG_DATA_3] = byte(v >> 24)
}

func (f *fakeBoard) data32() uint32 {
	return uint32(f.regs[REG_DATA_0]) | uint32(f.regs[REG_DATA_1])<<8 |
		uint32(f.regs[REG_DATA_2])<<16 | uint32(f.regs[REG_DATA_3])<<24
}

// result32 makes cmd return v in the data registers.
func (f *fakeBoard) result32(cmd Command, v uint32) {
	f.handlers[cmd] = func(f *fakeBoard) { f.stage32(v) }
}

func (f *fakeBoard) opCount(cmd BootloaderCommand) (n int) {
	for _, op := range f.bootOps {
		if op.cmd == cmd {
			n++
		}
	}
	return n
}

func newTestBoard(f *fakeBoard, opts ...Option) *Board {
	b := New(NewTransport(f, DEFAULT_ADDRESS), opts...)
	b.sleep = func(time.Duration) {}
	return b
}
