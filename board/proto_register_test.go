package board

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
)

func TestRegisterReadFrames(t *testing.T) {
	f := newFakeBoard()
	f.regs[REG_STATUS] = 0x5a
	b := newTestBoard(f)

	v, err := b.RegisterRead(REG_STATUS)
	if err != nil {
		t.Fatalf("RegisterRead: %v", err)
	}
	if v != 0x5a {
		t.Fatalf("got %#02x, want 0x5a", v)
	}
	if f.txs != 2 || f.reads != 1 {
		t.Fatalf("got %d transactions / %d reads, want 2 / 1", f.txs, f.reads)
	}
	if !bytes.Equal(f.writes[0], []byte{byte(REG_STATUS)}) {
		t.Fatalf("select frame % x", f.writes[0])
	}
}

func TestRegisterWriteFrame(t *testing.T) {
	f := newFakeBoard()
	b := newTestBoard(f)

	if err := b.RegisterWrite(REG_WDT_STOP, 30); err != nil {
		t.Fatalf("RegisterWrite: %v", err)
	}
	if len(f.writes) != 1 || !bytes.Equal(f.writes[0], []byte{byte(REG_WDT_STOP), 30}) {
		t.Fatalf("frames %v", f.writes)
	}
}

func TestValue32RoundTrip(t *testing.T) {
	for _, v := range []uint32{0, 1, 0xff, 0x100, 0x12345678, 0x80000000, 0xdeadbeef, 0xffffffff} {
		f := newFakeBoard()
		b := newTestBoard(f)

		if err := b.Value32Write(v); err != nil {
			t.Fatalf("Value32Write(%#x): %v", v, err)
		}
		// least significant byte first
		for i, reg := range dataRegisters {
			want := []byte{byte(reg), byte(v >> (8 * uint(i)))}
			if !bytes.Equal(f.writes[i], want) {
				t.Fatalf("Value32Write(%#x) frame %d = % x, want % x", v, i, f.writes[i], want)
			}
		}

		got, err := b.Value32Read()
		if err != nil {
			t.Fatalf("Value32Read: %v", err)
		}
		if got != v {
			t.Fatalf("round trip %#x -> %#x", v, got)
		}
	}
}

func TestValue32ReadOrder(t *testing.T) {
	f := newFakeBoard()
	f.stage32(0x01020304)
	b := newTestBoard(f)

	if _, err := b.Value32Read(); err != nil {
		t.Fatal(err)
	}
	want := []Register{REG_DATA_3, REG_DATA_2, REG_DATA_1, REG_DATA_0}
	for i, reg := range want {
		if f.writes[i][0] != byte(reg) {
			t.Fatalf("read %d selected %#02x, want %s", i, f.writes[i][0], reg)
		}
	}
}

func TestValue32WriteAbortsOnFailure(t *testing.T) {
	f := newFakeBoard()
	f.failAt = 2
	b := newTestBoard(f)

	err := b.Value32Write(0xaabbccdd)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("got %v, want transport fault", err)
	}
	if f.txs != 2 {
		t.Fatalf("got %d transactions after failure, want 2", f.txs)
	}
	if f.regs[REG_DATA_0] != 0xdd || f.regs[REG_DATA_1] != 0 {
		t.Fatalf("data registers %#02x %#02x", f.regs[REG_DATA_0], f.regs[REG_DATA_1])
	}
}

func TestBlockWriteLimit(t *testing.T) {
	f := newFakeBoard()
	b := newTestBoard(f)

	err := b.BlockWrite(BOOT_REG_DATA, make([]byte, BLOCK_WRITE_MAX+1))
	if !errors.Is(err, ErrRange) {
		t.Fatalf("got %v, want range fault", err)
	}
	if f.txs != 0 {
		t.Fatalf("oversized block reached the bus (%d transactions)", f.txs)
	}

	data := bytes.Repeat([]byte{0xa5}, BLOCK_WRITE_MAX)
	if err = b.BlockWrite(REG_DATA_0, data); err != nil {
		t.Fatalf("BlockWrite: %v", err)
	}
	if f.txs != 1 || len(f.writes[0]) != BLOCK_WRITE_MAX+1 {
		t.Fatalf("got %d transactions, frame of %d bytes", f.txs, len(f.writes[0]))
	}
	if f.writes[0][0] != byte(REG_DATA_0) || !bytes.Equal(f.writes[0][1:], data) {
		t.Fatalf("frame % x", f.writes[0])
	}
}

func TestTransportErrorPropagation(t *testing.T) {
	tests := []struct {
		name   string
		failAt int
		op     string
	}{
		{"select", 1, "write"},
		{"read", 2, "read"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeBoard()
			f.failAt = tt.failAt
			b := newTestBoard(f)

			_, err := b.RegisterRead(REG_ID)
			var te *TransportError
			if !errors.As(err, &te) {
				t.Fatalf("got %v, want *TransportError", err)
			}
			if te.Op != tt.op {
				t.Fatalf("failed op %q, want %q", te.Op, tt.op)
			}
			if errors.Cause(te.Err) != errFakeBus {
				t.Fatalf("underlying error %v", te.Err)
			}
			if !errors.Is(err, ErrTransport) || errors.Is(err, ErrProtocol) {
				t.Fatalf("wrong kind for %v", err)
			}
		})
	}
}

func TestDumpRegisters(t *testing.T) {
	f := newFakeBoard()
	f.regs[REG_PROD] = byte(PROD_POWERHAT)
	f.regs[REG_WDT_START] = 0x42
	b := newTestBoard(f)

	dump, err := b.DumpRegisters()
	if err != nil {
		t.Fatal(err)
	}
	if dump[REG_ID] != BOARD_ID || dump[REG_PROD] != byte(PROD_POWERHAT) || dump[REG_WDT_START] != 0x42 {
		t.Fatalf("dump % x", dump[:])
	}
}
