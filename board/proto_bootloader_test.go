package board

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
)

// testImage returns n bytes of an encoded image, never starting with the
// guard word.
func testImage(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i*7 + 1)
	}
	return data
}

func TestEnterBootloader(t *testing.T) {
	f := newFakeBoard()
	f.regs[REG_STATUS] = byte(STATUS_BOOTLOADER)
	f.handlers[COMMAND_ENTER_BOOTLOADER] = (*fakeBoard).enterBootloader
	b := newTestBoard(f)

	var slept time.Duration
	b.sleep = func(d time.Duration) { slept += d }

	if err := b.EnterBootloader(); err != nil {
		t.Fatalf("EnterBootloader: %v", err)
	}
	if len(f.commands) != 1 || f.commands[0] != COMMAND_ENTER_BOOTLOADER {
		t.Fatalf("commands %v", f.commands)
	}
	if slept < 2*time.Second {
		t.Fatalf("settled for %v only", slept)
	}
}

func TestEnterBootloaderAlreadyActive(t *testing.T) {
	f := newFakeBootloader()
	b := newTestBoard(f)

	if err := b.EnterBootloader(); err != nil {
		t.Fatalf("EnterBootloader: %v", err)
	}
	if len(f.commands) != 0 || len(f.bootOps) != 0 {
		t.Fatalf("bootloader disturbed: %v %v", f.commands, f.bootOps)
	}
}

func TestEnterBootloaderNotPresent(t *testing.T) {
	f := newFakeBoard()
	f.regs[REG_STATUS] = byte(STATUS_POWER_GOOD)
	b := newTestBoard(f)

	err := b.EnterBootloader()
	if !errors.Is(err, ErrIdentity) {
		t.Fatalf("got %v, want identity fault", err)
	}
	if len(f.commands) != 0 {
		t.Fatalf("commands issued without bootloader: %v", f.commands)
	}
}

func TestEnterBootloaderFails(t *testing.T) {
	f := newFakeBoard()
	f.regs[REG_STATUS] = byte(STATUS_BOOTLOADER)
	b := newTestBoard(f)

	err := b.EnterBootloader()
	var ie *IdentityError
	if !errors.As(err, &ie) || ie.Actual != BOARD_ID {
		t.Fatalf("got %v, want identity fault", err)
	}
}

func TestProgramImageCadence(t *testing.T) {
	for _, n := range []int{1, 4, 63, 64, 65, 128, 129, 200, 1000, MAX_IMAGE_SIZE} {
		f := newFakeBootloader()
		b := newTestBoard(f)

		data := testImage(n)
		img, err := NewImage("test.bin", data)
		if err != nil {
			t.Fatal(err)
		}
		halfPages := (n + HALF_PAGE_SIZE - 1) / HALF_PAGE_SIZE
		pages := (n + FLASH_PAGE_SIZE - 1) / FLASH_PAGE_SIZE

		if err = b.ProgramImage(img); err != nil {
			t.Fatalf("%d bytes: %v", n, err)
		}

		if got := f.opCount(BOOT_CMD_HALF_PAGE_PROG); got != halfPages {
			t.Errorf("%d bytes: %d programs, want %d", n, got, halfPages)
		}
		if got := f.opCount(BOOT_CMD_PAGE_ERASE); got != pages {
			t.Errorf("%d bytes: %d erases, want %d", n, got, pages)
		}
		if f.opCount(BOOT_CMD_EXECUTE) != 0 {
			t.Errorf("%d bytes: execute issued by ProgramImage", n)
		}

		next := 0
		for i, op := range f.bootOps {
			switch op.cmd {
			case BOOT_CMD_PAGE_ERASE:
				if int(op.addr) != next || op.addr%2 != 0 {
					t.Fatalf("%d bytes: op %d erases half-page %d, expected %d", n, i, op.addr, next)
				}
			case BOOT_CMD_HALF_PAGE_PROG:
				if int(op.addr) != next {
					t.Fatalf("%d bytes: op %d programs half-page %d, expected %d", n, i, op.addr, next)
				}
				next++
			}
		}

		want := make([]byte, halfPages*HALF_PAGE_SIZE)
		copy(want, data)
		if !bytes.Equal(f.flash, want) {
			t.Errorf("%d bytes: flash content differs", n)
		}
		if img.Data != nil {
			t.Errorf("%d bytes: image buffer not released", n)
		}
	}
}

func TestProgramImageBlockFrames(t *testing.T) {
	f := newFakeBootloader()
	b := newTestBoard(f)

	img, _ := NewImage("test.bin", testImage(HALF_PAGE_SIZE))
	if err := b.ProgramImage(img); err != nil {
		t.Fatal(err)
	}

	blocks := 0
	for _, w := range f.writes {
		if w[0] == byte(BOOT_REG_DATA) {
			blocks++
			if len(w) != BLOCK_WRITE_MAX+1 {
				t.Fatalf("data frame of %d bytes", len(w))
			}
		}
	}
	if blocks != HALF_PAGE_SIZE/BLOCK_WRITE_MAX {
		t.Fatalf("%d data frames per half-page", blocks)
	}
}

func TestProgramImageGuard(t *testing.T) {
	f := newFakeBootloader()
	b := newTestBoard(f)

	data := testImage(256)
	copy(data, []byte{0xff, 0x07, 0x00, 0x20})
	img, err := NewImage("plain.bin", data)
	if err != nil {
		t.Fatal(err)
	}

	if err = b.ProgramImage(img); !errors.Is(err, ErrImage) {
		t.Fatalf("got %v, want image fault", err)
	}
	if len(f.bootOps) != 0 || f.txs != 0 {
		t.Fatalf("guarded image reached the bus: %v", f.bootOps)
	}
}

func TestProgramImageProgress(t *testing.T) {
	f := newFakeBootloader()

	var seen []Progress
	b := newTestBoard(f, WithProgressCallback(func(p Progress) { seen = append(seen, p) }))

	img, _ := NewImage("test.bin", testImage(300))
	if err := b.ProgramImage(img); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 5 {
		t.Fatalf("%d progress calls, want 5", len(seen))
	}
	if last := seen[len(seen)-1]; last.HalfPage != 5 || last.HalfPages != 5 {
		t.Fatalf("last progress %+v", last)
	}
}

func writeImage(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := ioutil.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFlashFirmware(t *testing.T) {
	f := newFakeBootloader()
	b := newTestBoard(f)

	data := testImage(500)
	path := writeImage(t, "fw.bin", data)

	if err := b.FlashFirmware(path, nil); err != nil {
		t.Fatalf("FlashFirmware: %v", err)
	}
	last := f.bootOps[len(f.bootOps)-1]
	if last.cmd != BOOT_CMD_EXECUTE {
		t.Fatalf("last bootloader op %s", last.cmd)
	}
	if !bytes.Equal(f.flash[:len(data)], data) {
		t.Fatal("flash content differs")
	}
}

func TestFlashFirmwareRejectsBeforeFlash(t *testing.T) {
	guarded := testImage(500)
	copy(guarded, []byte{0xff, 0x07, 0x00, 0x20})
	wrongCRC := uint16(0x1234)

	tests := []struct {
		name string
		path func(t *testing.T) string
		crc  *uint16
	}{
		{"missing", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.bin") }, nil},
		{"empty", func(t *testing.T) string { return writeImage(t, "empty.bin", nil) }, nil},
		{"guard", func(t *testing.T) string { return writeImage(t, "plain.bin", guarded) }, nil},
		{"crc", func(t *testing.T) string { return writeImage(t, "fw.bin", testImage(500)) }, &wrongCRC},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeBootloader()
			b := newTestBoard(f)

			err := b.FlashFirmware(tt.path(t), tt.crc)
			if !errors.Is(err, ErrImage) {
				t.Fatalf("got %v, want image fault", err)
			}
			if len(f.bootOps) != 0 {
				t.Fatalf("flash touched: %v", f.bootOps)
			}
		})
	}
}

func TestFlashFirmwareAbortsWithoutExecute(t *testing.T) {
	f := newFakeBootloader()
	programs := 0
	f.failIf = func(w []byte) bool {
		if len(w) == 2 && w[0] == byte(BOOT_REG_CMD) && w[1] == byte(BOOT_CMD_HALF_PAGE_PROG) {
			programs++
			return programs == 3
		}
		return false
	}
	b := newTestBoard(f)

	err := b.FlashFirmware(writeImage(t, "fw.bin", testImage(1000)), nil)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("got %v, want transport fault", err)
	}
	if f.opCount(BOOT_CMD_EXECUTE) != 0 {
		t.Fatal("execute issued after failed program step")
	}
	if f.opCount(BOOT_CMD_HALF_PAGE_PROG) != 2 {
		t.Fatalf("%d programs before abort", f.opCount(BOOT_CMD_HALF_PAGE_PROG))
	}
}
