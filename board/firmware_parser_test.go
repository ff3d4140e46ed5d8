package board

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/marcinbor85/gohex"
	"github.com/pkg/errors"
	"github.com/sigurn/crc16"
)

func TestLoadImageRaw(t *testing.T) {
	data := testImage(100)
	img, err := LoadImage(writeImage(t, "fw.bin", data))
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}

	if img.Size != 100 || img.HalfPages() != 2 || img.Pages() != 1 {
		t.Fatalf("%s", img)
	}
	if len(img.Data) != 2*HALF_PAGE_SIZE {
		t.Fatalf("buffer of %d bytes", len(img.Data))
	}
	if !bytes.Equal(img.Data[:100], data) || !bytes.Equal(img.Data[100:], make([]byte, 28)) {
		t.Fatal("image content not zero padded")
	}
	if want := crc16.Checksum(data, crc16.MakeTable(crc16.CRC16_CCITT_FALSE)); img.CRC != want {
		t.Fatalf("CRC %#04x, want %#04x", img.CRC, want)
	}
	if err = img.CheckCRC(img.CRC); err != nil {
		t.Fatal(err)
	}
	if err = img.CheckCRC(img.CRC + 1); !errors.Is(err, ErrImage) {
		t.Fatalf("wrong CRC accepted: %v", err)
	}
}

func TestLoadImageTruncates(t *testing.T) {
	img, err := LoadImage(writeImage(t, "big.bin", testImage(MAX_IMAGE_SIZE+5000)))
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if img.Size != MAX_IMAGE_SIZE || img.HalfPages() != MAX_IMAGE_SIZE/HALF_PAGE_SIZE {
		t.Fatalf("%s", img)
	}
}

func TestLoadImageFaults(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadImage(filepath.Join(dir, "missing.bin")); !errors.Is(err, ErrImage) {
		t.Fatalf("missing file: %v", err)
	}
	var pe *os.PathError
	if _, err := LoadImage(filepath.Join(dir, "missing.bin")); !errors.As(err, &pe) {
		t.Fatalf("missing file does not carry the os error: %v", err)
	}
	if _, err := LoadImage(writeImage(t, "empty.bin", nil)); !errors.Is(err, ErrImage) {
		t.Fatalf("empty file: %v", err)
	}
	if _, err := LoadImage(writeImage(t, "bad.hex", []byte(":zz\n"))); !errors.Is(err, ErrImage) {
		t.Fatalf("broken HEX file: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		ok   bool
	}{
		{"encoded", testImage(64), true},
		{"guard", []byte{0xff, 0x07, 0x00, 0x20, 0x01}, false},
		{"guard only", []byte{0xff, 0x07, 0x00, 0x20}, false},
		{"big endian guard", []byte{0x20, 0x00, 0x07, 0xff}, true},
		{"short", []byte{0xff, 0x07}, true},
	}

	for _, tt := range tests {
		img, err := NewImage(tt.name, tt.data)
		if err != nil {
			t.Fatal(err)
		}
		if err = img.Validate(); (err == nil) != tt.ok {
			t.Errorf("%s: Validate() = %v", tt.name, err)
		}
		if err != nil && !errors.Is(err, ErrImage) {
			t.Errorf("%s: wrong kind %v", tt.name, err)
		}
	}
}

func TestLoadImageHex(t *testing.T) {
	data := testImage(300)

	mem := gohex.NewMemory()
	if err := mem.AddBinary(0x08000000, data[:200]); err != nil {
		t.Fatal(err)
	}
	// gap of 16 bytes between the segments
	if err := mem.AddBinary(0x08000000+216, data[216:]); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := mem.DumpIntelHex(&buf, 16); err != nil {
		t.Fatal(err)
	}

	img, err := LoadImage(writeImage(t, "fw.HEX", buf.Bytes()))
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if img.Size != 300 {
		t.Fatalf("%s", img)
	}
	if !bytes.Equal(img.Data[:200], data[:200]) || !bytes.Equal(img.Data[216:300], data[216:]) {
		t.Fatal("segment content differs")
	}
	if !bytes.Equal(img.Data[200:216], bytes.Repeat([]byte{0xff}, 16)) {
		t.Fatalf("gap not filled as erased flash: % x", img.Data[200:216])
	}
}

func TestLoadImageHexFarSegment(t *testing.T) {
	mem := gohex.NewMemory()
	if err := mem.AddBinary(0x00000000, []byte{0x01, 0x02, 0x03, 0x04}); err != nil {
		t.Fatal(err)
	}
	// option bytes far above flash
	if err := mem.AddBinary(0x10000000, []byte{0xaa}); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := mem.DumpIntelHex(&buf, 16); err != nil {
		t.Fatal(err)
	}

	data, err := readIntelHex(writeImage(t, "opt.hex", buf.Bytes()))
	if err != nil {
		t.Fatalf("readIntelHex: %v", err)
	}
	if len(data) != MAX_IMAGE_SIZE+1 {
		t.Fatalf("flattened %d bytes, want %d", len(data), MAX_IMAGE_SIZE+1)
	}

	img, err := NewImage("opt.hex", data)
	if err != nil {
		t.Fatal(err)
	}
	if img.Size != MAX_IMAGE_SIZE || !bytes.Equal(img.Data[:4], []byte{0x01, 0x02, 0x03, 0x04}) {
		t.Fatalf("%s", img)
	}
	if img.Data[4] != 0xff {
		t.Fatalf("gap byte %#02x", img.Data[4])
	}
}
