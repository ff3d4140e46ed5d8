package board

import (
	"encoding/binary"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/marcinbor85/gohex"
	"github.com/sigurn/crc16"
	log "github.com/sirupsen/logrus"
)

const (
	MAX_IMAGE_SIZE  = 16384
	FLASH_PAGE_SIZE = 128
	HALF_PAGE_SIZE  = FLASH_PAGE_SIZE / 2

	// First word of an image which was never encoded for the bootloader: the
	// initial stack pointer of a plain build.
	IMAGE_GUARD_MAGIC uint32 = 0x200007FF
)

var crcTable = crc16.MakeTable(crc16.CRC16_CCITT_FALSE)

// Image is a firmware image as loaded from disk, at most MAX_IMAGE_SIZE
// bytes.
type Image struct {
	Path string
	Data []byte
	Size int    // bytes to program
	CRC  uint16 // CRC16/CCITT-FALSE over Data[:Size]
}

// LoadImage reads a bootloader encoded image. Files ending in .hex are parsed
// as Intel HEX, anything else as a raw binary. Content past MAX_IMAGE_SIZE is
// ignored.
func LoadImage(path string) (img *Image, err error) {
	log.Debugf("Loading firmware image '%s' ...", path)

	var data []byte
	if strings.EqualFold(filepath.Ext(path), ".hex") {
		data, err = readIntelHex(path)
	} else {
		data, err = readRaw(path)
	}
	if err != nil {
		return nil, &ImageError{Path: path, Reason: "could not read file", Err: err}
	}

	return NewImage(path, data)
}

// NewImage wraps data already in memory.
func NewImage(path string, data []byte) (img *Image, err error) {
	if len(data) == 0 {
		return nil, &ImageError{Path: path, Reason: "empty image"}
	}
	if len(data) > MAX_IMAGE_SIZE {
		log.Debugf("Image truncated from %d to %d bytes", len(data), MAX_IMAGE_SIZE)
		data = data[:MAX_IMAGE_SIZE]
	}

	img = &Image{
		Path: path,
		Size: len(data),
	}

	// the buffer always holds whole half-pages, the tail is zero padded
	img.Data = make([]byte, img.HalfPages()*HALF_PAGE_SIZE)
	copy(img.Data, data)
	img.CRC = crc16.Checksum(img.Data[:img.Size], crcTable)

	log.Debugln(img.String())
	return img, nil
}

func readRaw(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// one byte more than allowed, to notice truncation
	return ioutil.ReadAll(io.LimitReader(f, MAX_IMAGE_SIZE+1))
}

func readIntelHex(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mem := gohex.NewMemory()
	if err = mem.ParseIntelHex(f); err != nil {
		return nil, err
	}

	segs := mem.GetDataSegments()
	if len(segs) == 0 {
		return nil, nil
	}
	start := segs[0].Address
	end := start
	for _, s := range segs {
		if s.Address < start {
			start = s.Address
		}
		if e := s.Address + uint32(len(s.Data)); e > end {
			end = e
		}
	}
	log.Debugf("HEX image spans %#08x..%#08x in %d segments", start, end, len(segs))

	// segments far above flash (option bytes) only count up to the size cap
	size := end - start
	if size > MAX_IMAGE_SIZE+1 {
		size = MAX_IMAGE_SIZE + 1
	}

	// gaps read back as erased flash
	return mem.ToBinary(start, size, 0xff), nil
}

// Validate refuses images whose first word shows they were not encoded for
// the bootloader.
func (img *Image) Validate() error {
	if len(img.Data) < 4 {
		return &ImageError{Path: img.Path, Reason: "image too short"}
	}
	if binary.LittleEndian.Uint32(img.Data[:4]) == IMAGE_GUARD_MAGIC {
		return &ImageError{Path: img.Path, Reason: "image not encoded"}
	}
	return nil
}

// CheckCRC compares the image checksum against an expected value.
func (img *Image) CheckCRC(expected uint16) error {
	if img.CRC != expected {
		return &ImageError{Path: img.Path, Reason: fmt.Sprintf("wrong CRC (expected %#04x, found %#04x)", expected, img.CRC)}
	}
	return nil
}

// HalfPages is the number of half-pages needed to hold Size bytes.
func (img *Image) HalfPages() int {
	return (img.Size + HALF_PAGE_SIZE - 1) / HALF_PAGE_SIZE
}

// Pages is the number of flash pages erased for the image.
func (img *Image) Pages() int {
	return (img.Size + FLASH_PAGE_SIZE - 1) / FLASH_PAGE_SIZE
}

// halfPage returns the 64 bytes at half-page index i.
func (img *Image) halfPage(i int) []byte {
	return img.Data[i*HALF_PAGE_SIZE : (i+1)*HALF_PAGE_SIZE]
}

func (img *Image) String() string {
	return fmt.Sprintf("Image '%s' size %d (%d half-pages, %d pages) CRC %#04x", img.Path, img.Size, img.HalfPages(), img.Pages(), img.CRC)
}
