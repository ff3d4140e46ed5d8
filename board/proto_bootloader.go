package board

import (
	log "github.com/sirupsen/logrus"
)

/*
Bootloader mode, REG_ID reads BOOTLOADER_ID:
	BOOT_REG_ADDR  half-page index the next opcode applies to
	BOOT_REG_DATA  64 byte half-page buffer, filled by 16 byte block writes
	BOOT_REG_CMD   opcode, executed on write, no completion code
*/

// Progress of a firmware upload.
type Progress struct {
	HalfPage  int // half-pages programmed so far
	HalfPages int // half-pages in the image
}

// ProgressCallback is invoked after every programmed half-page.
type ProgressCallback func(p Progress)

// EnterBootloader switches the controller into bootloader mode. A controller
// already running its bootloader is accepted as is.
func (b *Board) EnterBootloader() error {
	id, err := b.RegisterRead(REG_ID)
	if err != nil {
		return err
	}

	if id == BOOTLOADER_ID {
		level, err := b.RegisterRead(REG_PROD)
		if err != nil {
			return err
		}
		log.Infof("Found bootloader level %d", level)
		return nil
	}

	status, err := b.RegisterRead(REG_STATUS)
	if err != nil {
		return err
	}
	if StatusFlags(status)&STATUS_BOOTLOADER == 0 {
		err = &IdentityError{Expected: BOOTLOADER_ID, Actual: id, Msg: "bootloader not present"}
		log.Error(err)
		return err
	}

	log.Infoln("Entering bootloader ...")
	if err = b.Command(COMMAND_ENTER_BOOTLOADER); err != nil {
		return err
	}
	b.sleep(b.config.BootloaderSettle)

	if id, err = b.RegisterRead(REG_ID); err != nil {
		return err
	}
	if id != BOOTLOADER_ID {
		err = &IdentityError{Expected: BOOTLOADER_ID, Actual: id, Msg: "bootloader entry failed"}
		log.Error(err)
		return err
	}
	log.Infoln("... bootloader active")
	return nil
}

func (b *Board) bootCommand(cmd BootloaderCommand) error {
	return b.RegisterWrite(BOOT_REG_CMD, byte(cmd))
}

func (b *Board) bootAddress(halfPage int) error {
	if err := b.RegisterWrite(BOOT_REG_ADDR, byte(halfPage)); err != nil {
		return err
	}
	b.sleep(b.config.FlashAddressSettle)
	return nil
}

// eraseHalfPage erases the flash page starting at halfPage, which must be
// even.
func (b *Board) eraseHalfPage(halfPage int) error {
	log.Debugf("Erasing page at half-page %d", halfPage)
	if err := b.bootAddress(halfPage); err != nil {
		return err
	}
	return b.bootCommand(BOOT_CMD_PAGE_ERASE)
}

func (b *Board) programHalfPage(halfPage int, data []byte) error {
	log.Debugf("Programming half-page %d", halfPage)
	if err := b.bootAddress(halfPage); err != nil {
		return err
	}
	for off := 0; off < HALF_PAGE_SIZE; off += BLOCK_WRITE_MAX {
		if err := b.BlockWrite(BOOT_REG_DATA, data[off:off+BLOCK_WRITE_MAX]); err != nil {
			return err
		}
		b.sleep(b.config.FlashBlockDelay)
	}
	return b.bootCommand(BOOT_CMD_HALF_PAGE_PROG)
}

// ProgramImage writes img to flash in ascending half-page order, erasing each
// page before its first half is programmed. The controller must be in
// bootloader mode. img.Data is released when done.
func (b *Board) ProgramImage(img *Image) (err error) {
	defer func() {
		img.Data = nil
	}()

	if err = img.Validate(); err != nil {
		log.Error(err)
		return err
	}

	total := img.HalfPages()
	log.Infof("Programming %d bytes in %d half-pages ...", img.Size, total)

	for hp := 0; hp < total; hp++ {
		if hp%2 == 0 {
			if err = b.eraseHalfPage(hp); err != nil {
				return err
			}
			b.sleep(b.config.FlashStepDelay)
		}

		if err = b.programHalfPage(hp, img.halfPage(hp)); err != nil {
			return err
		}
		b.sleep(b.config.FlashStepDelay)

		if b.config.ProgressCallback != nil {
			b.config.ProgressCallback(Progress{HalfPage: hp + 1, HalfPages: total})
		}
	}
	return nil
}

// Execute leaves the bootloader and starts the application firmware.
func (b *Board) Execute() error {
	log.Infoln("Starting application firmware")
	return b.bootCommand(BOOT_CMD_EXECUTE)
}

// FlashFirmware replaces the controller firmware with the image at path:
// enter the bootloader, load and validate the image, program, execute. A
// non-nil expectedCRC is checked along with the image guard, before
// anything is erased.
func (b *Board) FlashFirmware(path string, expectedCRC *uint16) (err error) {
	if err = b.EnterBootloader(); err != nil {
		return err
	}

	img, err := LoadImage(path)
	if err != nil {
		log.Error(err)
		return err
	}
	log.Infof("%d bytes read", img.Size)

	if expectedCRC != nil {
		if err = img.CheckCRC(*expectedCRC); err != nil {
			log.Error(err)
			return err
		}
	}
	if err = b.ProgramImage(img); err != nil {
		return err
	}
	return b.Execute()
}
