// Copyright © 2026 The powerctl Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package cmd

import (
	"fmt"
	"strconv"

	"github.com/andicelabs/powerctl/board"
	"github.com/spf13/cobra"
)

var (
	tmpFirmwareCRC = ""
	tmpNoProgress  = false
)

func printProgress(p board.Progress) {
	fmt.Print("#")
	if p.HalfPage == p.HalfPages {
		fmt.Println()
	}
}

func FlashFirmware(o globalOptions, path string, crc string, progress bool) (err error) {
	var expected *uint16
	if len(crc) > 0 {
		v, err := strconv.ParseUint(crc, 0, 16)
		if err != nil {
			return &board.RangeError{Param: "CRC", Value: crc, Min: "0x0000", Max: "0xffff"}
		}
		c := uint16(v)
		expected = &c
	}

	var extra []board.Option
	if progress {
		extra = append(extra, board.WithProgressCallback(printProgress))
	}

	// a board sitting in its bootloader does not answer with the run-mode id
	b, err := openBoard(o, false, extra...)
	if err != nil {
		return err
	}
	defer b.Close()

	fmt.Printf("Flashing firmware image '%s' ...\n", path)
	if err = b.FlashFirmware(path, expected); err != nil {
		return err
	}
	fmt.Println("... done, new firmware started")
	return nil
}

var flashCmd = &cobra.Command{
	Use:     "upload <file>",
	Aliases: []string{"flash"},
	Short:   "Upload a firmware image to the power controller through its bootloader",
	Long: `Upload a bootloader encoded firmware image, given as raw binary or as Intel HEX
file (.hex). Images larger than 16384 bytes are truncated. Plain, not encoded
builds are refused before anything is erased.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return FlashFirmware(opts, args[0], tmpFirmwareCRC, !tmpNoProgress)
	},
}

func init() {
	rootCmd.AddCommand(flashCmd)
	flashCmd.Flags().StringVar(&tmpFirmwareCRC, "crc", "", "expected CRC16/CCITT-FALSE of the image, checked before flashing")
	flashCmd.Flags().BoolVar(&tmpNoProgress, "no-progress", false, "do not print a progress bar")
}
