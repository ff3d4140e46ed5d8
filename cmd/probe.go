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

	"github.com/andicelabs/powerctl/board"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// ProbeBoard reports what answers at the session address without requiring
// the run-mode signature.
func ProbeBoard(o globalOptions) error {
	b, err := openBoard(o, false)
	if err != nil {
		return err
	}
	defer b.Close()

	return probe(b)
}

func probe(b *board.Board) (err error) {
	if b.VerifyPresent() {
		fmt.Printf("Power controller found at %#02x\n", b.Transport().Address())
		return nil
	}

	id, err := b.RegisterRead(board.REG_ID)
	if err != nil {
		return err
	}
	if id == board.BOOTLOADER_ID {
		level, err := b.RegisterRead(board.REG_PROD)
		if err != nil {
			return err
		}
		fmt.Printf("Power controller in bootloader mode (level %d) at %#02x\n", level, b.Transport().Address())
		return nil
	}

	err = &board.IdentityError{Expected: board.BOARD_ID, Actual: id, Msg: "no power controller found"}
	log.Error(err)
	return err
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check whether a power controller answers, in run or bootloader mode",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return ProbeBoard(opts)
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
}
