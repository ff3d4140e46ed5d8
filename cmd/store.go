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
	"github.com/spf13/cobra"
)

var tmpClearEEPROM = false

func StoreSettings(b *board.Board, clear bool) error {
	if clear {
		if err := b.ClearEEPROM(); err != nil {
			return err
		}
		fmt.Println("Stored settings cleared, defaults apply on next power up")
		return nil
	}

	if err := b.StoreEEPROM(); err != nil {
		return err
	}
	fmt.Println("Current settings stored in EEPROM")
	return nil
}

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Store the current settings in the board's EEPROM",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBoard(func(b *board.Board) error {
			return StoreSettings(b, tmpClearEEPROM)
		})
	},
}

func init() {
	rootCmd.AddCommand(storeCmd)
	storeCmd.Flags().BoolVar(&tmpClearEEPROM, "clear", false, "clear the stored settings instead")
}
