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

var addressCmd = &cobra.Command{
	Use:   "set-address <addr>",
	Short: "Move the board to another I2C address (0x08..0x77)",
	Long: `Move the board to another I2C address. Run 'store' against the new address
to keep it across power cycles.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := parseAddress(args[0])
		if err != nil {
			return err
		}
		if err = board.CheckAddress(addr); err != nil {
			return err
		}

		return withBoard(func(b *board.Board) error {
			if err := b.SetAddress(addr); err != nil {
				return err
			}
			fmt.Printf("Board moved to I2C address %#02x\n", addr)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(addressCmd)
}
