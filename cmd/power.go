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
	"github.com/andicelabs/powerctl/board"
	"github.com/spf13/cobra"
)

var powerCmd = &cobra.Command{
	Use:   "power <on|off>",
	Short: "Switch the external power output",
	Long: `Switch the external power output. On the HAT and the Cape this is the
external LED connector. Accepts 1/on/yes/true and 0/off/no/false.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		on, err := board.ParseSwitch(args[0])
		if err != nil {
			return err
		}
		return withBoard(func(b *board.Board) error {
			return b.SetExternalPower(on)
		})
	},
}

func init() {
	rootCmd.AddCommand(powerCmd)
}
