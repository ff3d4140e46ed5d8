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
	"strconv"
	"time"

	"github.com/andicelabs/powerctl/board"
	"github.com/spf13/cobra"
)

func parseMillis(s string) (time.Duration, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, &board.RangeError{Param: "LED time", Value: s, Min: 0, Max: uint32(0xffffffff)}
	}
	return time.Duration(v) * time.Millisecond, nil
}

var ledCmd = &cobra.Command{
	Use:   "led <on-ms> <off-ms>",
	Short: "Set the status LED blink pattern",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		on, err := parseMillis(args[0])
		if err != nil {
			return err
		}
		off, err := parseMillis(args[1])
		if err != nil {
			return err
		}
		return withBoard(func(b *board.Board) error {
			return b.SetLEDTiming(on, off)
		})
	},
}

func init() {
	rootCmd.AddCommand(ledCmd)
}
