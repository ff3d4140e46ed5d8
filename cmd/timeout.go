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
	"time"

	"github.com/andicelabs/powerctl/board"
	"github.com/spf13/cobra"
)

var tmpClearTimeout = false

var timeoutCmd = &cobra.Command{
	Use:   "timeout [seconds]",
	Short: "Show, set or clear the power-on restart timer",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		secs := int64(-1)
		if len(args) > 0 {
			var err error
			if secs, err = strconv.ParseInt(args[0], 0, 64); err != nil || secs < 0 || secs > 0xffffffff {
				return &board.RangeError{Param: "restart time", Value: args[0], Min: 0, Max: uint32(0xffffffff)}
			}
		}

		return withBoard(func(b *board.Board) error {
			switch {
			case tmpClearTimeout:
				if err := b.ClearRestartTime(); err != nil {
					return err
				}
				fmt.Println("Restart timer cleared")
			case secs >= 0:
				fmt.Printf("Setting restart timer to %d\n", secs)
				return b.SetRestartTime(time.Duration(secs) * time.Second)
			default:
				d, err := b.RestartTime()
				if err != nil {
					return err
				}
				fmt.Printf("Restart time %d seconds (%s)\n", int64(d/time.Second), board.FormatDuration(d))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(timeoutCmd)
	timeoutCmd.Flags().BoolVar(&tmpClearTimeout, "clear", false, "clear the restart timer")
}
