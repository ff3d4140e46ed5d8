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

var watchdogCmd = &cobra.Command{
	Use:   "watchdog <power|stop|start> <seconds>",
	Short: "Load a watchdog countdown, 0 disables it",
	Long: `Load one of the watchdog countdowns:
  power  power-cycle the host when not reloaded in time
  stop   single-shot power off
  start  power-cycle the host when start-up does not finish in time
A countdown of 0 disables the watchdog.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := board.WatchdogByName(args[0])
		if err != nil {
			return err
		}
		secs, err := strconv.Atoi(args[1])
		if err != nil || secs < 0 || secs > 0xff {
			return &board.RangeError{Param: "watchdog seconds", Value: args[1], Min: 0, Max: 0xff}
		}

		return withBoard(func(b *board.Board) error {
			if err := b.SetWatchdog(reg, secs); err != nil {
				return err
			}
			fmt.Printf("%s watchdog set to %d seconds\n", args[0], secs)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(watchdogCmd)
}
