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

var tmpCalibration = 0

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Show or set the RTC calibration value",
	Long: `Show the RTC calibration value, or set it with --set. The range is -511 to
512 clock pulses.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		set := cmd.Flags().Changed("set")
		if set && (tmpCalibration < board.CALIBRATION_MIN || tmpCalibration > board.CALIBRATION_MAX) {
			return &board.RangeError{Param: "calibration value", Value: tmpCalibration, Min: board.CALIBRATION_MIN, Max: board.CALIBRATION_MAX}
		}

		return withBoard(func(b *board.Board) error {
			if set {
				raw, err := b.SetCalibration(tmpCalibration)
				if err != nil {
					return err
				}
				fmt.Printf("Calibration value set to %d (%04X)\n", tmpCalibration, raw)
				return nil
			}

			v, raw, err := b.Calibration()
			if err != nil {
				return err
			}
			fmt.Printf("Board RTC calibration %04X (%d)\n", raw, v)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(calibrateCmd)
	calibrateCmd.Flags().IntVar(&tmpCalibration, "set", 0, "new calibration value")
}
