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

var chargerCmd = &cobra.Command{
	Use:   "charger",
	Short: "Battery charger control",
}

var chargeRateCmd = &cobra.Command{
	Use:   "rate [1-3]",
	Short: "Show or set the charge rate in thirds of an amp",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level := 0
		if len(args) > 0 {
			var err error
			if level, err = strconv.Atoi(args[0]); err != nil {
				return &board.RangeError{Param: "charge rate", Value: args[0], Min: board.CHARGE_RATE_MIN, Max: board.CHARGE_RATE_MAX}
			}
			if level < board.CHARGE_RATE_MIN || level > board.CHARGE_RATE_MAX {
				return &board.RangeError{Param: "charge rate", Value: level, Min: board.CHARGE_RATE_MIN, Max: board.CHARGE_RATE_MAX}
			}
		}

		return withBoard(func(b *board.Board) error {
			if level == 0 {
				rate, err := b.ChargeRate()
				if err != nil {
					return err
				}
				fmt.Printf("Charge rate %d/3 amp\n", rate)
				return nil
			}
			if err := b.SetChargeRate(level); err != nil {
				return err
			}
			fmt.Printf("Charge rate set to %d/3 amp\n", level)
			return nil
		})
	},
}

var chargerOnCmd = &cobra.Command{
	Use:   "on",
	Short: "Enable the charger",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBoard((*board.Board).EnableCharger)
	},
}

var chargerOffCmd = &cobra.Command{
	Use:   "off",
	Short: "Disable the charger (power will be lost if no battery is attached!)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBoard((*board.Board).DisableCharger)
	},
}

func init() {
	rootCmd.AddCommand(chargerCmd)
	chargerCmd.AddCommand(chargeRateCmd, chargerOnCmd, chargerOffCmd)
}
